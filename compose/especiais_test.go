package compose_test

import (
	"fmt"
	"strings"
	"testing"

	laudopdf "github.com/vistoriapro/laudopdf"
	"github.com/vistoriapro/laudopdf/compose"
)

func laudoExemplo() *laudopdf.Laudo {
	return &laudopdf.Laudo{
		Endereco:     "Rua das Laranjeiras",
		Numero:       "120",
		Bairro:       "Laranjeiras",
		Cidade:       "Rio de Janeiro",
		Estado:       "RJ",
		CEP:          "22240-000",
		TipoVistoria: laudopdf.VistoriaEntrada,
		TipoUso:      "Residencial",
		TipoImovel:   "Apartamento",
		Unidade:      "302",
		Tamanho:      "78m²",
		DataVistoria: "12/08/2026",
		LocalData:    "Rio de Janeiro, 12 de agosto de 2026",

		NomeLocador:          "Maria Souza",
		NomeLocatario:        "João Pereira",
		Testemunha1Nome:      "Ana Lima",
		Testemunha1Documento: "12.345.678-9",
		Testemunha2Nome:      "Carlos Dias",
		Testemunha2Documento: "98.765.432-1",
	}
}

func ambientesExemplo(n int) []laudopdf.Ambiente {
	ambientes := make([]laudopdf.Ambiente, n)
	for i := range ambientes {
		ambientes[i] = laudopdf.Ambiente{
			Nome:  fmt.Sprintf("%d - Ambiente %d", i+1, i+1),
			Ordem: i + 1,
		}
	}
	return ambientes
}

func TestNovaCapa(t *testing.T) {
	pag := compose.NovaCapa(laudoExemplo())
	if pag.Tipo != compose.PaginaCapa {
		t.Fatalf("tipo = %q", pag.Tipo)
	}

	campos := elementoUnico(t, pag, compose.ElemCampos)
	if len(campos.Campos) != 8 {
		t.Fatalf("esperadas 8 linhas de metadados, vieram %d", len(campos.Campos))
	}
	for _, campo := range campos.Campos {
		if campo.NomeCampo == "" {
			t.Errorf("campo %q sem identificador editável", campo.Rotulo)
		}
	}

	// O endereço completo agrega número, bairro e cidade/UF.
	if quer := "Rua das Laranjeiras, 120, Laranjeiras, Rio de Janeiro - RJ"; campos.Campos[1].Valor != quer {
		t.Errorf("endereço = %q", campos.Campos[1].Valor)
	}

	// A metodologia segue o tipo de vistoria.
	metodologia := ultimoElemento(t, pag, compose.ElemParagrafo)
	if !strings.Contains(metodologia.Texto, "entrada") {
		t.Errorf("metodologia não é de entrada: %q", metodologia.Texto)
	}
}

func TestNovosTermos(t *testing.T) {
	t.Run("distribuicao em colunas", func(t *testing.T) {
		pag := compose.NovosTermos(laudoExemplo(), ambientesExemplo(40))
		colunas := elementoUnico(t, pag, compose.ElemColunas).Colunas

		if len(colunas) != compose.ColunasTermos {
			t.Fatalf("esperadas %d colunas, vieram %d", compose.ColunasTermos, len(colunas))
		}
		tamanhos := []int{18, 18, 4, 0}
		for i, quer := range tamanhos {
			if len(colunas[i]) != quer {
				t.Errorf("coluna %d com %d entradas, esperadas %d", i, len(colunas[i]), quer)
			}
		}

		// Numeração pela posição geral, nome sem o prefixo armazenado.
		if quer := "1 - Ambiente 1"; colunas[0][0].Texto != quer {
			t.Errorf("primeira entrada = %q", colunas[0][0].Texto)
		}
		if quer := "19 - Ambiente 19"; colunas[1][0].Texto != quer {
			t.Errorf("primeira entrada da coluna 2 = %q", colunas[1][0].Texto)
		}
	})

	t.Run("truncamento em 72 ambientes", func(t *testing.T) {
		pag := compose.NovosTermos(laudoExemplo(), ambientesExemplo(73))
		colunas := elementoUnico(t, pag, compose.ElemColunas).Colunas

		total := 0
		for _, coluna := range colunas {
			if len(coluna) > compose.AmbientesPorColuna {
				t.Errorf("coluna com %d entradas excede o máximo", len(coluna))
			}
			total += len(coluna)
		}
		if total != compose.CapacidadeAmbientes {
			t.Errorf("total de entradas = %d, esperado %d", total, compose.CapacidadeAmbientes)
		}
		if ultima := colunas[3][17].Texto; ultima != "72 - Ambiente 72" {
			t.Errorf("última entrada = %q", ultima)
		}
	})
}

func TestNovoRelatorio(t *testing.T) {
	secoes := make([]compose.SecaoResolvida, 7)
	for i := range secoes {
		secoes[i] = compose.SecaoResolvida{Nome: fmt.Sprintf("Seção %d", i+1), Valor: "ok"}
	}

	pag := compose.NovoRelatorio(laudoExemplo(), secoes, "https://galeria.exemplo.com/laudo/1")
	if pag.Tipo != compose.PaginaRelatorio {
		t.Fatalf("tipo = %q", pag.Tipo)
	}

	t.Run("bissecao por contagem", func(t *testing.T) {
		colunas := elementoUnico(t, pag, compose.ElemColunas).Colunas
		if len(colunas) != 2 {
			t.Fatalf("esperadas 2 colunas, vieram %d", len(colunas))
		}
		// 7 seções: 4 na primeira coluna, 3 na segunda. Cada bloco tem
		// título + parágrafo de valor.
		if titulos(colunas[0]) != 4 || titulos(colunas[1]) != 3 {
			t.Errorf("divisão = %d/%d seções", titulos(colunas[0]), titulos(colunas[1]))
		}
	})

	t.Run("bloco de qr da galeria", func(t *testing.T) {
		qr := elementoUnico(t, pag, compose.ElemQR)
		if qr.Conteudo != "https://galeria.exemplo.com/laudo/1" {
			t.Errorf("conteúdo do qr = %q", qr.Conteudo)
		}
		if qr.Texto == "" {
			t.Error("bloco de qr sem rótulo")
		}
	})
}

func TestNovasAssinaturas(t *testing.T) {
	pag := compose.NovasAssinaturas(laudoExemplo())
	if pag.Tipo != compose.PaginaAssinaturas {
		t.Fatalf("tipo = %q", pag.Tipo)
	}

	var blocos []*compose.BlocoAssinatura
	for _, elem := range pag.Elementos {
		if elem.Tipo == compose.ElemAssinatura {
			blocos = append(blocos, elem.Assinatura)
		}
	}
	if len(blocos) != 4 {
		t.Fatalf("esperados 4 blocos de assinatura, vieram %d", len(blocos))
	}

	papeis := []string{"Locador", "Locatário", "Testemunha", "Testemunha"}
	for i, bloco := range blocos {
		if bloco.Papel != papeis[i] {
			t.Errorf("bloco %d com papel %q, esperado %q", i, bloco.Papel, papeis[i])
		}
	}

	// Partes assinam, testemunhas identificam-se por documento.
	if blocos[0].Assinatura.NomeCampo != "assinaturaLocador" {
		t.Errorf("campo de assinatura do locador = %q", blocos[0].Assinatura.NomeCampo)
	}
	if blocos[2].Documento.Valor != "12.345.678-9" {
		t.Errorf("documento da testemunha 1 = %q", blocos[2].Documento.Valor)
	}

	localData := elementoUnico(t, pag, compose.ElemCampos)
	if localData.Campos[0].NomeCampo != "localData" {
		t.Errorf("linha de local e data = %+v", localData.Campos[0])
	}
}

// elementoUnico devolve o único elemento do tipo pedido, falhando o teste
// se houver zero ou mais de um.
func elementoUnico(t *testing.T, pag compose.Pagina, tipo string) compose.Elemento {
	t.Helper()
	var achados []compose.Elemento
	for _, elem := range pag.Elementos {
		if elem.Tipo == tipo {
			achados = append(achados, elem)
		}
	}
	if len(achados) != 1 {
		t.Fatalf("esperado 1 elemento %q, vieram %d", tipo, len(achados))
	}
	return achados[0]
}

func ultimoElemento(t *testing.T, pag compose.Pagina, tipo string) compose.Elemento {
	t.Helper()
	for i := len(pag.Elementos) - 1; i >= 0; i-- {
		if pag.Elementos[i].Tipo == tipo {
			return pag.Elementos[i]
		}
	}
	t.Fatalf("nenhum elemento %q na página", tipo)
	return compose.Elemento{}
}

func titulos(elems []compose.Elemento) int {
	n := 0
	for _, elem := range elems {
		if elem.Tipo == compose.ElemTitulo {
			n++
		}
	}
	return n
}
