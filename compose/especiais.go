package compose

import (
	"fmt"
	"strings"

	laudopdf "github.com/vistoriapro/laudopdf"
)

// Capacidade da lista de ambientes da página de termos: 4 colunas de até
// 18 entradas. Ambientes além da 72ª posição são descartados — comportamento
// herdado do formato impresso, pendente de definição de produto se é limite
// intencional.
const (
	ColunasTermos       = 4
	AmbientesPorColuna  = 18
	CapacidadeAmbientes = ColunasTermos * AmbientesPorColuna
)

// NovaCapa constrói a página de capa: metadados da vistoria e o bloco fixo
// de metodologia do tipo de vistoria.
func NovaCapa(l *laudopdf.Laudo) Pagina {
	endereco := enderecoCompleto(l)

	return Pagina{
		Tipo: PaginaCapa,
		Elementos: []Elemento{
			{Tipo: ElemTitulo, Nivel: 1, Texto: "Laudo de Vistoria", Alinhamento: "C"},
			{Tipo: ElemEspaco, Altura: 8},
			{Tipo: ElemCampos, Campos: []Campo{
				{Rotulo: "Tipo de uso", Valor: l.TipoUso, NomeCampo: "tipoUso"},
				{Rotulo: "Endereço", Valor: endereco, NomeCampo: "endereco"},
				{Rotulo: "Tipo de imóvel", Valor: l.TipoImovel, NomeCampo: "tipoImovel"},
				{Rotulo: "CEP", Valor: l.CEP, NomeCampo: "cep"},
				{Rotulo: "Unidade", Valor: l.Unidade, NomeCampo: "unidade"},
				{Rotulo: "Tamanho", Valor: l.Tamanho, NomeCampo: "tamanho"},
				{Rotulo: "Tipo de vistoria", Valor: l.TipoVistoria.String(), NomeCampo: "tipoVistoria"},
				{Rotulo: "Data da vistoria", Valor: l.DataVistoria, NomeCampo: "dataVistoria"},
			}},
			{Tipo: ElemEspaco, Altura: 10},
			{Tipo: ElemTitulo, Nivel: 3, Texto: "Metodologia"},
			{Tipo: ElemParagrafo, Texto: Metodologia(l.TipoVistoria.String())},
		},
	}
}

// NovosTermos constrói a página de termos: o bloco legal fixo e a lista de
// ambientes distribuída em exatamente 4 colunas de até 18 entradas, cada
// entrada numerada pela posição geral (1-based) com o prefixo numérico
// armazenado removido do nome.
func NovosTermos(l *laudopdf.Laudo, ambientes []laudopdf.Ambiente) Pagina {
	if len(ambientes) > CapacidadeAmbientes {
		ambientes = ambientes[:CapacidadeAmbientes]
	}

	colunas := make([][]Elemento, ColunasTermos)
	for i, amb := range ambientes {
		col := i / AmbientesPorColuna
		colunas[col] = append(colunas[col], Elemento{
			Tipo:  ElemParagrafo,
			Texto: fmt.Sprintf("%d - %s", i+1, amb.NomeExibicao()),
		})
	}

	return Pagina{
		Tipo: PaginaTermos,
		Elementos: []Elemento{
			{Tipo: ElemTitulo, Nivel: 2, Texto: "Termos e Condições"},
			{Tipo: ElemParagrafo, Texto: termosLegais},
			{Tipo: ElemEspaco, Altura: 6},
			{Tipo: ElemTitulo, Nivel: 3, Texto: "Ambientes Vistoriados"},
			{Tipo: ElemColunas, Colunas: colunas},
		},
	}
}

// NovoRelatorio constrói a página de relatório a partir das seções já
// reconciliadas da vistoria: seções em 2 colunas por bisseção de contagem
// (primeira metade com ceil(n/2)), o bloco de QR da galeria de fotos e o
// bloco fixo de encerramento.
func NovoRelatorio(l *laudopdf.Laudo, secoes []SecaoResolvida, urlGaleria string) Pagina {
	blocos := make([][]Elemento, len(secoes))
	for i, sec := range secoes {
		blocos[i] = blocoSecao(sec)
	}

	metade := (len(blocos) + 1) / 2
	colunas := [][]Elemento{juntar(blocos[:metade]), juntar(blocos[metade:])}

	return Pagina{
		Tipo: PaginaRelatorio,
		Elementos: []Elemento{
			{Tipo: ElemTitulo, Nivel: 2, Texto: "Relatório da Vistoria"},
			{Tipo: ElemColunas, Colunas: colunas},
			{Tipo: ElemEspaco, Altura: 8},
			{Tipo: ElemQR, Conteudo: urlGaleria, Texto: "Baixe as fotos da vistoria"},
			{Tipo: ElemParagrafo, Texto: encerramento},
		},
	}
}

// blocoSecao monta o cabeçalho e as linhas pergunta/resposta de uma seção.
func blocoSecao(sec SecaoResolvida) []Elemento {
	elems := []Elemento{{Tipo: ElemTitulo, Nivel: 4, Texto: sec.Nome}}

	if sec.Conhecida && len(sec.Perguntas) > 0 {
		campos := make([]Campo, 0, len(sec.Perguntas))
		for i, p := range sec.Perguntas {
			campos = append(campos, Campo{Rotulo: p.Texto, Valor: sec.Resposta(i)})
		}
		return append(elems, Elemento{Tipo: ElemCampos, Campos: campos})
	}

	// Seção extra (ou sem perguntas registradas): exibe o valor bruto.
	switch v := sec.Valor.(type) {
	case map[string]any:
		campos := make([]Campo, 0, len(v))
		for _, chave := range chavesOrdenadas(v) {
			campos = append(campos, Campo{Rotulo: chave, Valor: formatarValor(v[chave])})
		}
		return append(elems, Elemento{Tipo: ElemCampos, Campos: campos})
	default:
		return append(elems, Elemento{Tipo: ElemParagrafo, Texto: formatarValor(sec.Valor)})
	}
}

// NovasAssinaturas constrói a página final: o parágrafo fixo de atestado,
// a linha editável de local e data e os quatro blocos de assinatura.
func NovasAssinaturas(l *laudopdf.Laudo) Pagina {
	return Pagina{
		Tipo: PaginaAssinaturas,
		Elementos: []Elemento{
			{Tipo: ElemTitulo, Nivel: 2, Texto: "Assinaturas"},
			{Tipo: ElemParagrafo, Texto: atestado},
			{Tipo: ElemEspaco, Altura: 4},
			{Tipo: ElemCampos, Campos: []Campo{
				{Rotulo: "Local e data", Valor: l.LocalData, NomeCampo: "localData"},
			}},
			{Tipo: ElemEspaco, Altura: 8},
			{Tipo: ElemAssinatura, Assinatura: &BlocoAssinatura{
				Papel:      "Locador",
				Nome:       Campo{Rotulo: "Nome", Valor: l.NomeLocador, NomeCampo: "nomeLocador"},
				Assinatura: Campo{Rotulo: "Assinatura", Valor: l.AssinaturaLocador, NomeCampo: "assinaturaLocador"},
			}},
			{Tipo: ElemAssinatura, Assinatura: &BlocoAssinatura{
				Papel:      "Locatário",
				Nome:       Campo{Rotulo: "Nome", Valor: l.NomeLocatario, NomeCampo: "nomeLocatario"},
				Assinatura: Campo{Rotulo: "Assinatura", Valor: l.AssinaturaLocatario, NomeCampo: "assinaturaLocatario"},
			}},
			{Tipo: ElemAssinatura, Assinatura: &BlocoAssinatura{
				Papel:     "Testemunha",
				Nome:      Campo{Rotulo: "Nome", Valor: l.Testemunha1Nome, NomeCampo: "testemunha1Nome"},
				Documento: Campo{Rotulo: "RG", Valor: l.Testemunha1Documento, NomeCampo: "testemunha1Documento"},
			}},
			{Tipo: ElemAssinatura, Assinatura: &BlocoAssinatura{
				Papel:     "Testemunha",
				Nome:      Campo{Rotulo: "Nome", Valor: l.Testemunha2Nome, NomeCampo: "testemunha2Nome"},
				Documento: Campo{Rotulo: "RG", Valor: l.Testemunha2Documento, NomeCampo: "testemunha2Documento"},
			}},
		},
	}
}

func enderecoCompleto(l *laudopdf.Laudo) string {
	partes := []string{l.Endereco}
	if l.Numero != "" {
		partes = append(partes, l.Numero)
	}
	if l.Complemento != "" {
		partes = append(partes, l.Complemento)
	}
	if l.Bairro != "" {
		partes = append(partes, l.Bairro)
	}
	if l.Cidade != "" {
		cidade := l.Cidade
		if l.Estado != "" {
			cidade += " - " + l.Estado
		}
		partes = append(partes, cidade)
	}
	return strings.Join(partes, ", ")
}

func juntar(blocos [][]Elemento) []Elemento {
	var saida []Elemento
	for _, b := range blocos {
		saida = append(saida, b...)
	}
	return saida
}
