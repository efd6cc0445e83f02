package laudopdf_test

import (
	"testing"

	laudopdf "github.com/vistoriapro/laudopdf"
)

func TestSemPrefixoNumerico(t *testing.T) {
	casos := []struct {
		nome    string
		entrada string
		quer    string
	}{
		{"prefixo simples", "1 - Sala", "Sala"},
		{"prefixo com dois digitos", "12 - Cozinha", "Cozinha"},
		{"sem prefixo", "Banheiro Social", "Banheiro Social"},
		{"espacos ao redor do hifen", "3  -  Quarto", "Quarto"},
		{"hifen sem numero preservado", "Sala - Estar", "Sala - Estar"},
		{"numero sem hifen preservado", "2 Quartos", "2 Quartos"},
		{"vazio", "", ""},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			if saida := laudopdf.SemPrefixoNumerico(c.entrada); saida != c.quer {
				t.Errorf("SemPrefixoNumerico(%q) = %q, esperado %q", c.entrada, saida, c.quer)
			}
		})
	}
}

func TestLegendaExibicao(t *testing.T) {
	img := laudopdf.Imagem{AmbienteOrdem: 3, NumeroNoAmbiente: 7, Legenda: "Parede com infiltração"}
	if saida := img.LegendaExibicao(); saida != "3 (7) Parede com infiltração" {
		t.Errorf("LegendaExibicao() = %q", saida)
	}

	semLegenda := laudopdf.Imagem{AmbienteOrdem: 1, NumeroNoAmbiente: 2}
	if saida := semLegenda.LegendaExibicao(); saida != "1 (2)" {
		t.Errorf("LegendaExibicao() sem legenda = %q", saida)
	}
}

func TestPoliticaEntrada(t *testing.T) {
	casos := []struct {
		nome string
		tipo laudopdf.TipoVistoria
		quer bool
	}{
		{"entrada", laudopdf.VistoriaEntrada, true},
		{"entrada minuscula", laudopdf.TipoVistoria("entrada"), true},
		{"saida", laudopdf.VistoriaSaida, false},
		{"periodica", laudopdf.VistoriaPeriodica, false},
		{"vazio", laudopdf.TipoVistoria(""), false},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			l := &laudopdf.Laudo{TipoVistoria: c.tipo}
			if saida := laudopdf.PoliticaEntrada(l); saida != c.quer {
				t.Errorf("PoliticaEntrada(%q) = %v, esperado %v", c.tipo, saida, c.quer)
			}
			if !laudopdf.PoliticaSempre(l) {
				t.Error("PoliticaSempre deve valer para qualquer laudo")
			}
		})
	}
}

func TestNovaConfig(t *testing.T) {
	padrao := laudopdf.NovaConfig()
	if padrao.TamanhoLote != laudopdf.TamanhoLotePadrao {
		t.Errorf("TamanhoLote padrão = %d", padrao.TamanhoLote)
	}
	if padrao.Politica == nil {
		t.Fatal("Politica padrão não definida")
	}

	cfg := laudopdf.NovaConfig(
		laudopdf.WithEspacamento(3, 4),
		laudopdf.WithMargemPagina(10),
		laudopdf.WithTamanhoLote(6),
	)
	if cfg.EspacoHorizontal != 3 || cfg.EspacoVertical != 4 {
		t.Errorf("espaçamento = %v/%v", cfg.EspacoHorizontal, cfg.EspacoVertical)
	}
	if cfg.MargemPagina != 10 {
		t.Errorf("margem = %v", cfg.MargemPagina)
	}
	if cfg.TamanhoLote != 6 {
		t.Errorf("lote = %d", cfg.TamanhoLote)
	}

	// Tamanho de lote inválido não derruba o padrão.
	invalido := laudopdf.NovaConfig(laudopdf.WithTamanhoLote(0))
	if invalido.TamanhoLote != laudopdf.TamanhoLotePadrao {
		t.Errorf("lote inválido aceitou %d", invalido.TamanhoLote)
	}
}

func TestComposeError(t *testing.T) {
	err := laudopdf.NovoComposeError("IrParaPagina", laudopdf.ErrPaginaInvalida)
	if err.Op != "IrParaPagina" {
		t.Errorf("Op = %q", err.Op)
	}
	if err.Unwrap() != laudopdf.ErrPaginaInvalida {
		t.Error("Unwrap não devolve o erro sentinela")
	}
}
