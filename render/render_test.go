package render_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	laudopdf "github.com/vistoriapro/laudopdf"
	"github.com/vistoriapro/laudopdf/compose"
	"github.com/vistoriapro/laudopdf/render"
)

func renderizar(t *testing.T, pag *compose.Pagina, imagens map[string][]byte) []byte {
	t.Helper()
	rend := render.Novo(laudopdf.NovaConfig())
	pdf := render.NovoDocumento()
	if err := rend.Pagina(pdf, pag, imagens); err != nil {
		t.Fatalf("Pagina: %v", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("Output: %v", err)
	}
	return buf.Bytes()
}

func TestRenderizarPaginasEspeciais(t *testing.T) {
	laudo := &laudopdf.Laudo{
		Endereco:     "Rua das Acácias",
		Numero:       "45",
		Cidade:       "São Paulo",
		Estado:       "SP",
		TipoVistoria: laudopdf.VistoriaEntrada,
		LocalData:    "São Paulo, 12 de agosto de 2026",
	}
	ambientes := []laudopdf.Ambiente{
		{Nome: "1 - Sala", Ordem: 1},
		{Nome: "2 - Cozinha", Ordem: 2},
	}
	secoes := []compose.SecaoResolvida{
		{Nome: "Chaves", Valor: "3 cópias"},
		{Nome: "Medidores", Valor: map[string]any{"agua": "1234", "energia": "5678"}},
	}

	paginas := map[string]compose.Pagina{
		"capa":        compose.NovaCapa(laudo),
		"termos":      compose.NovosTermos(laudo, ambientes),
		"relatorio":   compose.NovoRelatorio(laudo, secoes, "https://galeria.exemplo.com/laudo/1"),
		"assinaturas": compose.NovasAssinaturas(laudo),
	}

	for nome, pag := range paginas {
		t.Run(nome, func(t *testing.T) {
			pag := pag
			dados := renderizar(t, &pag, nil)
			if !bytes.HasPrefix(dados, []byte("%PDF")) {
				t.Error("saída não é um PDF")
			}
		})
	}
}

func TestRenderizarGrade(t *testing.T) {
	// Uma imagem real minúscula; as demais células degradam para
	// placeholder sem derrubar a página.
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("gerando png: %v", err)
	}

	pag := &compose.Pagina{
		Numero: 3,
		Tipo:   compose.PaginaGrade,
		Elementos: []compose.Elemento{{
			Tipo: compose.ElemGrade,
			Celulas: []compose.Celula{
				{Chave: "fotos/a.png", URL: "https://cdn.exemplo.com/a.png", Rotulo: "SALA", Legenda: "1 (1) Vista geral"},
				{Chave: "fotos/b.png", URL: "https://cdn.exemplo.com/b.png", Rotulo: "COZINHA", Legenda: "2 (1)", Avaria: true},
				{Rotulo: "QUARTO", Ausente: true},
				{Chave: "fotos/d.png", URL: "https://cdn.exemplo.com/d.png", Rotulo: "BANHEIRO", Legenda: "3 (1)"},
			},
		}},
	}
	imagens := map[string][]byte{
		"https://cdn.exemplo.com/a.png": buf.Bytes(),
		"https://cdn.exemplo.com/b.png": buf.Bytes(),
		// d.png sem bytes: placeholder.
	}

	dados := renderizar(t, pag, imagens)
	if !bytes.HasPrefix(dados, []byte("%PDF")) {
		t.Error("saída não é um PDF")
	}
}

// As células dimensionam pelas linhas do lote configurado, não por um lote
// fixo de 12: com lote 6 a grade tem 2 linhas e células mais altas.
func TestGradeDimensionaPeloLote(t *testing.T) {
	pag := &compose.Pagina{
		Numero: 3,
		Tipo:   compose.PaginaGrade,
		Elementos: []compose.Elemento{{
			Tipo: compose.ElemGrade,
			Celulas: []compose.Celula{
				{Rotulo: "SALA", Ausente: true},
				{Rotulo: "COZINHA", Ausente: true},
				{Rotulo: "QUARTO", Ausente: true},
			},
		}},
	}

	fixa := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	renderizarLote := func(t *testing.T, cfg laudopdf.Config) []byte {
		t.Helper()
		rend := render.Novo(cfg)
		pdf := render.NovoDocumento()
		pdf.SetCreationDate(fixa)
		if err := rend.Pagina(pdf, pag, nil); err != nil {
			t.Fatalf("Pagina: %v", err)
		}
		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			t.Fatalf("Output: %v", err)
		}
		return buf.Bytes()
	}

	cheio := renderizarLote(t, laudopdf.NovaConfig())
	metade := renderizarLote(t, laudopdf.NovaConfig(laudopdf.WithTamanhoLote(6)))

	if !bytes.Equal(cheio, renderizarLote(t, laudopdf.NovaConfig())) {
		t.Fatal("renderizações idênticas divergiram")
	}
	if bytes.Equal(cheio, metade) {
		t.Error("lote de 6 deveria produzir células de outra altura")
	}
}

func TestAjustarImagem(t *testing.T) {
	t.Run("reduz imagens largas", func(t *testing.T) {
		var buf bytes.Buffer
		grande := image.NewRGBA(image.Rect(0, 0, 2400, 1200))
		for x := 0; x < 2400; x += 100 {
			grande.Set(x, 0, color.RGBA{R: 255, A: 255})
		}
		if err := jpeg.Encode(&buf, grande, nil); err != nil {
			t.Fatalf("gerando jpeg: %v", err)
		}

		saida, err := render.AjustarImagem(buf.Bytes(), render.LarguraMaximaPixels)
		if err != nil {
			t.Fatalf("AjustarImagem: %v", err)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(saida))
		if err != nil {
			t.Fatalf("decodificando saída: %v", err)
		}
		if cfg.Width != render.LarguraMaximaPixels || cfg.Height != render.LarguraMaximaPixels/2 {
			t.Errorf("dimensões = %dx%d", cfg.Width, cfg.Height)
		}
	})

	t.Run("mantem imagens pequenas", func(t *testing.T) {
		var buf bytes.Buffer
		pequena := image.NewRGBA(image.Rect(0, 0, 640, 480))
		if err := png.Encode(&buf, pequena); err != nil {
			t.Fatalf("gerando png: %v", err)
		}

		saida, err := render.AjustarImagem(buf.Bytes(), render.LarguraMaximaPixels)
		if err != nil {
			t.Fatalf("AjustarImagem: %v", err)
		}
		if !bytes.Equal(saida, buf.Bytes()) {
			t.Error("imagem dentro do limite foi reprocessada")
		}
	})

	t.Run("bytes invalidos", func(t *testing.T) {
		if _, err := render.AjustarImagem([]byte("não é imagem"), render.LarguraMaximaPixels); err == nil {
			t.Error("bytes inválidos deveriam falhar a decodificação")
		}
	})
}
