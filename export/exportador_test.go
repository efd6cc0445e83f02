package export_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	laudopdf "github.com/vistoriapro/laudopdf"
	"github.com/vistoriapro/laudopdf/compose"
	"github.com/vistoriapro/laudopdf/export"
)

// buscadorFalso devolve bytes fixos ou bloqueia até o contexto expirar.
type buscadorFalso struct {
	dados    []byte
	bloquear bool
}

func (b *buscadorFalso) Buscar(ctx context.Context, url string) ([]byte, error) {
	if b.bloquear {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return b.dados, nil
}

func paginaSimples(n int) *compose.Pagina {
	return &compose.Pagina{
		Numero: n,
		Tipo:   compose.PaginaGrade,
		Elementos: []compose.Elemento{
			{Tipo: compose.ElemTitulo, Nivel: 2, Texto: fmt.Sprintf("Página %d", n)},
			{Tipo: compose.ElemParagrafo, Texto: "Conteúdo de teste."},
		},
	}
}

func paginaComImagem(url string) *compose.Pagina {
	return &compose.Pagina{
		Numero: 1,
		Tipo:   compose.PaginaGrade,
		Elementos: []compose.Elemento{{
			Tipo:    compose.ElemGrade,
			Celulas: []compose.Celula{{URL: url, Rotulo: "SALA", Legenda: "1 (1)"}},
		}},
	}
}

func TestExportarPagina(t *testing.T) {
	exp := export.Novo(laudopdf.NovaConfig(), &buscadorFalso{})

	dados, err := exp.Pagina(context.Background(), paginaSimples(1))
	if err != nil {
		t.Fatalf("Pagina: %v", err)
	}
	if !bytes.HasPrefix(dados, []byte("%PDF")) {
		t.Errorf("saída não é um PDF: %q", dados[:8])
	}
}

func TestExportarDocumento(t *testing.T) {
	exp := export.Novo(laudopdf.NovaConfig(), &buscadorFalso{})

	var pedidas []int
	provedor := func(ctx context.Context, n int) (*compose.Pagina, error) {
		pedidas = append(pedidas, n)
		return paginaSimples(n), nil
	}

	var progresso [][2]int
	dados, err := exp.Documento(context.Background(), 5, provedor, func(feitas, total int) {
		progresso = append(progresso, [2]int{feitas, total})
	})
	if err != nil {
		t.Fatalf("Documento: %v", err)
	}
	if !bytes.HasPrefix(dados, []byte("%PDF")) {
		t.Error("saída não é um PDF")
	}

	t.Run("paginas em ordem estrita", func(t *testing.T) {
		for i, n := range pedidas {
			if n != i+1 {
				t.Fatalf("ordem de pedidos = %v", pedidas)
			}
		}
		if len(pedidas) != 5 {
			t.Fatalf("%d pedidos, esperados 5", len(pedidas))
		}
	})

	t.Run("progresso monotonico por pagina", func(t *testing.T) {
		if len(progresso) != 5 {
			t.Fatalf("%d relatos de progresso, esperados 5", len(progresso))
		}
		for i, p := range progresso {
			if p[0] != i+1 || p[1] != 5 {
				t.Errorf("relato %d = %d/%d", i, p[0], p[1])
			}
		}
	})
}

func TestExportarDocumentoCancelado(t *testing.T) {
	exp := export.Novo(laudopdf.NovaConfig(), &buscadorFalso{})
	ctx, cancelar := context.WithCancel(context.Background())

	chamadas := 0
	provedor := func(ctx context.Context, n int) (*compose.Pagina, error) {
		chamadas++
		return paginaSimples(n), nil
	}

	// Cancela na fronteira após a segunda página.
	_, err := exp.Documento(ctx, 5, provedor, func(feitas, total int) {
		if feitas == 2 {
			cancelar()
		}
	})

	if !errors.Is(err, laudopdf.ErrCancelado) {
		t.Fatalf("Documento cancelado = %v, esperado ErrCancelado", err)
	}
	if chamadas != 2 {
		t.Errorf("%d páginas pedidas após o cancelamento, esperadas 2", chamadas)
	}
}

func TestExportarDocumentoTimeoutDeImagem(t *testing.T) {
	cfg := laudopdf.NovaConfig(laudopdf.WithTimeoutImagem(20 * time.Millisecond))
	exp := export.Novo(cfg, &buscadorFalso{bloquear: true})

	provedor := func(ctx context.Context, n int) (*compose.Pagina, error) {
		return paginaComImagem("https://cdn.exemplo.com/lenta.jpg"), nil
	}

	// O timeout de uma única imagem é fatal: não existe documento parcial.
	_, err := exp.Documento(context.Background(), 3, provedor, nil)
	if !errors.Is(err, laudopdf.ErrImagemTimeout) {
		t.Fatalf("Documento = %v, esperado ErrImagemTimeout", err)
	}
}

func TestExportarDocumentoErroDoProvedor(t *testing.T) {
	exp := export.Novo(laudopdf.NovaConfig(), &buscadorFalso{})

	falha := errors.New("lote indisponível")
	provedor := func(ctx context.Context, n int) (*compose.Pagina, error) {
		if n == 2 {
			return nil, falha
		}
		return paginaSimples(n), nil
	}

	if _, err := exp.Documento(context.Background(), 3, provedor, nil); !errors.Is(err, falha) {
		t.Fatalf("Documento = %v, esperado o erro do provedor", err)
	}
}

func TestExportarDocumentoTotalInvalido(t *testing.T) {
	exp := export.Novo(laudopdf.NovaConfig(), &buscadorFalso{})
	provedor := func(ctx context.Context, n int) (*compose.Pagina, error) {
		return paginaSimples(n), nil
	}

	if _, err := exp.Documento(context.Background(), 0, provedor, nil); !errors.Is(err, laudopdf.ErrPaginaInvalida) {
		t.Fatalf("Documento(0) = %v", err)
	}
}
