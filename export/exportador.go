// Package export captura páginas compostas e monta o PDF final. A
// exportação de documento completo é estritamente sequencial: a página N+1
// só começa depois que a página N foi embutida, o progresso é reportado a
// cada página e o cancelamento é verificado cooperativamente na fronteira
// de cada página — nunca no meio de uma renderização.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	laudopdf "github.com/vistoriapro/laudopdf"
	"github.com/vistoriapro/laudopdf/compose"
	"github.com/vistoriapro/laudopdf/render"
)

// Provedor entrega o conteúdo da página n do documento, executando
// internamente a mesma resolução da navegação (ver paginate.Sessao).
type Provedor func(ctx context.Context, n int) (*compose.Pagina, error)

// Progresso recebe a fração concluída após cada página embutida.
type Progresso func(feitas, total int)

// BuscadorImagens baixa os bytes de uma imagem pela URL assinada.
type BuscadorImagens interface {
	Buscar(ctx context.Context, url string) ([]byte, error)
}

// Exportador monta PDFs a partir de páginas compostas.
type Exportador struct {
	cfg      laudopdf.Config
	rend     *render.Renderizador
	buscador BuscadorImagens
}

// Novo cria um exportador com a configuração da sessão.
func Novo(cfg laudopdf.Config, buscador BuscadorImagens) *Exportador {
	return &Exportador{cfg: cfg, rend: render.Novo(cfg), buscador: buscador}
}

// Pagina exporta uma única página composta como um PDF de uma página.
func (e *Exportador) Pagina(ctx context.Context, pag *compose.Pagina) ([]byte, error) {
	imagens, err := e.carregarImagens(ctx, pag)
	if err != nil {
		return nil, fmt.Errorf("export: página %d: %w", pag.Numero, err)
	}

	pdf := render.NovoDocumento()
	if err := e.rend.Pagina(pdf, pag, imagens); err != nil {
		return nil, fmt.Errorf("export: página %d: %w", pag.Numero, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: serializando página %d: %w", pag.Numero, err)
	}
	return buf.Bytes(), nil
}

// Documento exporta as páginas 1..total em ordem estritamente crescente.
// Falha de carga ou timeout de imagem é fatal para a exportação inteira —
// não existe documento parcial. O cancelamento via ctx produz ErrCancelado,
// um desfecho distinto de erro de carga. Os bytes de imagem de cada página
// são liberados antes da página seguinte começar, para que a memória não
// cresça com o tamanho do documento.
func (e *Exportador) Documento(ctx context.Context, total int, provedor Provedor, onProgresso Progresso) ([]byte, error) {
	if total < 1 {
		return nil, laudopdf.NovoComposeError("ExportarDocumento", laudopdf.ErrPaginaInvalida)
	}

	pdf := render.NovoDocumento()

	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, laudopdf.NovoComposeError("ExportarDocumento", laudopdf.ErrCancelado)
		}

		pag, err := provedor(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("export: obtendo página %d: %w", n, err)
		}

		imagens, err := e.carregarImagens(ctx, pag)
		if err != nil {
			return nil, fmt.Errorf("export: página %d: %w", n, err)
		}

		if err := e.rend.Pagina(pdf, pag, imagens); err != nil {
			return nil, fmt.Errorf("export: renderizando página %d: %w", n, err)
		}

		// Libera os bytes do lote antes da próxima página.
		for chave := range imagens {
			delete(imagens, chave)
		}

		if onProgresso != nil {
			onProgresso(n, total)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: serializando documento: %w", err)
	}
	return buf.Bytes(), nil
}

// carregarImagens baixa concorrentemente os bytes de todas as células da
// página, com o timeout configurado por imagem, e os reduz para o tamanho
// de embutimento. Uma página não é renderizada no meio da carga: ou todas
// as imagens presentes chegam, ou a exportação falha. Células marcadas
// como ausentes não são buscadas — viram placeholder na renderização.
func (e *Exportador) carregarImagens(ctx context.Context, pag *compose.Pagina) (map[string][]byte, error) {
	urls := urlsDaPagina(pag)
	if len(urls) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		primeiro error
		imagens  = make(map[string][]byte, len(urls))
	)

	for _, url := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()

			dados, err := e.buscarUma(ctx, url)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if primeiro == nil {
					primeiro = err
				}
				return
			}
			imagens[url] = dados
		}(url)
	}
	wg.Wait()

	if primeiro != nil {
		return nil, primeiro
	}
	return imagens, nil
}

func (e *Exportador) buscarUma(ctx context.Context, url string) ([]byte, error) {
	ctx, cancelar := context.WithTimeout(ctx, e.cfg.TimeoutImagem)
	defer cancelar()

	dados, err := e.buscador.Buscar(ctx, url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, laudopdf.NovoComposeError("carregarImagens", laudopdf.ErrImagemTimeout)
		}
		return nil, fmt.Errorf("baixando %s: %w", url, err)
	}

	ajustada, err := render.AjustarImagem(dados, render.LarguraMaximaPixels)
	if err != nil {
		// Bytes que não decodificam seguem como chegaram; o renderizador
		// degrada a célula para placeholder se não reconhecer o formato.
		return dados, nil
	}
	return ajustada, nil
}

// urlsDaPagina coleta as URLs resolvidas das células de grade da página,
// inclusive dentro de blocos de colunas.
func urlsDaPagina(pag *compose.Pagina) []string {
	var urls []string
	var coletar func(elems []compose.Elemento)
	coletar = func(elems []compose.Elemento) {
		for _, elem := range elems {
			for _, cel := range elem.Celulas {
				if !cel.Ausente && cel.URL != "" {
					urls = append(urls, cel.URL)
				}
			}
			for _, coluna := range elem.Colunas {
				coletar(coluna)
			}
		}
	}
	coletar(pag.Elementos)
	return urls
}
