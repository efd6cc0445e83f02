// Package client implementa os colaboradores externos consumidos pelo
// compositor: as buscas de laudo, vistoria, ambientes e lotes de imagem, a
// resolução em lote de URLs assinadas, as gravações de campo e legenda, a
// preferência de layout e o disparo do job assíncrono de geração. Uma
// única struct satisfaz paginate.Fonte, edit.Persistencia e
// export.BuscadorImagens.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	laudopdf "github.com/vistoriapro/laudopdf"
	"github.com/vistoriapro/laudopdf/paginate"
)

// Cliente fala com a API do backend de laudos.
type Cliente struct {
	base string
	http *http.Client
}

// Novo cria um cliente para a URL base informada ("https://api.exemplo.com").
func Novo(base string, timeout time.Duration) *Cliente {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Cliente{
		base: base,
		http: &http.Client{Timeout: timeout},
	}
}

// Laudo busca o agregado do laudo, incluindo o estado do job de PDF.
func (c *Cliente) Laudo(ctx context.Context, id uuid.UUID) (*laudopdf.Laudo, error) {
	var laudo laudopdf.Laudo
	if err := c.obter(ctx, fmt.Sprintf("/laudos/%s", id), &laudo); err != nil {
		return nil, fmt.Errorf("client: buscando laudo %s: %w", id, err)
	}
	return &laudo, nil
}

// Vistoria busca o questionário dinâmico do laudo (registro de seções e
// dadosExtra legado).
func (c *Cliente) Vistoria(ctx context.Context, id uuid.UUID) (*laudopdf.Vistoria, error) {
	var vistoria laudopdf.Vistoria
	if err := c.obter(ctx, fmt.Sprintf("/laudos/%s/detalhes", id), &vistoria); err != nil {
		return nil, fmt.Errorf("client: buscando detalhes do laudo %s: %w", id, err)
	}
	return &vistoria, nil
}

type respostaAmbientes struct {
	Data []laudopdf.Ambiente `json:"data"`
	Meta struct {
		TotalPaginas int `json:"totalPaginas"`
	} `json:"meta"`
}

// Ambientes busca uma página da lista de ambientes do laudo.
func (c *Cliente) Ambientes(ctx context.Context, id uuid.UUID, pagina, tamanho int) ([]laudopdf.Ambiente, int, error) {
	var resp respostaAmbientes
	caminho := fmt.Sprintf("/laudos/%s/ambientes?pagina=%d&tamanho=%d", id, pagina, tamanho)
	if err := c.obter(ctx, caminho, &resp); err != nil {
		return nil, 0, fmt.Errorf("client: buscando ambientes do laudo %s: %w", id, err)
	}
	return resp.Data, resp.Meta.TotalPaginas, nil
}

type respostaImagens struct {
	Data []laudopdf.Imagem `json:"data"`
	Meta struct {
		TotalPaginas int `json:"totalPaginas"`
		TotalImagens int `json:"totalImagens"`
	} `json:"meta"`
}

// LoteImagens busca o lote da página backend informada.
func (c *Cliente) LoteImagens(ctx context.Context, id uuid.UUID, pagina, tamanho int) (*paginate.LoteImagens, error) {
	var resp respostaImagens
	caminho := fmt.Sprintf("/laudos/%s/imagens?pagina=%d&tamanho=%d", id, pagina, tamanho)
	if err := c.obter(ctx, caminho, &resp); err != nil {
		return nil, fmt.Errorf("client: buscando imagens do laudo %s: %w", id, err)
	}
	return &paginate.LoteImagens{
		Imagens:      resp.Data,
		TotalPaginas: resp.Meta.TotalPaginas,
		TotalImagens: resp.Meta.TotalImagens,
	}, nil
}

// ResolverURLs troca chaves de armazenamento por URLs assinadas, em lote.
// Chaves que o serviço não resolver simplesmente não constam do mapa — o
// construtor de grade degrada a célula para placeholder.
func (c *Cliente) ResolverURLs(ctx context.Context, chaves []string) (map[string]string, error) {
	corpo := map[string][]string{"chaves": chaves}
	var urls map[string]string
	if err := c.enviar(ctx, http.MethodPost, "/arquivos/urls", corpo, &urls); err != nil {
		return nil, fmt.Errorf("client: resolvendo %d chaves: %w", len(chaves), err)
	}
	return urls, nil
}

// AtualizarCampos grava uma atualização parcial dos campos do laudo.
func (c *Cliente) AtualizarCampos(ctx context.Context, id uuid.UUID, campos map[string]string) error {
	if err := c.enviar(ctx, http.MethodPut, fmt.Sprintf("/laudos/%s", id), campos, nil); err != nil {
		return fmt.Errorf("client: atualizando campos do laudo %s: %w", id, err)
	}
	return nil
}

// AtualizarLegenda grava a legenda de uma única imagem.
func (c *Cliente) AtualizarLegenda(ctx context.Context, imagemID uuid.UUID, legenda string) error {
	corpo := map[string]string{"legenda": legenda}
	if err := c.enviar(ctx, http.MethodPut, fmt.Sprintf("/imagens/%s/legenda", imagemID), corpo, nil); err != nil {
		return fmt.Errorf("client: atualizando legenda da imagem %s: %w", imagemID, err)
	}
	return nil
}

// ConfigLayout é a preferência armazenada de layout da grade.
type ConfigLayout struct {
	EspacoHorizontal float64 `json:"espacoHorizontal"`
	EspacoVertical   float64 `json:"espacoVertical"`
	MargemPagina     float64 `json:"margemPagina"`
}

// LayoutPDF busca a preferência de layout do usuário.
func (c *Cliente) LayoutPDF(ctx context.Context, usuarioID uuid.UUID) (*ConfigLayout, error) {
	var cfg ConfigLayout
	if err := c.obter(ctx, fmt.Sprintf("/usuarios/%s/config-pdf", usuarioID), &cfg); err != nil {
		return nil, fmt.Errorf("client: buscando layout do usuário %s: %w", usuarioID, err)
	}
	return &cfg, nil
}

// SolicitarGeracao dispara o job assíncrono de geração do PDF no backend.
// O acompanhamento vem pelo canal de progresso (ver progresso.go).
func (c *Cliente) SolicitarGeracao(ctx context.Context, laudoID uuid.UUID) error {
	if err := c.enviar(ctx, http.MethodPost, fmt.Sprintf("/laudos/%s/gerar-pdf", laudoID), nil, nil); err != nil {
		return fmt.Errorf("client: solicitando geração do laudo %s: %w", laudoID, err)
	}
	return nil
}

// Buscar baixa os bytes de uma URL assinada de imagem.
func (c *Cliente) Buscar(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("client: montando requisição de imagem: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: baixando imagem: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("client: baixando imagem: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// obter faz um GET e decodifica o JSON da resposta em destino.
func (c *Cliente) obter(ctx context.Context, caminho string, destino any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+caminho, nil)
	if err != nil {
		return err
	}
	return c.executar(req, destino)
}

// enviar serializa corpo como JSON no método dado e, se destino não for
// nil, decodifica a resposta.
func (c *Cliente) enviar(ctx context.Context, metodo, caminho string, corpo, destino any) error {
	var leitor io.Reader
	if corpo != nil {
		dados, err := json.Marshal(corpo)
		if err != nil {
			return err
		}
		leitor = bytes.NewReader(dados)
	}

	req, err := http.NewRequestWithContext(ctx, metodo, c.base+caminho, leitor)
	if err != nil {
		return err
	}
	if corpo != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.executar(req, destino)
}

func (c *Cliente) executar(req *http.Request, destino any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if destino == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(destino)
}
