package server

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	laudopdf "github.com/vistoriapro/laudopdf"
	"github.com/vistoriapro/laudopdf/client"
	"github.com/vistoriapro/laudopdf/edit"
	"github.com/vistoriapro/laudopdf/export"
	"github.com/vistoriapro/laudopdf/paginate"
)

// Servidor mantém uma sessão de composição por laudo e roteia as
// operações do compositor.
type Servidor struct {
	cfg     *Config
	cliente *client.Cliente

	mu      sync.Mutex
	sessoes map[uuid.UUID]*sessaoAtiva
}

// sessaoAtiva agrega a sessão de paginação, o gerente de edição e a trava
// de exportação única de um laudo. A sessão e o gerente não são seguros
// para uso concorrente; mu serializa todo acesso a eles entre as
// goroutines de requisição do mesmo laudo.
type sessaoAtiva struct {
	mu         sync.Mutex
	sessao     *paginate.Sessao
	gerente    *edit.Gerente
	exportador *export.Exportador

	// exportando impede exportações simultâneas da mesma sessão: a
	// superfície de renderização é exclusiva de uma exportação por vez.
	exportando bool
}

// Novo cria o servidor e seu cliente da API de laudos.
func Novo(cfg *Config) *Servidor {
	return &Servidor{
		cfg:     cfg,
		cliente: client.Novo(cfg.BaseAPI, cfg.Timeout),
		sessoes: make(map[uuid.UUID]*sessaoAtiva),
	}
}

// Rotas monta o roteador gin com as rotas do compositor.
func (s *Servidor) Rotas() *gin.Engine {
	r := gin.Default()

	laudos := r.Group("/laudos/:id")
	{
		laudos.GET("/paginas/:n", s.previaPagina)
		laudos.GET("/paginas/:n/pdf", s.exportarPagina)
		laudos.GET("/pdf", s.exportarDocumento)
		laudos.PUT("/campos", s.editarCampos)
		laudos.PUT("/imagens/:imagemId/legenda", s.editarLegenda)
		laudos.POST("/gerar-pdf", s.solicitarGeracao)
		laudos.GET("/pdf-status", s.statusGeracao)
		laudos.GET("/pdf-progresso", s.progressoGeracao)
	}

	return r
}

// obterSessao devolve (criando e carregando, se preciso) a sessão ativa
// do laudo.
func (s *Servidor) obterSessao(c *gin.Context, laudoID uuid.UUID) (*sessaoAtiva, error) {
	s.mu.Lock()
	ativa, ok := s.sessoes[laudoID]
	s.mu.Unlock()
	if ok {
		return ativa, nil
	}

	opcoes := []laudopdf.Option{
		laudopdf.WithEspacamento(s.cfg.EspacoHorizontal, s.cfg.EspacoVertical),
		laudopdf.WithMargemPagina(s.cfg.MargemPagina),
		laudopdf.WithPolitica(s.cfg.Politica),
	}

	// Preferência de layout do usuário, quando identificado; falha aqui
	// não impede a sessão — valem os padrões do servidor.
	if usuario := c.GetHeader("X-Usuario"); usuario != "" {
		if usuarioID, err := uuid.Parse(usuario); err == nil {
			if layout, err := s.cliente.LayoutPDF(c.Request.Context(), usuarioID); err == nil {
				opcoes = append(opcoes,
					laudopdf.WithEspacamento(layout.EspacoHorizontal, layout.EspacoVertical),
					laudopdf.WithMargemPagina(layout.MargemPagina),
				)
			}
		}
	}

	urlGaleria := s.cfg.URLGaleria + "/" + laudoID.String()
	sessao := paginate.NovaSessao(s.cliente, laudoID, urlGaleria, opcoes...)
	if err := sessao.Carregar(c.Request.Context()); err != nil {
		return nil, err
	}

	ativa = &sessaoAtiva{
		sessao:     sessao,
		gerente:    edit.NovoGerente(s.cliente, sessao.Laudo()),
		exportador: export.Novo(sessao.Config(), s.cliente),
	}

	// Duas primeiras requisições do mesmo laudo podem carregar em
	// paralelo; vale a que registrou primeiro, para que todas as
	// goroutines compartilhem uma única sessão.
	s.mu.Lock()
	if existente, ok := s.sessoes[laudoID]; ok {
		s.mu.Unlock()
		return existente, nil
	}
	s.sessoes[laudoID] = ativa
	s.mu.Unlock()
	return ativa, nil
}

// travarExportacao marca a sessão como exportando; devolve false se já
// houver uma exportação em andamento.
func (s *Servidor) travarExportacao(ativa *sessaoAtiva) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ativa.exportando {
		return false
	}
	ativa.exportando = true
	return true
}

func (s *Servidor) liberarExportacao(ativa *sessaoAtiva) {
	s.mu.Lock()
	ativa.exportando = false
	s.mu.Unlock()
}
