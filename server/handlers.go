package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	laudopdf "github.com/vistoriapro/laudopdf"
	"github.com/vistoriapro/laudopdf/client"
	"github.com/vistoriapro/laudopdf/compose"
	"github.com/vistoriapro/laudopdf/export"
)

var validar = validator.New()

// previaPagina devolve o conteúdo composto da página n como JSON, para a
// pré-visualização ao vivo do painel.
func (s *Servidor) previaPagina(c *gin.Context) {
	laudoID, n, ok := s.parametrosPagina(c)
	if !ok {
		return
	}

	ativa, err := s.obterSessao(c, laudoID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"erro": err.Error()})
		return
	}

	ativa.mu.Lock()
	pagina, err := ativa.sessao.IrParaPagina(c.Request.Context(), n)
	total, resolvido := ativa.sessao.TotalPaginas()
	ativa.mu.Unlock()
	if err != nil {
		s.responderErroPagina(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pagina":         pagina,
		"totalPaginas":   total,
		"totalResolvido": resolvido,
	})
}

// exportarPagina devolve a página n como um PDF de página única.
func (s *Servidor) exportarPagina(c *gin.Context) {
	laudoID, n, ok := s.parametrosPagina(c)
	if !ok {
		return
	}

	ativa, err := s.obterSessao(c, laudoID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"erro": err.Error()})
		return
	}

	ativa.mu.Lock()
	pagina, err := ativa.sessao.IrParaPagina(c.Request.Context(), n)
	ativa.mu.Unlock()
	if err != nil {
		s.responderErroPagina(c, err)
		return
	}

	dados, err := ativa.exportador.Pagina(c.Request.Context(), pagina)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"erro": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/pdf", dados)
}

// exportarDocumento devolve o documento completo como PDF. Só uma
// exportação por sessão pode estar em voo; a segunda recebe 409.
func (s *Servidor) exportarDocumento(c *gin.Context) {
	laudoID, ok := s.parametroLaudo(c)
	if !ok {
		return
	}

	ativa, err := s.obterSessao(c, laudoID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"erro": err.Error()})
		return
	}

	if !s.travarExportacao(ativa) {
		c.JSON(http.StatusConflict, gin.H{"erro": laudopdf.ErrExportEmAndamento.Error()})
		return
	}
	defer s.liberarExportacao(ativa)

	// Resolve o total navegando até a primeira página de grade, caso a
	// sessão ainda não tenha buscado nenhum lote.
	ativa.mu.Lock()
	total, resolvido := ativa.sessao.TotalPaginas()
	if !resolvido {
		primeira := 1
		if ativa.sessao.PaginasEspeciais() {
			primeira = 3
		}
		if _, err := ativa.sessao.IrParaPagina(c.Request.Context(), primeira); err != nil {
			ativa.mu.Unlock()
			s.responderErroPagina(c, err)
			return
		}
		total, _ = ativa.sessao.TotalPaginas()
	}
	ativa.mu.Unlock()

	if c.Query("montagem") == "partes" {
		s.exportarPorPartes(c, ativa, total)
		return
	}

	provedor := func(ctx context.Context, n int) (*compose.Pagina, error) {
		ativa.mu.Lock()
		defer ativa.mu.Unlock()
		return ativa.sessao.IrParaPagina(ctx, n)
	}
	dados, err := ativa.exportador.Documento(c.Request.Context(), total, provedor, nil)
	if err != nil {
		switch {
		case errors.Is(err, laudopdf.ErrCancelado):
			c.JSON(499, gin.H{"erro": err.Error()})
		case errors.Is(err, laudopdf.ErrImagemTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"erro": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"erro": err.Error()})
		}
		return
	}
	c.Data(http.StatusOK, "application/pdf", dados)
}

// exportarPorPartes exporta cada página como um PDF independente e monta o
// documento final importando as partes (export.Mesclar) — o caminho de
// montagem quando as páginas já circulam como exportações avulsas.
func (s *Servidor) exportarPorPartes(c *gin.Context, ativa *sessaoAtiva, total int) {
	partes := make([][]byte, 0, total)
	for n := 1; n <= total; n++ {
		ativa.mu.Lock()
		pagina, err := ativa.sessao.IrParaPagina(c.Request.Context(), n)
		ativa.mu.Unlock()
		if err != nil {
			s.responderErroPagina(c, err)
			return
		}
		dados, err := ativa.exportador.Pagina(c.Request.Context(), pagina)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"erro": err.Error()})
			return
		}
		partes = append(partes, dados)
	}

	var buf bytes.Buffer
	if err := export.Mesclar(&buf, partes...); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"erro": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

type requisicaoCampos struct {
	Campos map[string]string `json:"campos" binding:"required"`
}

// editarCampos aplica e confirma em lote uma atualização parcial dos
// campos do laudo — o protocolo de edição de campos, distinto do de
// legendas.
func (s *Servidor) editarCampos(c *gin.Context) {
	laudoID, ok := s.parametroLaudo(c)
	if !ok {
		return
	}

	var req requisicaoCampos
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error()})
		return
	}

	ativa, err := s.obterSessao(c, laudoID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"erro": err.Error()})
		return
	}

	ativa.mu.Lock()
	defer ativa.mu.Unlock()
	for campo, valor := range req.Campos {
		if err := ativa.gerente.Iniciar(campo); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error(), "campo": campo})
			return
		}
		if err := ativa.gerente.Definir(campo, valor); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error(), "campo": campo})
			return
		}
	}

	if err := ativa.gerente.ConfirmarTudo(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"erro": err.Error(), "pendentes": ativa.gerente.Sujos()})
		return
	}
	c.Status(http.StatusNoContent)
}

type requisicaoLegenda struct {
	Legenda string `json:"legenda"`
	Pagina  int    `json:"pagina" validate:"min=0"`
}

// editarLegenda confirma a legenda de uma única imagem pelo gerente de
// edição, que impõe o limite de caracteres antes de qualquer persistência;
// a página informada é invalidada no cache para a próxima navegação
// recompor a grade.
func (s *Servidor) editarLegenda(c *gin.Context) {
	laudoID, ok := s.parametroLaudo(c)
	if !ok {
		return
	}
	imagemID, err := uuid.Parse(c.Param("imagemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "imagemId inválido"})
		return
	}

	var req requisicaoLegenda
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error()})
		return
	}
	if err := validar.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error()})
		return
	}

	ativa, err := s.obterSessao(c, laudoID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"erro": err.Error()})
		return
	}

	ativa.mu.Lock()
	ativa.gerente.IniciarLegendaRemota(imagemID)
	err = ativa.gerente.DefinirLegenda(imagemID, req.Legenda)
	if err == nil {
		err = ativa.gerente.ConfirmarLegenda(c.Request.Context(), imagemID)
	}
	if err == nil && req.Pagina > 0 {
		ativa.sessao.InvalidarPagina(req.Pagina)
	}
	ativa.mu.Unlock()

	if err != nil {
		if errors.Is(err, laudopdf.ErrLegendaLonga) {
			c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"erro": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// solicitarGeracao dispara o job assíncrono no backend.
func (s *Servidor) solicitarGeracao(c *gin.Context) {
	laudoID, ok := s.parametroLaudo(c)
	if !ok {
		return
	}
	if err := s.cliente.SolicitarGeracao(c.Request.Context(), laudoID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"erro": err.Error()})
		return
	}
	c.Status(http.StatusAccepted)
}

// statusGeracao é a reconciliação por polling do estado do job: consulta
// os campos pdfStatus/pdfProgresso armazenados no laudo.
func (s *Servidor) statusGeracao(c *gin.Context) {
	laudoID, ok := s.parametroLaudo(c)
	if !ok {
		return
	}
	laudo, err := s.cliente.Laudo(c.Request.Context(), laudoID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"erro": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    laudo.PDFStatus,
		"progresso": laudo.PDFProgresso,
		"url":       laudo.PDFURL,
	})
}

// progressoGeracao acompanha a geração até um desfecho terminal: prefere a
// assinatura push do backend e recorre ao polling quando o canal não está
// disponível ou cai antes do fim.
func (s *Servidor) progressoGeracao(c *gin.Context) {
	laudoID, ok := s.parametroLaudo(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var ultimo client.AtualizacaoPDF
	recebido := false
	if eventos, err := s.cliente.AssinarProgresso(ctx, laudoID); err == nil {
		for atual := range eventos {
			ultimo = atual
			recebido = true
		}
	}
	if !recebido || !ultimo.Status.Terminal() {
		for atual := range s.cliente.AcompanharProgresso(ctx, laudoID, 2*time.Second) {
			ultimo = atual
			recebido = true
		}
	}
	if !recebido {
		c.JSON(http.StatusBadGateway, gin.H{"erro": "canal de progresso encerrado sem eventos"})
		return
	}
	c.JSON(http.StatusOK, ultimo)
}

func (s *Servidor) parametroLaudo(c *gin.Context) (uuid.UUID, bool) {
	laudoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "id de laudo inválido"})
		return uuid.Nil, false
	}
	return laudoID, true
}

func (s *Servidor) parametrosPagina(c *gin.Context) (uuid.UUID, int, bool) {
	laudoID, ok := s.parametroLaudo(c)
	if !ok {
		return uuid.Nil, 0, false
	}
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "número de página inválido"})
		return uuid.Nil, 0, false
	}
	return laudoID, n, true
}

func (s *Servidor) responderErroPagina(c *gin.Context, err error) {
	if errors.Is(err, laudopdf.ErrPaginaInvalida) {
		c.JSON(http.StatusNotFound, gin.H{"erro": err.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"erro": err.Error()})
}
