package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	laudopdf "github.com/vistoriapro/laudopdf"
)

// AtualizacaoPDF é um evento do canal de progresso da geração assíncrona.
type AtualizacaoPDF struct {
	Status    laudopdf.StatusPDF `json:"status"`
	Progresso int                `json:"progresso"`
	URL       string             `json:"url,omitempty"`
	Erro      string             `json:"erro,omitempty"`
}

// AssinarProgresso abre a assinatura push do progresso de geração do laudo
// via websocket. O canal fecha quando o job atinge um status terminal, o
// contexto é cancelado ou a conexão cai; nesse último caso o chamador deve
// recorrer ao fallback de polling (AcompanharProgresso).
func (c *Cliente) AssinarProgresso(ctx context.Context, laudoID uuid.UUID) (<-chan AtualizacaoPDF, error) {
	endereco, err := c.enderecoWS(fmt.Sprintf("/ws/laudos/%s/pdf", laudoID))
	if err != nil {
		return nil, fmt.Errorf("client: montando endereço do canal: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endereco, nil)
	if err != nil {
		return nil, fmt.Errorf("client: assinando progresso do laudo %s: %w", laudoID, err)
	}

	eventos := make(chan AtualizacaoPDF, 4)
	go func() {
		defer close(eventos)
		defer conn.Close()

		// Encerra a leitura se o contexto cair.
		go func() {
			<-ctx.Done()
			conn.Close()
		}()

		for {
			var atual AtualizacaoPDF
			if err := conn.ReadJSON(&atual); err != nil {
				return
			}
			select {
			case eventos <- atual:
			case <-ctx.Done():
				return
			}
			if atual.Status.Terminal() {
				return
			}
		}
	}()
	return eventos, nil
}

// AcompanharProgresso é o substituto de polling para quando o canal push
// não está disponível: consulta os campos pdfStatus/pdfProgresso do laudo
// armazenado no intervalo dado. A primeira emissão acontece imediatamente,
// reconciliando o estado inicial.
func (c *Cliente) AcompanharProgresso(ctx context.Context, laudoID uuid.UUID, intervalo time.Duration) <-chan AtualizacaoPDF {
	if intervalo <= 0 {
		intervalo = 3 * time.Second
	}

	eventos := make(chan AtualizacaoPDF, 1)
	go func() {
		defer close(eventos)
		tique := time.NewTicker(intervalo)
		defer tique.Stop()

		for {
			laudo, err := c.Laudo(ctx, laudoID)
			if err == nil {
				atual := AtualizacaoPDF{
					Status:    laudo.PDFStatus,
					Progresso: laudo.PDFProgresso,
					URL:       laudo.PDFURL,
				}
				select {
				case eventos <- atual:
				case <-ctx.Done():
					return
				}
				if atual.Status.Terminal() {
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-tique.C:
			}
		}
	}()
	return eventos
}

// enderecoWS converte a URL base http(s) para ws(s) e anexa o caminho.
func (c *Cliente) enderecoWS(caminho string) (string, error) {
	u, err := url.Parse(c.base)
	if err != nil {
		return "", err
	}
	switch {
	case strings.EqualFold(u.Scheme, "https"):
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + caminho
	return u.String(), nil
}
