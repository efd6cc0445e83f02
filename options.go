package laudopdf

import (
	"strings"
	"time"
)

// MaxLegenda é o limite de caracteres de uma legenda de imagem, imposto na
// fronteira de edição e não assumido do armazenamento.
const MaxLegenda = 200

// TamanhoLotePadrao é a quantidade de imagens por página de grade.
const TamanhoLotePadrao = 12

// PoliticaPaginasEspeciais decide, uma única vez por laudo, se o documento
// recebe as quatro páginas especiais (capa, termos, relatório e
// assinaturas). A fonte original exibe duas políticas contraditórias em
// pontos de chamada distintos; por isso a decisão é injetável e nunca
// embutida nos componentes.
type PoliticaPaginasEspeciais func(*Laudo) bool

// PoliticaEntrada habilita as páginas especiais apenas para vistorias de
// entrada (comparação sem distinção de caixa). É a política padrão.
func PoliticaEntrada(l *Laudo) bool {
	return l != nil && strings.Contains(strings.ToLower(string(l.TipoVistoria)), "entrada")
}

// PoliticaSempre habilita as páginas especiais incondicionalmente — a
// segunda política observada na fonte. Mantida disponível até a definição
// de produto sobre qual das duas é a autoritativa.
func PoliticaSempre(*Laudo) bool { return true }

// Config reúne as preferências de composição de um documento.
type Config struct {
	// Layout da grade de imagens, em milímetros. Vem da preferência
	// armazenada do usuário (colaborador externo).
	EspacoHorizontal float64
	EspacoVertical   float64
	MargemPagina     float64

	// TamanhoLote é o pageSize da busca de lotes de imagens.
	TamanhoLote int

	// TimeoutImagem limita a espera pelo carregamento de cada imagem
	// durante a exportação.
	TimeoutImagem time.Duration

	Politica PoliticaPaginasEspeciais
}

// Option é uma opção funcional de configuração do compositor.
type Option func(*Config)

// WithEspacamento define os espaços horizontal e vertical entre células da
// grade, em milímetros.
func WithEspacamento(horizontal, vertical float64) Option {
	return func(c *Config) {
		c.EspacoHorizontal = horizontal
		c.EspacoVertical = vertical
	}
}

// WithMargemPagina define a margem da página de grade, em milímetros.
func WithMargemPagina(margem float64) Option {
	return func(c *Config) {
		c.MargemPagina = margem
	}
}

// WithTamanhoLote define quantas imagens compõem cada página de grade.
func WithTamanhoLote(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.TamanhoLote = n
		}
	}
}

// WithTimeoutImagem define o tempo máximo de espera pelo carregamento de
// uma imagem durante a exportação.
func WithTimeoutImagem(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.TimeoutImagem = d
		}
	}
}

// WithPolitica injeta a política de páginas especiais.
func WithPolitica(p PoliticaPaginasEspeciais) Option {
	return func(c *Config) {
		if p != nil {
			c.Politica = p
		}
	}
}

// NovaConfig monta uma Config a partir das opções fornecidas. Sem opções,
// usa margem e espaçamento de 5mm, lotes de 12 imagens, timeout de 15s e a
// política de vistoria de entrada.
func NovaConfig(opts ...Option) Config {
	cfg := Config{
		EspacoHorizontal: 5,
		EspacoVertical:   5,
		MargemPagina:     5,
		TamanhoLote:      TamanhoLotePadrao,
		TimeoutImagem:    15 * time.Second,
		Politica:         PoliticaEntrada,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
