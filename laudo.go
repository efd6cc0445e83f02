// Package laudopdf contém o modelo de domínio do compositor de laudos de
// vistoria imobiliária: o laudo, seus ambientes, as imagens capturadas e o
// questionário dinâmico. Os pacotes compose, paginate, edit, render e export
// constroem sobre estes tipos o documento paginado em formato A4 e sua
// exportação para PDF.
package laudopdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// TipoVistoria identifica a natureza da vistoria registrada no laudo.
type TipoVistoria string

const (
	VistoriaEntrada   TipoVistoria = "ENTRADA"
	VistoriaSaida     TipoVistoria = "SAIDA"
	VistoriaPeriodica TipoVistoria = "PERIODICA"
)

func (t TipoVistoria) String() string { return string(t) }

// Valida retorna true se o tipo é um dos valores reconhecidos.
func (t TipoVistoria) Valida() bool {
	switch t {
	case VistoriaEntrada, VistoriaSaida, VistoriaPeriodica:
		return true
	}
	return false
}

// StatusPDF representa o estado do job assíncrono de geração do PDF.
type StatusPDF string

const (
	PDFPendente    StatusPDF = "PENDING"
	PDFProcessando StatusPDF = "PROCESSING"
	PDFConcluido   StatusPDF = "COMPLETED"
	PDFErro        StatusPDF = "ERROR"
)

func (s StatusPDF) String() string { return string(s) }

// Terminal retorna true quando o job não produzirá mais atualizações.
func (s StatusPDF) Terminal() bool {
	return s == PDFConcluido || s == PDFErro
}

// Categoria classifica uma imagem do laudo. Imagens AVARIA recebem uma
// borda de destaque na grade para sinalizar a irregularidade.
type Categoria string

const (
	CategoriaNormal Categoria = "NORMAL"
	CategoriaAvaria Categoria = "AVARIA"
)

func (c Categoria) String() string { return string(c) }

// Laudo é o agregado raiz de um relatório de vistoria. O compositor nunca
// destrói um laudo; apenas os campos editáveis e o estado do job de PDF
// são alterados por este módulo.
type Laudo struct {
	ID uuid.UUID `json:"id"`

	// Endereço do imóvel vistoriado.
	Endereco    string `json:"endereco"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	Estado      string `json:"estado"`
	CEP         string `json:"cep"`

	TipoVistoria TipoVistoria `json:"tipoVistoria"`
	TipoUso      string       `json:"tipoUso"`
	TipoImovel   string       `json:"tipoImovel"`
	Unidade      string       `json:"unidade"`
	Tamanho      string       `json:"tamanho"`
	DataVistoria string       `json:"dataVistoria"`
	DataLaudo    string       `json:"dataLaudo"`

	// Linha "cidade, data" da página de assinaturas.
	LocalData string `json:"localData"`

	// Signatários.
	NomeLocador          string `json:"nomeLocador"`
	AssinaturaLocador    string `json:"assinaturaLocador"`
	NomeLocatario        string `json:"nomeLocatario"`
	AssinaturaLocatario  string `json:"assinaturaLocatario"`
	Testemunha1Nome      string `json:"testemunha1Nome"`
	Testemunha1Documento string `json:"testemunha1Documento"`
	Testemunha2Nome      string `json:"testemunha2Nome"`
	Testemunha2Documento string `json:"testemunha2Documento"`

	// Estado do job de geração, atualizado apenas pelo canal de progresso.
	PDFStatus    StatusPDF `json:"pdfStatus"`
	PDFProgresso int       `json:"pdfProgresso"`
	PDFURL       string    `json:"pdfUrl,omitempty"`
}

// Ambiente é um local nomeado do imóvel ("1 - Sala"), imutável do ponto de
// vista do compositor.
type Ambiente struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome"`
	Ordem        int       `json:"ordem"`
	TotalImagens int       `json:"totalImagens"`
}

// NomeExibicao retorna o nome do ambiente sem o prefixo numérico de
// armazenamento ("3 - Cozinha" vira "Cozinha").
func (a Ambiente) NomeExibicao() string {
	return SemPrefixoNumerico(a.Nome)
}

var prefixoNumerico = regexp.MustCompile(`^\s*\d+\s*-\s*`)

// SemPrefixoNumerico remove o prefixo "<n> - " usado na persistência dos
// nomes de ambiente.
func SemPrefixoNumerico(nome string) string {
	return strings.TrimSpace(prefixoNumerico.ReplaceAllString(nome, ""))
}

// Imagem é uma fotografia pertencente a exatamente um ambiente. A legenda é
// o único campo mutável a partir deste módulo; a numeração por ambiente é
// exibida exatamente como o backend fornece, nunca recalculada.
type Imagem struct {
	ID               uuid.UUID `json:"id"`
	ChaveArquivo     string    `json:"chaveArquivo"`
	AmbienteNome     string    `json:"ambienteNome"`
	AmbienteOrdem    int       `json:"ambienteOrdem"`
	NumeroNoAmbiente int       `json:"numeroNoAmbiente"`
	Legenda          string    `json:"legenda"`
	Categoria        Categoria `json:"categoria"`
	OrdemGlobal      int       `json:"ordemGlobal"`
}

// LegendaExibicao formata a linha de legenda da célula da grade no padrão
// "<ordem do ambiente> (<número no ambiente>) <legenda>".
func (i Imagem) LegendaExibicao() string {
	return strings.TrimSpace(fmt.Sprintf("%d (%d) %s", i.AmbienteOrdem, i.NumeroNoAmbiente, i.Legenda))
}
