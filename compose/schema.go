// Package compose constrói o conteúdo estruturado de cada página do
// documento de laudo: as quatro páginas especiais (capa, termos, relatório
// e assinaturas) e as páginas de grade de imagens. Os construtores são
// funções puras sobre dados já carregados; nenhum deles faz I/O.
//
// O esquema de página é declarativo: uma Pagina é uma lista de Elementos
// que qualquer renderizador (render, export) deve honrar sem conhecer a
// origem dos dados.
package compose

import "github.com/google/uuid"

// TipoPagina identifica a espécie de uma página do documento.
type TipoPagina string

const (
	PaginaCapa        TipoPagina = "COVER"
	PaginaTermos      TipoPagina = "TERMS"
	PaginaGrade       TipoPagina = "IMAGE_GRID"
	PaginaRelatorio   TipoPagina = "REPORT"
	PaginaAssinaturas TipoPagina = "SIGNATURES"
)

// Pagina é o artefato derivado da composição: numeração 1-based e contígua
// no documento, nunca persistida — recalculada sob demanda e cacheada em
// memória apenas durante a sessão.
type Pagina struct {
	Numero    int
	Tipo      TipoPagina
	Elementos []Elemento
}

// Tipos de elemento. O campo Tipo do Elemento determina quais demais
// campos são relevantes, no estilo de um nó de template declarativo.
const (
	ElemTitulo     = "titulo"
	ElemParagrafo  = "paragrafo"
	ElemCampos     = "campos"
	ElemColunas    = "colunas"
	ElemGrade      = "grade"
	ElemQR         = "qr"
	ElemAssinatura = "assinatura"
	ElemEspaco     = "espaco"
)

// Elemento é um elemento visual de uma página.
type Elemento struct {
	Tipo string

	// Texto (titulo, paragrafo)
	Texto       string
	Nivel       int
	Alinhamento string // "L", "C", "R" (padrão: "L")

	// Linhas rótulo/valor (campos)
	Campos []Campo

	// Blocos em colunas lado a lado (colunas)
	Colunas [][]Elemento

	// Grade de imagens (grade)
	Celulas []Celula

	// Código QR (qr): Conteudo é o payload codificado, Texto o rótulo.
	Conteudo string

	// Bloco de assinatura (assinatura)
	Assinatura *BlocoAssinatura

	// Altura vertical (espaco), em milímetros.
	Altura float64
}

// Campo é uma linha rótulo/valor. NomeCampo, quando preenchido, identifica
// o campo editável do laudo correspondente (ver edit).
type Campo struct {
	Rotulo    string
	Valor     string
	NomeCampo string
}

// Celula é uma posição da grade de imagens. Ausente marca uma célula cuja
// URL assinada não pôde ser resolvida: renderiza como placeholder, nunca
// derruba a página.
type Celula struct {
	ImagemID uuid.UUID
	Chave    string
	URL      string
	Rotulo   string // nome do ambiente, maiúsculo, sem prefixo numérico
	Legenda  string // "N (M) legenda"
	Avaria   bool
	Ausente  bool
}

// BlocoAssinatura é um bloco de assinatura da página final.
type BlocoAssinatura struct {
	Papel      string // "Locador", "Locatário", "Testemunha"
	Nome       Campo
	Assinatura Campo
	Documento  Campo
}
