// Package render desenha uma página composta (compose.Pagina) sobre uma
// página A4 de um documento PDF vetorial. O renderizador honra o esquema
// declarativo de página sem conhecer a origem dos dados; imagens chegam
// pré-carregadas em bytes (ver export) e nunca são buscadas daqui.
package render

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	laudopdf "github.com/vistoriapro/laudopdf"
	"github.com/vistoriapro/laudopdf/compose"
)

const (
	fontePadrao   = "Helvetica"
	tamanhoPadrao = 10.5
)

// Renderizador desenha páginas compostas em um documento gofpdf.
type Renderizador struct {
	cfg laudopdf.Config
}

// Novo cria um renderizador com a configuração de layout da sessão.
func Novo(cfg laudopdf.Config) *Renderizador {
	return &Renderizador{cfg: cfg}
}

// NovoDocumento cria o documento A4 retrato em milímetros usado por todas
// as exportações.
func NovoDocumento() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(false, 12)
	return pdf
}

// Pagina adiciona uma página ao documento e desenha o conteúdo composto.
// imagens são os bytes pré-carregados, indexados pela URL da célula.
func (r *Renderizador) Pagina(pdf *gofpdf.Fpdf, pag *compose.Pagina, imagens map[string][]byte) error {
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont(fontePadrao, "", tamanhoPadrao)

	for _, elem := range pag.Elementos {
		if err := r.elemento(pdf, tr, pag, elem, larguraConteudo(pdf), imagens); err != nil {
			return fmt.Errorf("render: página %d: %w", pag.Numero, err)
		}
	}

	if pag.Tipo != compose.PaginaCapa {
		r.rodape(pdf, tr, pag.Numero)
	}

	if pdf.Err() {
		return fmt.Errorf("render: página %d: %w", pag.Numero, pdf.Error())
	}
	return nil
}

func (r *Renderizador) elemento(pdf *gofpdf.Fpdf, tr func(string) string, pag *compose.Pagina, elem compose.Elemento, largura float64, imagens map[string][]byte) error {
	switch elem.Tipo {
	case compose.ElemTitulo:
		r.titulo(pdf, tr, elem, largura)
	case compose.ElemParagrafo:
		r.paragrafo(pdf, tr, elem, largura)
	case compose.ElemCampos:
		r.campos(pdf, tr, elem.Campos, largura)
	case compose.ElemColunas:
		return r.colunas(pdf, tr, pag, elem, imagens)
	case compose.ElemGrade:
		return r.grade(pdf, tr, elem.Celulas, imagens)
	case compose.ElemQR:
		return r.codigoQR(pdf, tr, elem)
	case compose.ElemAssinatura:
		r.assinatura(pdf, tr, elem.Assinatura, largura)
	case compose.ElemEspaco:
		pdf.Ln(elem.Altura)
	default:
		return fmt.Errorf("elemento de tipo desconhecido %q", elem.Tipo)
	}
	return nil
}

// Tamanhos de título por nível, do h1 ao h4.
var tamanhosTitulo = []float64{20, 15, 12.5, 11}

func (r *Renderizador) titulo(pdf *gofpdf.Fpdf, tr func(string) string, elem compose.Elemento, largura float64) {
	nivel := elem.Nivel
	if nivel < 1 {
		nivel = 1
	}
	if nivel > len(tamanhosTitulo) {
		nivel = len(tamanhosTitulo)
	}
	tamanho := tamanhosTitulo[nivel-1]

	pdf.SetFont(fontePadrao, "B", tamanho)
	pdf.Ln(tamanho * 0.12)
	pdf.MultiCell(largura, tamanho*0.42, tr(elem.Texto), "", alinhamento(elem), false)
	pdf.Ln(tamanho * 0.1)
	pdf.SetFont(fontePadrao, "", tamanhoPadrao)
}

func (r *Renderizador) paragrafo(pdf *gofpdf.Fpdf, tr func(string) string, elem compose.Elemento, largura float64) {
	pdf.SetFont(fontePadrao, "", tamanhoPadrao)
	pdf.MultiCell(largura, 4.6, tr(elem.Texto), "", alinhamento(elem), false)
	pdf.Ln(2)
}

// campos desenha linhas rótulo/valor com o rótulo em negrito.
func (r *Renderizador) campos(pdf *gofpdf.Fpdf, tr func(string) string, campos []compose.Campo, largura float64) {
	for _, campo := range campos {
		rotulo := tr(campo.Rotulo + ": ")
		pdf.SetFont(fontePadrao, "B", tamanhoPadrao-1)
		larguraRotulo := pdf.GetStringWidth(rotulo)
		pdf.CellFormat(larguraRotulo, 4.8, rotulo, "", 0, "L", false, 0, "")

		pdf.SetFont(fontePadrao, "", tamanhoPadrao-1)
		valor := campo.Valor
		if strings.TrimSpace(valor) == "" {
			valor = "-"
		}
		pdf.MultiCell(largura-larguraRotulo, 4.8, tr(valor), "", "L", false)
	}
	pdf.SetFont(fontePadrao, "", tamanhoPadrao)
}

// colunas desenha blocos lado a lado, cada coluna com a mesma largura,
// deslocando as margens e restaurando-as ao final. A altura final é a da
// coluna mais longa.
func (r *Renderizador) colunas(pdf *gofpdf.Fpdf, tr func(string) string, pag *compose.Pagina, elem compose.Elemento, imagens map[string][]byte) error {
	n := len(elem.Colunas)
	if n == 0 {
		return nil
	}

	esq, _, dir, _ := pdf.GetMargins()
	larguraPagina, _ := pdf.GetPageSize()
	total := larguraPagina - esq - dir
	vao := r.cfg.EspacoHorizontal
	larguraCol := (total - float64(n-1)*vao) / float64(n)

	yInicial := pdf.GetY()
	yFinal := yInicial

	for i, coluna := range elem.Colunas {
		x := esq + float64(i)*(larguraCol+vao)
		pdf.SetLeftMargin(x)
		pdf.SetRightMargin(larguraPagina - x - larguraCol)
		pdf.SetXY(x, yInicial)

		for _, sub := range coluna {
			if err := r.elemento(pdf, tr, pag, sub, larguraCol, imagens); err != nil {
				return err
			}
		}
		if y := pdf.GetY(); y > yFinal {
			yFinal = y
		}
	}

	pdf.SetLeftMargin(esq)
	pdf.SetRightMargin(dir)
	pdf.SetXY(esq, yFinal)
	pdf.Ln(2)
	return nil
}

// assinatura desenha um bloco de assinatura: a linha, o papel do
// signatário e as linhas de identificação.
func (r *Renderizador) assinatura(pdf *gofpdf.Fpdf, tr func(string) string, bloco *compose.BlocoAssinatura, largura float64) {
	if bloco == nil {
		return
	}

	pdf.Ln(12)
	x := pdf.GetX()
	y := pdf.GetY()
	larguraLinha := largura * 0.55
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.3)
	pdf.Line(x, y, x+larguraLinha, y)
	pdf.Ln(1.5)

	pdf.SetFont(fontePadrao, "B", 9)
	pdf.CellFormat(larguraLinha, 4.2, tr(bloco.Papel), "", 1, "L", false, 0, "")

	campos := []compose.Campo{bloco.Nome}
	if bloco.Assinatura.Rotulo != "" {
		campos = append(campos, bloco.Assinatura)
	}
	if bloco.Documento.Rotulo != "" {
		campos = append(campos, bloco.Documento)
	}
	r.campos(pdf, tr, campos, largura)
}

func (r *Renderizador) rodape(pdf *gofpdf.Fpdf, tr func(string) string, numero int) {
	_, alturaPagina := pdf.GetPageSize()
	pdf.SetY(alturaPagina - 9)
	pdf.SetFont(fontePadrao, "I", 7.5)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(larguraConteudo(pdf), 4, tr(fmt.Sprintf("Página %d", numero)), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(fontePadrao, "", tamanhoPadrao)
}

func larguraConteudo(pdf *gofpdf.Fpdf) float64 {
	esq, _, dir, _ := pdf.GetMargins()
	largura, _ := pdf.GetPageSize()
	return largura - esq - dir
}

func alinhamento(elem compose.Elemento) string {
	if elem.Alinhamento == "" {
		return "L"
	}
	return strings.ToUpper(elem.Alinhamento)
}

// nomeImagem gera um nome de registro estável por conteúdo de célula
// dentro do documento.
func nomeImagem(prefixo, chave string) string {
	return prefixo + "-" + chave
}
