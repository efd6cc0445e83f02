package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/vistoriapro/laudopdf/compose"
)

// grade desenha a grade fixa de 3 colunas de uma página de imagens, com os
// vãos e a margem vindos da preferência de layout do usuário. Células com
// URL não resolvida ou bytes ausentes viram placeholder; imagens AVARIA
// recebem borda de destaque.
func (r *Renderizador) grade(pdf *gofpdf.Fpdf, tr func(string) string, celulas []compose.Celula, imagens map[string][]byte) error {
	larguraPagina, alturaPagina := pdf.GetPageSize()
	margem := r.cfg.MargemPagina
	vaoH := r.cfg.EspacoHorizontal
	vaoV := r.cfg.EspacoVertical

	colunas := compose.ColunasGrade
	linhas := int(math.Ceil(float64(len(celulas)) / float64(colunas)))
	if linhas < 1 {
		return nil
	}
	// A grade dimensiona pelas linhas do lote cheio, para que lotes
	// parciais mantenham o mesmo tamanho de célula.
	linhasLote := (r.cfg.TamanhoLote + colunas - 1) / colunas
	if linhasLote < 1 {
		linhasLote = 1
	}

	larguraCelula := (larguraPagina - 2*margem - float64(colunas-1)*vaoH) / float64(colunas)
	alturaCelula := (alturaPagina - 2*margem - 12 - float64(linhasLote-1)*vaoV) / float64(linhasLote)
	alturaRotulos := 11.0
	alturaImagem := alturaCelula - alturaRotulos

	for i, cel := range celulas {
		coluna := i % colunas
		linha := i / colunas
		x := margem + float64(coluna)*(larguraCelula+vaoH)
		y := margem + float64(linha)*(alturaCelula+vaoV)

		if err := r.celula(pdf, tr, cel, imagens[cel.URL], x, y, larguraCelula, alturaImagem); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderizador) celula(pdf *gofpdf.Fpdf, tr func(string) string, cel compose.Celula, dados []byte, x, y, largura, alturaImagem float64) error {
	if cel.Ausente || len(dados) == 0 {
		r.placeholder(pdf, tr, x, y, largura, alturaImagem)
	} else {
		if err := r.imagemCelula(pdf, cel, dados, x, y, largura, alturaImagem); err != nil {
			// Bytes corrompidos degradam para placeholder, nunca para
			// uma página quebrada.
			r.placeholder(pdf, tr, x, y, largura, alturaImagem)
		}
	}

	if cel.Avaria {
		pdf.SetDrawColor(188, 32, 32)
		pdf.SetLineWidth(0.9)
		pdf.Rect(x, y, largura, alturaImagem, "D")
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.2)
	}

	yTexto := y + alturaImagem + 1
	pdf.SetXY(x, yTexto)
	pdf.SetFont(fontePadrao, "B", 7.5)
	pdf.CellFormat(largura, 3.4, tr(cel.Rotulo), "", 2, "L", false, 0, "")
	pdf.SetFont(fontePadrao, "", 7)
	pdf.SetX(x)
	pdf.MultiCell(largura, 3, tr(cel.Legenda), "", "L", false)
	pdf.SetFont(fontePadrao, "", tamanhoPadrao)
	return nil
}

// imagemCelula registra os bytes e desenha a imagem contida na caixa da
// célula, preservando a proporção.
func (r *Renderizador) imagemCelula(pdf *gofpdf.Fpdf, cel compose.Celula, dados []byte, x, y, largura, altura float64) error {
	tipo := tipoImagem(dados)
	if tipo == "" {
		return fmt.Errorf("render: formato de imagem não reconhecido para %s", cel.Chave)
	}

	nome := nomeImagem("celula", cel.Chave)
	info := pdf.RegisterImageOptionsReader(nome, gofpdf.ImageOptions{ImageType: tipo}, bytes.NewReader(dados))
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		return err
	}

	intrinsecaW, intrinsecaH := info.Extent()
	if intrinsecaW <= 0 || intrinsecaH <= 0 {
		return fmt.Errorf("render: imagem %s sem dimensões", cel.Chave)
	}

	escala := math.Min(largura/intrinsecaW, altura/intrinsecaH)
	w := intrinsecaW * escala
	h := intrinsecaH * escala
	// Centraliza a imagem na caixa.
	dx := (largura - w) / 2
	dy := (altura - h) / 2

	pdf.ImageOptions(nome, x+dx, y+dy, w, h, false, gofpdf.ImageOptions{ImageType: tipo}, 0, "")
	return nil
}

// placeholder desenha a célula cinza de imagem indisponível.
func (r *Renderizador) placeholder(pdf *gofpdf.Fpdf, tr func(string) string, x, y, largura, altura float64) {
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(180, 180, 180)
	pdf.Rect(x, y, largura, altura, "FD")
	pdf.SetFont(fontePadrao, "I", 7.5)
	pdf.SetTextColor(110, 110, 110)
	pdf.SetXY(x, y+altura/2-2)
	pdf.CellFormat(largura, 4, tr("Imagem indisponível"), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFont(fontePadrao, "", tamanhoPadrao)
}

// tipoImagem detecta o formato pelos bytes iniciais.
func tipoImagem(dados []byte) string {
	switch {
	case len(dados) > 2 && dados[0] == 0xFF && dados[1] == 0xD8:
		return "JPG"
	case len(dados) > 8 && bytes.Equal(dados[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}):
		return "PNG"
	case len(dados) > 6 && (bytes.Equal(dados[:6], []byte("GIF87a")) || bytes.Equal(dados[:6], []byte("GIF89a"))):
		return "GIF"
	default:
		return ""
	}
}
