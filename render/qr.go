package render

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"

	"github.com/vistoriapro/laudopdf/compose"
)

// ladoQR é o lado do bloco de QR da página de relatório, em milímetros.
const ladoQR = 26.0

// codigoQR desenha o bloco "baixe as fotos": o código QR com a URL da
// galeria e o rótulo ao lado.
func (r *Renderizador) codigoQR(pdf *gofpdf.Fpdf, tr func(string) string, elem compose.Elemento) error {
	if elem.Conteudo == "" {
		return nil
	}

	codigo, err := qr.Encode(elem.Conteudo, qr.M, qr.Auto)
	if err != nil {
		return fmt.Errorf("render: codificando QR: %w", err)
	}
	codigo, err = barcode.Scale(codigo, 256, 256)
	if err != nil {
		return fmt.Errorf("render: escalando QR: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, codigo); err != nil {
		return fmt.Errorf("render: serializando QR: %w", err)
	}

	x := pdf.GetX()
	y := pdf.GetY()
	nome := nomeImagem("qr", elem.Conteudo)
	pdf.RegisterImageOptionsReader(nome, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	pdf.ImageOptions(nome, x, y, ladoQR, ladoQR, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetXY(x+ladoQR+4, y+ladoQR/2-5)
	pdf.SetFont(fontePadrao, "B", 10)
	pdf.CellFormat(larguraConteudo(pdf)-ladoQR-4, 5, tr(elem.Texto), "", 2, "L", false, 0, "")
	pdf.SetFont(fontePadrao, "", 8)
	pdf.SetX(x + ladoQR + 4)
	pdf.CellFormat(larguraConteudo(pdf)-ladoQR-4, 4, tr(elem.Conteudo), "", 1, "L", false, 0, "")

	pdf.SetXY(x, y+ladoQR+3)
	pdf.SetFont(fontePadrao, "", tamanhoPadrao)
	return nil
}
