package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// Dimensões A4 em pontos, usadas quando o MediaBox importado não informa
// tamanho.
const (
	a4LarguraPt = 595.28
	a4AlturaPt  = 841.89
)

// Mesclar combina PDFs de página única (as exportações individuais de
// página) em um único documento, importando cada página como template. É o
// caminho de montagem usado quando as páginas foram exportadas de forma
// independente; a exportação de documento completo desenha direto no
// mesmo documento e não passa por aqui.
func Mesclar(w io.Writer, paginas ...[]byte) error {
	if len(paginas) == 0 {
		return fmt.Errorf("export: nenhuma página para mesclar")
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, dados := range paginas {
		if err := anexarPagina(pdf, dados); err != nil {
			return fmt.Errorf("export: mesclando página %d: %w", i+1, err)
		}
	}

	if pdf.Err() {
		return fmt.Errorf("export: mesclando: %w", pdf.Error())
	}
	return pdf.Output(w)
}

// anexarPagina importa a primeira página do PDF dado para o documento de
// saída, preservando o tamanho do MediaBox.
func anexarPagina(pdf *gofpdf.Fpdf, dados []byte) error {
	imp := gofpdi.NewImporter()

	var rs io.ReadSeeker = bytes.NewReader(dados)
	tplID := imp.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")

	w, h := tamanhoImportado(imp, 1)
	if w == 0 || h == 0 {
		w = a4LarguraPt
		h = a4AlturaPt
	}

	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
	imp.UseImportedTemplate(pdf, tplID, 0, 0, w, h)
	return pdf.Error()
}

func tamanhoImportado(imp *gofpdi.Importer, pagina int) (w, h float64) {
	tamanhos := imp.GetPageSizes()
	if dims, ok := tamanhos[pagina]; ok {
		if mb, ok := dims["/MediaBox"]; ok {
			w = mb["w"]
			h = mb["h"]
		}
	}
	return
}
