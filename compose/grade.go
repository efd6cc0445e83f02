package compose

import (
	"strings"

	laudopdf "github.com/vistoriapro/laudopdf"
)

// ColunasGrade é a largura fixa da grade de imagens.
const ColunasGrade = 3

// NovaGradeImagens constrói uma página de grade a partir de um lote de
// imagens e do mapa de URLs assinadas resolvido para o lote. Uma chave
// ausente do mapa vira uma célula placeholder — a resolução parcial de um
// lote nunca falha a página inteira.
func NovaGradeImagens(imagens []laudopdf.Imagem, urls map[string]string) Pagina {
	celulas := make([]Celula, 0, len(imagens))
	for _, img := range imagens {
		url, ok := urls[img.ChaveArquivo]
		celulas = append(celulas, Celula{
			ImagemID: img.ID,
			Chave:    img.ChaveArquivo,
			URL:      url,
			Rotulo:   strings.ToUpper(laudopdf.SemPrefixoNumerico(img.AmbienteNome)),
			Legenda:  img.LegendaExibicao(),
			Avaria:   img.Categoria == laudopdf.CategoriaAvaria,
			Ausente:  !ok || url == "",
		})
	}

	return Pagina{
		Tipo:      PaginaGrade,
		Elementos: []Elemento{{Tipo: ElemGrade, Celulas: celulas}},
	}
}
