package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// LarguraMaximaPixels limita a largura das imagens embutidas no PDF. Fotos
// de vistoria chegam na resolução da câmera; reduzir antes de embutir
// mantém a fidelidade de impressão da célula sem inflar o documento.
const LarguraMaximaPixels = 1200

// AjustarImagem reduz a imagem para no máximo maxLargura pixels de
// largura, preservando a proporção, e a reserializa como JPEG. Imagens já
// dentro do limite retornam inalteradas.
func AjustarImagem(dados []byte, maxLargura int) ([]byte, error) {
	if maxLargura <= 0 {
		maxLargura = LarguraMaximaPixels
	}

	origem, _, err := image.Decode(bytes.NewReader(dados))
	if err != nil {
		return nil, fmt.Errorf("render: decodificando imagem: %w", err)
	}

	limites := origem.Bounds()
	if limites.Dx() <= maxLargura {
		return dados, nil
	}

	altura := limites.Dy() * maxLargura / limites.Dx()
	destino := image.NewRGBA(image.Rect(0, 0, maxLargura, altura))
	draw.ApproxBiLinear.Scale(destino, destino.Bounds(), origem, limites, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, destino, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("render: reserializando imagem: %w", err)
	}
	return buf.Bytes(), nil
}
