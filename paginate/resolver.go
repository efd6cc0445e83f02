// Package paginate orquestra a navegação do documento: resolve a numeração
// de página do documento para a numeração de página do backend, busca e
// cacheia lotes de imagens e acompanha o total de páginas conforme as
// páginas especiais são intercaladas.
package paginate

import "github.com/vistoriapro/laudopdf/compose"

// TotalDesconhecido marca o total de páginas do documento antes da primeira
// resposta de lote do backend (a página 1 é capa e não exige chamada, mas o
// total só se resolve na primeira busca de grade).
const TotalDesconhecido = 0

// Destino é o resultado da resolução de uma página do documento: ou uma
// página especial, ou o número de página do backend de imagens.
type Destino struct {
	Especial compose.TipoPagina // vazio quando é página de grade
	Backend  int                // 1-based; válido apenas quando Especial == ""
}

// EhEspecial informa se o destino é uma página especial.
func (d Destino) EhEspecial() bool { return d.Especial != "" }

// Resolver mapeia a página pagina do documento (1-based) para o seu
// destino. Com páginas especiais habilitadas, as duas primeiras páginas são
// capa e termos, as duas últimas relatório e assinaturas, e as demais
// compensam o prefixo de duas páginas (backend = pagina - 2).
//
// Enquanto total == TotalDesconhecido o documento é tratado como ilimitado:
// apenas capa e termos são detectáveis e a detecção de relatório e
// assinaturas fica adiada até a primeira resposta do backend.
func Resolver(pagina int, especiais bool, total int) Destino {
	if !especiais {
		return Destino{Backend: pagina}
	}

	switch {
	case pagina == 1:
		return Destino{Especial: compose.PaginaCapa}
	case pagina == 2:
		return Destino{Especial: compose.PaginaTermos}
	case total > TotalDesconhecido && pagina == total-1:
		return Destino{Especial: compose.PaginaRelatorio}
	case total > TotalDesconhecido && pagina == total:
		return Destino{Especial: compose.PaginaAssinaturas}
	default:
		return Destino{Backend: pagina - 2}
	}
}

// TotalDocumento calcula o total de páginas do documento a partir do total
// de páginas de grade reportado pelo backend: G+4 com páginas especiais,
// G sem.
func TotalDocumento(totalGrade int, especiais bool) int {
	if especiais {
		return totalGrade + 4
	}
	return totalGrade
}
