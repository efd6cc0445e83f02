package laudopdf

import (
	"errors"
	"fmt"
)

// Erros sentinela das condições de falha comuns da composição e exportação.
var (
	ErrPaginaInvalida    = errors.New("laudopdf: página fora do intervalo do documento")
	ErrTotalDesconhecido = errors.New("laudopdf: total de páginas ainda não resolvido")
	ErrLegendaLonga      = errors.New("laudopdf: legenda excede o limite de caracteres")
	ErrCampoDesconhecido = errors.New("laudopdf: campo de laudo não reconhecido")
	ErrImagemTimeout     = errors.New("laudopdf: tempo esgotado aguardando carregamento de imagem")
	ErrExportEmAndamento = errors.New("laudopdf: já existe uma exportação em andamento para a sessão")

	// ErrCancelado é o desfecho cooperativo de um cancelamento: distinto
	// tanto do sucesso quanto de um erro de carga de imagem.
	ErrCancelado = errors.New("laudopdf: exportação cancelada")
)

// ComposeError embrulha um erro ocorrido durante uma operação específica do
// compositor, carregando o nome da operação para contexto.
type ComposeError struct {
	Op  string // nome da operação, ex. "IrParaPagina", "ExportarDocumento"
	Err error
}

func (e *ComposeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("laudopdf.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("laudopdf.%s: erro desconhecido", e.Op)
}

func (e *ComposeError) Unwrap() error {
	return e.Err
}

// NovoComposeError cria um ComposeError com o contexto da operação.
func NovoComposeError(op string, err error) *ComposeError {
	return &ComposeError{Op: op, Err: err}
}
