package paginate

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	laudopdf "github.com/vistoriapro/laudopdf"
	"github.com/vistoriapro/laudopdf/compose"
)

// Estado da máquina de estados da sessão de documento.
type Estado string

const (
	Ocioso              Estado = "IDLE"
	CarregandoMetadados Estado = "LOADING_METADATA"
	Pronto              Estado = "READY"
	CarregandoPagina    Estado = "LOADING_PAGE"
)

// LoteImagens é a resposta paginada da busca de imagens do backend.
type LoteImagens struct {
	Imagens      []laudopdf.Imagem
	TotalPaginas int
	TotalImagens int
}

// Fonte reúne os colaboradores externos de leitura que a sessão consome.
// As implementações reais vivem no pacote client; os testes usam dublês.
type Fonte interface {
	Laudo(ctx context.Context, id uuid.UUID) (*laudopdf.Laudo, error)
	Vistoria(ctx context.Context, id uuid.UUID) (*laudopdf.Vistoria, error)
	Ambientes(ctx context.Context, id uuid.UUID, pagina, tamanho int) ([]laudopdf.Ambiente, int, error)
	LoteImagens(ctx context.Context, id uuid.UUID, pagina, tamanho int) (*LoteImagens, error)
	ResolverURLs(ctx context.Context, chaves []string) (map[string]string, error)
}

// Sessao é uma sessão de composição de um único laudo. O cache de páginas
// nunca expira dentro da sessão; só é limpo por Recarregar. A sessão segue
// o modelo cooperativo de thread única do visualizador: não é segura para
// uso concorrente por múltiplas goroutines.
type Sessao struct {
	fonte      Fonte
	cfg        laudopdf.Config
	laudoID    uuid.UUID
	urlGaleria string

	estado    Estado
	laudo     *laudopdf.Laudo
	vistoria  *laudopdf.Vistoria
	secoes    []compose.SecaoResolvida
	ambientes []laudopdf.Ambiente
	especiais bool

	paginaAtual int
	totalDoc    int // TotalDesconhecido até a primeira resposta de lote
	totalGrade  int
	cache       map[int]*compose.Pagina
}

// NovaSessao cria uma sessão ociosa para o laudo informado. urlGaleria é o
// endereço codificado no bloco QR da página de relatório.
func NovaSessao(fonte Fonte, laudoID uuid.UUID, urlGaleria string, opts ...laudopdf.Option) *Sessao {
	return &Sessao{
		fonte:      fonte,
		cfg:        laudopdf.NovaConfig(opts...),
		laudoID:    laudoID,
		urlGaleria: urlGaleria,
		estado:     Ocioso,
		cache:      make(map[int]*compose.Pagina),
	}
}

// Carregar executa a transição IDLE → LOADING_METADATA → READY: busca o
// laudo, o questionário e a lista completa de ambientes, decide a política
// de páginas especiais e reconcilia as seções uma única vez.
func (s *Sessao) Carregar(ctx context.Context) error {
	s.estado = CarregandoMetadados

	laudo, err := s.fonte.Laudo(ctx, s.laudoID)
	if err != nil {
		s.estado = Ocioso
		return fmt.Errorf("paginate: carregando laudo: %w", err)
	}

	vistoria, err := s.fonte.Vistoria(ctx, s.laudoID)
	if err != nil {
		s.estado = Ocioso
		return fmt.Errorf("paginate: carregando vistoria: %w", err)
	}

	ambientes, err := s.carregarAmbientes(ctx)
	if err != nil {
		s.estado = Ocioso
		return fmt.Errorf("paginate: carregando ambientes: %w", err)
	}

	s.laudo = laudo
	s.vistoria = vistoria
	s.secoes = compose.ResolverSecoes(vistoria)
	s.ambientes = ambientes
	s.especiais = s.cfg.Politica(laudo)
	s.paginaAtual = 1
	s.totalDoc = TotalDesconhecido
	s.totalGrade = 0
	s.cache = make(map[int]*compose.Pagina)
	s.estado = Pronto
	return nil
}

// carregarAmbientes consome a busca paginada de ambientes até esgotar.
func (s *Sessao) carregarAmbientes(ctx context.Context) ([]laudopdf.Ambiente, error) {
	var todos []laudopdf.Ambiente
	for pagina := 1; ; pagina++ {
		lote, totalPaginas, err := s.fonte.Ambientes(ctx, s.laudoID, pagina, 100)
		if err != nil {
			return nil, err
		}
		todos = append(todos, lote...)
		if pagina >= totalPaginas || len(lote) == 0 {
			return todos, nil
		}
	}
}

// IrParaPagina navega para a página n do documento, servindo do cache ou
// despachando a busca do lote correspondente. Navegações concorrentes não
// são serializadas: a última busca a resolver vence a posição do cache
// (last-write-wins), política herdada do visualizador original. Em erro de
// busca a sessão permanece Pronto na página anterior.
func (s *Sessao) IrParaPagina(ctx context.Context, n int) (*compose.Pagina, error) {
	if s.estado == Ocioso || s.estado == CarregandoMetadados {
		return nil, laudopdf.NovoComposeError("IrParaPagina", laudopdf.ErrTotalDesconhecido)
	}
	if n < 1 || (s.totalDoc > TotalDesconhecido && n > s.totalDoc) {
		return nil, laudopdf.NovoComposeError("IrParaPagina", laudopdf.ErrPaginaInvalida)
	}

	if pag, ok := s.cache[n]; ok {
		s.paginaAtual = n
		return pag, nil
	}

	destino := Resolver(n, s.especiais, s.totalDoc)
	if destino.EhEspecial() {
		pag := s.construirEspecial(destino.Especial)
		pag.Numero = n
		s.cache[n] = &pag
		s.paginaAtual = n
		return &pag, nil
	}

	s.estado = CarregandoPagina
	pag, err := s.carregarGrade(ctx, n, destino.Backend)
	s.estado = Pronto
	if err != nil {
		return nil, err
	}

	s.cache[n] = pag
	s.paginaAtual = n
	return pag, nil
}

// carregarGrade busca o lote da página backend, adota o total do documento
// a partir da primeira resposta e monta a página de grade. Se o total
// recém-adotado revelar que n é na verdade relatório ou assinaturas (a
// detecção adiada do início da sessão), constrói a página especial.
func (s *Sessao) carregarGrade(ctx context.Context, n, backend int) (*compose.Pagina, error) {
	lote, err := s.fonte.LoteImagens(ctx, s.laudoID, backend, s.cfg.TamanhoLote)
	if err != nil {
		return nil, fmt.Errorf("paginate: buscando lote %d: %w", backend, err)
	}

	s.totalGrade = lote.TotalPaginas
	s.totalDoc = TotalDocumento(lote.TotalPaginas, s.especiais)

	destino := Resolver(n, s.especiais, s.totalDoc)
	if destino.EhEspecial() {
		pag := s.construirEspecial(destino.Especial)
		pag.Numero = n
		return &pag, nil
	}
	if n > s.totalDoc || destino.Backend > s.totalGrade {
		return nil, laudopdf.NovoComposeError("IrParaPagina", laudopdf.ErrPaginaInvalida)
	}

	chaves := make([]string, 0, len(lote.Imagens))
	for _, img := range lote.Imagens {
		chaves = append(chaves, img.ChaveArquivo)
	}
	urls, err := s.fonte.ResolverURLs(ctx, chaves)
	if err != nil {
		return nil, fmt.Errorf("paginate: resolvendo URLs do lote %d: %w", backend, err)
	}

	pag := compose.NovaGradeImagens(lote.Imagens, urls)
	pag.Numero = n
	return &pag, nil
}

func (s *Sessao) construirEspecial(tipo compose.TipoPagina) compose.Pagina {
	switch tipo {
	case compose.PaginaCapa:
		return compose.NovaCapa(s.laudo)
	case compose.PaginaTermos:
		return compose.NovosTermos(s.laudo, s.ambientes)
	case compose.PaginaRelatorio:
		return compose.NovoRelatorio(s.laudo, s.secoes, s.urlGaleria)
	default:
		return compose.NovasAssinaturas(s.laudo)
	}
}

// Estado devolve o estado corrente da máquina da sessão.
func (s *Sessao) EstadoAtual() Estado { return s.estado }

// PaginaAtual devolve o número da última página navegada com sucesso.
func (s *Sessao) PaginaAtual() int { return s.paginaAtual }

// TotalPaginas devolve o total de páginas do documento e se ele já foi
// resolvido pela primeira resposta do backend.
func (s *Sessao) TotalPaginas() (int, bool) {
	return s.totalDoc, s.totalDoc > TotalDesconhecido
}

// PaginasEspeciais informa a decisão da política para esta sessão.
func (s *Sessao) PaginasEspeciais() bool { return s.especiais }

// Laudo devolve o laudo carregado na sessão.
func (s *Sessao) Laudo() *laudopdf.Laudo { return s.laudo }

// Config devolve a configuração de composição da sessão.
func (s *Sessao) Config() laudopdf.Config { return s.cfg }

// InvalidarPagina remove uma página do cache — usada após a persistência de
// uma legenda para que a próxima navegação recomponha a grade.
func (s *Sessao) InvalidarPagina(n int) {
	delete(s.cache, n)
}

// Recarregar limpa o cache e recarrega os metadados, único mecanismo de
// invalidação total dentro de uma sessão.
func (s *Sessao) Recarregar(ctx context.Context) error {
	s.estado = Ocioso
	return s.Carregar(ctx)
}
