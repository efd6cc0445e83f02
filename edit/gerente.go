package edit

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"

	laudopdf "github.com/vistoriapro/laudopdf"
)

// Persistencia são as chamadas externas de gravação. Os dois protocolos de
// edição são distintos e não devem ser unificados: os campos do laudo
// seguem em uma única atualização parcial em lote; cada legenda de imagem
// persiste sozinha, imediatamente ao confirmar.
type Persistencia interface {
	AtualizarCampos(ctx context.Context, laudoID uuid.UUID, campos map[string]string) error
	AtualizarLegenda(ctx context.Context, imagemID uuid.UUID, legenda string) error
}

// sessaoCampo é o estado de edição de um único campo ou legenda.
type sessaoCampo struct {
	original string
	emEdicao bool
	sujo     bool

	// semOriginal marca sessões abertas sem o valor corrente em mãos:
	// sem original para comparar, qualquer valor definido fica pendente.
	semOriginal bool
}

// Gerente coordena as sessões de edição de um laudo. Cada campo tem flag
// de sujeira própria; confirmar um campo não toca nos demais pendentes.
type Gerente struct {
	persist  Persistencia
	laudo    *laudopdf.Laudo
	campos   map[string]*sessaoCampo
	legendas map[uuid.UUID]*sessaoCampo
	imagens  map[uuid.UUID]*laudopdf.Imagem
}

// NovoGerente cria o gerente de edição sobre o laudo em memória da sessão.
func NovoGerente(persist Persistencia, laudo *laudopdf.Laudo) *Gerente {
	return &Gerente{
		persist:  persist,
		laudo:    laudo,
		campos:   make(map[string]*sessaoCampo),
		legendas: make(map[uuid.UUID]*sessaoCampo),
		imagens:  make(map[uuid.UUID]*laudopdf.Imagem),
	}
}

// Iniciar abre a edição de um campo do laudo, fotografando o valor
// original para um eventual cancelamento.
func (g *Gerente) Iniciar(campo string) error {
	ac, ok := camposLaudo[campo]
	if !ok {
		return laudopdf.NovoComposeError("Iniciar", laudopdf.ErrCampoDesconhecido)
	}
	if s, aberto := g.campos[campo]; aberto && s.emEdicao {
		return nil
	}
	g.campos[campo] = &sessaoCampo{original: ac.ler(g.laudo), emEdicao: true}
	return nil
}

// Definir aplica otimisticamente o valor pendente ao laudo em memória e
// marca o campo como sujo. A edição precisa ter sido iniciada.
func (g *Gerente) Definir(campo, valor string) error {
	s, ok := g.campos[campo]
	if !ok || !s.emEdicao {
		return laudopdf.NovoComposeError("Definir", laudopdf.ErrCampoDesconhecido)
	}
	camposLaudo[campo].escrever(g.laudo, valor)
	s.sujo = valor != s.original
	return nil
}

// Cancelar devolve ao laudo o valor fotografado na abertura da edição e
// descarta o estado pendente.
func (g *Gerente) Cancelar(campo string) error {
	s, ok := g.campos[campo]
	if !ok {
		return laudopdf.NovoComposeError("Cancelar", laudopdf.ErrCampoDesconhecido)
	}
	camposLaudo[campo].escrever(g.laudo, s.original)
	delete(g.campos, campo)
	return nil
}

// Confirmar persiste um único campo. Em caso de sucesso apenas a flag
// daquele campo é limpa; os demais pendentes seguem não confirmados. Em
// falha a flag é preservada e o valor anterior não é restaurado — o usuário
// decide entre repetir ou cancelar.
func (g *Gerente) Confirmar(ctx context.Context, campo string) error {
	s, ok := g.campos[campo]
	if !ok {
		return laudopdf.NovoComposeError("Confirmar", laudopdf.ErrCampoDesconhecido)
	}
	if !s.sujo {
		delete(g.campos, campo)
		return nil
	}

	valor := camposLaudo[campo].ler(g.laudo)
	if err := g.persist.AtualizarCampos(ctx, g.laudo.ID, map[string]string{campo: valor}); err != nil {
		return fmt.Errorf("edit: confirmando campo %q: %w", campo, err)
	}
	delete(g.campos, campo)
	return nil
}

// ConfirmarTudo agrupa todos os campos sujos em uma única atualização
// parcial. Em falha, todos permanecem sujos.
func (g *Gerente) ConfirmarTudo(ctx context.Context) error {
	pendentes := make(map[string]string)
	for campo, s := range g.campos {
		if s.sujo {
			pendentes[campo] = camposLaudo[campo].ler(g.laudo)
		}
	}
	if len(pendentes) == 0 {
		return nil
	}

	if err := g.persist.AtualizarCampos(ctx, g.laudo.ID, pendentes); err != nil {
		return fmt.Errorf("edit: confirmando %d campos: %w", len(pendentes), err)
	}
	for campo := range pendentes {
		delete(g.campos, campo)
	}
	return nil
}

// Sujos lista, em ordem estável, os campos com edição pendente.
func (g *Gerente) Sujos() []string {
	var nomes []string
	for campo, s := range g.campos {
		if s.sujo {
			nomes = append(nomes, campo)
		}
	}
	sort.Strings(nomes)
	return nomes
}

// IniciarLegenda abre a edição da legenda de uma imagem.
func (g *Gerente) IniciarLegenda(img *laudopdf.Imagem) {
	if s, aberto := g.legendas[img.ID]; aberto && s.emEdicao {
		return
	}
	g.legendas[img.ID] = &sessaoCampo{original: img.Legenda, emEdicao: true}
	g.imagens[img.ID] = img
}

// IniciarLegendaRemota abre a edição da legenda de uma imagem cujo valor
// corrente o chamador não carrega — o caso da borda HTTP, que recebe só o
// identificador e o texto novo.
func (g *Gerente) IniciarLegendaRemota(id uuid.UUID) {
	if s, aberto := g.legendas[id]; aberto && s.emEdicao {
		return
	}
	g.legendas[id] = &sessaoCampo{emEdicao: true, semOriginal: true}
	g.imagens[id] = &laudopdf.Imagem{ID: id}
}

// DefinirLegenda aplica otimisticamente o texto pendente à imagem.
func (g *Gerente) DefinirLegenda(id uuid.UUID, texto string) error {
	s, ok := g.legendas[id]
	if !ok || !s.emEdicao {
		return laudopdf.NovoComposeError("DefinirLegenda", laudopdf.ErrCampoDesconhecido)
	}
	g.imagens[id].Legenda = texto
	s.sujo = s.semOriginal || texto != s.original
	return nil
}

// CancelarLegenda restaura a legenda fotografada na abertura.
func (g *Gerente) CancelarLegenda(id uuid.UUID) error {
	s, ok := g.legendas[id]
	if !ok {
		return laudopdf.NovoComposeError("CancelarLegenda", laudopdf.ErrCampoDesconhecido)
	}
	g.imagens[id].Legenda = s.original
	delete(g.legendas, id)
	delete(g.imagens, id)
	return nil
}

// ConfirmarLegenda persiste imediatamente a legenda de uma única imagem —
// o protocolo de confirmação ao sair do campo. O limite de caracteres é
// imposto aqui, na fronteira de edição, antes de qualquer persistência;
// exatamente MaxLegenda caracteres é aceito.
func (g *Gerente) ConfirmarLegenda(ctx context.Context, id uuid.UUID) error {
	s, ok := g.legendas[id]
	if !ok {
		return laudopdf.NovoComposeError("ConfirmarLegenda", laudopdf.ErrCampoDesconhecido)
	}
	img := g.imagens[id]

	if utf8.RuneCountInString(img.Legenda) > laudopdf.MaxLegenda {
		return laudopdf.NovoComposeError("ConfirmarLegenda", laudopdf.ErrLegendaLonga)
	}
	if !s.sujo {
		delete(g.legendas, id)
		delete(g.imagens, id)
		return nil
	}

	if err := g.persist.AtualizarLegenda(ctx, id, img.Legenda); err != nil {
		return fmt.Errorf("edit: confirmando legenda da imagem %s: %w", id, err)
	}
	delete(g.legendas, id)
	delete(g.imagens, id)
	return nil
}
