package compose

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	laudopdf "github.com/vistoriapro/laudopdf"
)

// chavesCampoPorSecao é a tabela estática seção→campos: para cada seção
// conhecida (nome normalizado), a ordem das chaves de campo usadas na
// resolução de respostas por índice de pergunta.
var chavesCampoPorSecao = map[string][]string{
	"atestado":               {"localData", "observacoes"},
	"chaves":                 {"quantidade", "descricao"},
	"medidores":              {"agua", "energia", "gas"},
	"mobilia":                {"estado", "observacoes"},
	"pintura":                {"estado", "cor"},
	"limpeza":                {"estado"},
	"instalacoeseletricas":   {"estado", "observacoes"},
	"instalacoeshidraulicas": {"estado", "observacoes"},
}

// Normalizar remove acentos e diacríticos, converte para minúsculas e
// elimina espaços em branco. É a igualdade usada na reconciliação entre o
// registro de seções e as chaves legadas de dadosExtra.
// Exemplo: "Instalações Elétricas" -> "instalacoeseletricas".
func Normalizar(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalizado, _, _ := transform.String(t, s)
	normalizado = strings.ToLower(normalizado)
	return strings.Join(strings.Fields(normalizado), "")
}

// SecaoResolvida é o resultado da reconciliação: uma seção conhecida do
// registro (Conhecida=true, com perguntas e chaves de campo) ou uma chave
// legada avulsa de dadosExtra. A reconciliação acontece UMA vez no
// carregamento da vistoria; a renderização nunca re-normaliza nomes.
type SecaoResolvida struct {
	Nome        string
	Conhecida   bool
	ChaveDados  string
	Perguntas   []laudopdf.Pergunta
	ChavesCampo []string
	Valor       any
}

// ResolverSecoes reconcilia o registro de seções com o mapa legado. Uma
// seção presente nas duas formas aparece uma única vez (a forma do
// registro vence, herdando o valor que existir). Chaves extras são
// ordenadas alfabeticamente para manter a saída determinística.
func ResolverSecoes(v *laudopdf.Vistoria) []SecaoResolvida {
	if v == nil {
		return nil
	}

	resolvidas := make([]SecaoResolvida, 0, len(v.Secoes)+len(v.DadosExtra))
	vistas := make(map[string]bool, len(v.Secoes))

	for _, sec := range v.Secoes {
		nomeNorm := Normalizar(sec.Nome)
		vistas[nomeNorm] = true

		valor, ok := v.Dados[sec.ChaveDados]
		if !ok {
			// Formato legado: o valor pode estar em dadosExtra sob o
			// nome da seção.
			valor = valorExtra(v.DadosExtra, nomeNorm)
		}

		resolvidas = append(resolvidas, SecaoResolvida{
			Nome:        sec.Nome,
			Conhecida:   true,
			ChaveDados:  sec.ChaveDados,
			Perguntas:   sec.Perguntas,
			ChavesCampo: chavesCampoPorSecao[nomeNorm],
			Valor:       valor,
		})
	}

	extras := make([]string, 0, len(v.DadosExtra))
	for chave := range v.DadosExtra {
		if !vistas[Normalizar(chave)] {
			extras = append(extras, chave)
		}
	}
	sort.Strings(extras)

	for _, chave := range extras {
		resolvidas = append(resolvidas, SecaoResolvida{
			Nome:       chave,
			ChaveDados: chave,
			Valor:      v.DadosExtra[chave],
		})
	}

	return resolvidas
}

// valorExtra procura em dadosExtra um valor cuja chave normalizada case
// com o nome normalizado da seção.
func valorExtra(extra map[string]any, nomeNorm string) any {
	for chave, valor := range extra {
		if Normalizar(chave) == nomeNorm {
			return valor
		}
	}
	return nil
}

// Resposta resolve o valor exibido da pergunta de índice idx. A ordem de
// tentativa: chave de campo da tabela estática, valor string simples da
// seção, texto da pergunta e id da pergunta. Valores não resolvidos são
// exibidos como "-".
func (s SecaoResolvida) Resposta(idx int) string {
	mapa, _ := s.Valor.(map[string]any)

	if mapa != nil && idx < len(s.ChavesCampo) {
		if r, ok := mapa[s.ChavesCampo[idx]]; ok {
			return formatarValor(r)
		}
	}

	if texto, ok := s.Valor.(string); ok {
		if strings.TrimSpace(texto) != "" {
			return texto
		}
		return "-"
	}

	if mapa != nil && idx < len(s.Perguntas) {
		p := s.Perguntas[idx]
		if r, ok := mapa[p.Texto]; ok {
			return formatarValor(r)
		}
		if r, ok := mapa[p.ID]; ok {
			return formatarValor(r)
		}
	}

	return "-"
}

func chavesOrdenadas(m map[string]any) []string {
	chaves := make([]string, 0, len(m))
	for chave := range m {
		chaves = append(chaves, chave)
	}
	sort.Strings(chaves)
	return chaves
}

func formatarValor(v any) string {
	switch r := v.(type) {
	case nil:
		return "-"
	case string:
		if strings.TrimSpace(r) == "" {
			return "-"
		}
		return r
	case bool:
		if r {
			return "Sim"
		}
		return "Não"
	case float64:
		// Valores numéricos de JSON chegam como float64.
		if r == float64(int64(r)) {
			return fmt.Sprintf("%d", int64(r))
		}
		return fmt.Sprintf("%v", r)
	default:
		return fmt.Sprintf("%v", r)
	}
}
