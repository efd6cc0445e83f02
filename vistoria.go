package laudopdf

// Vistoria é o questionário dinâmico do laudo: um registro de seções
// conhecidas mais um mapa legado de chaves avulsas ("dadosExtra"). A
// estrutura é somente leitura para o compositor; a reconciliação entre os
// dois formatos acontece uma única vez no carregamento (ver compose).
type Vistoria struct {
	// Secoes é o registro de seções disponíveis, na ordem de exibição.
	Secoes []Secao `json:"availableSections"`

	// Dados guarda o valor respondido de cada seção conhecida, indexado
	// pela chave de dados da seção. O valor pode ser uma string simples
	// (seção de resposta única) ou um map[string]any indexado por id de
	// pergunta, texto de pergunta ou chave de campo.
	Dados map[string]any `json:"dados"`

	// DadosExtra é o formato legado: seções avulsas cujo nome não consta
	// no registro, com o mesmo formato de valor de Dados.
	DadosExtra map[string]any `json:"dadosExtra"`
}

// Secao é uma seção conhecida do questionário.
type Secao struct {
	ID         string     `json:"id"`
	Nome       string     `json:"nome"`
	ChaveDados string     `json:"chaveDados"`
	Perguntas  []Pergunta `json:"perguntas"`
}

// Pergunta é uma pergunta de uma seção, opcionalmente com opções
// enumeradas.
type Pergunta struct {
	ID         string  `json:"id"`
	Texto      string  `json:"texto"`
	ChaveCampo string  `json:"chaveCampo,omitempty"`
	Opcoes     []Opcao `json:"opcoes,omitempty"`
}

// Opcao é uma resposta enumerada de uma pergunta.
type Opcao struct {
	ID    string `json:"id"`
	Texto string `json:"texto"`
}
