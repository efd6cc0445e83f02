// Package edit administra a edição em linha do conteúdo gerado: legendas
// de imagem e os campos nomeados do laudo. Cada campo carrega seu próprio
// estado sujo e persiste de forma independente; o valor original é
// fotografado no início da edição (nunca reconstruído do cache, que pode
// já refletir uma atualização otimista).
package edit

import laudopdf "github.com/vistoriapro/laudopdf"

// acessor lê e escreve um campo editável do laudo pelo nome.
type acessor struct {
	ler      func(*laudopdf.Laudo) string
	escrever func(*laudopdf.Laudo, string)
}

// camposLaudo enumera os campos do laudo editáveis por este subsistema.
var camposLaudo = map[string]acessor{
	"endereco": {
		func(l *laudopdf.Laudo) string { return l.Endereco },
		func(l *laudopdf.Laudo, v string) { l.Endereco = v },
	},
	"cep": {
		func(l *laudopdf.Laudo) string { return l.CEP },
		func(l *laudopdf.Laudo, v string) { l.CEP = v },
	},
	"cidade": {
		func(l *laudopdf.Laudo) string { return l.Cidade },
		func(l *laudopdf.Laudo, v string) { l.Cidade = v },
	},
	"tipoImovel": {
		func(l *laudopdf.Laudo) string { return l.TipoImovel },
		func(l *laudopdf.Laudo, v string) { l.TipoImovel = v },
	},
	"tipoUso": {
		func(l *laudopdf.Laudo) string { return l.TipoUso },
		func(l *laudopdf.Laudo, v string) { l.TipoUso = v },
	},
	"unidade": {
		func(l *laudopdf.Laudo) string { return l.Unidade },
		func(l *laudopdf.Laudo, v string) { l.Unidade = v },
	},
	"tamanho": {
		func(l *laudopdf.Laudo) string { return l.Tamanho },
		func(l *laudopdf.Laudo, v string) { l.Tamanho = v },
	},
	"tipoVistoria": {
		func(l *laudopdf.Laudo) string { return string(l.TipoVistoria) },
		func(l *laudopdf.Laudo, v string) { l.TipoVistoria = laudopdf.TipoVistoria(v) },
	},
	"dataVistoria": {
		func(l *laudopdf.Laudo) string { return l.DataVistoria },
		func(l *laudopdf.Laudo, v string) { l.DataVistoria = v },
	},
	"dataLaudo": {
		func(l *laudopdf.Laudo) string { return l.DataLaudo },
		func(l *laudopdf.Laudo, v string) { l.DataLaudo = v },
	},
	"localData": {
		func(l *laudopdf.Laudo) string { return l.LocalData },
		func(l *laudopdf.Laudo, v string) { l.LocalData = v },
	},
	"nomeLocador": {
		func(l *laudopdf.Laudo) string { return l.NomeLocador },
		func(l *laudopdf.Laudo, v string) { l.NomeLocador = v },
	},
	"assinaturaLocador": {
		func(l *laudopdf.Laudo) string { return l.AssinaturaLocador },
		func(l *laudopdf.Laudo, v string) { l.AssinaturaLocador = v },
	},
	"nomeLocatario": {
		func(l *laudopdf.Laudo) string { return l.NomeLocatario },
		func(l *laudopdf.Laudo, v string) { l.NomeLocatario = v },
	},
	"assinaturaLocatario": {
		func(l *laudopdf.Laudo) string { return l.AssinaturaLocatario },
		func(l *laudopdf.Laudo, v string) { l.AssinaturaLocatario = v },
	},
	"testemunha1Nome": {
		func(l *laudopdf.Laudo) string { return l.Testemunha1Nome },
		func(l *laudopdf.Laudo, v string) { l.Testemunha1Nome = v },
	},
	"testemunha1Documento": {
		func(l *laudopdf.Laudo) string { return l.Testemunha1Documento },
		func(l *laudopdf.Laudo, v string) { l.Testemunha1Documento = v },
	},
	"testemunha2Nome": {
		func(l *laudopdf.Laudo) string { return l.Testemunha2Nome },
		func(l *laudopdf.Laudo, v string) { l.Testemunha2Nome = v },
	},
	"testemunha2Documento": {
		func(l *laudopdf.Laudo) string { return l.Testemunha2Documento },
		func(l *laudopdf.Laudo, v string) { l.Testemunha2Documento = v },
	},
}

// CampoEditavel informa se o nome identifica um campo de laudo editável.
func CampoEditavel(nome string) bool {
	_, ok := camposLaudo[nome]
	return ok
}
