package compose

// Blocos de texto fixos das páginas especiais. O texto de metodologia da
// capa vem em dois conjuntos, escolhidos pelo tipo de vistoria; os demais
// são invariantes do documento.

const metodologiaEntrada = `Este laudo de vistoria de entrada descreve detalhadamente o imóvel e ` +
	`registra fotograficamente o estado de conservação de cada ambiente na data da vistoria. ` +
	`O registro fotográfico segue a ordem dos ambientes relacionados na página de termos, com ` +
	`numeração sequencial por ambiente. As condições aqui descritas servem de referência para ` +
	`a vistoria de saída, nos termos da Lei do Inquilinato (Lei nº 8.245/91).`

const metodologiaSaida = `Este laudo de vistoria descreve detalhadamente o imóvel e registra ` +
	`fotograficamente o estado de conservação de cada ambiente na data da vistoria, em ` +
	`comparação com o laudo de entrada correspondente. O registro fotográfico segue a ordem ` +
	`dos ambientes relacionados na página de termos, com numeração sequencial por ambiente.`

const termosLegais = `O presente laudo de vistoria é parte integrante do contrato de locação e ` +
	`expressa fielmente o estado do imóvel na data de sua realização. O locatário declara ter ` +
	`recebido o imóvel nas condições aqui descritas, obrigando-se a restituí-lo no mesmo ` +
	`estado, ressalvadas as deteriorações decorrentes do uso normal. Eventuais divergências ` +
	`devem ser apontadas por escrito no prazo contratual, sob pena de presunção de aceitação.`

const atestado = `Atestamos, para os devidos fins, que as informações e os registros ` +
	`fotográficos constantes deste laudo refletem o estado do imóvel na data da vistoria, ` +
	`realizada na presença das partes ou de seus representantes, que o subscrevem.`

const encerramento = `Este documento foi gerado eletronicamente e tem validade entre as ` +
	`partes. As fotografias em alta resolução permanecem disponíveis na galeria digital do ` +
	`laudo, acessível pelo código ao lado.`

// Metodologia devolve o bloco de metodologia adequado ao tipo de vistoria:
// um conjunto para ENTRADA, outro para SAIDA e demais tipos.
func Metodologia(tipo string) string {
	if tipo == "ENTRADA" {
		return metodologiaEntrada
	}
	return metodologiaSaida
}
