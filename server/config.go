// Package server expõe o compositor sobre HTTP: pré-visualização de
// páginas compostas, exportação de página única e de documento completo,
// edição de campos e legendas e o disparo/acompanhamento da geração
// assíncrona.
//
// # Variáveis de Ambiente
//
//   - LAUDOS_API_URL: URL base da API de laudos (obrigatória)
//   - LAUDOS_GALERIA_URL: URL base da galeria de fotos codificada no QR
//   - SERVER_PORT: porta do servidor (default: 8080)
//   - HTTP_TIMEOUT_SECONDS: timeout das chamadas à API (default: 30)
//   - PDF_ESPACO_HORIZONTAL: vão horizontal da grade em mm (default: 5)
//   - PDF_ESPACO_VERTICAL: vão vertical da grade em mm (default: 5)
//   - PDF_MARGEM_PAGINA: margem da página de grade em mm (default: 5)
//   - PDF_POLITICA_ESPECIAIS: "entrada" ou "sempre" (default: entrada)
package server

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	laudopdf "github.com/vistoriapro/laudopdf"
)

// Config é a configuração do servidor, carregada do ambiente.
type Config struct {
	Porta      string
	BaseAPI    string
	URLGaleria string
	Timeout    time.Duration

	EspacoHorizontal float64
	EspacoVertical   float64
	MargemPagina     float64

	Politica laudopdf.PoliticaPaginasEspeciais
}

// CarregarConfig lê a configuração das variáveis de ambiente, com um
// .env opcional.
func CarregarConfig() *Config {
	_ = godotenv.Load()

	base := os.Getenv("LAUDOS_API_URL")
	if base == "" {
		log.Fatal("LAUDOS_API_URL é obrigatória e não foi definida")
	}

	cfg := &Config{
		Porta:      getEnv("SERVER_PORT", "8080"),
		BaseAPI:    base,
		URLGaleria: getEnv("LAUDOS_GALERIA_URL", base+"/galeria"),
		Timeout:    time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,

		EspacoHorizontal: getEnvFloat("PDF_ESPACO_HORIZONTAL", 5),
		EspacoVertical:   getEnvFloat("PDF_ESPACO_VERTICAL", 5),
		MargemPagina:     getEnvFloat("PDF_MARGEM_PAGINA", 5),

		Politica: laudopdf.PoliticaEntrada,
	}

	if getEnv("PDF_POLITICA_ESPECIAIS", "entrada") == "sempre" {
		cfg.Politica = laudopdf.PoliticaSempre
	}

	return cfg
}

func getEnv(chave, padrao string) string {
	if valor, ok := os.LookupEnv(chave); ok {
		return valor
	}
	return padrao
}

func getEnvInt(chave string, padrao int) int {
	if valor, ok := os.LookupEnv(chave); ok {
		if n, err := strconv.Atoi(valor); err == nil {
			return n
		}
	}
	return padrao
}

func getEnvFloat(chave string, padrao float64) float64 {
	if valor, ok := os.LookupEnv(chave); ok {
		if f, err := strconv.ParseFloat(valor, 64); err == nil {
			return f
		}
	}
	return padrao
}
