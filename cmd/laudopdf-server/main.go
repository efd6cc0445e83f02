package main

import (
	"log"

	"github.com/vistoriapro/laudopdf/server"
)

func main() {
	cfg := server.CarregarConfig()

	srv := server.Novo(cfg)
	if err := srv.Rotas().Run(":" + cfg.Porta); err != nil {
		log.Fatalf("laudopdf-server: %v", err)
	}
}
