package main

import (
	"flag"
	"log"

	"github.com/skinlens/skinlens/config"
	"github.com/skinlens/skinlens/service"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	webService := service.NewService(cfg)

	if err := webService.StartService(); err != nil {
		log.Fatalf("failed to start service: %v", err)
	}
}
