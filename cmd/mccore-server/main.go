package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mccore/config"
	"mccore/logger"
	"mccore/transport"
)

const version = "0.1.0"

func main() {
	configFile := flag.String("config", "", "path to a server config file (.json or .yaml)")
	listenAddr := flag.String("listen", "", "override the configured listen address")
	showVersion := flag.Bool("version", false, "show version information")
	generateConfig := flag.String("generate-config", "", "write a default config to this path and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mccore-server version %s\n", version)
		os.Exit(0)
	}

	if *generateConfig != "" {
		if err := config.SaveServerConfig(*generateConfig, config.DefaultServerConfig()); err != nil {
			log.Fatalf("generate config: %v", err)
		}
		fmt.Printf("wrote default server config to %s\n", *generateConfig)
		os.Exit(0)
	}

	var cfg *config.ServerConfig
	var err error
	if *configFile != "" {
		cfg, err = config.LoadServerConfig(*configFile)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	} else {
		cfg = config.DefaultServerConfig()
	}
	if *listenAddr != "" {
		cfg.Listen = *listenAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid log_level %q: %v", cfg.LogLevel, err)
	}
	logger.SetGlobalLevel(level)

	srv, err := transport.Listen(cfg)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		srv.Close()
	}()

	if err := srv.Serve(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
