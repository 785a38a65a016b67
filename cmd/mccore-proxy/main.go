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
	"mccore/proxy"
)

const version = "0.1.0"

func main() {
	configFile := flag.String("config", "", "path to a proxy config file (.json or .yaml)")
	listenAddr := flag.String("listen", "", "override the configured listen address")
	upstreamAddr := flag.String("upstream", "", "override the configured upstream address")
	showVersion := flag.Bool("version", false, "show version information")
	generateConfig := flag.String("generate-config", "", "write a default config to this path and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mccore-proxy version %s\n", version)
		os.Exit(0)
	}

	if *generateConfig != "" {
		if err := config.SaveProxyConfig(*generateConfig, config.DefaultProxyConfig()); err != nil {
			log.Fatalf("generate config: %v", err)
		}
		fmt.Printf("wrote default proxy config to %s\n", *generateConfig)
		os.Exit(0)
	}

	var cfg *config.ProxyConfig
	var err error
	if *configFile != "" {
		cfg, err = config.LoadProxyConfig(*configFile)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	} else {
		cfg = config.DefaultProxyConfig()
	}
	if *listenAddr != "" {
		cfg.Listen = *listenAddr
	}
	if *upstreamAddr != "" {
		cfg.Upstream = *upstreamAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid log_level %q: %v", cfg.LogLevel, err)
	}
	logger.SetGlobalLevel(level)

	p, err := proxy.Listen(cfg)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		p.Close()
	}()

	if err := p.Serve(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
