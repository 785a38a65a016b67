package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"mccore/config"
)

func main() {
	configType := flag.String("type", "server", "config kind: server, proxy")
	output := flag.String("output", "", "output filename (default: <type>-config.json)")
	flag.Parse()

	filename := *output
	if filename == "" {
		filename = *configType + "-config.json"
	}

	if _, err := os.Stat(filename); err == nil {
		fmt.Printf("%s already exists, overwrite? (y/n): ", filename)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("aborted")
			return
		}
	}

	var err error
	switch *configType {
	case "server":
		err = config.SaveServerConfig(filename, config.DefaultServerConfig())
	case "proxy":
		err = config.SaveProxyConfig(filename, config.DefaultProxyConfig())
	default:
		log.Fatalf("unknown config type %q, expected server or proxy", *configType)
	}
	if err != nil {
		log.Fatalf("save config: %v", err)
	}

	fmt.Printf("wrote %s config to %s\n", *configType, filename)
	switch *configType {
	case "server":
		fmt.Printf("start it with:\n  ./mccore-server -config %s\n", filename)
	case "proxy":
		fmt.Printf("edit upstream, then start it with:\n  ./mccore-proxy -config %s\n", filename)
	}
}
