package main

import (
	"flag"
	"log"

	"bambulink/app"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	a, err := app.New(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	a.Run()
}
