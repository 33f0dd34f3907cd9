package main

import (
	"log"

	"github.com/jasonbot/constile/host"
)

func main() {
	log.Println("Starting")
	host.FindConfigDir()

	config := host.LoadConfig(host.ConfigFile)
	log.Fatal(host.Serve(config))
}
