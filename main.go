// staticd is a minimal static-content HTTP server.
package main

import (
	"embed"
	"log"

	"staticd/config"
	"staticd/server"
)

//go:embed templates
var embeddedFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := server.Run(cfg, embeddedFS); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
