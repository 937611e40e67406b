package main

import (
	"log"

	"github.com/data-tales/datasources/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ data-sources failed to start: %v", err)
	}
}
