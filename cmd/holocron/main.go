package main

import (
	"log"

	"github.com/Holocron-Auth/holocron-core/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
