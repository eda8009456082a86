package main

import (
	"context"

	"dronedelivery/cmd"

	"github.com/labstack/gommon/log"
)

func main() {
	if err := cmd.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("dronedelivery: %v", err)
	}
}
