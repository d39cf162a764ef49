package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/noah-isme/sma-timetable-api/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.New().ExecuteContext(ctx); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
