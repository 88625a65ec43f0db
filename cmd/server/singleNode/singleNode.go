package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Blackdeer1524/hashkit/src/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var e app.APIEntrypoint
	if err := e.Serve(ctx); err != nil {
		log.Fatal(err)
	}
}
