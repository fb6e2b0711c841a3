package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-job-trend-analyzer/cmd/scraper/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// a second signal falls through to the default handler
		<-ctx.Done()
		stop()
	}()
	commands.ExecuteContext(ctx)
}
