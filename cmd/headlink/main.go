package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/headlink/cmd/headlink/commands"
	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx, os.Args[1:], os.Stdout)
	stop()
	if err == nil {
		return
	}

	adapter := errors.NewCLIErrorAdapter(commands.VerboseRequested(os.Args[1:]), slog.Default())
	adapter.Log(err)
	fmt.Fprintln(os.Stderr, adapter.FormatError(err))
	os.Exit(adapter.ExitCodeFor(err))
}
