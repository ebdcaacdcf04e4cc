package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/newsanalyzer/govctl/internal/build"
	"github.com/newsanalyzer/govctl/internal/cmd/root"
	"github.com/newsanalyzer/govctl/internal/iostreams"
)

// Populated by the linker at release build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func registerSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		sig := <-sigs
		fmt.Println("received", sig, ", terminating...")
		cancel()
	}()
	return ctx
}

func main() {
	ctx := registerSignalHandler()
	root.Execute(ctx, iostreams.GetOSIOStreams(), &build.Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	})
}
