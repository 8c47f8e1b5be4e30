package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/janpfeifer/TriMatch/internal/config"
	"github.com/janpfeifer/TriMatch/internal/server"
	"k8s.io/klog/v2"
)

var (
	flagAddr = flag.String("addr", "", "Address to listen on (default: auto-port on localhost)")
)

func main() {
	klog.InitFlags(nil)
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		klog.Exitf("Invalid configuration: %v", err)
	}
	defer klog.Flush()

	started := make(chan *server.ServerState, 1)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		state := <-started
		fmt.Printf("TriMatch preview listening on http://%s\n", state.Address)
	}()

	if err := server.Run(ctx, cfg, *flagAddr, started); err != nil {
		klog.Fatal(err)
	}
}
