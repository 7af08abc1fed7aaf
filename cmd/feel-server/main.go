// Command feel-server hosts internal/rpc.Server over a real TCP listener,
// the network-facing counterpart to cmd/feel's single-process CLI. Grounded
// on the teacher's cmd/funxy "parse flags, build the runtime, block on
// Serve" shape (cmd/funxy/main.go), adapted from module evaluation to gRPC.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/feel-lang/feel/internal/config"
	"github.com/feel-lang/feel/internal/rpc"
	"github.com/feel-lang/feel/pkg/feel"
)

func main() {
	addr := flag.String("addr", ":9119", "address to listen on")
	configPath := flag.String("config", "", "path to a YAML EngineOptions file")
	flag.Parse()

	opts := config.Default()
	if *configPath != "" {
		var err error
		opts, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("feel-server: %v", err)
		}
	}

	engine := feel.New(feel.Options{MaxRecursionDepth: opts.MaxRecursionDepth})
	server, err := rpc.NewServer(engine, nil)
	if err != nil {
		log.Fatalf("feel-server: building service: %v", err)
	}

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("feel-server: listen %s: %v", *addr, err)
	}
	fmt.Fprintf(os.Stderr, "feel-server: listening on %s\n", lis.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- server.GRPCServer().Serve(lis) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("feel-server: serve: %v", err)
		}
	case <-sigCh:
		fmt.Fprintln(os.Stderr, "feel-server: shutting down")
		server.GracefulStop()
	}
}
