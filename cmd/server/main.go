// Package main starts the server after configuring it from supplied or standard arguments
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacobpatterson1549/wibble/server"
	"github.com/jacobpatterson1549/wibble/server/log"
	"github.com/joho/godotenv"
)

// main configures and runs the server.
func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env file: %v\n", err)
		os.Exit(1)
	}
	m, err := newMainFlags(os.Args, os.LookupEnv)
	if err != nil {
		os.Exit(2)
	}
	log, err := log.NewZerolog(os.Stdout, m.level())
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating log: %v\n", err)
		os.Exit(1)
	}
	bs, err := parseBackendSource(m.databaseURL)
	if err != nil {
		log.Fatal().Msgf("reading database url: %v", err)
	}
	pb, err := bs.pointsBackend(ctx)
	if err != nil {
		log.Fatal().Msgf("setting up %v database: %v", bs.kind, err)
	}
	log.Printf("storing points in %v database", bs.kind)
	server, err := m.createServer(ctx, log, pb)
	if err != nil {
		log.Fatal().Msgf("creating server: %v", err)
	}
	if err := runServer(ctx, server, log); err != nil {
		log.Fatal().Msgf("running server: %v", err)
	}
	log.Printf("server run stopped successfully")
}

// runServer runs the server until it is interrupted or terminated.
func runServer(ctx context.Context, server *server.Server, log log.Logger) error {
	done := make(chan os.Signal, 2)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	errC := server.Run(ctx)
	select { // BLOCKING
	case err := <-errC:
		switch {
		case errors.Is(err, http.ErrServerClosed):
			log.Printf("server shutdown triggered")
		default:
			log.Printf("server stopped unexpectedly: %v", err)
		}
	case signal := <-done:
		log.Printf("handled signal: %v", signal)
	}
	if err := server.Stop(ctx); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return nil
}
