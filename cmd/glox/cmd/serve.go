package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/msto63/glox/internal/history"
	"github.com/msto63/glox/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveHost   string
	servePort   int
	serveGRPC   int
	serveNoGRPC bool
	serveRecord bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Startet den Auswertungs-Server",
	Long: `Startet den glox-Server.

Endpunkte:
  GET  /health          Health-Report als JSON
  GET  /ws              WebSocket: {"type":"eval|parse|tokens|ping","source":"..."}
  POST /api/v1/eval     {"source":"..."}
  POST /api/v1/parse
  POST /api/v1/tokens
  gRPC health           auf server.grpc_port (Service "glox")

Beispiele:
  glox serve
  glox serve --port 9000 --no-grpc
  glox serve --record   # WebSocket-Auswertungen in der Historie speichern`,
	Args: usageArgs("glox serve", 0),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host (default: server.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP-Port (default: server.port)")
	serveCmd.Flags().IntVar(&serveGRPC, "grpc-port", 0, "gRPC-Health-Port (default: server.grpc_port)")
	serveCmd.Flags().BoolVar(&serveNoGRPC, "no-grpc", false, "gRPC-Health-Server nicht starten")
	serveCmd.Flags().BoolVar(&serveRecord, "record", false, "Auswertungen in der Historie speichern")
}

func serverConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.Host = appConfig.Server.Host
	cfg.HTTPPort = appConfig.Server.Port
	cfg.GRPCPort = appConfig.Server.GRPCPort
	cfg.ReadTimeout = appConfig.Server.ReadTimeout.Duration
	cfg.WriteTimeout = appConfig.Server.WriteTimeout.Duration
	cfg.MaxSourceLength = appConfig.Server.MaxSourceLength

	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != 0 {
		cfg.HTTPPort = servePort
	}
	if serveGRPC != 0 {
		cfg.GRPCPort = serveGRPC
	}
	if serveNoGRPC {
		cfg.GRPCPort = 0
	}
	return cfg
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := serverConfig()

	if serveRecord {
		store, err := history.NewSQLiteStore(history.SQLiteConfig{Path: appConfig.REPL.HistoryPath})
		if err != nil {
			return err
		}
		defer store.Close()
		cfg.History = store
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "glox server")
	fmt.Fprintf(out, "  [+] HTTP/WebSocket auf %s\n", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.HTTPPort)))
	if cfg.GRPCPort > 0 {
		fmt.Fprintf(out, "  [+] gRPC Health auf %s\n", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.GRPCPort)))
	}

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		fmt.Fprintf(out, "\nSignal %v empfangen, beende...\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
