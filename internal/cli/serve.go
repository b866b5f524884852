package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/witch-agent/vibe-coder/internal/relay"
	"github.com/witch-agent/vibe-coder/internal/server"
)

type serveOptions struct {
	Addr    string
	EnvFile string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay as an HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "override server.address")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "load environment from file when present")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return err
	}
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Server.Address = opts.Addr
	}

	handler, err := relay.NewFromConfig(cfg, nil, log)
	if err != nil {
		return err
	}
	router := server.NewRouter(cfg.Server.Path, handler, log)
	srv := server.New(cfg.Server, router)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, srv, log)
}

// loadEnvFile loads KEY=VALUE pairs without overriding variables that are
// already set. A missing file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
