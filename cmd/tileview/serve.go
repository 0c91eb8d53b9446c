package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileview/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tileview SSH server",
	Long: `Start an SSH server that lets users play in their terminal.

Each SSH connection gets its own game, canvas and view. The board source is
taken from the SSH command and defaults to 2048. Scores and recorded
sessions go to the server's database.

Host key handling:
  - If --host-key (or ssh.host_key) is set, uses that key file
  - Otherwise, auto-generates a key at ~/.tileview/host_key

Examples:
  tileview serve
  tileview serve --ssh :2222
  tileview serve --host-key ./my_host_key

Users can connect with:
  ssh localhost -p 2222
  ssh localhost -p 2222 2048_endless`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (overrides ssh.address)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (overrides ssh.host_key)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (overrides ssh.idle_timeout_minutes)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := tui.SSHServerConfigFrom(appConfig)
	if flagSSHAddr != "" {
		cfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	store := openStoreOrWarn(appConfig)
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Starting tileview SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
