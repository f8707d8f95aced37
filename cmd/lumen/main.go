package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lumenlabs/lumen/internal/config"
	"github.com/lumenlabs/lumen/internal/server"
	"github.com/lumenlabs/lumen/internal/svc"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Lumen chat backend",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real deployments use the environment.
		_ = godotenv.Load()

		c, err := config.Load(configFile)
		if err != nil {
			return err
		}

		svcCtx, err := svc.NewServiceContext(c)
		if err != nil {
			return err
		}
		defer svcCtx.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			fmt.Printf("Received signal: %v - shutting down\n", sig)
			cancel()
		}()

		return server.Run(ctx, svcCtx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "etc/lumen.yaml", "config file path")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
