package main

import (
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"credit-agent/internal/app"
	"credit-agent/internal/config"
	"credit-agent/internal/transport/terminal"
)

var (
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the bank assistant in the terminal",
	Long:  `Starts a text session with the Uzbek bank assistant. Type 'exit' to quit or 'reset' to start over.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// keep the console readable unless asked for logs
		logOut := io.Discard
		if verbose {
			logOut = cmd.ErrOrStderr()
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(logOut, nil)))

		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		a, err := app.Build(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		return terminal.Run(ctx, a.Chat, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "write logs to stderr")
}
