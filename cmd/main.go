package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"quanturl/cmd/env"
	"quanturl/internal/config"
	"quanturl/internal/crypto"
	"quanturl/internal/service"
	"quanturl/internal/shortener"

	"github.com/spf13/cobra"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "quanturl",
		Short:         "Shorten URLs into layered encrypted envelopes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults to in-memory store)")
	root.AddCommand(
		newShortenCmd(&configPath),
		newResolveCmd(&configPath),
		newDecryptCmd(&configPath),
	)
	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newEngine(cfg *config.Config) (*shortener.Engine, error) {
	return shortener.New(shortener.Config{
		SaltRounds:  cfg.Engine.SaltRounds,
		CodeLength:  cfg.Engine.CodeLength,
		QuantumSeed: cfg.Engine.QuantumSeed,
	})
}

func newShortenCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "shorten <url>",
		Short: "Encrypt a URL, issue a short code and store the mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg)
			if err != nil {
				return err
			}
			store, err := env.NewStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			m, err := service.NewShortenerService(engine, store).Shorten(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "code:  %s\ndata:  %s\nnoise: %s\niv:    %s\n",
				m.Code, m.Envelope.Data, m.Envelope.Noise, m.Envelope.IV)
			return nil
		},
	}
}

func newResolveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <code>",
		Short: "Look up a stored short code and decrypt its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg)
			if err != nil {
				return err
			}
			store, err := env.NewStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			url, err := service.NewShortenerService(engine, store).Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func newDecryptCmd(configPath *string) *cobra.Command {
	var data, noise, iv string

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt an envelope given its three fields directly",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg)
			if err != nil {
				return err
			}

			url, ok := engine.DecryptURL(crypto.Envelope{Data: data, Noise: noise, IV: iv})
			if !ok {
				return fmt.Errorf("could not decrypt envelope")
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "envelope ciphertext")
	cmd.Flags().StringVar(&noise, "noise", "", "envelope noise material")
	cmd.Flags().StringVar(&iv, "iv", "", "envelope initialization vector")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("noise")
	cmd.MarkFlagRequired("iv")
	return cmd
}
