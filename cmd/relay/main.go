package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pigeon/internal/server"
	"pigeon/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "relay",
		Short:        "Untrusted message relay for pigeon",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), genkeyCmd())
	return root
}

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			applyEnv(&cfg)
			if addr != "" {
				cfg.Addr = addr
			}

			log := logrus.New()
			log.SetFormatter(&logrus.JSONFormatter{})
			if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
				log.SetLevel(lvl)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, cfg.Storage, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := st.Close(); err != nil {
					log.WithError(err).Error("close storage")
				}
			}()

			srv, err := server.New(cfg, st, log)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "relay.yaml", "config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides the config")
	return cmd
}

func genkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genkey",
		Short: "Print a new signing_key seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := make([]byte, ed25519.SeedSize)
			if _, err := rand.Read(seed); err != nil {
				return err
			}
			fmt.Println(base64.StdEncoding.EncodeToString(seed))
			return nil
		},
	}
}

func applyEnv(cfg *server.Config) {
	if v := os.Getenv("PIGEON_RELAY_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("PIGEON_RELAY_SIGNING_KEY"); v != "" {
		cfg.SigningKey = v
	}
	if v := os.Getenv("PIGEON_RELAY_MONGO_URI"); v != "" {
		cfg.Storage.MongoURI = v
	}
	if v := os.Getenv("PIGEON_RELAY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PIGEON_RELAY_TRUSTED_PROXIES"); v != "" {
		cfg.TrustedProxies = strings.Split(v, ",")
	}
}

func openStore(ctx context.Context, c server.StorageConfig, log *logrus.Logger) (storage.Store, error) {
	switch c.Driver {
	case "badger":
		b, err := storage.OpenBadger(storage.BadgerConfig{Path: c.Path, InMemory: c.InMemory, Logger: log})
		if err != nil {
			return nil, err
		}
		log.WithField("path", c.Path).WithField("in_memory", c.InMemory).Info("badger storage open")
		return b, nil
	case "mongo":
		m, err := storage.OpenMongo(ctx, storage.MongoConfig{URI: c.MongoURI, Database: c.MongoDB})
		if err != nil {
			return nil, err
		}
		log.WithField("database", c.MongoDB).Info("mongo storage open")
		return m, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.Driver)
	}
}
