package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/erazemk/pantry/internal/api"
	"github.com/erazemk/pantry/internal/auth"
	"github.com/erazemk/pantry/internal/config"
	"github.com/erazemk/pantry/internal/db"
	"github.com/erazemk/pantry/internal/logging"
	"github.com/erazemk/pantry/internal/store"
)

// overridden during build with ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "pantry",
		Usage:   "Grocery list, pantry and recipe API",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				Sources: cli.EnvVars("PANTRY_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "SQLite database path",
				Sources: cli.EnvVars("PANTRY_DB"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("PANTRY_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Aliases: []string{"l"},
				Usage:   "also append logs to this file",
				Sources: cli.EnvVars("PANTRY_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "admin-user",
				Aliases: []string{"u"},
				Usage:   "admin username created on first run",
				Sources: cli.EnvVars("PANTRY_ADMIN_USER"),
			},
		},
		Commands: []*cli.Command{
			initCmd(),
			serveCmd(),
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the database schema and the admin account",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			database, err := openDatabase(cfg.DB)
			if err != nil {
				return err
			}
			defer database.Close()

			password, err := createAdmin(ctx, database, cfg.Auth.AdminUser)
			if err != nil {
				return err
			}
			if password == "" {
				return fmt.Errorf("database %s already has an account", cfg.DB)
			}

			printInitResult(cfg.DB, cfg.Auth.AdminUser, password)
			return nil
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "listen address",
				Sources: cli.EnvVars("PANTRY_ADDR"),
			},
			&cli.BoolFlag{
				Name:    "auth",
				Usage:   "require bearer tokens on item and recipe routes",
				Sources: cli.EnvVars("PANTRY_AUTH"),
			},
			&cli.FloatFlag{
				Name:    "rate-limit",
				Usage:   "requests per second across all clients, 0 disables",
				Sources: cli.EnvVars("PANTRY_RATE_LIMIT"),
			},
			&cli.IntFlag{
				Name:    "rate-burst",
				Usage:   "rate limiter burst size",
				Sources: cli.EnvVars("PANTRY_RATE_BURST"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(ctx, cfg)
		},
	}
}

// loadConfig layers flags and environment variables over the config file.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("db") {
		cfg.DB = cmd.String("db")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-file") {
		cfg.Log.File = cmd.String("log-file")
	}
	if cmd.IsSet("admin-user") {
		cfg.Auth.AdminUser = cmd.String("admin-user")
	}
	if cmd.IsSet("addr") {
		cfg.Addr = cmd.String("addr")
	}
	if cmd.IsSet("auth") {
		cfg.Auth.Enabled = cmd.Bool("auth")
	}
	if cmd.IsSet("rate-limit") {
		cfg.RateLimit.RPS = cmd.Float("rate-limit")
	}
	if cmd.IsSet("rate-burst") {
		cfg.RateLimit.Burst = cmd.Int("rate-burst")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openDatabase(path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// createAdmin creates the admin account if the database has no accounts yet
// and returns its generated password. It returns an empty password if an
// account already exists.
func createAdmin(ctx context.Context, database *sql.DB, username string) (string, error) {
	n, err := store.CountUsers(ctx, database)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return "", nil
	}

	password, err := auth.GeneratePassword(16)
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if _, err := store.CreateUser(ctx, database, username, hash); err != nil {
		return "", fmt.Errorf("creating admin user: %w", err)
	}
	return password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database ready: %s\n", dbPath)
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("It can be changed with PUT /auth/password after logging in.")
}

func serve(ctx context.Context, cfg *config.Config) error {
	closeLog, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := openDatabase(cfg.DB)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return err
	}
	defer database.Close()

	slog.Info("database ready", "path", cfg.DB)

	opts := api.Options{
		AuthEnabled: cfg.Auth.Enabled,
		RateLimit:   rate.Limit(cfg.RateLimit.RPS),
		RateBurst:   cfg.RateLimit.Burst,
	}

	if cfg.Auth.Enabled {
		password, err := createAdmin(ctx, database, cfg.Auth.AdminUser)
		if err != nil {
			slog.Error("failed to create admin account", "error", err)
			return err
		}
		if password != "" {
			printInitResult(cfg.DB, cfg.Auth.AdminUser, password)
		}

		if opts.JWTSecret, err = store.GetJWTSecret(ctx, database); err != nil {
			slog.Error("failed to get JWT secret", "error", err)
			return err
		}

		if n, err := store.PurgeExpiredTokens(ctx, database, time.Now()); err != nil {
			slog.Warn("failed to purge expired tokens", "error", err)
		} else if n > 0 {
			slog.Info("purged expired token revocations", "count", n)
		}
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(database, opts),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server started",
			"addr", cfg.Addr,
			"version", version,
			"auth", cfg.Auth.Enabled,
			"rate_limit", cfg.RateLimit.RPS,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}
