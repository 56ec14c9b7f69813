package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/syndik/internal/app"
	"github.com/dropDatabas3/syndik/internal/bootstrap"
	"github.com/dropDatabas3/syndik/internal/config"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/security/password"
	"github.com/dropDatabas3/syndik/internal/store"
)

// seteado por -ldflags "-X main.version=..."
var version = "dev"

func main() {
	var (
		configPath = envOr("CONFIG_PATH", "configs/config.yaml")
		envFile    = ".env"
	)

	root := &cobra.Command{
		Use:           "syndik",
		Short:         "API de gestión de copropiedades (residencias, cuotas, pagos)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env es opcional
			_ = godotenv.Load(envFile)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "ruta a config.yaml (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&envFile, "env-file", envFile, "ruta a .env (si existe, se carga)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(logger.Config{
			Env:         cfg.App.Env,
			Level:       cfg.Log.Level,
			ServiceName: "syndik",
			Version:     version,
		})
		return cfg, nil
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return serve(cmd.Context(), cfg)
		},
	}
	root.RunE = serveCmd.RunE

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de base de datos",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := openMigratable(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer closeFn()
			applied, err := m.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nada para aplicar")
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}, &cobra.Command{
		Use:   "status",
		Short: "Lista migraciones y su estado",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := openMigratable(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer closeFn()
			infos, err := m.MigrationStatus(cmd.Context())
			if err != nil {
				return err
			}
			for _, mi := range infos {
				state := "pending"
				if mi.Applied {
					state = "applied"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%04d  %-40s %s\n", mi.Version, mi.Name, state)
			}
			return nil
		},
	})

	var adminEmail, adminPassword, adminName string
	bootstrapCmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Crea el primer administrador (o promueve un perfil existente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			st, err := app.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			if m, ok := st.(store.Migratable); ok && cfg.Storage.MigrateOnStart {
				if _, err := m.Migrate(cmd.Context()); err != nil {
					return err
				}
			}
			p, err := bootstrap.CheckAndCreateAdmin(cmd.Context(), bootstrap.AdminBootstrapConfig{
				Store:  st,
				Hasher: password.NewHasher(cfg.Security.BcryptCost),
				Policy: password.Policy{
					MinLength:     cfg.Security.PasswordMinLength,
					RequireDigit:  cfg.Security.RequireDigit,
					RequireLetter: cfg.Security.RequireLetter,
				},
				SkipPrompt:    adminEmail != "" && adminPassword != "",
				AdminEmail:    adminEmail,
				AdminPassword: adminPassword,
				AdminName:     adminName,
				Out:           cmd.OutOrStdout(),
				In:            cmd.InOrStdin(),
			})
			if errors.Is(err, bootstrap.ErrAdminExists) {
				fmt.Fprintln(cmd.OutOrStdout(), "ya existe un admin, nada que hacer")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin listo: %s (%s)\n", p.Email, p.ID)
			return nil
		},
	}
	bootstrapCmd.Flags().StringVar(&adminEmail, "email", envOr("ADMIN_EMAIL", ""), "email del admin (env ADMIN_EMAIL)")
	bootstrapCmd.Flags().StringVar(&adminPassword, "password", envOr("ADMIN_PASSWORD", ""), "password del admin (env ADMIN_PASSWORD)")
	bootstrapCmd.Flags().StringVar(&adminName, "name", "", "nombre completo")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Imprime la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	root.AddCommand(serveCmd, migrateCmd, bootstrapCmd, versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.L()
	a, err := app.New(ctx, cfg, version)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := a.Server()
	errCh := make(chan error, 1)
	go func() {
		log.Info("http listening", logger.String("addr", srv.Addr), logger.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func openMigratable(ctx context.Context, load func() (*config.Config, error)) (store.Migratable, func(), error) {
	cfg, err := load()
	if err != nil {
		return nil, nil, err
	}
	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	m, ok := st.(store.Migratable)
	if !ok {
		_ = st.Close()
		return nil, nil, fmt.Errorf("driver %q has no migrations", st.Driver())
	}
	return m, func() { _ = st.Close() }, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
