package main

import (
	"context"
	"fmt"
	"os"

	"meditrack-backend/cmd/bootstrap"
	"meditrack-backend/config"
	"meditrack-backend/pkg/jwt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "meditrack",
		Short: "Meditrack backend API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".env", "path to an env file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(seedCmd(&configPath))
	rootCmd.AddCommand(tokenCmd(&configPath))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	// Initialize application with all dependencies
	app, err := bootstrap.New(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// Run the application
	return app.Run()
}

func seedCmd(configPath *string) *cobra.Command {
	var uid string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a sample user with reminders, prescriptions, notes and contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.New(cmd.Context(), *configPath)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.Close()

			return app.Seed(cmd.Context(), uid)
		},
	}
	cmd.Flags().StringVar(&uid, "uid", bootstrap.DefaultSeedUserID, "subject id of the sample user")
	return cmd
}

func tokenCmd(configPath *string) *cobra.Command {
	var uid, email, name string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an HS256 identity token for AUTH_PROVIDER=hmac",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Auth.Secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			if cfg.Auth.Provider != config.AuthProviderHMAC {
				logrus.Warnf("AUTH_PROVIDER is %q, the server will not accept this token", cfg.Auth.Provider)
			}

			token, err := jwt.NewHMACService(cfg.Auth).GenerateToken(uid, email, name)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", bootstrap.DefaultSeedUserID, "token subject")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "name claim")
	return cmd
}
