// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/credstore/cmd/app/commands"
	"github.com/allisson/credstore/internal/app"
	"github.com/allisson/credstore/internal/config"
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

func main() {
	cmd := &cli.Command{
		Name:    "credstore",
		Usage:   "Credential management backend",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "verify-keys",
				Usage: "Verify configured encryption keys against stored canaries",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer shutdownContainer(container)

					keys, err := encryptionDomain.ParseConfiguredKeys(
						cfg.EncryptionKeys,
						encryptionDomain.ProviderType(cfg.EncryptionProvider),
					)
					if err != nil {
						return fmt.Errorf("failed to parse configured keys: %w", err)
					}

					registryUseCase, err := container.RegistryUseCase()
					if err != nil {
						return err
					}

					return commands.RunVerifyKeys(ctx, registryUseCase, keys, cfg.ActiveKeyName, container.Logger())
				},
			},
			{
				Name:  "rotate-keys",
				Usage: "Re-encrypt values held under inactive keys with the active key",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer shutdownContainer(container)

					rotationUseCase, err := container.RotationUseCase(ctx)
					if err != nil {
						return err
					}

					return commands.RunRotateKeys(ctx, rotationUseCase, container.Logger())
				},
			},
			{
				Name:  "create-permission",
				Usage: "Grant an actor operations on a credential",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "credential",
						Aliases:  []string{"c"},
						Required: true,
						Usage:    "Credential name (e.g., /app/db-password)",
					},
					&cli.StringFlag{
						Name:     "actor",
						Aliases:  []string{"a"},
						Required: true,
						Usage:    "Actor identifier receiving the grant",
					},
					&cli.StringFlag{
						Name:    "operations",
						Aliases: []string{"o"},
						Value:   "read",
						Usage:   "Comma-separated operations (read, write, delete, read_acl, write_acl)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer shutdownContainer(container)

					credentialRepo, err := container.CredentialRepository()
					if err != nil {
						return err
					}

					permissions, err := container.PermissionUseCase()
					if err != nil {
						return err
					}

					return commands.RunCreatePermission(
						ctx,
						credentialRepo,
						permissions,
						container.Logger(),
						cmd.String("credential"),
						cmd.String("actor"),
						cmd.String("operations"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func shutdownContainer(container *app.Container) {
	if err := container.Shutdown(context.Background()); err != nil {
		container.Logger().Error("failed to shutdown container", slog.Any("error", err))
	}
}
