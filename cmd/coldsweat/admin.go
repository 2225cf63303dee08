package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yathushan/coldsweat/internal/application/usecase"
	"github.com/Yathushan/coldsweat/internal/bootstrap"
	"github.com/Yathushan/coldsweat/internal/domain/entity"
	"github.com/Yathushan/coldsweat/internal/domain/service"
	"github.com/Yathushan/coldsweat/internal/infrastructure/persistence/sqlstore"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// withStore opens the configured database for a management command.
func withStore(ctx context.Context, fn func(*sqlstore.Store, *logger.Logger) error) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := bootstrap.EnsureDataDir(cfg.Database); err != nil {
		return err
	}

	store, err := sqlstore.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store, log)
}

func newSetupCommand() *cobra.Command {
	var noDefaultUser bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the database schema and the default account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(store *sqlstore.Store, log *logger.Logger) error {
				createUser := usecase.NewCreateUserUseCase(store, service.NewCredentials(), log)
				result, err := usecase.NewSetupUseCase(store, createUser, log).Execute(cmd.Context(), !noDefaultUser)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Applied %d migration(s)\n", len(result.Migrations))
				if result.DefaultUserAdded {
					fmt.Fprintf(out, "Added default user %s, password %s\n", entity.DefaultUsername, entity.DefaultPassword)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noDefaultUser, "no-default-user", false, "skip the default coldsweat account")

	return cmd
}

func newUpgradeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(store *sqlstore.Store, log *logger.Logger) error {
				applied, err := usecase.NewSetupUseCase(store, nil, log).Migrate(cmd.Context())
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
					return nil
				}
				for _, name := range applied {
					fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
				}
				return nil
			})
		},
	}
}

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage reader accounts",
	}

	var (
		password string
		email    string
	)
	add := &cobra.Command{
		Use:   "add USERNAME",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(store *sqlstore.Store, log *logger.Logger) error {
				user, err := usecase.NewCreateUserUseCase(store, service.NewCredentials(), log).Execute(cmd.Context(), usecase.CreateUserInput{
					Username: args[0],
					Password: password,
					Email:    email,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added user %s, Fever API key %s\n", user.Username, user.APIKey)
				return nil
			})
		},
	}
	add.Flags().StringVar(&password, "password", "", "account password (at least 8 characters)")
	add.Flags().StringVar(&email, "email", "", "account email")
	_ = add.MarkFlagRequired("password")

	cmd.AddCommand(add)

	return cmd
}
