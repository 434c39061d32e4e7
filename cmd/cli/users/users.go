package users

import (
	"errors"
	"fmt"

	clicfg "github.com/crucial707/district-digest/cmd/cli/config"
	"github.com/crucial707/district-digest/cmd/cli/output"
	"github.com/crucial707/district-digest/internal/auth"
	"github.com/crucial707/district-digest/internal/repo"
	"github.com/lib/pq"
	"github.com/spf13/cobra"
)

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage login accounts",
		Long:  "Seed, list and reset the passwords of accounts in the users table.",
	}

	usersCmd.AddCommand(
		seedUsersCmd(),
		addUserCmd(),
		listUsersCmd(),
		setPasswordCmd(),
	)

	rootCmd.AddCommand(usersCmd)
}

func openRepo() (*repo.UserRepo, func(), error) {
	cfg, err := clicfg.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := clicfg.OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return repo.NewUserRepo(db), func() { db.Close() }, nil
}

// ==========================
// SEED
// ==========================
func seedUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default accounts if they are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := clicfg.Load()
			if err != nil {
				return err
			}
			users, done, err := openRepo()
			if err != nil {
				return err
			}
			defer done()

			if err := auth.NewCredentials(users).Seed(cmd.Context(), auth.SeedAccounts, cfg.SeedPassword); err != nil {
				return err
			}
			total, err := users.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("count users: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default accounts ensured; %d accounts in total.\n", total)
			return nil
		},
	}
}

// ==========================
// ADD
// ==========================
func addUserCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}
			users, done, err := openRepo()
			if err != nil {
				return err
			}
			defer done()

			user, err := users.Create(cmd.Context(), username, password)
			if err != nil {
				var pqErr *pq.Error
				if errors.As(err, &pqErr) && pqErr.Code == "23505" {
					return fmt.Errorf("account %q already exists", username)
				}
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s (id %d).\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Account name")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, done, err := openRepo()
			if err != nil {
				return err
			}
			defer done()

			list, err := users.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), list)
			}
			rows := make([][]interface{}, 0, len(list))
			for _, u := range list {
				rows = append(rows, []interface{}{u.ID, u.Username})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Username"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON instead of a table")
	return cmd
}

// ==========================
// SET PASSWORD
// ==========================
func setPasswordCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Reset an account's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}
			users, done, err := openRepo()
			if err != nil {
				return err
			}
			defer done()

			if err := users.SetPassword(cmd.Context(), username, password); err != nil {
				if errors.Is(err, repo.ErrUserNotFound) {
					return fmt.Errorf("no account named %q", username)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s.\n", username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Account to update")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}
