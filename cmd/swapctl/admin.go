package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/spf13/cobra"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/model"
	"skillswap/internal/repository"
)

var (
	adminEmail    string
	adminOperator string
)

// adminCmd groups the provisioning subcommands. Admin flips never happen
// through the API; they go through here so every change lands in the
// audit table with the operator recorded.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Provision and revoke admin access",
}

var grantAdminCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant admin access to a user by email",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAdmin(cmd.Context(), true)
	},
}

var revokeAdminCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke admin access from a user by email",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAdmin(cmd.Context(), false)
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(grantAdminCmd)
	adminCmd.AddCommand(revokeAdminCmd)

	adminCmd.PersistentFlags().StringVar(&adminEmail, "email", "", "Email of the target user (required)")
	adminCmd.PersistentFlags().StringVar(&adminOperator, "operator", "", "Who is performing the change (defaults to the OS user)")
	_ = adminCmd.MarkPersistentFlagRequired("email")
}

func setAdmin(ctx context.Context, isAdmin bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	operator := adminOperator
	if operator == "" {
		operator = osUser()
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	adminRepo := repository.NewAdminRepository(db)
	if err := adminRepo.SetAdmin(ctx, tx, adminEmail, isAdmin, operator); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return fmt.Errorf("no user with email %q", adminEmail)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	action := "granted to"
	if !isAdmin {
		action = "revoked from"
	}
	fmt.Printf("Admin access %s %s (operator: %s)\n", action, adminEmail, operator)
	return nil
}

func osUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
