package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"poshts/internal/db"
	"poshts/internal/models"
	"poshts/internal/utils"

	"github.com/spf13/cobra"
)

var (
	targetEmail string
	replyDelay  int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the users, poshts and comments tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, g, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close(g)
		if err := db.Migrate(g); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migration completed")
		return nil
	},
}

var promoteAdminCmd = &cobra.Command{
	Use:   "promote-admin",
	Short: "Give a user the admin role",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, g, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close(g)
		return promoteAdmin(cmd.Context(), store, targetEmail, cmd.OutOrStdout())
	},
}

var setAutoReplyCmd = &cobra.Command{
	Use:   "set-auto-reply",
	Short: "Set a user's auto-reply delay in seconds (negative disables it)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, g, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close(g)
		return setAutoReply(cmd.Context(), store, targetEmail, replyDelay, cmd.OutOrStdout())
	},
}

func init() {
	promoteAdminCmd.Flags().StringVar(&targetEmail, "email", "", "User email")
	_ = promoteAdminCmd.MarkFlagRequired("email")

	setAutoReplyCmd.Flags().StringVar(&targetEmail, "email", "", "User email")
	setAutoReplyCmd.Flags().IntVar(&replyDelay, "delay", models.AutoReplyDisabled, "Delay in seconds; -1 disables auto-reply")
	_ = setAutoReplyCmd.MarkFlagRequired("email")
}

func lookupUser(ctx context.Context, store *db.Store, email string) (*models.User, error) {
	user, err := store.GetUserByEmail(ctx, utils.NormalizeEmail(email))
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("no user with email %q", email)
	}
	return user, err
}

func promoteAdmin(ctx context.Context, store *db.Store, email string, out io.Writer) error {
	user, err := lookupUser(ctx, store, email)
	if err != nil {
		return err
	}
	if user.Role.IsAdmin() {
		fmt.Fprintf(out, "%s is already an admin\n", user.Email)
		return nil
	}
	if err := store.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is now an admin\n", user.Email)
	return nil
}

func setAutoReply(ctx context.Context, store *db.Store, email string, delay int, out io.Writer) error {
	user, err := lookupUser(ctx, store, email)
	if err != nil {
		return err
	}
	updated, err := store.SetAutoCommentDelay(ctx, user.ID, delay)
	if err != nil {
		return err
	}
	if d, ok := updated.AutoReplyDelay(); ok {
		fmt.Fprintf(out, "Auto-reply for %s after %ds\n", updated.Email, d)
	} else {
		fmt.Fprintf(out, "Auto-reply disabled for %s\n", updated.Email)
	}
	return nil
}
