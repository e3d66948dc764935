package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List, edit or delete accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list <artisan|buyer|admin>",
	Short: "List accounts of one role, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := market.ParseRole(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		repo, db, err := openRepo(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		accounts, err := repo.ListAccounts(ctx, role)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tNAME\tDETAIL\tCREATED")
		for _, a := range accounts {
			detail := a.Preferences
			if role == market.RoleArtisan {
				detail = a.Location + " (" + a.Language + ")"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Username, a.Email, a.Name, detail, a.CreatedAt.Format("2006-01-02"))
		}
		return tw.Flush()
	},
}

var update struct {
	name, email, location, language, preferences string
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <artisan|buyer|admin> <id>",
	Short: "Change profile fields of one account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, id, err := roleAndID(args)
		if err != nil {
			return err
		}
		var u market.AccountUpdate
		flags := cmd.Flags()
		set := func(flag string, v string, dst **string) {
			if flags.Changed(flag) {
				*dst = &v
			}
		}
		set("name", update.name, &u.Name)
		set("email", update.email, &u.Email)
		set("location", update.location, &u.Location)
		set("language", update.language, &u.Language)
		set("preferences", update.preferences, &u.Preferences)
		if u == (market.AccountUpdate{}) {
			return errors.New("nothing to update: pass at least one of --name, --email, --location, --language, --preferences")
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		repo, db, err := openRepo(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repo.UpdateAccount(ctx, role, id, u); err != nil {
			if errors.Is(err, market.ErrNotFound) {
				return fmt.Errorf("%s %d not found", role, id)
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "user updated")
		return nil
	},
}

var deleteYes bool

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <artisan|buyer|admin> <id>",
	Short: "Delete an account; its products, cart lines and views go with it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, id, err := roleAndID(args)
		if err != nil {
			return err
		}
		if !deleteYes {
			return errors.New("refusing to delete without --yes")
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		repo, db, err := openRepo(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repo.DeleteAccount(ctx, role, id); err != nil {
			if errors.Is(err, market.ErrNotFound) {
				return fmt.Errorf("%s %d not found", role, id)
			}
			return err
		}
		logging.Info().Str("role", string(role)).Int64("id", id).Msg("account deleted")
		fmt.Fprintln(cmd.OutOrStdout(), "user deleted")
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <artisan|buyer|admin> <username> <new-password>",
	Short: "Set a new password for an account",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := market.ParseRole(args[0])
		if err != nil {
			return err
		}
		pw, err := passwords()
		if err != nil {
			return err
		}
		hash, err := pw.Hash(args[2])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		repo, db, err := openRepo(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repo.UpdatePassword(ctx, role, args[1], hash); err != nil {
			if errors.Is(err, market.ErrNotFound) {
				return fmt.Errorf("user %q not found", args[1])
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "password updated")
		return nil
	},
}

func roleAndID(args []string) (market.Role, int64, error) {
	role, err := market.ParseRole(args[0])
	if err != nil {
		return market.RoleNone, 0, err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return market.RoleNone, 0, fmt.Errorf("invalid id %q", args[1])
	}
	return role, id, nil
}

func init() {
	f := usersUpdateCmd.Flags()
	f.StringVar(&update.name, "name", "", "New display name")
	f.StringVar(&update.email, "email", "", "New email")
	f.StringVar(&update.location, "location", "", "New location (artisans)")
	f.StringVar(&update.language, "language", "", "New language code (artisans)")
	f.StringVar(&update.preferences, "preferences", "", "New preferences (buyers)")

	usersDeleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "Confirm deletion")

	usersCmd.AddCommand(usersListCmd, usersUpdateCmd, usersDeleteCmd)
}
