package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-artisan-market/internal/postgres"
	"github.com/ariefcatur/go-artisan-market/internal/seed"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		_, db, err := openRepo(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the default admin account if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		repo, db, err := openRepo(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		pw, err := passwords()
		if err != nil {
			return err
		}

		created, err := seed.EnsureAdmin(ctx, repo, pw)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !created {
			fmt.Fprintln(out, "Admin user already exists!")
			return nil
		}
		fmt.Fprintln(out, "Admin user created successfully!")
		fmt.Fprintf(out, "Username: %s\nPassword: %s\nEmail: %s\n", seed.AdminUsername, seed.AdminPassword, seed.AdminEmail)
		return nil
	},
}

var seedDemoCmd = &cobra.Command{
	Use:   "seed-demo",
	Short: "Insert demo artisans, buyers, products and views",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		repo, db, err := openRepo(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		pw, err := passwords()
		if err != nil {
			return err
		}

		rep, err := seed.Demo(ctx, repo, pw)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "inserted %d artisans, %d buyers, %d products, %d views\n", rep.Artisans, rep.Buyers, rep.Products, rep.Views)
		fmt.Fprintln(out, "demo accounts (password "+seed.DemoPassword+"):")
		for _, u := range rep.Usernames {
			fmt.Fprintln(out, "  -", u)
		}
		return nil
	},
}
