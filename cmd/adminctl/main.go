package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/adityaghosh149/digievent/internal/config"
	"github.com/adityaghosh149/digievent/internal/model"
	"github.com/adityaghosh149/digievent/internal/repository"
	"github.com/adityaghosh149/digievent/internal/validate"
)

var rootCmd = &cobra.Command{
	Use:   "adminctl",
	Short: "DigiEvent administration CLI",
	Long:  `Operational commands for the DigiEvent backend: seed the root super admin and check database connectivity.`,
}

var seedRootCmd = &cobra.Command{
	Use:   "seed-root",
	Short: "Create the root super admin if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		phone, _ := cmd.Flags().GetString("phone")
		password, _ := cmd.Flags().GetString("password")

		if !validate.IsEmail(email) {
			return fmt.Errorf("invalid email %q", email)
		}
		if !validate.IsPhoneNumber(phone) {
			return fmt.Errorf("invalid phone number %q", phone)
		}
		if !validate.IsStrongPassword(password) {
			return fmt.Errorf("password too weak: need 8+ characters with upper, lower, digit and special")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		store, cleanup, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		exists, err := store.HasRootSuperAdmin(ctx)
		if err != nil {
			return fmt.Errorf("root check failed: %w", err)
		}
		if exists {
			fmt.Println("root super admin already exists, nothing to do")
			return nil
		}

		sa := model.SuperAdmin{
			ID:          uuid.NewString(),
			Email:       email,
			Name:        name,
			PhoneNumber: phone,
			IsRoot:      true,
		}
		created, err := store.CreateSuperAdmin(ctx, sa, password)
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}

		fmt.Printf("root super admin created: %s (%s)\n", created.ID, created.Email)
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check database connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		store, cleanup, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		fmt.Println("database ok")
		return nil
	},
}

func openStore(ctx context.Context) (*repository.Store, func(), error) {
	cfg := config.Load()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db connection failed: %w", err)
	}
	store := repository.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("schema init failed: %w", err)
	}
	return store, pool.Close, nil
}

func init() {
	seedRootCmd.Flags().String("email", "", "root super admin email")
	seedRootCmd.Flags().String("name", "Root", "root super admin display name")
	seedRootCmd.Flags().String("phone", "", "root super admin phone number")
	seedRootCmd.Flags().String("password", "", "root super admin password")
	_ = seedRootCmd.MarkFlagRequired("email")
	_ = seedRootCmd.MarkFlagRequired("phone")
	_ = seedRootCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(seedRootCmd)
	rootCmd.AddCommand(pingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
