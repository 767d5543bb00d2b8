package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"autopress/internal/core"

	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group for the stored generation
// configuration.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and seed the stored generation configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigSeedAdminCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored generation configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			cfg, err := st.GetConfig()
			if errors.Is(err, core.ErrConfigNotFound) {
				fmt.Println("No configuration stored. Run 'autopress config init' first.")
				return nil
			}
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal configuration: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var (
		category string
		titleStr string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Store a default generation configuration",
		Long: `Store a minimal working configuration: manual title mode, draft
publishing, no optional stages. Edit it through the CMS afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			cfg := core.DefaultAutopostConfig()
			cfg.Category = category
			cfg.ManualTitle = titleStr

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := st.SaveConfig(cfg); err != nil {
				return err
			}

			fmt.Println("Configuration stored.")
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "General", "Article category")
	cmd.Flags().StringVar(&titleStr, "title", "Untitled", "Manual article title")

	return cmd
}

func newConfigSeedAdminCmd() *cobra.Command {
	var (
		email string
		name  string
	)

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin user that authors generated articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			if err := st.SeedAdminUser(email, name); err != nil {
				return err
			}

			fmt.Printf("Admin user %s ready.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email (required)")
	cmd.Flags().StringVar(&name, "name", "Admin", "Admin display name")

	return cmd
}
