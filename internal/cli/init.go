package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/propwatch/internal/config"
	"github.com/example/propwatch/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the propwatch database and config",
		Long:  `Initialize the propwatch database at ~/.propwatch/propwatch.db and write a default config.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			demo, _ := cmd.Flags().GetBool("demo")

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing propwatch database at %s\n", dbPath)

			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			if err := initConfigFile(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			fmt.Println("✓ Config file at ~/.propwatch/config.json")

			if demo {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed demo data: %w", err)
				}
				fmt.Println("✓ Demo requests created")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  propwatch request create --property PROP-001 --title \"Gas leak\" --priority EMERGENCY")
			fmt.Println("  propwatch sweep --watch")

			return nil
		},
	}

	cmd.Flags().Bool("demo", false, "Seed a few demo requests")

	return cmd
}

// initConfigFile writes the default config if none exists yet.
func initConfigFile() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	path := filepath.Join(homeDir, ".propwatch", "config.json")
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists, skip
	}

	return config.SaveConfig(homeDir, config.Default())
}
