package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snadboy/sshdocker/internal/templates"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize sshdocker configuration",
	Long: `Init creates the configuration files sshdocker needs.

This command will create:
  - hosts.yaml (sample host configuration)
  - .env (environment variable template)

Edit hosts.yaml afterwards to point at your own Docker hosts. Remote hosts
need working key-based SSH access for the configured user.`,
	Example: `  # Initialize in current directory
  sshdocker init

  # Force overwrite existing files
  sshdocker init --force`,
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println("🔧 Initializing sshdocker...")

		files := []struct {
			path    string
			content []byte
		}{
			{"hosts.yaml", templates.HostsYAML},
			{".env", templates.EnvFile},
		}

		for _, f := range files {
			if _, err := os.Stat(f.path); err == nil && !force {
				fmt.Printf("⏭  %s already exists (use --force to overwrite)\n", f.path)
				continue
			}
			if err := os.WriteFile(f.path, f.content, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.path, err)
			}
			fmt.Printf("✅ Created %s\n", f.path)
		}

		fmt.Println("\nNext steps:")
		fmt.Println("  1. Edit hosts.yaml with your Docker hosts")
		fmt.Println("  2. Verify SSH access: ssh <user>@<hostname> docker version")
		fmt.Println("  3. Run: sshdocker hosts test")
		return nil
	},
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
}
