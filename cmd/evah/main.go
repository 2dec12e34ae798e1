package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"evah-sdk/cmd/evah/internal/config"
	"evah-sdk/cmd/evah/internal/utils"
	"evah-sdk/models"
)

// variantFlag overrides EVAH_VARIANT when set
var variantFlag string

var rootCmd = &cobra.Command{
	Use:   "evah",
	Short: "Estimate the climate impact of a volcanic eruption",
	Long: `evah submits eruption parameters to an EVA_H model service and shows
the resulting aerosol optical depth, radiative forcing and temperature
response. Run it without a command to start the interactive interface.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&variantFlag, "variant", "", "Model variant, canonical or extended (default: EVAH_VARIANT env var or canonical)")
	rootCmd.AddCommand(runCmd, initCmd, versionCmd)
}

// loadConfig resolves configuration from the environment and flags
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if variantFlag != "" {
		v, err := models.ParseVariant(variantFlag)
		if err != nil {
			return cfg, fmt.Errorf("--variant: %w", err)
		}
		cfg.Variant = v
	}
	return cfg, nil
}

// newSession opens the run history when configured. A history database that
// cannot be reached is logged and runs continue unrecorded.
func newSession(ctx context.Context, cfg config.Config) *Session {
	hist, err := cfg.OpenHistory(ctx)
	if err != nil {
		utils.LogDebug("Failed to open run history: %v", err)
		hist = nil
	}
	return NewSession(cfg, hist)
}

func runInteractive() error {
	// Initialize debug logger
	if err := utils.InitLogger(); err != nil {
		fmt.Printf("Warning: failed to initialize logger: %v\n", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session := newSession(context.Background(), cfg)
	defer session.closeHistory()

	p := tea.NewProgram(newModel(session))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("could not run program: %w", err)
	}
	return nil
}

func main() {
	Execute()
}
