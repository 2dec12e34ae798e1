package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	evah "evah-sdk"
	"evah-sdk/cmd/evah/internal/utils"
	"evah-sdk/models"
	"evah-sdk/render"
)

var (
	runParamsPath string
	runOutDir     string
	runNetCDF     bool
	runPNG        bool
	runHTML       bool
	runNoCSV      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model once and export the results",
	Long: `Run submits the parameters in the params file (or the defaults) to the
model service, prints the peak values and writes the selected files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := utils.InitLogger(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("out") {
			cfg.OutputDir = runOutDir
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		session := newSession(ctx, cfg)
		defer session.closeHistory()

		if runParamsPath != "" {
			p, err := models.LoadParamsFile(runParamsPath)
			if err != nil {
				return err
			}
			session.store.Load(p)
		}
		if runNetCDF {
			session.store.SetNetCDF(true)
		}

		return runBatch(ctx, session, ExportOptions{
			CSV:    !runNoCSV,
			NetCDF: runNetCDF,
			PNG:    runPNG,
			HTML:   runHTML,
		})
	},
}

func runBatch(ctx context.Context, session *Session, opts ExportOptions) error {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, f := range session.store.Fields() {
		if v, ok := session.store.Verdict(f.Name); ok && v.OK && v.Advisory {
			yellow.Printf("⚠ %s: %s\n", f.Label, v.Message)
		}
	}
	if !session.store.IsSubmittable() {
		var first *evah.ValidationError
		for _, name := range session.store.Invalid() {
			v, _ := session.store.Verdict(name)
			red.Printf("✗ %s: %s\n", name, v.Message)
			if first == nil {
				first = evah.NewValidationError(name, v)
			}
		}
		return fmt.Errorf("parameters are invalid, nothing was submitted: %w", first)
	}

	fmt.Printf("Running %s model at %s...\n", session.store.Variant(), cyan(session.client.GetBaseURL()))
	out, accepted := session.controller.Submit(ctx)
	if !accepted {
		return fmt.Errorf("run not accepted")
	}
	if out.Err != nil {
		red.Printf("✗ Run failed (%s error)\n", out.FailureKind())
		switch {
		case evah.IsApplication(out.Err):
			yellow.Printf("The model rejected the parameters. Details were written to %s\n", utils.LogPath())
		case evah.IsTransport(out.Err):
			yellow.Printf("Check that the model service is reachable at %s\n", session.client.GetBaseURL())
		}
		return out.Err
	}
	green.Printf("✓ Run %s completed in %s\n\n", out.RunID, out.Duration.Round(time.Millisecond))

	if out.Stats != nil {
		printStats(*out.Stats)
	}
	if out.RenderErr != nil {
		yellow.Printf("⚠ Plots could not be drawn: %v\n", out.RenderErr)
	}

	written, err := exportResults(out.Dataset, session.store.Variant(), session.cfg.OutputDir, opts)
	for _, path := range written {
		fmt.Printf("  wrote %s\n", absPath(path))
	}
	return err
}

func printStats(stats render.Stats) {
	label := color.New(color.FgMagenta).SprintFunc()
	value := color.New(color.Bold).SprintFunc()
	for _, line := range stats.Lines() {
		fmt.Printf("%-36s %s\n", label(line.Label), value(line.Value))
	}
	fmt.Println()
}

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a params file with the default eruption parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if models.ParamsFileExists(models.ParamsFilename) && !initForce {
			return fmt.Errorf("%s already exists, use --force to overwrite", models.ParamsFilename)
		}
		if err := models.SaveParamsFile(models.ParamsFilename, models.DefaultParameterSet()); err != nil {
			return err
		}
		color.Green("✓ Wrote %s", models.ParamsFilename)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("evah version %s\n", version)
		fmt.Printf("Git commit: %s\n", gitCommit)
		fmt.Printf("Built: %s\n", buildTime)
	},
}

func init() {
	runCmd.Flags().StringVar(&runParamsPath, "params", "", "Params file to submit (default: "+models.ParamsFilename+" when present)")
	runCmd.Flags().StringVarP(&runOutDir, "out", "o", "", "Output directory (default: EVAH_OUTPUT_DIR env var or .)")
	runCmd.Flags().BoolVar(&runNetCDF, "netcdf", false, "Request and write NetCDF output (extended variant)")
	runCmd.Flags().BoolVar(&runPNG, "png", false, "Write PNG images of the plots")
	runCmd.Flags().BoolVar(&runHTML, "html", false, "Write an HTML page with interactive plots")
	runCmd.Flags().BoolVar(&runNoCSV, "no-csv", false, "Skip the CSV tables")

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing params file")
}
