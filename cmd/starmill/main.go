package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"starmill/internal/config"
	"starmill/internal/export"
	"starmill/internal/live"
	"starmill/internal/source"
	"starmill/internal/star"
)

var (
	version    = "dev"
	commit     = "none"
	buildDate  = "unknown"
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "starmill",
		Short: "Star-schema builder for raw communication batches",
		Long: `Starmill transforms a table of raw communication records (with
possibly-truncated JSON payloads) into a normalized dimensional model:
dimension tables, a user directory with inferred names, one fact row per
communication, and a communication/user bridge table with role flags.`,
	}

	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	// version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    buildDate,
				})
			} else {
				fmt.Printf("starmill %s (%s, %s)\n", version, commit, buildDate)
			}
		},
	})

	// init command
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Run: func(cmd *cobra.Command, args []string) {
			type Result struct {
				OK         bool   `json:"ok"`
				Message    string `json:"message,omitempty"`
				ConfigPath string `json:"config_path,omitempty"`
			}

			srcPath, _ := cmd.Flags().GetString("source")
			outPath, _ := cmd.Flags().GetString("out")

			cfg, err := config.Load()
			if err != nil {
				fail(fmt.Sprintf("Failed to load config: %v", err))
			}
			if srcPath != "" {
				cfg.Source.Path = srcPath
			}
			if outPath != "" {
				cfg.Output.Path = outPath
			}
			if err := cfg.Save(); err != nil {
				fail(fmt.Sprintf("Failed to save config: %v", err))
			}

			configDir, err := config.GetConfigDir()
			if err != nil {
				fail(fmt.Sprintf("Failed to get config directory: %v", err))
			}

			result := Result{
				OK:         true,
				Message:    "Starmill initialized",
				ConfigPath: configDir + "/config.yaml",
			}
			if jsonOutput {
				printJSON(result)
			} else {
				fmt.Printf("✓ Config: %s\n", result.ConfigPath)
			}
		},
	}
	initCmd.Flags().String("source", "", "Default source path (sqlite db or csv file)")
	initCmd.Flags().String("out", "", "Default output path (sqlite db or csv directory)")
	rootCmd.AddCommand(initCmd)

	// build command
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the star schema from a raw-records source",
		Long: `Load one batch of raw communication records, build the dimensional
model in memory, and write every output table to the destination.`,
		Run: func(cmd *cobra.Command, args []string) {
			srcPath, _ := cmd.Flags().GetString("source")
			srcTable, _ := cmd.Flags().GetString("table")
			outPath, _ := cmd.Flags().GetString("out")

			result := runBuild(srcPath, srcTable, outPath)
			if jsonOutput {
				printJSON(result)
				if !result.OK {
					os.Exit(1)
				}
				return
			}

			if !result.OK {
				fmt.Fprintf(os.Stderr, "Error: %s\n", result.Message)
				os.Exit(1)
			}

			printBuildResult(result)
		},
	}
	buildCmd.Flags().String("source", "", "Source path: sqlite db or csv file (default from config)")
	buildCmd.Flags().String("table", "", "Source table name for sqlite sources")
	buildCmd.Flags().String("out", "", "Output path: sqlite db or csv directory (default from config)")
	rootCmd.AddCommand(buildCmd)

	// watch command
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the star schema whenever the source changes",
		Run: func(cmd *cobra.Command, args []string) {
			type Result struct {
				OK      bool   `json:"ok"`
				Message string `json:"message,omitempty"`
			}

			srcPath, _ := cmd.Flags().GetString("source")
			srcTable, _ := cmd.Flags().GetString("table")
			outPath, _ := cmd.Flags().GetString("out")
			debounceSec, _ := cmd.Flags().GetInt("debounce")

			cfg, err := config.Load()
			if err != nil {
				fail(fmt.Sprintf("Failed to load config: %v", err))
			}
			srcPath, srcTable, outPath = applyConfig(cfg, srcPath, srcTable, outPath)
			if srcPath == "" || outPath == "" {
				fail("Source and output paths are required (flags or config)")
			}
			if debounceSec == 0 && cfg.Watch.DebounceSeconds > 0 {
				debounceSec = cfg.Watch.DebounceSeconds
			}

			w := live.NewWatcher(srcPath, func(ctx context.Context) error {
				result := runBuild(srcPath, srcTable, outPath)
				if !result.OK {
					return fmt.Errorf("%s", result.Message)
				}
				return nil
			})
			if debounceSec > 0 {
				w.Debounce = time.Duration(debounceSec) * time.Second
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				fail(fmt.Sprintf("Watch failed: %v", err))
			}
		},
	}
	watchCmd.Flags().String("source", "", "Source path: sqlite db or csv file (default from config)")
	watchCmd.Flags().String("table", "", "Source table name for sqlite sources")
	watchCmd.Flags().String("out", "", "Output path: sqlite db or csv directory (default from config)")
	watchCmd.Flags().Int("debounce", 0, "Debounce window in seconds")
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// BuildResult is the outcome of one build run, flag- and config-resolved.
type BuildResult struct {
	OK        bool             `json:"ok"`
	Message   string           `json:"message,omitempty"`
	Output    string           `json:"output,omitempty"`
	Warnings  []source.Warning `json:"warnings,omitempty"`
	Report    *star.Report     `json:"report,omitempty"`
	TableRows map[string]int   `json:"table_rows,omitempty"`
}

func runBuild(srcPath, srcTable, outPath string) BuildResult {
	cfg, err := config.Load()
	if err != nil {
		return BuildResult{OK: false, Message: fmt.Sprintf("Failed to load config: %v", err)}
	}
	srcPath, srcTable, outPath = applyConfig(cfg, srcPath, srcTable, outPath)
	if srcPath == "" {
		return BuildResult{OK: false, Message: "Source path is required (--source or config)"}
	}
	if outPath == "" {
		return BuildResult{OK: false, Message: "Output path is required (--out or config)"}
	}

	loaded, err := source.Load(srcPath, srcTable)
	if err != nil {
		return BuildResult{OK: false, Message: fmt.Sprintf("Failed to load source: %v", err)}
	}

	schema := star.Build(loaded.Records)
	tables := schema.Tables()

	if err := export.For(outPath).Write(tables); err != nil {
		return BuildResult{OK: false, Message: fmt.Sprintf("Failed to write output: %v", err)}
	}

	rows := make(map[string]int, len(tables))
	for _, t := range tables {
		rows[t.Name] = len(t.Rows)
	}

	return BuildResult{
		OK:        true,
		Output:    outPath,
		Warnings:  loaded.Warnings,
		Report:    schema.Report,
		TableRows: rows,
	}
}

func applyConfig(cfg *config.Config, srcPath, srcTable, outPath string) (string, string, string) {
	if srcPath == "" {
		srcPath = cfg.Source.Path
	}
	if srcTable == "" {
		srcTable = cfg.Source.Table
	}
	if outPath == "" {
		outPath = cfg.Output.Path
	}
	return srcPath, srcTable, outPath
}

func printBuildResult(result BuildResult) {
	r := result.Report
	fmt.Printf("✓ Star schema written to %s\n", result.Output)
	fmt.Printf("  Run: %s\n", r.RunID)
	fmt.Printf("  Records: %d (%d empty payloads)\n", r.Records, r.EmptyPayloads)
	fmt.Printf("  Users: %d\n", r.Users)
	fmt.Printf("  Facts: %d\n", r.Facts)
	fmt.Printf("  Bridge rows: %d\n", r.BridgeRows)
	fmt.Printf("  Duration: %s\n", r.Duration)

	for _, w := range result.Warnings {
		fmt.Printf("  ⚠ source row %d: %s\n", w.Row, w.Message)
	}
	for _, s := range r.Skips {
		fmt.Printf("  ⚠ record %s skipped in %s stage: %s\n", s.RecordID, s.Stage, s.Reason)
	}
}

func fail(message string) {
	if jsonOutput {
		printJSON(map[string]any{"ok": false, "message": message})
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
	os.Exit(1)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
