package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/excel"
	"github.com/derekprior/lineup/internal/logging"
	"github.com/derekprior/lineup/internal/roster"
	"github.com/derekprior/lineup/internal/schedule"
	"github.com/derekprior/lineup/internal/validator"
	"github.com/derekprior/lineup/internal/variant"
)

const (
	defaultConfigFile = "config.yaml"
	defaultRosterFile = "roster.yaml"
)

// resolveConfig loads the config flag, then config.yaml in the current
// directory, and falls back to the defaults when neither exists.
func resolveConfig(configFlag string) (*config.Config, error) {
	path := configFlag
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			cfg := config.Default()
			return &cfg, nil
		}
		path = defaultConfigFile
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func resolveRoster(rosterFlag string) ([]roster.Player, error) {
	path := rosterFlag
	if path == "" {
		if _, err := os.Stat(defaultRosterFile); err != nil {
			return nil, fmt.Errorf("no roster file found. Either create %s in the current directory or pass --roster", defaultRosterFile)
		}
		path = defaultRosterFile
	}
	players, err := config.LoadRosterFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	return players, nil
}

func main() {
	var logLevel string
	var logger *logrus.Logger

	rootCmd := &cobra.Command{
		Use:   "lineup",
		Short: "Football lineup, playing time and substitution planner",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New(logLevel, os.Stderr)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (default: $LOG_LEVEL or info)")

	var initDir string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml and roster.yaml",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initDir)
		},
	}
	initCmd.Flags().StringVarP(&initDir, "dir", "d", ".", "Directory to write the starter files into")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate, compare and validate match plans",
	}

	var configFile, rosterFile string
	planCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory, else built-in defaults)")
	planCmd.PersistentFlags().StringVar(&rosterFile, "roster", "", "Path to roster file (default: roster.yaml in current directory)")

	var outputFile, strategyName string
	var asJSON bool
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Plan a match from a config and roster",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(configFile)
			if err != nil {
				return err
			}
			players, err := resolveRoster(rosterFile)
			if err != nil {
				return err
			}
			return runGenerate(logger, cfg, players, strategyName, outputFile, asJSON)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path (empty to skip)")
	generateCmd.Flags().StringVar(&strategyName, "strategy", "", "Override the config's strategy")
	generateCmd.Flags().BoolVar(&asJSON, "json", false, "Print the schedule as JSON instead of tables")

	var count int
	variantsCmd := &cobra.Command{
		Use:          "variants",
		Short:        "Generate several plans and rank them by fairness",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(configFile)
			if err != nil {
				return err
			}
			players, err := resolveRoster(rosterFile)
			if err != nil {
				return err
			}
			return runVariants(cmd.Context(), logger, cfg, players, count)
		},
	}
	variantsCmd.Flags().IntVarP(&count, "count", "n", 3, "Number of variants to generate")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a schedule workbook against the config and roster",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(configFile)
			if err != nil {
				return err
			}
			players, err := resolveRoster(rosterFile)
			if err != nil {
				return err
			}
			return runValidate(cfg, players, args[0])
		},
	}

	var addr string
	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the planning HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(logger, logLevel, addr)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: $LINEUP_ADDR or :8080)")

	planCmd.AddCommand(generateCmd, variantsCmd, validateCmd)
	rootCmd.AddCommand(initCmd, planCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(dir string) error {
	files := []struct {
		name, content string
	}{
		{defaultConfigFile, configTemplate},
		{defaultRosterFile, rosterTemplate},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; remove it first or use --dir to write elsewhere", path)
		}
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		fmt.Printf("✓ Created %s\n", path)
	}
	return nil
}

func runGenerate(logger *logrus.Logger, cfg *config.Config, players []roster.Player, strategyName, outputPath string, asJSON bool) error {
	opts := []schedule.Option{schedule.WithLogger(logrus.NewEntry(logger))}
	if strategyName != "" {
		opts = append(opts, schedule.WithStrategy(strategyName))
	}

	available := roster.Available(players)
	if !asJSON {
		fmt.Printf("Planning %d minutes for %d available players (%d absent)...\n",
			cfg.Match.TotalMinutes, len(available), len(players)-len(available))
	}

	sched, err := schedule.Build(players, cfg, opts...)
	if err != nil {
		return fmt.Errorf("planning match (%s): %w", schedule.Kind(err), err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sched); err != nil {
			return fmt.Errorf("encoding schedule: %w", err)
		}
	} else {
		printSchedule(sched)
	}

	if outputPath == "" {
		return nil
	}
	f, err := excel.Generate(cfg, sched)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	if !asJSON {
		fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	}
	return nil
}

func printSchedule(sched *schedule.Schedule) {
	fmt.Printf("✓ Schedule %s (%s)\n", sched.ID, sched.Strategy)

	for _, p := range sched.Periods {
		fmt.Printf("\n%s (%d'-%d')\n", p.Label, p.Start, p.End)
		fmt.Printf("  %-6s %s\n", "GK", p.Goalkeeper)
		for _, a := range p.Lineup {
			fmt.Printf("  %-6s %s\n", a.Slot, a.Player)
		}
		if len(p.Bench) > 0 {
			fmt.Printf("  %-6s %s\n", "Bench", strings.Join(p.Bench, ", "))
		}
	}

	if len(sched.Substitutions) > 0 {
		fmt.Printf("\nSubstitutions (%d):\n", len(sched.Substitutions))
		for _, s := range sched.Substitutions {
			fmt.Printf("  %3d'  %-9s %-6s %s → %s\n", s.Minute, s.Kind, s.Slot, s.Out, s.In)
		}
	} else {
		fmt.Println("\nNo substitutions")
	}

	fmt.Println("\nMinutes:")
	fmt.Printf("  %-15s %6s %7s %5s %5s\n", "Player", "Target", "Minutes", "1st", "2nd")
	for _, m := range sched.Minutes {
		fmt.Printf("  %-15s %6d %7d %5d %5d\n", m.Name, m.Target, m.Minutes, m.FirstHalf, m.SecondHalf)
	}

	fmt.Printf("\nAverage team strength: %.2f (1st half %.2f, 2nd half %.2f)\n",
		sched.Metrics.AverageTeamStrength, sched.Metrics.FirstHalfStrength, sched.Metrics.SecondHalfStrength)
	fmt.Printf("Minutes spread: %d (std dev %.2f)\n", sched.Metrics.MinutesVariance, sched.Metrics.FairnessStdDev)
	if sched.Metrics.Fair {
		fmt.Println("✓ Minutes are fair")
	} else {
		fmt.Println("⚠ Minutes are not within the fairness threshold")
	}
}

func runVariants(ctx context.Context, logger *logrus.Logger, cfg *config.Config, players []roster.Player, n int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	variants, err := variant.GenerateVariants(ctx, players, cfg, n, schedule.WithLogger(logrus.NewEntry(logger)))
	if err != nil {
		return fmt.Errorf("generating variants (%s): %w", schedule.Kind(err), err)
	}

	fmt.Printf("%-4s %-8s %-18s %-12s %8s %7s %9s %5s\n",
		"Rank", "ID", "Strategy", "Keeper", "Std dev", "Spread", "Strength", "Fair")
	for i, s := range variants {
		fair := "no"
		if s.Metrics.Fair {
			fair = "yes"
		}
		fmt.Printf("%-4d %-8s %-18s %-12s %8.2f %7d %9.2f %5s\n",
			i+1, s.ID[:8], s.Strategy, s.Periods[0].Goalkeeper,
			s.Metrics.FairnessStdDev, s.Metrics.MinutesVariance, s.Metrics.AverageTeamStrength, fair)
	}
	return nil
}

func runValidate(cfg *config.Config, players []roster.Player, schedulePath string) error {
	violations, err := validator.Validate(cfg, players, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		where := ""
		if v.Sheet != "" && v.Row > 0 {
			where = fmt.Sprintf(" [%s row %d]", v.Sheet, v.Row)
		}
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Invalid plan: %s%s\n", v.Message, where)
		case "warning":
			warnings++
			fmt.Printf("⚠ Fairness: %s%s\n", v.Message, where)
		}
	}

	fmt.Printf("\nValidation complete: %d errors, %d warnings\n", errors, warnings)
	if errors > 0 {
		return fmt.Errorf("%d problems found", errors)
	}
	return nil
}
