package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bloomsim/internal/config"
	"github.com/san-kum/bloomsim/internal/dice"
	"github.com/san-kum/bloomsim/internal/garden"
	"github.com/san-kum/bloomsim/internal/logging"
	"github.com/san-kum/bloomsim/internal/metrics"
	"github.com/san-kum/bloomsim/internal/sim"
	"github.com/san-kum/bloomsim/internal/storage"
	"github.com/san-kum/bloomsim/internal/viz"
)

var (
	dataPath   string
	logLevel   string
	noColor    bool
	configFile string
	preset     string
	days       int
	runs       int
	seed       uint64
	workers    int
	details    bool
	noSave     bool
	traceRun   int
	outcome    string
)

// main registers the bloomsim commands and exits with status 1 when the selected
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "bloomsim",
		Short:        "flower breeding simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataPath, "data", ".bloomsim/bloomsim.db", "batch database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored grids")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a batch of independent simulations",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&runs, "runs", config.DefaultRuns, "independent runs")
	runCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")
	runCmd.Flags().BoolVar(&details, "details", false, "print per-run CSV details")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the batch")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "run once and print the field after every day",
		Args:  cobra.NoArgs,
		RunE:  traceSingle,
	}
	addSimFlags(traceCmd)
	traceCmd.Flags().IntVar(&traceRun, "run", 0, "run index (selects the random stream)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored batches",
		Args:  cobra.NoArgs,
		RunE:  listBatches,
	}

	showCmd := &cobra.Command{
		Use:   "show [batch_id]",
		Short: "print the report of a stored batch",
		Args:  cobra.ExactArgs(1),
		RunE:  showBatch,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [batch_id]",
		Short: "plot the daily mean of an outcome",
		Args:  cobra.ExactArgs(1),
		RunE:  plotBatch,
	}
	plotCmd.Flags().StringVar(&outcome, "outcome", "hybrids", "hybrids, duplicates or fails")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [batch_id]",
		Short: "export per-run details as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [batch_id]",
		Short: "export batch metadata and summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	layoutsCmd := &cobra.Command{
		Use:   "layouts [name]",
		Short: "list layout presets or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showLayouts,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, traceCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, layoutsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "layout preset")
	cmd.Flags().IntVar(&days, "days", config.DefaultDays, "days per run")
	cmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
}

// resolveConfig layers defaults, the config file, the preset flag and explicit
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("days") {
		cfg.Days = days
	}
	if flags.Changed("runs") {
		cfg.Runs = runs
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if !flags.Changed("log-level") && configFile != "" && cfg.LogLevel != "" {
		logLevel = cfg.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	return logging.NewLogger(logLevel, os.Stderr)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s := sim.New(cfg.SimConfig())
	ens := sim.NewEnsemble(s, cfg.Runs, cfg.Seed)
	ens.SetWorkers(cfg.Workers)
	ens.SetLogger(log)

	log.Info("running batch", "preset", cfg.Preset, "runs", cfg.Runs, "days", cfg.Days, "seed", cfg.Seed)
	start := time.Now()

	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("batch finished", "elapsed", time.Since(start))

	summary := metrics.Summarize(results, len(cfg.Layout))

	if details {
		fmt.Println("Details:")
		if err := storage.ExportCSV(os.Stdout, summary); err != nil {
			return err
		}
		fmt.Println()
	}
	fmt.Print(viz.RenderSummary(summary))

	if noSave {
		return nil
	}

	st, err := storage.Open(dataPath)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Save(ctx, storage.BatchMeta{
		Preset:  cfg.Preset,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Days:    cfg.Days,
		Flowers: len(cfg.Layout),
		Seed:    cfg.Seed,
	}, results)
	if err != nil {
		return err
	}
	fmt.Printf("\nbatch id: %s\n", id)
	return nil
}

func traceSingle(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	color := !noColor

	s := sim.New(cfg.SimConfig())
	initial, err := s.Plant(dice.New(cfg.Seed, uint64(traceRun)))
	if err != nil {
		return err
	}
	fmt.Println("initial layout:")
	fmt.Println(viz.RenderGrid(initial.Dump(), color))
	fmt.Println()

	s.AddObserver(sim.ObserverFunc(func(run, day int, res garden.DailyResult, f *garden.Field) {
		fmt.Println(viz.RenderDay(day, res, f.Dump(), color))
		fmt.Println()
	}))

	result, err := s.Run(context.Background(), traceRun, dice.New(cfg.Seed, uint64(traceRun)))
	if err != nil {
		return err
	}

	fmt.Printf("totals: %s\n", result.Totals)
	return nil
}

func openStore() (*storage.Store, error) {
	if _, err := os.Stat(dataPath); err != nil {
		return nil, fmt.Errorf("no batch database at %s: %w", dataPath, err)
	}
	return storage.Open(dataPath)
}

func listBatches(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(dataPath); os.IsNotExist(err) {
		fmt.Println("no batches found")
		return nil
	}
	st, err := storage.Open(dataPath)
	if err != nil {
		return err
	}
	defer st.Close()

	batches, err := st.List(context.Background())
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		fmt.Println("no batches found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFIELD\tDAYS\tRUNS\tHYBRIDS\tDUPLICATES\tFAILS")
	for _, b := range batches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%d\t%d\t%d\t%d\n",
			b.ID,
			b.Preset,
			b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			b.Width, b.Height,
			b.Days,
			b.Runs,
			b.Totals.Hybrids,
			b.Totals.Duplicates,
			b.Totals.Fails,
		)
	}
	return w.Flush()
}

func loadSummary(id string) (*storage.BatchMeta, metrics.Summary, error) {
	st, err := openStore()
	if err != nil {
		return nil, metrics.Summary{}, err
	}
	defer st.Close()

	ctx := context.Background()
	meta, err := st.Load(ctx, id)
	if err != nil {
		return nil, metrics.Summary{}, err
	}
	results, err := st.LoadRuns(ctx, id)
	if err != nil {
		return nil, metrics.Summary{}, err
	}
	return meta, metrics.Summarize(results, meta.Flowers), nil
}

func showBatch(cmd *cobra.Command, args []string) error {
	meta, summary, err := loadSummary(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("batch: %s\n", meta.ID)
	fmt.Printf("preset: %s (%dx%d, %d flowers)\n", meta.Preset, meta.Width, meta.Height, meta.Flowers)
	fmt.Printf("seed: %d\n\n", meta.Seed)
	fmt.Print(viz.RenderSummary(summary))
	return nil
}

func plotBatch(cmd *cobra.Command, args []string) error {
	o, err := metrics.ParseOutcome(outcome)
	if err != nil {
		return err
	}
	meta, summary, err := loadSummary(args[0])
	if err != nil {
		return err
	}

	data := metrics.Series(summary, o)
	if len(data) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("batch: %s\n", meta.ID)
	fmt.Printf("runs: %d\n\n", meta.Runs)

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("mean %s per day", o)),
	)
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, summary, err := loadSummary(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, summary)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, summary, err := loadSummary(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, summary)
}

func showLayouts(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("layout presets:")
		for _, name := range config.ListPresets() {
			l := config.GetPreset(name)
			fmt.Printf("  %-8s %dx%d, %d flowers\n", name, l.Width, l.Height, len(l.Cells))
		}
		return nil
	}

	cfg := config.DefaultConfig()
	if err := cfg.ApplyPreset(args[0]); err != nil {
		return err
	}
	f, err := sim.New(cfg.SimConfig()).Plant(dice.New(0, 0))
	if err != nil {
		return err
	}
	fmt.Println(viz.RenderGrid(f.Dump(), !noColor))
	return nil
}
