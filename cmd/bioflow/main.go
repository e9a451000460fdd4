package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"bioflow/internal/analysis"
	"bioflow/internal/config"
	"bioflow/internal/experiment"
	"bioflow/internal/optim"
	"bioflow/internal/sim"
	"bioflow/internal/storage"
	"bioflow/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string

	mua, mum, ks, xm, b, c, kp, ki, do float64
	x0, s0, kla0                       float64
	tEnd                               float64
	points                             int

	sweepMetric string
	chartOut    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bioflow",
		Short: "bioreactor growth and oxygen-transfer simulation",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bioflow", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the trajectory",
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "render a stored run to a PNG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVar(&chartOut, "out", "bioflow.png", "output file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [param=v1,v2,...]...",
		Short: "sweep parameter combinations against a run metric",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "setpoint_error", "metric to minimize")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "oscillation analysis of the oxygen channel",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, chartCmd, liveCmd, sweepCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset configuration")
	cmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator (euler, rk4)")

	cmd.Flags().Float64Var(&mua, "mua", config.DefaultMua, "anaerobic growth rate (1/hr)")
	cmd.Flags().Float64Var(&mum, "mum", config.DefaultMum, "max specific growth rate (1/hr)")
	cmd.Flags().Float64Var(&ks, "ks", config.DefaultKs, "half-saturation constant")
	cmd.Flags().Float64Var(&xm, "xm", config.DefaultXm, "carrying capacity")
	cmd.Flags().Float64Var(&b, "b", config.DefaultB, "oxygen consumption rate (1/hr)")
	cmd.Flags().Float64Var(&c, "c", config.DefaultC, "max dissolvable oxygen")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "proportional gain (recorded, unused)")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "integral gain (1/hr)")
	cmd.Flags().Float64Var(&do, "do", config.DefaultDo, "dissolved-oxygen setpoint")

	cmd.Flags().Float64Var(&x0, "x0", config.DefaultX0, "initial X/Xm")
	cmd.Flags().Float64Var(&s0, "s0", config.DefaultS0, "initial oxygen fraction")
	cmd.Flags().Float64Var(&kla0, "kla0", config.DefaultKla0, "initial kla (1/hr)")

	cmd.Flags().Float64Var(&tEnd, "time", config.DefaultTEnd, "simulation horizon (hr)")
	cmd.Flags().IntVar(&points, "points", config.DefaultPoints, "grid points")
}

// buildConfig resolves precedence: flags > config file > preset > defaults.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	flagParams := map[string]float64{
		"mua": mua, "mum": mum, "ks": ks, "xm": xm, "b": b,
		"c": c, "kp": kp, "ki": ki, "do": do,
		"x0": x0, "s0": s0, "kla0": kla0,
	}
	for name, value := range flagParams {
		if cmd.Flags().Changed(name) {
			if err := cfg.SetParam(name, value); err != nil {
				return nil, err
			}
		}
	}
	if cmd.Flags().Changed("time") {
		cfg.Grid.End = tEnd
	}
	if cmd.Flags().Changed("points") {
		cfg.Grid.Points = points
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("running %d-point grid over %.1f hr...\n", cfg.Grid.Points, cfg.Grid.End-cfg.Grid.Start)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for name, val := range result.Metrics {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, val)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tINTEG\tPOINTS\tKI\tDO\tB")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%.2f\t%.1f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Grid.Points,
			run.Params.Ki,
			run.Params.Do,
			run.Params.B,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(result.States))
	fmt.Println(viz.RenderTrajectory(result, meta.Params.Do))
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to chart")
	}

	if err := viz.RenderChart(result, meta.Params.Do, chartOut); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", chartOut)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	reactor := experiment.BuildModel(cfg)
	if err := reactor.Validate(); err != nil {
		return err
	}

	grid := sim.Grid{Start: cfg.Grid.Start, End: cfg.Grid.End, Points: cfg.Grid.Points}
	if grid.Points < 2 || grid.End <= grid.Start {
		return fmt.Errorf("%w: %d points on [%g, %g]", sim.ErrInvalidGrid, grid.Points, grid.Start, grid.End)
	}
	m := viz.NewModel(reactor, integ, cfg.InitState(), grid)

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(args))
	values := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, vals, err := parseSweepArg(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		values = append(values, vals)
	}

	sweep, err := optim.NewSweep(names, values)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %v, minimizing %s\n\n", names, sweepMetric)
	best, all, err := sweep.Run(context.Background(), cfg, sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := strings.Join(names, "\t")
	fmt.Fprintf(w, "%s\t%s\n", header, sweepMetric)
	for _, cand := range all {
		row := make([]string, 0, len(names)+1)
		for _, name := range names {
			row = append(row, strconv.FormatFloat(cand.Params[name], 'g', 6, 64))
		}
		if cand.Err != nil {
			row = append(row, "error: "+cand.Err.Error())
		} else {
			row = append(row, strconv.FormatFloat(cand.Score, 'f', 6, 64))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: %v (%s=%.6f)\n", best.Params, sweepMetric, best.Score)
	return nil
}

// parseSweepArg splits "ki=80,110,140" into a name and its candidates.
func parseSweepArg(arg string) (string, []float64, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("bad sweep argument %q, want param=v1,v2,...", arg)
	}
	parts := strings.Split(list, ",")
	vals := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad value %q for %s: %w", part, name, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to analyze")
	}

	oxygen := result.Channel(sim.IdxOxygen)
	duration := result.Times[len(result.Times)-1] - result.Times[0]

	ps := analysis.PowerSpectrum(oxygen)
	dominant := analysis.DominantFrequency(oxygen, duration)

	fmt.Printf("oscillation analysis: %s (Ki=%.1f, Do=%.2f)\n\n", meta.ID, meta.Params.Ki, meta.Params.Do)
	fmt.Println(viz.RenderSpectrum(ps, dominant))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, result)
}
