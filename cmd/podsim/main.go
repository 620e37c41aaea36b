package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/podsim/internal/config"
	"github.com/san-kum/podsim/internal/metrics"
	"github.com/san-kum/podsim/internal/pod"
	"github.com/san-kum/podsim/internal/sim"
	"github.com/san-kum/podsim/internal/storage"
	"github.com/san-kum/podsim/internal/stripe"
	"github.com/san-kum/podsim/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string

	dt              float64
	duration        float64
	trackLength     float64
	wheels          int
	brakeCount      int
	brakeTrigger    string
	triggerDistance float64
	modelName       string

	plotField   string
	frameRate   int
	sweepList   string
	stripePitch float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "podsim",
		Short: "longitudinal pod trajectory simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".podsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation and replay it in the terminal",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep brake counts across parallel runs",
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepList, "counts", "2,4,6,8", "comma-separated brake counts")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "velocity", "trajectory column to plot")

	stripesCmd := &cobra.Command{
		Use:   "stripes [run_id]",
		Short: "detect track stripe crossings in a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  stripesRun,
	}
	stripesCmd.Flags().Float64Var(&stripePitch, "pitch", 30.48, "stripe spacing in metres")

	exportCmd := &cobra.Command{
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

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, listCmd, plotCmd, stripesCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "maximum simulated time")
	cmd.Flags().Float64Var(&trackLength, "track", 0, "track length (m)")
	cmd.Flags().IntVar(&wheels, "wheels", config.DefaultWheels, "driven wheel pairs")
	cmd.Flags().IntVar(&brakeCount, "brakes", 0, "active brake pads")
	cmd.Flags().StringVar(&brakeTrigger, "trigger", "", "brake trigger mode (energy|distance)")
	cmd.Flags().Float64Var(&triggerDistance, "trigger-distance", 0, "braking distance threshold (distance mode)")
	cmd.Flags().StringVar(&modelName, "model", "", "propulsion model (linear|table)")
}

// resolveConfig builds the effective run configuration from preset, config
// file, and CLI flags, in increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Run.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Run.Duration = duration
	}
	if cmd.Flags().Changed("track") {
		cfg.Vehicle.TrackLength = trackLength
	}
	if cmd.Flags().Changed("wheels") {
		cfg.Run.Wheels = wheels
	}
	if cmd.Flags().Changed("brakes") {
		cfg.Brakes.Count = brakeCount
	}
	if cmd.Flags().Changed("trigger") {
		cfg.Run.BrakeTrigger = brakeTrigger
	}
	if cmd.Flags().Changed("trigger-distance") {
		cfg.Run.TriggerDistance = triggerDistance
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = modelName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildDriver(cfg *config.Config) (*sim.Driver, error) {
	models, err := cfg.Models()
	if err != nil {
		return nil, err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	d, err := sim.NewDriver(cfg.PodVehicle(), cfg.PodBrakes(), simCfg, models)
	if err != nil {
		return nil, err
	}
	for _, m := range defaultMetrics() {
		d.AddMetric(m)
	}
	return d, nil
}

func defaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewTopSpeed(),
		metrics.NewPeakPower(),
		metrics.NewMeanEfficiency(),
		metrics.NewDistance(),
		metrics.NewRunTime(),
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	d, err := buildDriver(cfg)
	if err != nil {
		return err
	}

	fmt.Println("running simulation...")
	start := time.Now()
	result, err := d.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Model:    cfg.Model,
		Dt:       cfg.Run.Dt,
		Duration: cfg.Run.Duration,
		Wheels:   cfg.Run.Wheels,
		Brakes:   cfg.Brakes.Count,
		Trigger:  cfg.Run.BrakeTrigger,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	d, err := buildDriver(cfg)
	if err != nil {
		return err
	}
	result, err := d.Run(context.Background())
	if err != nil {
		return err
	}
	return tui.Run(result, frameRate)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	models, err := cfg.Models()
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	var variants []sim.Variant
	for _, field := range strings.Split(sweepList, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return fmt.Errorf("bad brake count %q: %w", field, err)
		}
		brakes := cfg.PodBrakes()
		brakes.Count = n
		variants = append(variants, sim.Variant{
			Name:   fmt.Sprintf("%d brakes", n),
			Veh:    cfg.PodVehicle(),
			Brakes: brakes,
			Cfg:    simCfg,
			Models: models,
		})
	}

	results, err := sim.Sweep(context.Background(), variants)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "variant\tsteps\ttop speed\tdistance\trun time")
	for i, res := range results {
		top, dist := 0.0, 0.0
		for _, rec := range res.Records {
			if rec.Velocity > top {
				top = rec.Velocity
			}
			if rec.Distance > dist {
				dist = rec.Distance
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f m/s\t%.1f m\t%.2f s\n",
			variants[i].Name, res.Steps, top, dist, res.Times[len(res.Times)-1])
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	metas, err := st.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tmodel\tsteps\tdt\tbrakes\ttimestamp")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%d\t%s\n",
			m.ID, m.Model, m.Steps, m.Dt, m.Brakes, m.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	data, ok := traj.Columns[plotField]
	if !ok {
		return fmt.Errorf("unknown field %q (have: %s)", plotField, strings.Join(storage.Columns, ", "))
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s (%s)", plotField, args[0])),
	)
	fmt.Println(graph)
	return nil
}

func stripesRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	vel := traj.Columns["velocity"]
	dist := traj.Columns["distance"]
	times := traj.Columns["time"]

	recs := make([]pod.Record, len(vel))
	for i := range vel {
		recs[i] = pod.Record{Velocity: vel[i], Distance: dist[i]}
	}

	crossings, err := stripe.Detect(recs, times, stripePitch)
	if err != nil {
		return err
	}
	if len(crossings) == 0 {
		fmt.Println("no stripe crossings")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "stripe\ttime\tvelocity")
	for _, c := range crossings {
		fmt.Fprintf(w, "%d\t%.3f s\t%.2f m/s\n", c.Stripe, c.Time, c.Velocity)
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	// JSON has no NaN, so sentinel efficiencies become null.
	columns := make(map[string][]*float64, len(traj.Columns))
	for name, col := range traj.Columns {
		vals := make([]*float64, len(col))
		for i, v := range col {
			if !math.IsNaN(v) {
				v := v
				vals[i] = &v
			}
		}
		columns[name] = vals
	}

	out := struct {
		Meta    *storage.RunMetadata  `json:"meta"`
		Phases  []string              `json:"phases"`
		Columns map[string][]*float64 `json:"columns"`
	}{meta, traj.Phases, columns}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
