package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/san-kum/spherelab/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir      string
	configFile   string
	preset       string
	seed         int64
	frames       int
	width        int
	height       int
	fps          int
	envMap       string
	withAudio    bool
	impulseScale float64
	restitution  float64
	friction     float64
	damping      float64
	keepEvery    int
	addr         string
	numRuns      int
	svgFrame     int
	svgTrack     int
	svgOut       string
	perturbation float64
	tuneMetric   string
	gridPoints   int
)

// main registers the commands and opens the window when no subcommand is
// given. It exits with status 1 if the command fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:          "spherelab",
		Short:        "ray-cast spheres pulled together by rigid-body physics",
		SilenceUsage: true,
		RunE:         runWindow,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	sceneFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "open the render window",
		RunE:  runWindow,
	}
	sceneFlags(runCmd)
	runCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "window width")
	runCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "window height")
	runCmd.Flags().StringVar(&envMap, "env-map", "", "equirectangular environment image")
	runCmd.Flags().BoolVar(&withAudio, "audio", false, "play a pad that follows kinetic energy")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the scene in the terminal",
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "run headless and save the frames",
		RunE:  recordRun,
	}
	sceneFlags(recordCmd)
	recordCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	recordCmd.Flags().IntVar(&keepEvery, "keep-every", 1, "save every nth frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot spread and contacts of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one frame, or one sphere's path, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgFrame, "frame", -1, "saved frame index (default last)")
	exportSVGCmd.Flags().IntVar(&svgTrack, "track", -1, "plot the path of this sphere instead")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 600, "image height")
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default stdout)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames over a websocket at /ws",
		RunE:  serveScene,
	}
	sceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run several seeds headless in parallel",
		RunE:  benchScene,
	}
	sceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per run")
	benchCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate sensitivity to the starting positions",
		RunE:  lyapunovScene,
	}
	sceneFlags(lyapunovCmd)
	lyapunovCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	lyapunovCmd.Flags().Float64Var(&perturbation, "eps", 1e-6, "initial offset of the first sphere")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search impulse scale and restitution",
		RunE:  tuneScene,
	}
	sceneFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per run")
	tuneCmd.Flags().IntVar(&gridPoints, "points", 4, "grid points per parameter")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "mean_distance", "metric to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of headless runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	sceneFlags(scenarioCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, recordCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, serveCmd, benchCmd, analyzeCmd, lyapunovCmd, tuneCmd, scenarioCmd, presetsCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// sceneFlags registers the flags shared by every command that builds a scene.
func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&impulseScale, "impulse", 0.1, "impulse scale")
	cmd.Flags().Float64Var(&restitution, "restitution", 0, "contact restitution")
	cmd.Flags().Float64Var(&friction, "friction", 0, "contact friction")
	cmd.Flags().Float64Var(&damping, "damping", 0, "linear damping")
}

// loadConfig applies preset, then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("impulse") {
		cfg.ImpulseScale = impulseScale
	}
	if flags.Changed("restitution") {
		cfg.Physics.Restitution = restitution
	}
	if flags.Changed("friction") {
		cfg.Physics.Friction = friction
	}
	if flags.Changed("damping") {
		cfg.Physics.LinearDamping = damping
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("width") {
		cfg.Window.Width = width
	}
	if flags.Changed("height") {
		cfg.Window.Height = height
	}
	if flags.Changed("fps") {
		cfg.Window.FPS = fps
	}
	if flags.Changed("env-map") {
		cfg.EnvMap = envMap
	}
	if flags.Changed("audio") {
		cfg.Audio = withAudio
	}
	if cmd.Root().PersistentFlags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	return cfg, cfg.Validate()
}
