package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spherelab/internal/analysis"
	"github.com/san-kum/spherelab/internal/automation"
	"github.com/san-kum/spherelab/internal/camera"
	"github.com/san-kum/spherelab/internal/control"
	"github.com/san-kum/spherelab/internal/export"
	"github.com/san-kum/spherelab/internal/gui"
	"github.com/san-kum/spherelab/internal/metrics"
	"github.com/san-kum/spherelab/internal/optim"
	"github.com/san-kum/spherelab/internal/render"
	"github.com/san-kum/spherelab/internal/sim"
	"github.com/san-kum/spherelab/internal/storage"
	"github.com/san-kum/spherelab/internal/stream"
	"github.com/san-kum/spherelab/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// escapeRadius bounds the stability metric; spawned spheres start within
// about 4.3 of the origin.
const escapeRadius = 10.0

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cmd.Context(), cfg, &control.Sign{})
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sign := &control.Sign{}
	sc, err := sim.FromConfig(cfg, sign)
	if err != nil {
		return err
	}
	d, err := sim.NewHeadless(sc, 0)
	if err != nil {
		return err
	}

	return viz.Run(cmd.Context(), d, sign, cfg.Window.FPS)
}

func recordRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sc, err := sim.FromConfig(cfg, &control.Sign{})
	if err != nil {
		return err
	}
	d, err := sim.NewHeadless(sc, cfg.Frames)
	if err != nil {
		return err
	}
	d.KeepEvery(keepEvery)
	for _, m := range metrics.Default(cfg.ImpulseScale, escapeRadius) {
		d.AddMetric(m)
	}

	fmt.Printf("recording %d frames of %d spheres...\n", cfg.Frames, sc.Store.Len())
	start := time.Now()

	result, err := d.Run(cmd.Context())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunInfo{
		Preset:       preset,
		Seed:         cfg.Seed,
		Timestep:     sc.World.Params().Timestep,
		ImpulseScale: cfg.ImpulseScale,
		Radii:        sc.Store.Radii(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d (kept %d)\n", result.Frames, len(result.Snapshots))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tSPHERES\tFRAMES\tIMPULSE")

	for _, run := range runs {
		name := run.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.3f\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Count,
			run.Frames,
			run.ImpulseScale,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	snaps, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("spheres: %d\n", meta.Count)
	fmt.Printf("samples: %d\n\n", len(snaps))

	spread := make([]float64, len(snaps))
	contacts := make([]float64, len(snaps))
	for i, s := range snaps {
		spread[i] = metrics.Spread(s)
		contacts[i] = float64(s.Contacts)
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{spread, "mean distance from origin"},
		{contacts, "contacts"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	snaps, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, snaps)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snaps, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, snaps)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snaps, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no frames in run %s", args[0])
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}

	var svg string
	if svgTrack >= 0 {
		svg = export.TrackSVG(snaps, svgTrack, width, height, "#7fffd4")
		if svg == "" {
			return fmt.Errorf("cannot plot sphere %d from %d frames", svgTrack, len(snaps))
		}
	} else {
		idx := svgFrame
		if idx < 0 {
			idx = len(snaps) - 1
		}
		if idx >= len(snaps) {
			return fmt.Errorf("frame %d out of range (%d saved)", idx, len(snaps))
		}
		cam := camera.Default(float32(width) / float32(height))
		svg = export.FrameSVG(cam, snaps[idx], width, height)
	}

	if svgOut == "" {
		_, err = fmt.Fprintln(os.Stdout, svg)
		return err
	}
	return os.WriteFile(svgOut, []byte(svg), 0644)
}

func serveScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sign := &control.Sign{}
	sc, err := sim.FromConfig(cfg, sign)
	if err != nil {
		return err
	}

	u := render.NewUniforms(sc.Store.Len())
	bridge, err := render.NewBridge(sc.Store, sc.World, sc.Handles, camera.Default(1), u)
	if err != nil {
		return err
	}

	hub := stream.NewHub(sign)
	d := sim.NewDriver(sc, bridge, sim.Headless, sim.Ticker(cfg.Window.FPS))
	d.AddObserver(hub)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return stream.Serve(ctx, addr, hub) })
	g.Go(func() error {
		_, err := d.Run(ctx)
		if err != nil {
			return err
		}
		return context.Canceled
	})

	fmt.Printf("streaming on ws://%s/ws\n", addr)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	build := func(s int64) (*sim.Driver, error) {
		c := *cfg
		c.Seed = s
		sc, err := sim.FromConfig(&c, &control.Sign{})
		if err != nil {
			return nil, err
		}
		d, err := sim.NewHeadless(sc, c.Frames)
		if err != nil {
			return nil, err
		}
		for _, m := range metrics.Default(c.ImpulseScale, escapeRadius) {
			d.AddMetric(m)
		}
		return d, nil
	}

	fmt.Printf("benchmarking %d seeds x %d frames\n\n", numRuns, cfg.Frames)
	start := time.Now()

	results, err := sim.NewEnsemble(build, numRuns, cfg.Seed).Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tENERGY\tSPREAD\tCONTACTS\tSTABILITY")

	total := 0
	for i, r := range results {
		total += r.Frames
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%.2f\t%.2f\n",
			cfg.Seed+int64(i),
			r.Frames,
			r.Metrics["kinetic_energy"],
			r.Metrics["mean_distance"],
			r.Metrics["contacts"],
			r.Metrics["stability"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d frames in %v (%.0f frames/sec)\n", total, elapsed, float64(total)/elapsed.Seconds())
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	snaps, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(snaps) < 2 {
		return fmt.Errorf("need at least 2 frames, run has %d", len(snaps))
	}

	dt := (snaps[len(snaps)-1].Time - snaps[0].Time) / float64(len(snaps)-1)
	spread := analysis.Series(snaps, metrics.Spread)
	ps := analysis.PowerSpectrum(spread)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d, dt: %.4fs\n", len(snaps), dt)
	fmt.Printf("dominant frequency: %.4f Hz\n\n", analysis.DominantFrequency(spread, dt))

	graph := asciigraph.Plot(ps,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum of mean distance"),
	)
	fmt.Println(graph)
	return nil
}

func lyapunovScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sign := &control.Sign{}
	a, err := sim.FromConfig(cfg, sign)
	if err != nil {
		return err
	}
	store, err := analysis.Perturb(a.Store, 0, perturbation)
	if err != nil {
		return err
	}
	b, err := sim.NewScene(store, cfg.Params(), control.NewRadialImpulse(cfg.ImpulseScale), sign)
	if err != nil {
		return err
	}

	lambda, err := analysis.Lyapunov(cmd.Context(), a, b, cfg.Frames)
	if err != nil {
		return err
	}

	fmt.Printf("frames: %d, offset: %g\n", cfg.Frames, perturbation)
	fmt.Printf("finite-time exponent: %.4f /s\n", lambda)
	fmt.Printf("final separation: %.6f\n", analysis.Separation(a, b))
	return nil
}

func tuneScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	build := func(params map[string]float64) (*sim.Driver, error) {
		c := *cfg
		c.ImpulseScale = params["impulse"]
		c.Physics.Restitution = params["restitution"]
		sc, err := sim.FromConfig(&c, &control.Sign{})
		if err != nil {
			return nil, err
		}
		d, err := sim.NewHeadless(sc, c.Frames)
		if err != nil {
			return nil, err
		}
		for _, m := range metrics.Default(c.ImpulseScale, escapeRadius) {
			d.AddMetric(m)
		}
		return d, nil
	}

	g := optim.NewGridSearch(
		[]string{"impulse", "restitution"},
		[][]float64{optim.Linspace(0.02, 0.3, gridPoints), optim.Linspace(0, 1, gridPoints)},
	)

	fmt.Printf("searching %d points for lowest %s...\n", gridPoints*gridPoints, tuneMetric)
	params, best, err := g.Search(cmd.Context(), build, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("impulse: %.4f\n", params["impulse"])
	fmt.Printf("restitution: %.4f\n", params["restitution"])
	fmt.Printf("%s: %.6f\n", tuneMetric, best)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(cmd.Context(), scenario, cfg, st)
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "(not saved)"
		}
		fmt.Printf("  step %d: %d frames, energy %.4f, %s\n",
			r.Step, r.Result.Frames, r.Result.Metrics["kinetic_energy"], id)
	}
	return err
}
