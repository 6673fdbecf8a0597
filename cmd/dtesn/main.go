package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/dtesn/internal/bseries"
	"github.com/san-kum/dtesn/internal/calculus"
	"github.com/san-kum/dtesn/internal/config"
	"github.com/san-kum/dtesn/internal/engine"
	"github.com/san-kum/dtesn/internal/enum"
	"github.com/san-kum/dtesn/internal/membrane"
	"github.com/san-kum/dtesn/internal/storage"
	"github.com/san-kum/dtesn/internal/viz"
)

var (
	preset  string
	verbose bool
	dataDir string
	saveRun bool

	// enum
	termCount  int
	asymptotic bool
	budget     int64

	// catalog
	maxOrder int

	// evolve
	strategy string
	workers  int
	seed     int64
	cycles   int
	signals  int

	// integrate
	rhsName  string
	stepSize float64
	steps    int
	y0       float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dtesn",
		Short: "deep tree echo state network toolkit",
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dtesn", "data directory")

	enumCmd := &cobra.Command{
		Use:   "enum",
		Short: "print the rooted-tree enumeration",
		RunE:  runEnum,
	}
	enumCmd.Flags().IntVar(&termCount, "count", 16, "number of terms")
	enumCmd.Flags().BoolVar(&asymptotic, "asymptotic", false, "extend past exact data with the Otter asymptotic")
	enumCmd.Flags().Int64Var(&budget, "budget", 0, "report the deepest order whose tree count fits this budget")

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "print the tree shape catalog",
		RunE:  runCatalog,
	}
	catalogCmd.Flags().IntVar(&maxOrder, "order", 5, "maximum tree order")

	validateCmd := &cobra.Command{
		Use:   "validate [config.yaml]",
		Short: "validate a configuration against the enumeration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runValidate,
	}

	hierarchyCmd := &cobra.Command{
		Use:   "hierarchy [config.yaml]",
		Short: "build and display the membrane hierarchy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHierarchy,
	}
	hierarchyCmd.Flags().StringVar(&preset, "preset", "", "use a preset configuration")

	evolveCmd := &cobra.Command{
		Use:   "evolve [config.yaml]",
		Short: "run membrane evolution cycles",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEvolve,
	}
	evolveCmd.Flags().StringVar(&preset, "preset", "", "use a preset configuration")
	evolveCmd.Flags().StringVar(&strategy, "strategy", engine.StrategySynchronous, "evolution strategy")
	evolveCmd.Flags().IntVar(&workers, "workers", 0, "async scan workers (0 = NumCPU)")
	evolveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	evolveCmd.Flags().IntVar(&cycles, "cycles", 100, "maximum evolution cycles")
	evolveCmd.Flags().IntVar(&signals, "signals", 8, "demo signals seeded at the root")
	evolveCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run to the data directory")

	integrateCmd := &cobra.Command{
		Use:   "integrate",
		Short: "integrate a scalar ODE with the B-series step",
		RunE:  runIntegrate,
	}
	integrateCmd.Flags().StringVar(&rhsName, "rhs", "linear", "right-hand side: linear, quadratic, logistic")
	integrateCmd.Flags().IntVar(&maxOrder, "order", 4, "truncation order")
	integrateCmd.Flags().Float64Var(&stepSize, "h", 0.1, "step size")
	integrateCmd.Flags().IntVar(&steps, "steps", 10, "number of steps")
	integrateCmd.Flags().Float64Var(&y0, "y0", 1.0, "initial value")

	liveCmd := &cobra.Command{
		Use:   "live [config.yaml]",
		Short: "watch evolution in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "use a preset configuration")
	liveCmd.Flags().StringVar(&strategy, "strategy", engine.StrategySynchronous, "evolution strategy")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	liveCmd.Flags().IntVar(&signals, "signals", 8, "demo signals seeded at the root")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE:  runPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [config.yaml]",
		Short: "write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved evolution runs",
		RunE:  runList,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print a saved run's final object distribution",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}

	rootCmd.AddCommand(enumCmd, catalogCmd, validateCmd, hierarchyCmd, evolveCmd, integrateCmd, liveCmd, presetsCmd, initCmd, runsCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func loadConfig(args []string) (*config.Config, error) {
	if preset != "" {
		cfg, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		return cfg, nil
	}
	if len(args) == 1 {
		return config.Load(args[0])
	}
	return config.DefaultConfig(), nil
}

func runEnum(cmd *cobra.Command, args []string) error {
	var provider enum.Provider
	if asymptotic {
		provider = enum.NewEnhanced()
	} else {
		provider = enum.NewBasic()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "n\ta(n)")
	for n, term := range provider.Sequence(termCount) {
		fmt.Fprintf(w, "%d\t%d\n", n, term)
	}
	w.Flush()

	if budget > 0 {
		fmt.Printf("\ndeepest order within %d trees per level: %d\n",
			budget, provider.MaxNodesForBudget(budget))
	}
	return nil
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := bseries.Build(maxOrder)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "id\torder\tsymmetry\tdensity\tcoefficient\tcost\texpression")
	for k := 1; k <= cat.MaxOrder(); k++ {
		shapes, err := cat.ShapesOfOrder(k)
		if err != nil {
			return err
		}
		for _, s := range shapes {
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.6f\t%d\t%s\n",
				s.ID, s.Order, s.Symmetry, s.Density, s.Coefficient, s.Cost, s.Expression)
		}
	}
	w.Flush()

	costs, err := cat.TotalCost(cat.MaxOrder())
	if err != nil {
		return err
	}
	fmt.Println()
	for k := 1; k <= cat.MaxOrder(); k++ {
		fmt.Printf("order %d: %d shapes, total cost %d\n", k, countOf(cat, k), costs[k])
	}
	return nil
}

func countOf(cat *bseries.Catalog, order int) int {
	shapes, err := cat.ShapesOfOrder(order)
	if err != nil {
		return 0
	}
	return len(shapes)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	violations := cfg.Validate()
	if len(violations) == 0 {
		fmt.Printf("%s v%s: membrane hierarchy is A000081 compliant (max depth %d)\n",
			cfg.Name, cfg.Version, cfg.MaxDepth)
		return nil
	}
	for _, v := range violations {
		fmt.Println("violation:", v)
	}
	return fmt.Errorf("%d violation(s)", len(violations))
}

func runHierarchy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	h, err := config.BuildHierarchy(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d membranes, depth %d\n\n", h.Name(), h.Len(), h.MaxDepth())
	fmt.Print(viz.RenderTree(h))
	return nil
}

func runEvolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	h, err := config.BuildHierarchy(cfg)
	if err != nil {
		return err
	}
	if err := config.SeedDemoRules(h, signals); err != nil {
		return err
	}

	e, err := engine.New(engine.Config{
		Strategy:    strategy,
		Workers:     workers,
		Seed:        seed,
		CycleBudget: time.Duration(cfg.TimingConstraints.MembraneEvolutionMaxUS) * time.Microsecond,
	})
	if err != nil {
		return err
	}
	e.WithLogger(newLogger())

	metrics, err := e.Evolve(context.Background(), h, cycles)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "cycles\t%d\n", metrics.Cycles)
	fmt.Fprintf(w, "rules applied\t%d\n", metrics.RulesApplied)
	fmt.Fprintf(w, "elapsed\t%s\n", metrics.Elapsed)
	fmt.Fprintf(w, "performance score\t%.3f\n", metrics.PerformanceScore)
	fmt.Fprintf(w, "budget exceeded\t%v\n", metrics.BudgetExceeded)
	fmt.Fprintf(w, "halted\t%v\n", h.Halted())
	w.Flush()

	fmt.Println()
	fmt.Print(viz.RenderTree(h))

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(strategy, seed, metrics, h)
		if err != nil {
			return err
		}
		fmt.Println("\nsaved run:", runID)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "id\tconfig\tstrategy\tcycles\trules\tscore\thalted\ttimestamp")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3f\t%v\t%s\n",
			r.ID, r.Config, r.Strategy, r.Cycles, r.RulesApplied,
			r.PerformanceScore, r.Halted, r.Timestamp.Format(time.RFC3339))
	}
	w.Flush()
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadObjects(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s, %d cycles, %d rules applied)\n\n",
		meta.ID, meta.Strategy, meta.Cycles, meta.RulesApplied)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "membrane\tlabel\ttype\tdepth\tobject\tcount")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%d\n",
			r.MembraneID, r.Label, r.Type, r.Depth, r.Object, r.Count)
	}
	w.Flush()
	return nil
}

// rhs bundles a right-hand side with its exact flow for error reporting.
type rhs struct {
	f     calculus.Func
	exact func(t float64) float64
}

func namedRHS(name string, y0 float64) (rhs, error) {
	switch name {
	case "linear":
		return rhs{
			f: calculus.Analytic{Derivs: []func(float64) float64{
				func(y float64) float64 { return y },
				func(float64) float64 { return 1 },
				func(float64) float64 { return 0 },
				func(float64) float64 { return 0 },
				func(float64) float64 { return 0 },
				func(float64) float64 { return 0 },
			}},
			exact: func(t float64) float64 { return y0 * math.Exp(t) },
		}, nil
	case "quadratic":
		return rhs{
			f: calculus.Analytic{Derivs: []func(float64) float64{
				func(y float64) float64 { return y * y },
				func(y float64) float64 { return 2 * y },
				func(float64) float64 { return 2 },
				func(float64) float64 { return 0 },
				func(float64) float64 { return 0 },
				func(float64) float64 { return 0 },
			}},
			exact: func(t float64) float64 { return y0 / (1 - y0*t) },
		}, nil
	case "logistic":
		return rhs{
			f: calculus.Analytic{Derivs: []func(float64) float64{
				func(y float64) float64 { return y * (1 - y) },
				func(y float64) float64 { return 1 - 2*y },
				func(float64) float64 { return -2 },
				func(float64) float64 { return 0 },
				func(float64) float64 { return 0 },
				func(float64) float64 { return 0 },
			}},
			exact: func(t float64) float64 {
				e := math.Exp(t)
				return y0 * e / (1 + y0*(e-1))
			},
		}, nil
	default:
		return rhs{}, fmt.Errorf("unknown rhs %q", name)
	}
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	r, err := namedRHS(rhsName, y0)
	if err != nil {
		return err
	}

	cat, err := bseries.Build(maxOrder)
	if err != nil {
		return err
	}
	calc := calculus.New(cat)

	traj, err := calc.Integrate(r.f, y0, stepSize, steps, maxOrder)
	if err != nil {
		return err
	}

	graph := asciigraph.Plot(traj,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("y' = %s, h = %g, order %d", rhsName, stepSize, maxOrder)))
	fmt.Println(graph)

	finalT := stepSize * float64(steps)
	exact := r.exact(finalT)
	fmt.Printf("\ny(%s) = %.10f  exact = %.10f  error = %.3e\n",
		strconv.FormatFloat(finalT, 'g', -1, 64), traj[len(traj)-1], exact,
		math.Abs(traj[len(traj)-1]-exact))

	// Single-step convergence under halving h.
	fmt.Println("\nconvergence (one step):")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "h\terror\tratio")
	prev := 0.0
	for i, h := 0, stepSize; i < 5; i, h = i+1, h/2 {
		y1, err := calc.Step(r.f, y0, h, maxOrder)
		if err != nil {
			return err
		}
		stepErr := math.Abs(y1 - r.exact(h))
		if i == 0 {
			fmt.Fprintf(w, "%g\t%.3e\t-\n", h, stepErr)
		} else {
			ratio := "-"
			if stepErr > 0 {
				ratio = fmt.Sprintf("%.1f", prev/stepErr)
			}
			fmt.Fprintf(w, "%g\t%.3e\t%s\n", h, stepErr, ratio)
		}
		prev = stepErr
	}
	w.Flush()
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	build := func() (*membrane.Hierarchy, *engine.Engine, error) {
		h, err := config.BuildHierarchy(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := config.SeedDemoRules(h, signals); err != nil {
			return nil, nil, err
		}
		e, err := engine.New(engine.Config{Strategy: strategy, Seed: seed})
		if err != nil {
			return nil, nil, err
		}
		return h, e, nil
	}
	return viz.RunLive(build)
}

func runPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "preset\tmax depth\tlevels\tspectral radius\tleak rate")
	for _, name := range []string{"minimal", "standard", "deep", "realtime"} {
		cfg := config.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.2f\n",
			name, cfg.MaxDepth, len(cfg.MembraneHierarchy),
			cfg.ESNParameters.SpectralRadius, cfg.ESNParameters.LeakRate)
	}
	w.Flush()
	return nil
}
