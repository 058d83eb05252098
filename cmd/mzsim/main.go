package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mzsim/internal/config"
	"github.com/san-kum/mzsim/internal/driver"
	"github.com/san-kum/mzsim/internal/fsi"
	"github.com/san-kum/mzsim/internal/metrics"
	"github.com/san-kum/mzsim/internal/models"
	"github.com/san-kum/mzsim/internal/spectral"
	"github.com/san-kum/mzsim/internal/store"
	"github.com/san-kum/mzsim/internal/zone"
)

var (
	configFile string
	driverName string
	modelName  string
	nZone      int
	steps      int
	period     float64
	freqs      []float64
	relaxation float64
	tolerance  float64
	maxIter    int
	exportPath string
	jsonOut    bool
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mzsim",
		Short: "multi-zone simulation driver",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run outer steps of the configured driver",
		RunE:  runDriver,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&driverName, "driver", "", "driver kind (single|multizone|spectral|fsi)")
	runCmd.Flags().StringVar(&modelName, "model", "", "zone model (channel|fsipair)")
	runCmd.Flags().IntVar(&nZone, "nzone", 0, "number of zones")
	runCmd.Flags().IntVar(&steps, "steps", 0, "outer steps")
	runCmd.Flags().Float64Var(&period, "period", 0, "modeled period")
	runCmd.Flags().Float64SliceVar(&freqs, "frequencies", nil, "harmonic frequencies (zero mode first)")
	runCmd.Flags().Float64Var(&relaxation, "relaxation", 0, "BGS relaxation factor")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", 0, "BGS convergence tolerance")
	runCmd.Flags().IntVar(&maxIter, "max-iter", 0, "BGS iteration cap")
	runCmd.Flags().StringVar(&exportPath, "export", "", "export run data to JSON file")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print run data as JSON")

	operatorCmd := &cobra.Command{
		Use:   "operator",
		Short: "print the spectral coupling operator matrix",
		RunE:  printOperator,
	}
	operatorCmd.Flags().IntVar(&nZone, "nzone", config.DefaultNZone, "number of zone instances")
	operatorCmd.Flags().Float64Var(&period, "period", config.DefaultPeriod, "modeled period")
	operatorCmd.Flags().Float64SliceVar(&freqs, "frequencies", nil, "harmonic frequencies (zero mode first)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write a default configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	})

	rootCmd.AddCommand(runCmd, operatorCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override the file.
	if cmd.Flags().Changed("driver") {
		cfg.Driver = driverName
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = modelName
	}
	if cmd.Flags().Changed("nzone") {
		cfg.NZone = nZone
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("period") {
		cfg.Period = period
	}
	if cmd.Flags().Changed("frequencies") {
		cfg.Frequencies = freqs
	}
	if cmd.Flags().Changed("relaxation") {
		cfg.Coupling.Relaxation = relaxation
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Coupling.Tolerance = tolerance
	}
	if cmd.Flags().Changed("max-iter") {
		cfg.Coupling.MaxIterations = maxIter
	}

	// The FSI demo pairs naturally: pick the matching model unless the
	// user chose one.
	if cfg.Driver == "fsi" && !cmd.Flags().Changed("model") && configFile == "" {
		cfg.Model = "fsipair"
		cfg.NZone = 2
	}

	return cfg, cfg.Validate()
}

func runDriver(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	zones, geo, err := models.Build(cfg)
	if err != nil {
		return err
	}

	kind, err := driver.KindFromString(cfg.Driver)
	if err != nil {
		return err
	}

	d, err := driver.New(kind, zones, geo, driver.Options{
		Spectral: spectral.Params{
			NZone:  cfg.NZone,
			Period: cfg.Period,
			Omega:  cfg.Frequencies,
		},
		Relaxation:    cfg.Coupling.Relaxation,
		Tolerance:     cfg.Coupling.Tolerance,
		MaxIterations: cfg.Coupling.MaxIterations,
	})
	if err != nil {
		return err
	}

	fmt.Printf("running %s driver (%s, %d zones)...\n", cfg.Driver, cfg.Model, cfg.NZone)
	start := time.Now()

	ctx := context.Background()
	for step := 0; step < cfg.Steps; step++ {
		if err := d.Run(ctx); err != nil {
			return fmt.Errorf("outer step %d: %w", step, err)
		}
	}
	elapsed := time.Since(start)

	data := collectRunData(cfg, d, zones, elapsed)
	printSummary(data, elapsed)

	if exportPath != "" {
		if err := store.ExportJSON(exportPath, data); err != nil {
			return err
		}
		fmt.Printf("exported %s\n", exportPath)
	}
	if jsonOut {
		return store.ExportJSONStdout(data)
	}
	return nil
}

func collectRunData(cfg *config.Config, d driver.Driver, zones []*zone.Container, elapsed time.Duration) *store.RunData {
	data := &store.RunData{
		Driver:    cfg.Driver,
		Model:     cfg.Model,
		NZone:     cfg.NZone,
		Steps:     cfg.Steps,
		Elapsed:   elapsed.Seconds(),
		Timestamp: time.Now(),
	}

	for _, z := range zones {
		data.Quantities = append(data.Quantities, []float64(z.Solvers.CouplingQuantity().Clone()))
	}

	if r, ok := d.(interface{ Rebuilds() int }); ok {
		data.OperatorRebuilds = r.Rebuilds()
	}
	if r, ok := d.(interface{ LastResult() *fsi.Result }); ok {
		if res := r.LastResult(); res != nil {
			data.Coupling = &store.Coupling{
				Status:     res.Status.String(),
				Iterations: res.Iterations,
				Residual:   res.Residual,
				History:    append([]float64(nil), res.History...),
			}
		}
	}
	return data
}

func printSummary(data *store.RunData, elapsed time.Duration) {
	fmt.Printf("completed in %v\n\n", elapsed)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", keyStyle.Render("driver"), data.Driver)
	fmt.Fprintf(w, "%s\t%s\n", keyStyle.Render("model"), data.Model)
	fmt.Fprintf(w, "%s\t%d\n", keyStyle.Render("zones"), data.NZone)
	fmt.Fprintf(w, "%s\t%d\n", keyStyle.Render("outer steps"), data.Steps)
	if data.OperatorRebuilds > 0 {
		fmt.Fprintf(w, "%s\t%d\n", keyStyle.Render("operator rebuilds"), data.OperatorRebuilds)
	}
	w.Flush()

	if data.Coupling != nil {
		c := data.Coupling
		badge := okStyle.Render(c.Status)
		if c.Status != fsi.Converged.String() {
			badge = warnStyle.Render(c.Status)
		}
		fmt.Printf("\ncoupling: %s after %d iterations (residual %.3e)\n", badge, c.Iterations, c.Residual)
		if rate := metrics.ReductionRate(c.History); !math.IsNaN(rate) {
			fmt.Printf("mean residual reduction per iteration: %.3f (%.1f orders total)\n",
				rate, metrics.OrdersReduced(c.History))
		}

		if len(c.History) > 1 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(c.History,
				asciigraph.Height(10),
				asciigraph.Width(60),
				asciigraph.Caption("BGS residual per iteration"),
			))
		}
	} else if len(data.Quantities) > 1 {
		samples := make([]float64, len(data.Quantities))
		for i, q := range data.Quantities {
			if len(q) > 0 {
				samples[i] = q[0]
			}
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(samples,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("coupling quantity per zone instance"),
		))
	}
}

func printOperator(cmd *cobra.Command, args []string) error {
	var (
		d   [][]float64
		err error
	)
	if len(freqs) > 0 {
		d, err = spectral.HarmonicBalanceOperator(nZone, period, freqs)
	} else {
		d, err = spectral.TimeSpectralOperator(nZone, period)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, row := range d {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strconv.FormatFloat(v, 'g', 6, 64)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
	}
	return w.Flush()
}
