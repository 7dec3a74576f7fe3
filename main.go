package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wildstyl3r/bzscope/internal/config"
	"github.com/wildstyl3r/bzscope/internal/info"
	"github.com/wildstyl3r/bzscope/internal/model"
	"github.com/wildstyl3r/bzscope/internal/plugin"
	"github.com/wildstyl3r/bzscope/internal/rng"
	"github.com/wildstyl3r/bzscope/internal/utils"
)

var (
	verbose  bool
	threads  int
	plot     bool
	checkLux int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "bzscope",
		Short:        "scattering kernels from material descriptions",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress")

	xsCmd := &cobra.Command{
		Use:   "xs [config]",
		Short: "tabulate total cross sections",
		Args:  cobra.ExactArgs(1),
		RunE:  runCrossSections,
	}
	xsCmd.Flags().BoolVar(&plot, "plot", true, "draw cross section curves")

	sampleCmd := &cobra.Command{
		Use:   "sample [config]",
		Short: "sample scattering events",
		Args:  cobra.ExactArgs(1),
		RunE:  runSampling,
	}
	sampleCmd.Flags().IntVar(&threads, "threads", 0, "worker count, 0 uses every CPU")
	sampleCmd.Flags().BoolVar(&plot, "plot", true, "draw final energy histograms")

	checkCmd := &cobra.Command{
		Use:   "check [material]",
		Short: "report whether a material file builds a model",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	checkCmd.Flags().IntVar(&checkLux, "lux", model.DefaultOptions().VDOSLux, "vdos expansion quality, 0..5")

	selftestCmd := &cobra.Command{
		Use:   "selftest",
		Short: "run the built-in self-test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return plugin.CustomPluginTest(cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(xsCmd, sampleCmd, checkCmd, selftestCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type builtModel struct {
	name       string
	parameters config.ModelParameters
	model      *model.PhysicsModel
}

func buildModels(configFileName string) (*config.Config, []builtModel, error) {
	cfg, err := config.Load(configFileName)
	if err != nil {
		return nil, nil, err
	}
	var models []builtModel
	for _, name := range cfg.MaterialNames() {
		parameters := cfg.Materials[name]
		parameters.SetVerbosity(verbose)
		mat, err := info.LoadFile(parameters.File)
		if err != nil {
			return nil, nil, fmt.Errorf("material %s: %w", name, err)
		}
		if !plugin.IsApplicable(mat) {
			return nil, nil, fmt.Errorf("material %s: no dynamics or no @CUSTOM_%s section", name, plugin.Name)
		}
		m, err := plugin.CreateFromInfo(mat, parameters.Options())
		if err != nil {
			return nil, nil, fmt.Errorf("material %s: %w", name, err)
		}
		if parameters.Verbose() {
			fmt.Printf("%s: %d channels\n", name, len(m.Channels()))
		}
		models = append(models, builtModel{name: name, parameters: parameters, model: m})
	}
	return cfg, models, nil
}

func runCrossSections(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	cfg, models, err := buildModels(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var rows utils.CSV
	for _, bm := range models {
		energies := cfg.EnergiesEV(bm.parameters)
		for i, e := range energies {
			xs := bm.model.CrossSection(e)
			rows = append(rows, []string{bm.name, formatFloat(bm.parameters.Energies[i]), formatFloat(xs)})
			fmt.Fprintf(out, "%s\tE=%g %s\txs=%g b\n", bm.name, bm.parameters.Energies[i], cfg.EnergyUnit, xs)
		}
		if plot {
			fmt.Fprintln(out, crossSectionCurve(bm))
		}
	}
	saved, err := utils.WriteAsCSV(rows, cfg.MakeDir, cfg.OutputDir, xsOutput.fileSuffix, args[0], xsOutput.columns(cfg.EnergyUnit))
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("%s saved to %s\n", xsOutput.name, saved)
		fmt.Printf("Elapsed time: %v\n", time.Since(startTime))
	}
	return nil
}

func runSampling(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	cfg, models, err := buildModels(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !cmd.Flags().Changed("threads") {
		threads = cfg.Threads
	}

	var rows utils.CSV
	for _, bm := range models {
		producer := rng.NewProducer(bm.parameters.Seed)
		energies := cfg.EnergiesEV(bm.parameters)
		for i, e := range energies {
			if verbose {
				fmt.Printf("\r%s Done:[%d/%d]", bm.name, i, len(energies))
			}
			events := bm.model.SampleBatch(producer, e, bm.parameters.Samples, threads)
			finals := make([]float64, len(events))
			mus := make([]float64, len(events))
			for k, ev := range events {
				finals[k], mus[k] = ev.EkinFinal, ev.Mu
			}
			meanFinal := config.FromEV(utils.Average(finals), cfg.EnergyUnit)
			meanMu := utils.Average(mus)
			rows = append(rows, []string{bm.name, formatFloat(bm.parameters.Energies[i]), formatFloat(meanFinal), formatFloat(meanMu)})
			if verbose {
				fmt.Printf("\r%s Done:[%d/%d]\n", bm.name, i+1, len(energies))
			}
			fmt.Fprintf(out, "%s\tE=%g %s\t<E'>=%g %s\t<mu>=%g\n", bm.name, bm.parameters.Energies[i], cfg.EnergyUnit, meanFinal, cfg.EnergyUnit, meanMu)
			if plot {
				fmt.Fprintln(out, energyHistogram(finals, fmt.Sprintf("%s: final energies at %g eV", bm.name, e)))
			}
		}
	}
	saved, err := utils.WriteAsCSV(rows, cfg.MakeDir, cfg.OutputDir, sampleOutput.fileSuffix, args[0], sampleOutput.columns(cfg.EnergyUnit))
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("%s saved to %s\n", sampleOutput.name, saved)
		fmt.Printf("Elapsed time: %v\n", time.Since(startTime))
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	mat, err := info.LoadFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "material %s at %g K\n", mat.Name, mat.Temperature)
	for _, di := range mat.DynamicInfoList() {
		fmt.Fprintf(out, "  %s %s fraction %g\n", di.Kind(), di.Atom().Symbol, di.Fraction())
	}
	fmt.Fprintf(out, "  @CUSTOM_%s sections: %d\n", plugin.Name, mat.CountCustomSections(plugin.Name))
	if !plugin.IsApplicable(mat) {
		fmt.Fprintln(out, "not applicable")
		return nil
	}
	opts := model.DefaultOptions()
	opts.VDOSLux = checkLux
	m, err := plugin.CreateFromInfo(mat, opts)
	if err != nil {
		return err
	}
	for _, ch := range m.Channels() {
		fmt.Fprintf(out, "  channel %-24s fraction %-8g Emax %-10g eV xs(0.0253 eV) %g b\n", ch.Label, ch.Fraction, ch.Emax(), ch.CrossSection(0.0253))
	}
	fmt.Fprintf(out, "total xs(0.0253 eV) = %g b\n", m.CrossSection(0.0253))
	return nil
}
