// Command css-theme-extractor resolves the CSS custom properties of a
// stylesheet set into structured theme objects, flags literal rules
// that shadow theme values, reports unresolved references, and writes
// theme.json plus a report to an output directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"bennypowers.dev/cte/internal/config"
	"bennypowers.dev/cte/internal/defaults"
	"bennypowers.dev/cte/internal/importer"
	"bennypowers.dev/cte/internal/log"
	"bennypowers.dev/cte/internal/namespace"
	"bennypowers.dev/cte/internal/override"
	"bennypowers.dev/cte/internal/parser/css"
	"bennypowers.dev/cte/internal/parser/html"
	"bennypowers.dev/cte/internal/parser/js"
	"bennypowers.dev/cte/internal/pipeline"
	"bennypowers.dev/cte/internal/report"
	"bennypowers.dev/cte/internal/tokens"
	"bennypowers.dev/cte/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run() error {
	input := flag.String("input", "", "stylesheet entry paths or globs, comma separated")
	configPath := flag.String("config", "", "config file (default: discover cte.config.{json,jsonc,yaml,yml})")
	baseline := flag.String("baseline", "", "DTCG token file providing baseline defaults")
	out := flag.String("out", "", "output directory (default \"cte-output\")")
	format := flag.String("format", "", "report format: markdown, json or both (default \"both\")")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("css-theme-extractor %s\n", version.GetFullVersion())
		return nil
	}
	if *verbose {
		log.SetLevel(log.LevelDebug)
	}

	defer css.ClosePool()
	defer html.ClosePool()
	defer js.ClosePool()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	inputs := inputPatterns(*input, flag.Args(), cfg.Input)
	if len(inputs) == 0 {
		flag.Usage()
		return fmt.Errorf("no input stylesheets: pass -input or configure \"input\"")
	}
	if *baseline != "" {
		cfg.Baseline = *baseline
	}
	if *out != "" {
		cfg.Output = *out
	}
	if *format != "" {
		cfg.Format = *format
	}

	f, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	nodes, err := importer.Load(inputs...)
	if err != nil {
		return err
	}

	var baselineDecls []tokens.Declaration
	if cfg.Baseline != "" {
		baselineDecls, err = defaults.Load(cfg.Baseline, cfg.Prefix)
		if err != nil {
			return err
		}
		log.Debug("Loaded %d baseline declarations from %s", len(baselineDecls), cfg.Baseline)
	}

	var overrides *override.Set
	if len(cfg.Overrides) > 0 {
		overrides = override.Parse(cfg.Overrides)
	}

	caches, err := namespace.NewCaches(namespace.DefaultCacheSize)
	if err != nil {
		return err
	}

	result := pipeline.Run(nodes, pipeline.Options{
		Caches:          caches,
		NamespaceDepths: cfg.NamespaceDepths,
		Baseline:        baselineDecls,
		Overrides:       overrides,
	})

	outDir := cfg.Output
	if outDir == "" {
		outDir = "cte-output"
	}
	data := report.Data{Source: strings.Join(inputs, ", "), Result: result}
	if err := report.WriteFiles(outDir, data, f); err != nil {
		return err
	}

	log.Info("Extracted %d base values and %d variants to %s",
		result.Base.Len(), len(result.Variants), outDir)
	if review := len(result.Conflicts) - len(result.Applied); review > 0 {
		log.Warn("%d rule conflicts need review", review)
	}
	if len(result.Unresolved) > 0 {
		log.Warn("%d unresolved variable references", len(result.Unresolved))
	}
	return nil
}

// loadConfig loads the explicit config file, or discovers one in the
// working directory. No config at all yields an empty config.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Discover(".")
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	return cfg, nil
}

// inputPatterns merges the -input flag, positional arguments and the
// config file's input list. Command-line inputs win over the config.
func inputPatterns(flagValue string, args, configured []string) []string {
	var inputs []string
	for _, part := range strings.Split(flagValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			inputs = append(inputs, part)
		}
	}
	inputs = append(inputs, args...)
	if len(inputs) == 0 {
		inputs = configured
	}
	return inputs
}
