package main

import (
	"fmt"
	"io"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/unbound-force/forge/internal/config"
	"github.com/unbound-force/forge/internal/csvcase"
	"github.com/unbound-force/forge/internal/export"
	"github.com/unbound-force/forge/internal/record"
	"github.com/unbound-force/forge/internal/render"
	"github.com/unbound-force/forge/internal/runner"
	"github.com/unbound-force/forge/internal/sample"
	"github.com/unbound-force/forge/internal/scaffold"
	"github.com/unbound-force/forge/internal/synth"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "forge",
		Short: "Forge - test case synthesis via reflective execution",
		Long: `Forge inspects registered functions and types, sweeps boundary
and random inputs over them, executes each candidate with the
target as its own oracle, and records the outcomes as test cases.`,
		Version: version,
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newInitCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generateParams holds the parsed flags for the generate command.
type generateParams struct {
	configPath  string
	cases       int
	seed        int64
	format      string
	renderPath  string
	interactive bool
	stdout      io.Writer
	stderr      io.Writer
}

// runGenerate is the extracted, testable body of the generate
// command.
func runGenerate(p generateParams) error {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return err
	}
	if p.cases != 0 {
		cfg.Generation.RandomCases = p.cases
	}
	if p.seed != 0 {
		cfg.Generation.Seed = p.seed
	}
	if p.format != "" {
		cfg.Output.Format = p.format
	}

	if f := cfg.Output.Format; f != "text" && f != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", f)
	}
	if n := cfg.Generation.RandomCases; n < 1 || n > 10 {
		return fmt.Errorf("invalid case count %d: must be in [1, 10]", n)
	}

	seed := cfg.Generation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mod := sample.Module()
	s := synth.New(mod, synth.Options{
		RandomCases: cfg.Generation.RandomCases,
		Seed:        seed,
		Deadline: runner.WallClock{
			Budget: time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
		},
		Logger: logger,
	})

	logger.Info("generating cases", "module", mod.Name, "seed", seed)

	bar := newProgressBar(len(mod.Funcs)+len(mod.Classes), p.stderr)
	res := s.Run(func(name string) {
		bar.Describe(fmt.Sprintf("synthesizing %s", name))
		_ = bar.Add(1)
	})
	_ = bar.Finish()

	logger.Info("generation complete",
		"functions", len(res.FuncOrder), "classes", len(res.ClassOrder))

	if p.renderPath != "" {
		f, err := os.Create(p.renderPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", p.renderPath, err)
		}
		defer f.Close()
		stats, err := render.File(f, "sample",
			"github.com/unbound-force/forge/internal/sample", mod, res)
		if err != nil {
			return err
		}
		logger.Info("test file written", "path", p.renderPath,
			"cases", stats.Rendered, "skipped", stats.Skipped)
		return nil
	}

	if p.interactive {
		return runInteractiveBrowse(res)
	}

	switch cfg.Output.Format {
	case "json":
		return export.WriteJSON(p.stdout, res)
	default:
		return export.WriteText(p.stdout, res)
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		configPath  string
		cases       int
		seed        int64
		format      string
		renderPath  string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate test cases for the registered module",
		Long: `Generate test cases for every registered function and class:
a boundary sweep per parameter, then random sampling, with the
target executed as its own oracle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(generateParams{
				configPath:  configPath,
				cases:       cases,
				seed:        seed,
				format:      format,
				renderPath:  renderPath,
				interactive: interactive,
				stdout:      os.Stdout,
				stderr:      os.Stderr,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "",
		"path to config file (default: .forge.yaml if present)")
	cmd.Flags().IntVar(&cases, "cases", 0,
		"random cases per callable, 1-10 (default: from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0,
		"random seed (default: from config, or the clock)")
	cmd.Flags().StringVar(&format, "format", "",
		"output format: text or json (default: from config)")
	cmd.Flags().StringVar(&renderPath, "render", "",
		"write a compilable _test.go file to this path instead")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing cases")

	return cmd
}

// importParams holds the parsed flags for the import command.
type importParams struct {
	csvPath  string
	callable string
	inputs   []string
	output   string
	errKind  string
	stdout   io.Writer
}

// runImport is the extracted, testable body of the import command.
func runImport(p importParams) error {
	if p.callable == "" {
		return fmt.Errorf("--callable is required")
	}
	if len(p.inputs) == 0 {
		return fmt.Errorf("--input is required at least once")
	}

	f, err := os.Open(p.csvPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", p.csvPath, err)
	}
	defer f.Close()

	cases, err := csvcase.Read(f, csvcase.Mapping{
		Callable: p.callable,
		Inputs:   p.inputs,
		Output:   p.output,
		ErrKind:  p.errKind,
	})
	if err != nil {
		return err
	}

	logger.Info("cases imported", "callable", p.callable, "count", len(cases))

	res := synth.Result{
		Module:    "imported",
		FuncOrder: []string{p.callable},
		FuncCases: map[string][]record.TestCase{p.callable: cases},
	}
	return export.WriteJSON(p.stdout, res)
}

func newImportCmd() *cobra.Command {
	var (
		callable string
		inputs   []string
		output   string
		errKind  string
	)

	cmd := &cobra.Command{
		Use:   "import [csv-file]",
		Short: "Import test cases from a CSV file",
		Long: `Import user-supplied test cases from CSV. Columns are mapped to
a callable's parameters by name; cell text is parsed with a
restricted literal grammar, never evaluated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(importParams{
				csvPath:  args[0],
				callable: callable,
				inputs:   inputs,
				output:   output,
				errKind:  errKind,
				stdout:   os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&callable, "callable", "",
		"callable the cases target")
	cmd.Flags().StringArrayVar(&inputs, "input", nil,
		"input column name, repeated in parameter order")
	cmd.Flags().StringVar(&output, "output", "",
		"expected-output column name")
	cmd.Flags().StringVar(&errKind, "err-kind", "",
		"expected-error-kind column name")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for forge case output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of forge generate --format=json output. Useful for
validating output or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), export.Schema)
			return err
		},
	}
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write starter configuration files",
		Long: `Write a starter .forge.yaml and .env.example into the current
directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := scaffold.Run(scaffold.Options{
				Force:   force,
				Version: version,
				Stdout:  cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite existing files")

	return cmd
}

// newProgressBar builds the stderr progress bar used while
// synthesizing multi-callable modules.
func newProgressBar(count int, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		w = os.Stderr
	}
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription("synthesizing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(w),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
