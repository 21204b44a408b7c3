package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/limaJavier/dqmax2dssat/pkg/config"
	"github.com/limaJavier/dqmax2dssat/pkg/convert"
	"github.com/limaJavier/dqmax2dssat/pkg/dqbf"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var errArguments = errors.New("expected <input.dqdimacs> <output.dqdimacs>")

type options struct {
	verbose      bool
	noProvenance bool
	configPath   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	errorStyle := color.New(color.FgRed, color.Bold)
	if !isTerminal(stderr) {
		errorStyle.DisableColor()
	}

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "%s%v\n", errorStyle.Sprint("error: "), err)
		if errors.Is(err, errArguments) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "dqmax2dssat [options] <input.dqdimacs> <output.dqdimacs>",
		Short: "Convert a DQDIMACS (DQMax#SAT) formula into a DSSAT formula",
		Long: `Convert a DQDIMACS (DQMax#SAT) formula into a DSSAT formula
according to the Theorem-1 transformation.`,
		Example:       "  dqmax2dssat --verbose int_001_dqmax.dqdimacs int_001_dssat.dqdimacs",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("%w, got %d argument(s)", errArguments, len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger := newLogger(stderr, cfg.Verbose)
			defer logger.Sync()

			return convertFile(logger, cfg, args[0], args[1], stdout)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errArguments, err)
	})

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print detailed statistics about the conversion")
	cmd.Flags().BoolVar(&opts.noProvenance, "no-provenance", false, "Do not write the \"c zprime mapping\" comment block")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a JSON configuration file")

	return cmd
}

// loadConfig reads the configuration file, if any, and lets explicit flags override it
func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.FromJson(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if opts.noProvenance {
		cfg.Provenance = false
	}
	return cfg, nil
}

func convertFile(logger *zap.Logger, cfg config.Config, inFile, outFile string, stdout io.Writer) error {
	formula, err := dqbf.FromFile(inFile)
	if err != nil {
		return fmt.Errorf("failed to parse input file: %v: %w", inFile, err)
	}
	logger.Debug("parsed input",
		zap.String("file", inFile),
		zap.Uint64("variables", formula.Variables()),
		zap.Int("clauses", len(formula.Matrix.Clauses)),
		zap.Int("universals", len(formula.Universals)),
		zap.Int("dependencies", len(formula.Dependencies)),
	)

	start := time.Now()
	output, stats := convert.Convert(formula)
	elapsed := time.Since(start)

	if cfg.CheckClauseCount && stats.ClauseCountMismatch() {
		logger.Warn("declared clause count differs from the parsed clauses",
			zap.Uint64("declared", stats.OldClauses),
			zap.Uint64("parsed", stats.ParsedClauses),
		)
	}
	if len(stats.Overlapping) > 0 {
		logger.Warn("variables declared both universal and dependency-bearing are not treated as existential",
			zap.Int64s("variables", stats.Overlapping),
		)
	}

	if err := dqbf.ToFile(outFile, output, dqbf.WriteOptions{Provenance: cfg.Provenance}); err != nil {
		return fmt.Errorf("failed to write output file: %v: %w", outFile, err)
	}

	if cfg.Verbose {
		stats.WriteVerbose(stdout)
	}
	fmt.Fprintf(stdout, "Converted %v -> %v in %.6f seconds\n", inFile, outFile, elapsed.Seconds())
	return nil
}

func newLogger(stderr io.Writer, verbose bool) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	if isTerminal(stderr) {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(stderr), level)
	return zap.New(core)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd()))
}
