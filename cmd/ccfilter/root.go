package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/strongdm/ccfilter/internal/config"
	"github.com/strongdm/ccfilter/internal/filter"
	"github.com/strongdm/ccfilter/internal/logging"
	"github.com/strongdm/ccfilter/internal/logging/logfields"
)

// errFilesFailed is returned when at least one input failed; the failures
// have been logged already.
var errFilesFailed = errors.New("one or more inputs failed")

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "ccfilter")

// globalFlags are the persistent flags shared by every filter command.
type globalFlags struct {
	configPath string
	jobs       int
	report     string
	summary    bool
	exclude    []string
	logLevel   string
	logFormat  string
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "Path to a YAML or JSON run configuration")
	fs.IntVarP(&g.jobs, "jobs", "j", 1, "Number of inputs filtered concurrently")
	fs.StringVar(&g.report, "report", "", "Write a JSON run report to this path")
	fs.BoolVar(&g.summary, "summary", false, "Print a per-file summary table to stderr")
	fs.StringSliceVar(&g.exclude, "exclude", nil, "Glob patterns of inputs to skip (repeatable)")
	fs.StringVar(&g.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	fs.StringVar(&g.logFormat, "log-format", "text", "Log format (text|json)")
}

// settings loads the config file, when given, and lays explicitly set
// flags over it.
func (g *globalFlags) settings(cmd *cobra.Command) (*config.File, error) {
	cfg := config.Default()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	fs := cmd.Flags()
	if fs.Changed("jobs") {
		cfg.Jobs = g.jobs
	}
	if fs.Changed("report") {
		cfg.Report = g.report
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	cfg.Inputs.Exclude = append(cfg.Inputs.Exclude, g.exclude...)
	if err := logging.SetupLogging(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run filters args (or the configured includes, or stdin) with fn.
func (g *globalFlags) run(cmd *cobra.Command, cfg *config.File, policy string, fn filter.Func, args []string, stdout io.Writer) error {
	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Inputs.Include
	}
	inputs, err := filter.ExpandInputs(patterns, cfg.Inputs.Exclude)
	if err != nil {
		return err
	}
	if len(patterns) > 0 && len(inputs) == 0 {
		log.Warn("Every input was excluded")
		return nil
	}
	if stdout == nil {
		stdout = cmd.OutOrStdout()
	}
	rep, runErr := filter.Run(cmd.Context(), filter.RunOptions{
		Inputs: inputs,
		Policy: policy,
		Filter: fn,
		Jobs:   cfg.Jobs,
		Stdin:  cmd.InOrStdin(),
		Stdout: stdout,
	})
	if rep != nil {
		if cfg.Report != "" {
			if err := rep.WriteJSON(cfg.Report); err != nil {
				log.WithError(err).Error("Unable to write run report")
			}
		}
		if g.summary {
			_ = rep.WriteSummary(cmd.ErrOrStderr())
		}
	}
	if runErr != nil {
		return runErr
	}
	if rep.Failed() {
		return errFilesFailed
	}
	return nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "ccfilter [file...]",
		Short: "Filter C/C++ sources by lexical region",
		Long: `ccfilter classifies every byte of C/C++ source as code, string literal,
character literal, line comment or block comment, and rewrites it by policy.

Run without a subcommand it applies the policy named in --config (convert
when there is none).`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.settings(cmd)
			if err != nil {
				return err
			}
			p, err := cfg.RewritePolicy()
			if err != nil {
				return err
			}
			return g.run(cmd, cfg, p.Name(), filter.Rewrite(p, nil), args, nil)
		},
	}
	g.register(root.PersistentFlags())

	root.AddCommand(
		newConvertCmd(g),
		newStripCmd(g),
		newStringsCmd(g),
		newCheckCmd(g),
		newTrigraphCmd(g),
		newVersionCmd(),
	)
	return root
}
