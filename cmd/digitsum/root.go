package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/panyam/mapreduce"
	"github.com/panyam/mapreduce/internal/config"
	"github.com/panyam/mapreduce/internal/digits"
	"github.com/panyam/mapreduce/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	workers  int
	timeout  time.Duration
	policy   string
	jobFile  string
	stdin    bool
	report   bool
	metrics  bool
	logLevel string
	logDev   bool
}

// newRootCommand returns the digitsum command.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "digitsum [segment...]",
		Short: "Sums the decimal digits of whitespace separated segments in parallel",
		Long: `digitsum splits its input into whitespace separated segments, sums the
digits of every segment on its own worker and adds up the partial sums.

Input is taken from the arguments, else from the job file, else from stdin
when --stdin is given, else a built-in sample is used.

Environment: MAPREDUCE_WORKERS, MAPREDUCE_TIMEOUT, MAPREDUCE_POLICY,
LOG_LEVEL, LOG_DEV. Job file values override the environment and flags
override both.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigitSum(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.workers, "workers", "w", 0, "number of workers (0 means one per segment)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "give up waiting for workers after this long (0 disables)")
	flags.StringVar(&opts.policy, "policy", "fail-fast", "failure policy: fail-fast or collect-all")
	flags.StringVarP(&opts.jobFile, "job", "j", "", "YAML job file")
	flags.BoolVar(&opts.stdin, "stdin", false, "read segments from standard input")
	flags.BoolVar(&opts.report, "report", false, "print a run report")
	flags.BoolVar(&opts.metrics, "metrics", false, "dump prometheus metrics to stderr when done")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.logDev, "log-dev", false, "human readable console logs")
	return cmd
}

func runDigitSum(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	settings := runSettings{
		workers: cfg.Executor.Workers,
		timeout: cfg.Executor.Timeout,
		policy:  cfg.Executor.Policy,
	}

	var data string
	if opts.jobFile != "" {
		job, err := LoadJob(opts.jobFile)
		if err != nil {
			return err
		}
		job.apply(&settings)
		data = job.Data
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		if opts.workers < 0 {
			return fmt.Errorf("--workers must not be negative, got %d", opts.workers)
		}
		settings.workers = opts.workers
	}
	if flags.Changed("timeout") {
		settings.timeout = opts.timeout
	}
	if flags.Changed("policy") {
		if settings.policy, err = mapreduce.ParsePolicy(opts.policy); err != nil {
			return err
		}
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level, logCfg.Development = cfg.Logging.Level, cfg.Logging.Development
	if flags.Changed("log-level") {
		logCfg.Level = opts.logLevel
	}
	if flags.Changed("log-dev") {
		logCfg.Development = opts.logDev
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	switch {
	case len(args) > 0:
		data = strings.Join(args, " ")
	case data != "":
	case opts.stdin:
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		data = string(raw)
	default:
		data = digits.SampleData
	}

	segments := digits.Segments(data)
	workers := settings.workers
	if workers == 0 {
		workers = max(len(segments), 1)
	}
	logger.Debug("starting",
		zap.Int("segments", len(segments)),
		zap.Int("workers", workers),
		zap.Stringer("policy", settings.policy),
		zap.Duration("timeout", settings.timeout))

	registry := prometheus.NewRegistry()
	exec := mapreduce.New(digits.SumSegments, digits.Add, 0,
		mapreduce.WithWorkers(workers),
		mapreduce.WithTimeout(settings.timeout),
		mapreduce.WithPolicy(settings.policy),
		mapreduce.WithLogger(logger.Named("mapreduce")),
		mapreduce.WithMetrics(mapreduce.NewMetrics(registry)))
	total, report, err := exec.RunWithReport(cmd.Context(), segments)
	if opts.report {
		fmt.Fprintln(cmd.OutOrStdout(), report)
	}
	if opts.metrics {
		if derr := dumpMetrics(cmd.ErrOrStderr(), registry); derr != nil {
			logger.Warn("failed to dump metrics", zap.Error(derr))
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Final sum result: %d\n", total)
	return nil
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
