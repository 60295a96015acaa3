package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/cobra"

	"digital.vasic.matchers/pkg/assertion"
	"digital.vasic.matchers/pkg/config"
	"digital.vasic.matchers/pkg/logging"
	"digital.vasic.matchers/pkg/metrics"
	"digital.vasic.matchers/pkg/monitor"
	"digital.vasic.matchers/pkg/outcome"
	"digital.vasic.matchers/pkg/report"
	"digital.vasic.matchers/pkg/runner"
)

type runOptions struct {
	configPath      string
	envFile         string
	output          string
	reportDir       string
	history         string
	verbose         bool
	noColor         bool
	watch           bool
	monitor         bool
	monitorAddr     string
	prettyThreshold int
	parallel        int
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [suite files or directories...]",
		Short: "Run matcher suites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to config file")
	f.StringVar(&opts.envFile, "env-file", "", "Path to .env file with MATCHCHECK_* overrides")
	f.StringVarP(&opts.output, "output", "o", config.FormatConsole, "Output format: console, json, html")
	f.StringVar(&opts.reportDir, "report-dir", "", "Directory to save per-suite reports and the master summary")
	f.StringVar(&opts.history, "history", "", "Append one JSON line per suite run to this file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "List passing assertions and log at debug level")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&opts.watch, "watch", "w", false, "Watch suite files and re-run on change")
	f.BoolVar(&opts.monitor, "monitor", false, "Serve the live monitor while suites run")
	f.StringVar(&opts.monitorAddr, "monitor-addr", "", "Live monitor listen address")
	f.IntVar(&opts.prettyThreshold, "pretty-threshold", 0, "Length above which actual values are dumped on multiple lines")
	f.IntVarP(&opts.parallel, "parallel", "p", 1, "Number of suites evaluated concurrently")
	return cmd
}

func loadConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, configError(err)
		}
		cfg = loaded
	}

	var vars map[string]string
	if opts.envFile != "" {
		loaded, err := config.LoadEnvFile(opts.envFile)
		if err != nil {
			return nil, configError(err)
		}
		vars = loaded
	}
	if err := cfg.ApplyEnv(config.EnvLookup(vars)); err != nil {
		return nil, configError(err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Report.Format = opts.output
	}
	if opts.reportDir != "" {
		cfg.Report.Dir = opts.reportDir
	}
	if opts.history != "" {
		cfg.Report.History = opts.history
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if opts.noColor {
		cfg.Log.NoColor = true
	}
	if opts.monitor {
		cfg.Monitor.Enabled = true
	}
	if opts.monitorAddr != "" {
		cfg.Monitor.Addr = opts.monitorAddr
	}
	if flags.Changed("pretty-threshold") {
		cfg.Output.PrettyPrintThreshold = opts.prettyThreshold
	}

	if err := cfg.Validate(); err != nil {
		return nil, configError(err)
	}
	return cfg, nil
}

// newLogger builds the stderr logger in the configured format.
// With a log directory, entries are also written as JSON Lines to
// run.log and every failure to failures.log.
func newLogger(cfg *config.Config, w io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	debug := level == logging.LevelDebug

	var primary logging.Logger
	if cfg.Log.Format == config.FormatJSON {
		primary, err = logging.NewJSONLogger(logging.LoggerConfig{Writer: w, Level: level, Verbose: debug})
		if err != nil {
			return nil, err
		}
	} else {
		primary = logging.NewConsoleLogger(debug,
			logging.WithOutput(w),
			logging.WithNoColor(cfg.Log.NoColor),
		)
	}
	if cfg.Log.Dir == "" {
		return primary, nil
	}

	file, err := logging.NewJSONLogger(logging.LoggerConfig{
		OutputPath:     filepath.Join(cfg.Log.Dir, "run.log"),
		FailureLogPath: filepath.Join(cfg.Log.Dir, "failures.log"),
		Level:          level,
		Verbose:        debug,
	})
	if err != nil {
		return nil, err
	}
	return logging.NewMultiLogger(primary, file), nil
}

func newReporter(cfg *config.Config) report.Reporter {
	switch cfg.Report.Format {
	case config.FormatJSON:
		return report.NewJSONReporter(cfg.Report.Pretty)
	case config.FormatHTML:
		return report.NewHTMLReporter()
	default:
		return report.NewConsoleReporter(
			report.WithVerbose(cfg.Log.Level == "debug"),
			report.WithNoColor(cfg.Log.NoColor),
		)
	}
}

// session holds everything shared by the suite runs of one
// command invocation.
type session struct {
	cfg      *config.Config
	out      io.Writer
	logger   logging.Logger
	metrics  *metrics.InMemoryMetrics
	runner   *runner.DefaultRunner
	parallel int
	reporter report.Reporter
}

func newSession(
	cfg *config.Config,
	out io.Writer,
	logger logging.Logger,
	observer outcome.Observer,
	parallel int,
) *session {
	m := metrics.NewInMemoryMetrics()
	outcomeOpts := []outcome.Option{}
	if observer != nil {
		outcomeOpts = append(outcomeOpts, outcome.WithObserver(observer))
	}
	engine := assertion.NewEngine(
		assertion.WithEngineLogger(logger),
		assertion.WithEngineMetrics(m),
		assertion.WithPrettyPrintThreshold(cfg.Output.PrettyPrintThreshold),
	)
	registry := outcome.NewRegistry(
		outcome.WithRegistryLogger(logger),
		outcome.WithRegistryMetrics(m),
		outcome.WithOutcomeOptions(outcomeOpts...),
	)
	return &session{
		cfg:      cfg,
		out:      out,
		logger:   logger,
		metrics:  m,
		runner:   runner.NewRunner(engine, runner.WithRegistry(registry), runner.WithLogger(logger)),
		parallel: parallel,
		reporter: newReporter(cfg),
	}
}

func runSuites(cmd *cobra.Command, opts *runOptions, args []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return configError(err)
	}
	defer func() { _ = logger.Close() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var observer outcome.Observer
	if cfg.Monitor.Enabled {
		collector := monitor.NewEventCollector()
		observer = collector
		server := monitor.NewServer(cfg.Monitor.Addr, collector,
			monitor.NewDashboardData(fmt.Sprintf("matchcheck_%d", time.Now().Unix())),
			monitor.WithConnectionRate(cfg.Monitor.ConnectionRate, cfg.Monitor.ConnectionBurst),
			monitor.WithMaxClients(cfg.Monitor.MaxClients),
			monitor.WithServerLogger(logger),
		)
		go func() {
			if err := server.Start(ctx); err != nil {
				logger.Error("monitor server stopped", logging.ErrorField(err))
			}
		}()
	}

	s := newSession(cfg, cmd.OutOrStdout(), logger, observer, opts.parallel)
	files, err := discoverSuites(args)
	if err != nil {
		return parseError(err)
	}

	runs, err := s.runAll(ctx, files)
	if !opts.watch {
		if err != nil {
			return err
		}
		return verdictError(runs)
	}
	if err != nil {
		logger.Error("suite run failed", logging.ErrorField(err))
	}

	return watchSuites(ctx, args, cmd.OutOrStdout(), logger, func() {
		if _, err := s.runAll(ctx, files); err != nil {
			logger.Error("suite run failed", logging.ErrorField(err))
		}
	})
}

func verdictError(runs []*report.Run) error {
	for _, r := range runs {
		if r.Status != report.StatusPassed {
			return errSuitesFailed
		}
	}
	return nil
}

func (s *session) runAll(ctx context.Context, files []string) ([]*report.Run, error) {
	var (
		suiteRuns []*runner.SuiteRun
		runErr    error
	)
	if s.parallel > 1 {
		suiteRuns, runErr = s.runner.RunParallel(ctx, files, s.parallel)
	} else {
		suiteRuns, runErr = s.runner.RunSequence(ctx, files)
	}

	runs := make([]*report.Run, 0, len(suiteRuns))
	for _, sr := range suiteRuns {
		run, err := s.record(sr)
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)
	}
	if runErr != nil {
		var loadErr *runner.LoadError
		if errors.As(runErr, &loadErr) {
			return runs, parseError(runErr)
		}
		return runs, runErr
	}

	if err := s.writeSummary(runs); err != nil {
		return runs, err
	}
	s.logMetrics()
	return runs, nil
}

// record turns a suite run into a report run, writes it to the
// console and persists it when a report directory or history
// file is configured.
func (s *session) record(sr *runner.SuiteRun) (*report.Run, error) {
	run := report.NewRun(sr.Suite.Name, sr.Verdict, sr.Results)
	if s.cfg.Report.Format == config.FormatConsole {
		if err := s.reporter.WriteReport(s.out, run); err != nil {
			return nil, err
		}
	}

	var (
		reportPath string
		err        error
	)
	if s.cfg.Report.Dir != "" {
		if reportPath, err = s.saveReport(run); err != nil {
			return nil, err
		}
	}
	if s.cfg.Report.History != "" {
		if err := report.AppendToHistory(s.cfg.Report.History, run, reportPath); err != nil {
			return nil, err
		}
	}
	return run, nil
}

func (s *session) writeSummary(runs []*report.Run) error {
	if s.cfg.Report.Dir != "" && len(runs) > 0 {
		if err := report.SaveMasterSummary(report.BuildMasterSummary(runs), s.cfg.Report.Dir); err != nil {
			return err
		}
	}

	switch {
	case s.cfg.Report.Format == config.FormatConsole:
		if len(runs) < 2 {
			return nil
		}
		data, err := s.reporter.GenerateMasterSummary(runs)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(s.out, "\n%s", data)
		return err
	case len(runs) == 1:
		return s.reporter.WriteReport(s.out, runs[0])
	default:
		data, err := s.reporter.GenerateMasterSummary(runs)
		if err != nil {
			return err
		}
		_, err = s.out.Write(data)
		return err
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// saveReport writes the run's report into the report directory.
// Console output is saved as JSON.
func (s *session) saveReport(run *report.Run) (string, error) {
	rpt, ext := s.reporter, "."+s.cfg.Report.Format
	if s.cfg.Report.Format == config.FormatConsole {
		rpt, ext = report.NewJSONReporter(true), ".json"
	}

	data, err := rpt.GenerateReport(run)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.cfg.Report.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := unsafeFileChars.ReplaceAllString(filepath.Base(run.Suite), "_")
	path := filepath.Join(s.cfg.Report.Dir,
		fmt.Sprintf("%s_%s%s", name, run.EndTime.Format("20060102_150405"), ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

func (s *session) logMetrics() {
	snap := s.metrics.Snapshot()
	for _, m := range snap.Matchers {
		s.logger.Debug("matcher stats",
			logging.MatcherField(m.Matcher),
			logging.IntField("matches", m.Matches),
			logging.IntField("misses", m.Misses),
			logging.DurationField("p50", m.P50),
			logging.DurationField("p99", m.P99),
		)
	}
	s.logger.Info("suites finished",
		logging.IntField("passed", snap.PassedVerdicts),
		logging.IntField("failed", snap.FailedVerdicts),
		logging.IntField("failures", snap.NonFatalFailures+snap.FatalFailures),
	)
}
