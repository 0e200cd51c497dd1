package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/limaJavier/cttfeatures/internal/config"
	"github.com/limaJavier/cttfeatures/internal/csvio"
	"github.com/limaJavier/cttfeatures/internal/logger"
	"github.com/limaJavier/cttfeatures/pkg/dataset"
	"github.com/limaJavier/cttfeatures/pkg/model"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	exitOk          = 0
	exitFailure     = 1
	exitInvalidArgs = 2
	exitNoDocuments = 3
)

var validFormats = []string{"csv", "json"}

type options struct {
	files      []string
	dir        string
	out        string
	format     string
	workers    int
	configPath string
	summary    bool
	logLevel   string
	logFormat  string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOk
	} else if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInvalidArgs
	}

	cfg := config.Load()
	log := logger.Setup(lo.Ternary(opts.logLevel != "", opts.logLevel, cfg.LogLevel), lo.Ternary(opts.logFormat != "", opts.logFormat, cfg.LogFormat), stderr)

	// Flags take precedence over the environment
	if opts.configPath != "" {
		cfg.EngineConfig = opts.configPath
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	engineConfig, err := cfg.EngineSettings()
	if err != nil {
		log.Error().Err(err).Msg("invalid engine configuration")
		return exitInvalidArgs
	}

	engine, err := model.NewEngine(engineConfig, log)
	if err != nil {
		log.Error().Err(err).Msg("cannot initialize engine")
		return exitInvalidArgs
	}

	documents, err := collectDocuments(opts)
	if err != nil {
		log.Error().Err(err).Msg("cannot collect documents")
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := engine.Process(ctx, documents)
	if errors.Is(err, model.ErrNoDocuments) {
		log.Error().Err(err).Msg("nothing to process")
		return exitNoDocuments
	} else if err != nil {
		log.Error().Err(err).Msg("feature extraction failed")
		return exitFailure
	}

	for _, report := range result.Reports {
		event := log.Info()
		if len(report.Diagnostics) > 0 {
			event = log.Warn().Strs("diagnostics", report.Diagnostics)
		}
		event.Str("instance", report.Name).
			Int("courses", report.Courses).
			Int("records", report.Records).
			Str("centrality", report.Centrality).
			Msg("instance done")
	}

	if opts.summary {
		logSummary(log, model.Summarize(result.Records))
	}

	if err := writeOutput(opts, result.Records, stdout); err != nil {
		log.Error().Err(err).Msg("cannot write output")
		return exitFailure
	}
	return exitOk
}

func parseOptions(args []string, output io.Writer) (options, error) {
	var opts options
	flagSet := flag.NewFlagSet("cttfeatures", flag.ContinueOnError)
	flagSet.SetOutput(output)

	filesPtr := flagSet.String("file", "", "Comma-separated list of .ctt instance files")
	flagSet.StringVar(&opts.dir, "dir", "", "Directory whose .ctt files will be processed")
	flagSet.StringVar(&opts.out, "out", "", "Path to the file where the feature table will be written; if empty, it'll be written into the Standard Output")
	flagSet.StringVar(&opts.format, "format", "csv", "Output format. Allowed values are: \"csv\" and \"json\", where \"csv\" is the default")
	flagSet.IntVar(&opts.workers, "workers", 0, "Number of instances processed concurrently; 0 keeps the configured value")
	flagSet.StringVar(&opts.configPath, "config", "", "Path to a JSON engine configuration")
	flagSet.BoolVar(&opts.summary, "summary", false, "Log batch statistics once processing ends")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error); defaults to LOG_LEVEL")
	flagSet.StringVar(&opts.logFormat, "log-format", "", "Log format (json or pretty); defaults to LOG_FORMAT")

	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}

	opts.files = lo.Compact(lo.Map(strings.Split(*filesPtr, ","), func(file string, _ int) string {
		return strings.TrimSpace(file)
	}))
	opts.files = append(opts.files, flagSet.Args()...)
	opts.format = strings.ToLower(opts.format)

	if !slices.Contains(validFormats, opts.format) {
		return options{}, fmt.Errorf("%v is not a valid format", opts.format)
	} else if len(opts.files) == 0 && opts.dir == "" {
		return options{}, errors.New("an input file or directory must be specified")
	} else if opts.workers < 0 {
		return options{}, fmt.Errorf("workers must not be negative: %v", opts.workers)
	}
	return opts, nil
}

func collectDocuments(opts options) ([]model.Document, error) {
	documents := dataset.FromFiles(opts.files)
	if opts.dir != "" {
		fromDir, err := dataset.FromDir(opts.dir)
		if err != nil {
			return nil, err
		}
		documents = append(documents, fromDir...)
	}
	return documents, nil
}

func writeOutput(opts options, records []model.CourseFeatures, stdout io.Writer) error {
	out := stdout
	if opts.out != "" {
		file, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if opts.format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}
	return csvio.WriteFeatures(out, records)
}

func logSummary(log zerolog.Logger, summary model.Summary) {
	log.Info().
		Int("records", summary.Records).
		Int("instances", summary.Instances).
		Float64("mean_difficulty", summary.MeanDifficulty).
		Float64("std_difficulty", summary.StdDifficulty).
		Float64("mean_conflict_degree", summary.MeanConflictDegree).
		Str("hardest_course", summary.HardestCourse).
		Str("hardest_instance", summary.HardestInstance).
		Msg("batch summary")
}
