package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"vaxclean/internal/config"
	"vaxclean/internal/dataprocessing"
	"vaxclean/internal/errors"
	"vaxclean/internal/exporter"
	"vaxclean/internal/infrastructure"
	"vaxclean/internal/validation"
	"vaxclean/pkg/contracts"
	"vaxclean/pkg/contracts/domain"
)

// disabledOutput turns off writing the cleaned CSV
const disabledOutput = "-"

type options struct {
	in          string
	out         string
	xlsx        string
	summary     string
	metrics     string
	configPath  string
	strict      bool
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.in, "in", "", "input csv file (defaults to data/raw/"+config.RawDatasetFile+")")
	fs.StringVar(&opts.out, "out", "", "output csv file; bare names go to data/cleaned (defaults to "+config.CleanedDatasetFile+"; - disables)")
	fs.StringVar(&opts.xlsx, "xlsx", "", "optional xlsx workbook path")
	fs.StringVar(&opts.summary, "summary", "", "optional json summary path")
	fs.StringVar(&opts.metrics, "metrics", "", "optional prometheus textfile path")
	fs.StringVar(&opts.configPath, "config", "", "optional yaml config file")
	fs.BoolVar(&opts.strict, "strict-age-groups", false, "drop rows with unknown age groups")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	infrastructure.CloseLogFile()
	if err != nil && !stderrors.Is(err, flag.ErrHelp) {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, contracts.CurrentBuild())
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return errors.NewConfigError("failed to load config", err)
	}
	if opts.strict {
		cfg.Cleaning.StrictAgeGroups = true
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to resolve paths: %v\n", err)
		return errors.NewConfigError("failed to resolve paths", err)
	}
	cfg.Logging.FilePath = paths.Resolve(cfg.Logging.FilePath)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	csvWriter := exporter.NewCSVWriter(paths, logger)
	if opts.in == "" {
		opts.in = paths.RawCSV
	}
	switch opts.out {
	case "":
		opts.out = paths.CleanedCSV
	case disabledOutput:
		opts.out = ""
	default:
		opts.out = csvWriter.ResolvePath(opts.out)
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	logger.InfoContext(ctx, "Starting vaccination dataset cleaning",
		slog.String("input_file", opts.in),
		slog.String("output_file", opts.out),
		slog.String("xlsx_file", opts.xlsx),
		slog.Bool("strict_age_groups", cfg.Cleaning.StrictAgeGroups),
		slog.String("version", config.AppVersion))
	paths.LogPathResolution(logger)

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, stderr, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		return errors.NewConfigError("failed to initialize telemetry", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputFile(opts.in); err != nil {
		return fail(ctx, logger, stderr, err)
	}
	if err := validator.ValidateOutputFiles(opts.in, opts.out, opts.xlsx, opts.summary, opts.metrics); err != nil {
		return fail(ctx, logger, stderr, err)
	}

	cleaningOpts, err := dataprocessing.OptionsFromConfig(cfg.Cleaning)
	if err != nil {
		return fail(ctx, logger, stderr, errors.NewConfigError("invalid cleaning config", err))
	}
	cleaningOpts.Report = stdout

	state, result, err := dataprocessing.NewCleaner(cleaningOpts, telemetry, logger).Clean(ctx, opts.in)
	if err != nil {
		return fail(ctx, logger, stderr, err)
	}

	summarizer := dataprocessing.NewSummarizer(logger)
	if err := summarizer.WriteReport(stdout, state.Summary); err != nil {
		return fail(ctx, logger, stderr, errors.NewStorageError("failed to print summary", err))
	}

	if err := paths.EnsureDirectories(logger); err != nil {
		return fail(ctx, logger, stderr, errors.NewStorageError("failed to create data directories", err))
	}
	if err := export(ctx, opts, cfg, csvWriter, state.Table, state.Summary, summarizer, logger); err != nil {
		return fail(ctx, logger, stderr, err)
	}
	if opts.out != "" {
		fmt.Fprintf(stdout, "Cleaned dataset saved to %s\n", opts.out)
	}

	if opts.metrics != "" {
		if err := telemetry.WriteMetricsTextfile(opts.metrics); err != nil {
			return fail(ctx, logger, stderr, errors.NewStorageError("failed to write metrics", err).WithContext("path", opts.metrics))
		}
	}

	logger.InfoContext(ctx, "Cleaning completed",
		slog.String("trace_id", result.TraceID),
		slog.Int("rows", state.Table.Len()),
		slog.Duration("duration", result.Duration))
	return nil
}

// export writes the requested outputs in parallel; each only reads the table
func export(ctx context.Context, opts *options, cfg *config.Config, csvWriter *exporter.CSVWriter, table *domain.VaccinationTable,
	summary *domain.CleaningSummary, summarizer *dataprocessing.Summarizer, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	if opts.out != "" {
		g.Go(func() error {
			return csvWriter.WriteTable(gctx, opts.out, table, cfg.Cleaning.WriteBOM)
		})
	}
	if opts.xlsx != "" {
		g.Go(func() error {
			return exporter.NewXLSXWriter(logger).WriteTable(gctx, opts.xlsx, table)
		})
	}
	if opts.summary != "" {
		g.Go(func() error {
			return summarizer.WriteJSON(gctx, opts.summary, summary)
		})
	}

	return g.Wait()
}

func fail(ctx context.Context, logger *slog.Logger, stderr io.Writer, err error) error {
	logger.ErrorContext(ctx, "Cleaning failed", errors.LogAttrs(err)...)
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return err
}
