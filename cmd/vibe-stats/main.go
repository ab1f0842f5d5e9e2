// Package main provides the vibe-stats command-line tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-stats/internal/duckdb"
	"github.com/inodb/vibe-stats/internal/ethnicity"
	"github.com/inodb/vibe-stats/internal/output"
	"github.com/inodb/vibe-stats/internal/stats"
	"github.com/inodb/vibe-stats/internal/vcf"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("vibe-stats version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "stats":
		return runStats(args[1:])
	case "config":
		return runConfig(args[1:])
	case "version":
		fmt.Printf("vibe-stats version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

// initConfig loads ~/.vibe-stats.yaml if present. Missing config is fine.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigFile(filepath.Join(home, ".vibe-stats.yaml"))
	_ = viper.ReadInConfig()
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `vibe-stats - per-sample VCF statistics

Usage:
  vibe-stats [options] <command> [arguments]

Commands:
  stats       Compute per-sample statistics from a VCF file
  config      Manage vibe-stats configuration
  version     Show version information
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Compute stats for every sample in a VCF
  vibe-stats stats input.vcf

  # Include ancestral-population estimation (needs AF annotations)
  vibe-stats stats --ethnicity input.vcf.gz

  # Write one JSON file per sample
  vibe-stats stats --output-dir results/ input.vcf

  # Stream from stdin
  zcat input.vcf.gz | vibe-stats stats -

For more information on a command, use:
  vibe-stats <command> --help
`)
}

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)

	var (
		ethnicityFlag bool
		outputFormat  string
		outputFile    string
		outputDir     string
		duckdbPath    string
		bufferSize    int
	)

	fs.BoolVar(&ethnicityFlag, "ethnicity", viper.GetBool("ethnicity.enabled"), "Estimate ancestral-population likelihoods")
	fs.StringVar(&outputFormat, "f", defaultFormat(), "Output format: json, tab")
	fs.StringVar(&outputFormat, "format", defaultFormat(), "Output format: json, tab")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.StringVar(&outputDir, "output-dir", "", "Write one JSON file per sample to this directory")
	fs.StringVar(&duckdbPath, "duckdb", "", "Also persist results to a DuckDB database at this path")
	fs.IntVar(&bufferSize, "buffer-size", defaultBufferSize(), "Read buffer size in bytes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Compute per-sample statistics from a VCF file.

Usage:
  vibe-stats stats [options] <input-file>

Arguments:
  <input-file>  Input VCF file, plain or gzipped (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  vibe-stats stats input.vcf
  vibe-stats stats --ethnicity -f tab input.vcf.gz
  vibe-stats stats --output-dir results/ input.vcf
  cat input.vcf | vibe-stats stats -
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}
	inputPath := fs.Arg(0)

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create logger: %v\n", err)
		return ExitError
	}
	defer logger.Sync()

	parser, err := vcf.NewParserBuffer(inputPath, bufferSize)
	if err != nil {
		var verr *vcf.Error
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", verr)
			return ExitError
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}
	defer parser.Close()
	parser.SetAlleleFrequencyParsing(ethnicityFlag)

	logger.Info("vcf header consumed",
		zap.Int("header_lines", len(parser.HeaderLines())),
		zap.Strings("samples", parser.Samples()))

	estimator := ethnicity.NewEstimator(parser.Samples(), ethnicityFlag)
	collector := stats.NewCollector(parser.Samples(), estimator)
	collector.SetLogger(logger)

	if err := collector.Run(parser); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	sampleStats := collector.Finalize()

	var posteriors []map[string]float64
	if ethnicityFlag {
		posteriors, err = estimator.Posteriors()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}
	reports := output.BuildReports(sampleStats, posteriors)

	summary := stats.SummarizeTiTv(sampleStats)
	logger.Info("ti/tv summary",
		zap.Float64("mean", summary.Mean),
		zap.Float64("median", summary.Median),
		zap.Float64("stddev", summary.StdDev))

	if duckdbPath != "" {
		if code := persistReports(duckdbPath, reports); code != ExitSuccess {
			return code
		}
	}

	if outputDir != "" {
		if err := output.WriteJSONDir(outputDir, reports); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		return ExitSuccess
	}

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	switch outputFormat {
	case "json":
		if err := output.WriteJSON(out, reports); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			return ExitError
		}
	case "tab":
		writer := output.NewTabWriter(out)
		if err := writer.WriteHeader(); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing header: %v\n", err)
			return ExitError
		}
		for _, r := range reports {
			if err := writer.Write(r); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
				return ExitError
			}
		}
		if err := writer.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
			return ExitError
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown output format %q\n", outputFormat)
		return ExitError
	}

	return ExitSuccess
}

func persistReports(path string, reports []*output.SampleReport) int {
	store, err := duckdb.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening duckdb store: %v\n", err)
		return ExitError
	}
	defer store.Close()

	if err := store.WriteReports(reports); err != nil {
		fmt.Fprintf(os.Stderr, "Error persisting results: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

func defaultFormat() string {
	if f := viper.GetString("output.format"); f != "" {
		return f
	}
	return "json"
}

func defaultBufferSize() int {
	if s := viper.GetInt("parser.buffer-size"); s > 0 {
		return s
	}
	return vcf.DefaultBufferSize
}
