package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go-beer-ebc/internal/analyzer"
	"go-beer-ebc/internal/factory"
	"go-beer-ebc/internal/logger"
	"go-beer-ebc/internal/report"
	"go-beer-ebc/internal/storage"
	"go-beer-ebc/internal/strategy"
	"go-beer-ebc/pkg/models"
)

// analyzeConfig holds the analyze flags.
type analyzeConfig struct {
	format      report.Format
	detailed    bool
	fast        bool
	strict      bool
	concurrency int
}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <image>...",
		Short: "Estimate the EBC colour of beer photographs",
		Long: `Analyze estimates the EBC colour of one or more local beer photographs.

The centre of each image is sampled, so frame the glass in the middle of the
shot. Images without readable pixels are reported as Unknown unless --strict
is given, in which case they are reported as errors.

Examples:
  # Analyze a single photo
  ebc analyze pint.jpg

  # Analyze several photos with diagnostics, as Markdown
  ebc analyze --detailed --format markdown *.jpg

  # Detailed output without the dominant colour and spread diagnostics
  ebc analyze --fast *.jpg

  # Fail on images that cannot be analysed
  ebc analyze --strict pint.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().StringP("format", "f", string(report.FormatText),
		"Output format: text, json, yaml or markdown")
	cmd.Flags().BoolP("detailed", "d", false,
		"Include colour science intermediates and sample statistics")
	cmd.Flags().Bool("fast", false,
		"Detailed output without the per-pixel dominant colour and spread diagnostics")
	cmd.Flags().BoolP("strict", "s", false,
		"Report images without readable pixels as errors instead of Unknown")
	cmd.Flags().IntP("concurrency", "c", runtime.NumCPU(),
		"Number of images analysed concurrently")

	return cmd
}

// buildAnalyzeConfig reads the analyze flags.
func buildAnalyzeConfig(cmd *cobra.Command) (analyzeConfig, error) {
	var cfg analyzeConfig

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return cfg, err
	}
	cfg.format = report.Format(format)

	if cfg.detailed, err = cmd.Flags().GetBool("detailed"); err != nil {
		return cfg, err
	}
	if cfg.fast, err = cmd.Flags().GetBool("fast"); err != nil {
		return cfg, err
	}
	if cfg.strict, err = cmd.Flags().GetBool("strict"); err != nil {
		return cfg, err
	}
	if cfg.concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return cfg, err
	}
	if cfg.concurrency < 1 {
		return cfg, fmt.Errorf("concurrency must be at least 1, got %d", cfg.concurrency)
	}
	return cfg, nil
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAnalyzeConfig(cmd)
	if err != nil {
		return err
	}

	w, err := report.NewWriter(cfg.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	imageAnalyzer, err := factory.NewAnalyzerFactory().CreateAnalyzer(factory.StandardAnalyzer)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	defer imageAnalyzer.Close()

	// Stop scheduling new images on interrupt
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items := analyzeFiles(ctx, imageAnalyzer, storage.NewFileImageFetcher(), args, cfg)

	if err := w.WriteResults(items); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	failed := 0
	for _, item := range items {
		if item.Response == nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d image(s) could not be analysed", failed, len(items))
	}
	return nil
}

// analyzeFiles analyses paths concurrently and returns the items in argument order.
func analyzeFiles(ctx context.Context, a analyzer.ImageAnalyzer, fetcher storage.ImageFetcher, paths []string, cfg analyzeConfig) []models.BatchItem {
	options := analyzer.DefaultOptions()
	if cfg.fast {
		options = analyzer.FastOptions()
	}
	options.Detailed = cfg.detailed || cfg.fast
	options.Strict = cfg.strict
	analysis := strategy.ForOptions(a, options)

	items := make([]models.BatchItem, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			items[i] = analyzeFile(ctx, analysis, fetcher, path, options)
			return nil
		})
	}
	_ = g.Wait()

	return items
}

// analyzeFile produces the report item for one image. Failures are recorded on the item.
func analyzeFile(ctx context.Context, analysis strategy.AnalysisStrategy, fetcher storage.ImageFetcher, path string, options analyzer.AnalysisOptions) models.BatchItem {
	start := time.Now()
	log := logger.WithFields(logrus.Fields{
		"source":   path,
		"strategy": analysis.GetStrategyName(),
	})

	img, err := fetcher.FetchImage(ctx, path)
	if err != nil {
		log.WithError(err).Warn("Failed to load image")
		return models.BatchItem{Source: path, Error: err.Error()}
	}

	outcome, err := analysis.Analyze(img, options)
	if err != nil {
		log.WithError(err).Warn("Analysis failed")
		return models.BatchItem{Source: path, Error: fmt.Sprintf("analysis failed: %v", err)}
	}
	if outcome.Cause != nil {
		log.WithError(outcome.Cause).Debug("Reporting Unknown result")
	}

	response := models.NewAnalysisResponse(path, outcome.Result)
	response.Detail = outcome.Detail
	response.Timestamp = time.Now().UTC().Format(time.RFC3339)
	response.ProcessingTimeSec = time.Since(start).Seconds()

	log.WithFields(logrus.Fields{
		"ebc_value":  outcome.Result.EBCValue,
		"color_name": outcome.Result.ColorName,
	}).Debug("Analysis completed")

	return models.BatchItem{Source: path, Response: response}
}
