package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"runtime"
	"time"

	"go-beer-ebc/internal/analyzer"
	apperrors "go-beer-ebc/internal/errors"
	"go-beer-ebc/internal/observer"
	"go-beer-ebc/internal/repository"
	"go-beer-ebc/internal/strategy"
	"go-beer-ebc/pkg/models"
)

// BeerAnalysisService estimates beer colour from images held in any supported source
type BeerAnalysisService interface {
	// Single image analysis
	AnalyzeURL(ctx context.Context, imageURL string, options analyzer.AnalysisOptions) (*models.AnalysisResponse, error)
	AnalyzeUpload(ctx context.Context, filename string, body io.Reader, options analyzer.AnalysisOptions) (*models.AnalysisResponse, error)
	AnalyzeBlob(ctx context.Context, blobURL string, options analyzer.AnalysisOptions) (*models.AnalysisResponse, error)

	// AnalyzeBatch analyses each URL independently; per-item failures are reported in the items
	AnalyzeBatch(ctx context.Context, imageURLs []string, options analyzer.AnalysisOptions) (*models.BatchAnalysisResponse, error)

	// Band table
	Bands() []models.Band
	LookupBand(name string) (models.Band, error)
	Classify(ebc float64) (*models.ClassificationResponse, error)

	Metrics() observer.Metrics
}

// Settings tunes the service
type Settings struct {
	AnalysisTimeout time.Duration
	MaxBatchSize    int
	Workers         int
}

// DefaultSettings returns the settings used when none are configured
func DefaultSettings() Settings {
	return Settings{
		AnalysisTimeout: 20 * time.Second,
		MaxBatchSize:    16,
		Workers:         0,
	}
}

// beerAnalysisService implements BeerAnalysisService
type beerAnalysisService struct {
	imageRepo repository.ImageRepository
	analyzer  analyzer.ImageAnalyzer
	events    observer.Subject
	metrics   *observer.MetricsObserver
	settings  Settings
}

// NewBeerAnalysisService creates a new analysis service. events and metrics may be nil.
func NewBeerAnalysisService(
	imageRepository repository.ImageRepository,
	imageAnalyzer analyzer.ImageAnalyzer,
	events observer.Subject,
	metrics *observer.MetricsObserver,
	settings Settings,
) BeerAnalysisService {
	defaults := DefaultSettings()
	if settings.AnalysisTimeout <= 0 {
		settings.AnalysisTimeout = defaults.AnalysisTimeout
	}
	if settings.MaxBatchSize <= 0 {
		settings.MaxBatchSize = defaults.MaxBatchSize
	}
	if events == nil {
		events = observer.NewEventPublisher()
	}
	return &beerAnalysisService{
		imageRepo: imageRepository,
		analyzer:  imageAnalyzer,
		events:    events,
		metrics:   metrics,
		settings:  settings,
	}
}

// AnalyzeURL fetches an image over HTTP and analyses it
func (s *beerAnalysisService) AnalyzeURL(ctx context.Context, imageURL string, options analyzer.AnalysisOptions) (*models.AnalysisResponse, error) {
	if err := s.imageRepo.ValidateImageURL(imageURL); err != nil {
		return nil, apperrors.NewValidationError("invalid image URL", err)
	}
	return s.analyzeSource(ctx, imageURL, options, func(ctx context.Context) (image.Image, map[string]interface{}, error) {
		img, err := s.imageRepo.FetchImage(ctx, imageURL)
		return img, nil, err
	})
}

// AnalyzeUpload decodes an uploaded image and analyses it
func (s *beerAnalysisService) AnalyzeUpload(ctx context.Context, filename string, body io.Reader, options analyzer.AnalysisOptions) (*models.AnalysisResponse, error) {
	source := "upload:" + filename
	return s.analyzeSource(ctx, source, options, func(ctx context.Context) (image.Image, map[string]interface{}, error) {
		img, meta, err := s.imageRepo.DecodeUpload(body)
		if err != nil {
			return nil, nil, err
		}
		return img, map[string]interface{}{"format": meta.Format, "bytes": meta.ContentLength}, nil
	})
}

// AnalyzeBlob downloads an image from blob storage and analyses it
func (s *beerAnalysisService) AnalyzeBlob(ctx context.Context, blobURL string, options analyzer.AnalysisOptions) (*models.AnalysisResponse, error) {
	if err := s.imageRepo.ValidateBlobURL(blobURL); err != nil {
		return nil, apperrors.NewValidationError("invalid blob URL", err)
	}
	return s.analyzeSource(ctx, blobURL, options, func(ctx context.Context) (image.Image, map[string]interface{}, error) {
		img, err := s.imageRepo.FetchBlob(ctx, blobURL)
		return img, nil, err
	})
}

// AnalyzeBatch analyses the URLs on a worker pool, or one after another when
// options.UseWorkerPool is false. Items keep request order.
func (s *beerAnalysisService) AnalyzeBatch(ctx context.Context, imageURLs []string, options analyzer.AnalysisOptions) (*models.BatchAnalysisResponse, error) {
	if len(imageURLs) == 0 {
		return nil, apperrors.NewValidationError("at least one URL is required", nil)
	}
	if len(imageURLs) > s.settings.MaxBatchSize {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("batch of %d exceeds the limit of %d images", len(imageURLs), s.settings.MaxBatchSize), nil)
	}

	// Batch items never fail the whole request
	options.Strict = false

	items := make([]models.BatchItem, len(imageURLs))
	analyze := func(i int) {
		items[i].Source = imageURLs[i]
		resp, err := s.AnalyzeURL(ctx, imageURLs[i], options)
		if err != nil {
			items[i].Error = err.Error()
			return
		}
		items[i].Response = resp
	}

	if options.UseWorkerPool && len(imageURLs) > 1 {
		s.runOnPool(len(imageURLs), options.MaxWorkers, analyze)
	} else {
		for i := range imageURLs {
			analyze(i)
		}
	}

	batch := &models.BatchAnalysisResponse{Items: items}
	for _, item := range items {
		if item.Error != "" {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
	}
	return batch, nil
}

// runOnPool calls job for 0..n-1 on a worker pool sized by maxWorkers or the service settings
func (s *beerAnalysisService) runOnPool(n, maxWorkers int, job func(int)) {
	workers := maxWorkers
	if workers <= 0 {
		workers = s.settings.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := analyzer.NewWorkerPool(min(workers, n))
	pool.Start()
	defer pool.Close()

	for i := 0; i < n; i++ {
		pool.Submit(func() { job(i) })
	}
	pool.Wait()
}

// Bands returns the colour table
func (s *beerAnalysisService) Bands() []models.Band {
	return analyzer.Bands()
}

// LookupBand resolves a band by approximate name
func (s *beerAnalysisService) LookupBand(name string) (models.Band, error) {
	band, ok := analyzer.LookupBand(name)
	if !ok {
		return models.Band{}, apperrors.NewNotFoundError(fmt.Sprintf("no colour band matches %q", name), nil)
	}
	return band, nil
}

// Classify names the band of a raw EBC value
func (s *beerAnalysisService) Classify(ebc float64) (*models.ClassificationResponse, error) {
	if math.IsNaN(ebc) || math.IsInf(ebc, 0) || ebc < 0 {
		return nil, apperrors.NewValidationError("EBC value must be a finite, non-negative number", nil)
	}
	return &models.ClassificationResponse{
		EBCValue:     ebc,
		FormattedEBC: fmt.Sprintf("%.1f", ebc),
		ColorName:    analyzer.Classify(ebc),
	}, nil
}

// Metrics returns the counters collected from analysis events
func (s *beerAnalysisService) Metrics() observer.Metrics {
	if s.metrics == nil {
		return observer.Metrics{BandCounts: map[string]int64{}}
	}
	return s.metrics.GetMetrics()
}

// loadFunc returns the image and optional metadata for the fetched event
type loadFunc func(ctx context.Context) (image.Image, map[string]interface{}, error)

// analyzeSource loads the image, runs the strategy picked by options and
// publishes the lifecycle events
func (s *beerAnalysisService) analyzeSource(ctx context.Context, source string, options analyzer.AnalysisOptions, load loadFunc) (*models.AnalysisResponse, error) {
	start := time.Now()
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{EventType: observer.AnalysisStarted, Source: source})

	img, meta, err := load(ctx)
	if err != nil {
		appErr := fetchError(err)
		s.events.NotifyObservers(ctx, observer.AnalysisEvent{
			EventType:    observer.ImageFetchFailed,
			Source:       source,
			ErrorMessage: err.Error(),
		})
		s.fail(ctx, source, start, appErr)
		return nil, appErr
	}

	if meta == nil {
		meta = map[string]interface{}{}
	}
	if img != nil {
		meta["width"], meta["height"] = img.Bounds().Dx(), img.Bounds().Dy()
	}
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.ImageFetched,
		Source:    source,
		Success:   true,
		Metadata:  meta,
	})

	outcome, err := s.runStrategy(ctx, img, options)
	if err != nil {
		s.fail(ctx, source, start, err)
		return nil, err
	}

	elapsed := time.Since(start)
	event := observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		Source:         source,
		ProcessingTime: elapsed,
		Success:        true,
		Result:         &outcome.Result,
		Metadata:       map[string]interface{}{"detailed": options.Detailed, "strict": options.Strict},
	}
	if outcome.Cause != nil {
		event.Metadata["cause"] = outcome.Cause.Error()
	}
	s.events.NotifyObservers(ctx, event)

	resp := models.NewAnalysisResponse(source, outcome.Result)
	resp.Timestamp = start.UTC().Format(time.RFC3339)
	resp.ProcessingTimeSec = elapsed.Seconds()
	resp.Detail = outcome.Detail
	return resp, nil
}

// runStrategy analyses img within the analysis timeout
func (s *beerAnalysisService) runStrategy(ctx context.Context, img image.Image, options analyzer.AnalysisOptions) (strategy.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.AnalysisTimeout)
	defer cancel()

	type reply struct {
		outcome strategy.Outcome
		err     error
	}
	done := make(chan reply, 1)
	go func() {
		outcome, err := strategy.ForOptions(s.analyzer, options).Analyze(img, options)
		done <- reply{outcome, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return r.outcome, apperrors.NewProcessingError("image could not be analysed", r.err)
		}
		return r.outcome, nil
	case <-ctx.Done():
		return strategy.Outcome{}, apperrors.NewTimeoutError("analysis timed out", ctx.Err())
	}
}

func (s *beerAnalysisService) fail(ctx context.Context, source string, start time.Time, err error) {
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisFailed,
		Source:         source,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
}

// fetchError maps repository failures to application errors
func fetchError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("timed out fetching image", err)
	case errors.Is(err, context.Canceled):
		return apperrors.NewTimeoutError("image fetch cancelled", err)
	case errors.Is(err, repository.ErrInvalidImageURL):
		return apperrors.NewValidationError("invalid image location", err)
	case errors.Is(err, repository.ErrImageNotFound):
		return apperrors.NewNotFoundError("image not found", err)
	case errors.Is(err, repository.ErrUnsupportedImage):
		return apperrors.NewProcessingError("unsupported or corrupt image", err)
	case errors.Is(err, repository.ErrRepositoryUnavailable):
		return apperrors.NewUnavailableError("image source is not configured", err)
	default:
		return apperrors.NewNetworkError("failed to fetch image", err)
	}
}
