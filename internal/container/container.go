package container

import (
	"fmt"
	"net/http"

	"go-beer-ebc/internal/analyzer"
	"go-beer-ebc/internal/config"
	"go-beer-ebc/internal/factory"
	"go-beer-ebc/internal/logger"
	"go-beer-ebc/internal/observer"
	"go-beer-ebc/internal/repository"
	"go-beer-ebc/internal/service"
	"go-beer-ebc/internal/storage"
	"go-beer-ebc/internal/transport"
	"go-beer-ebc/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config              *config.Config
	imageFetcher        storage.ImageFetcher
	blobFetcher         storage.ImageFetcher
	imageAnalyzer       analyzer.ImageAnalyzer
	imageRepository     repository.ImageRepository
	metrics             *observer.MetricsObserver
	beerAnalysisService service.BeerAnalysisService
	handler             http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	components := factory.NewComponentFactory(factory.StorageSettingsFromConfig(cfg))

	imageFetcher, err := components.StorageFactory.CreateStorage(factory.HTTPStorage)
	if err != nil {
		return nil, fmt.Errorf("failed to create image fetcher: %w", err)
	}

	var blobFetcher storage.ImageFetcher
	if cfg.BlobStorageEnabled() {
		blobFetcher, err = components.StorageFactory.CreateStorage(factory.AzureStorage)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob fetcher: %w", err)
		}
	} else {
		logger.Info("Azure blob storage not configured, /analyze/blob is disabled")
	}

	imageAnalyzer, err := components.AnalyzerFactory.CreateAnalyzer(factory.StandardAnalyzer)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	validator := validation.NewURLValidatorWithOptions([]string{"http", "https"}, cfg.AllowedHosts)
	imageRepository := repository.NewImageRepository(imageFetcher, blobFetcher, validator)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	beerAnalysisService := service.NewBeerAnalysisService(imageRepository, imageAnalyzer, events, metrics, service.Settings{
		AnalysisTimeout: cfg.AnalysisTimeout,
		MaxBatchSize:    cfg.MaxBatchSize,
		Workers:         cfg.AnalysisWorkers,
	})
	handler := transport.NewHandler(beerAnalysisService, cfg)

	return &Container{
		config:              cfg,
		imageFetcher:        imageFetcher,
		blobFetcher:         blobFetcher,
		imageAnalyzer:       imageAnalyzer,
		imageRepository:     imageRepository,
		metrics:             metrics,
		beerAnalysisService: beerAnalysisService,
		handler:             handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the analysis service
func (c *Container) Service() service.BeerAnalysisService {
	return c.beerAnalysisService
}

// Close releases resources held by the container
func (c *Container) Close() error {
	return c.imageAnalyzer.Close()
}
