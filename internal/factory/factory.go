package factory

import (
	"fmt"
	"time"

	"go-beer-ebc/internal/analyzer"
	"go-beer-ebc/internal/config"
	"go-beer-ebc/internal/storage"
)

// AnalyzerType represents different types of image analyzers
type AnalyzerType string

const (
	// StandardAnalyzer is the centre-crop colour analyzer
	StandardAnalyzer AnalyzerType = "standard"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system
	LocalStorage StorageType = "local"
)

// AnalyzerFactory creates image analyzers
type AnalyzerFactory interface {
	CreateAnalyzer(analyzerType AnalyzerType) (analyzer.ImageAnalyzer, error)
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
}

// analyzerFactory implements AnalyzerFactory
type analyzerFactory struct{}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory() AnalyzerFactory {
	return &analyzerFactory{}
}

// CreateAnalyzer creates an analyzer based on the specified type
func (f *analyzerFactory) CreateAnalyzer(analyzerType AnalyzerType) (analyzer.ImageAnalyzer, error) {
	switch analyzerType {
	case StandardAnalyzer, "":
		return analyzer.NewImageAnalyzer()
	default:
		return nil, fmt.Errorf("unsupported analyzer type: %s", analyzerType)
	}
}

// StorageSettings carries what the storage backends need from configuration
type StorageSettings struct {
	FetchTimeout     time.Duration
	AzureAccountName string
	AzureAccountKey  string
}

// StorageSettingsFromConfig extracts storage settings from the application config
func StorageSettingsFromConfig(cfg *config.Config) StorageSettings {
	return StorageSettings{
		FetchTimeout:     cfg.ImageFetchTimeout,
		AzureAccountName: cfg.AzureAccountName,
		AzureAccountKey:  cfg.AzureAccountKey,
	}
}

// storageFactory implements StorageFactory
type storageFactory struct {
	settings StorageSettings
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(settings StorageSettings) StorageFactory {
	return &storageFactory{settings: settings}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(f.settings.FetchTimeout), nil
	case AzureStorage:
		if f.settings.AzureAccountName == "" || f.settings.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure storage requires an account name and key")
		}
		fetcher, err := storage.NewAzureImageFetcher(f.settings.AzureAccountName, f.settings.AzureAccountKey)
		if err != nil {
			return nil, err
		}
		return fetcher, nil
	case LocalStorage:
		return storage.NewFileImageFetcher(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	AnalyzerFactory AnalyzerFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(settings StorageSettings) *ComponentFactory {
	return &ComponentFactory{
		AnalyzerFactory: NewAnalyzerFactory(),
		StorageFactory:  NewStorageFactory(settings),
	}
}
