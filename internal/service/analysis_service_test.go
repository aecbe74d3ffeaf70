package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go-beer-ebc/internal/analyzer"
	apperrors "go-beer-ebc/internal/errors"
	"go-beer-ebc/internal/observer"
	"go-beer-ebc/internal/repository"
	"go-beer-ebc/internal/storage"
	"go-beer-ebc/pkg/models"
)

// mapFetcher serves images by location and records calls
type mapFetcher struct {
	mu     sync.Mutex
	images map[string]image.Image
	errs   map[string]error
	calls  int
}

func (f *mapFetcher) FetchImage(ctx context.Context, location string) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[location]; ok {
		return nil, err
	}
	if img, ok := f.images[location]; ok {
		return img, nil
	}
	return nil, &storage.StatusError{StatusCode: http.StatusNotFound}
}

// slowAnalyzer blocks until released
type slowAnalyzer struct {
	analyzer.ImageAnalyzer
	release chan struct{}
}

func (s *slowAnalyzer) Analyze(img image.Image) (models.AnalysisResult, error) {
	<-s.release
	return s.ImageAnalyzer.Analyze(img)
}

// failingAnalyzer reports err for every analysis
type failingAnalyzer struct {
	analyzer.ImageAnalyzer
	err error
}

func (f *failingAnalyzer) Analyze(image.Image) (models.AnalysisResult, error) {
	return models.UnknownResult(), f.err
}

func strictOptions() analyzer.AnalysisOptions {
	options := analyzer.DefaultOptions()
	options.Strict = true
	return options
}

func createTestImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

type fixture struct {
	service BeerAnalysisService
	fetcher *mapFetcher
	metrics *observer.MetricsObserver
}

func newFixture(t *testing.T, blob storage.ImageFetcher, settings Settings) *fixture {
	t.Helper()
	a, err := analyzer.NewImageAnalyzer()
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}
	fetcher := &mapFetcher{
		images: map[string]image.Image{
			"https://example.com/amber.png": createTestImage(100, 80, color.RGBA{200, 150, 50, 255}),
			"https://example.com/white.png": createTestImage(40, 40, color.RGBA{255, 255, 255, 255}),
			"https://example.com/empty.png": image.NewRGBA(image.Rect(0, 0, 0, 0)),
		},
		errs: map[string]error{
			"https://example.com/slow.png": context.DeadlineExceeded,
		},
	}
	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(metrics)

	repo := repository.NewImageRepository(fetcher, blob, nil)
	return &fixture{
		service: NewBeerAnalysisService(repo, a, events, metrics, settings),
		fetcher: fetcher,
		metrics: metrics,
	}
}

func assertAppError(t *testing.T, err error, wantType apperrors.ErrorType, wantStatus int) {
	t.Helper()
	appErr, ok := apperrors.As(err)
	if !ok {
		t.Fatalf("Expected AppError, got %T: %v", err, err)
	}
	if appErr.Type != wantType || appErr.StatusCode != wantStatus {
		t.Errorf("Expected %s/%d, got %s/%d", wantType, wantStatus, appErr.Type, appErr.StatusCode)
	}
}

func TestAnalyzeURL_Success(t *testing.T) {
	f := newFixture(t, nil, DefaultSettings())

	resp, err := f.service.AnalyzeURL(context.Background(), "https://example.com/amber.png", analyzer.DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.Source != "https://example.com/amber.png" {
		t.Errorf("Unexpected source %s", resp.Source)
	}
	if resp.Result.ColorName != "Straw" || resp.FormattedEBC != "4.5" || resp.AccuracyLabel != "Medium" {
		t.Errorf("Unexpected result %+v", resp)
	}
	if resp.SwatchHex != "#c89632" {
		t.Errorf("Expected swatch #c89632, got %s", resp.SwatchHex)
	}
	if resp.Timestamp == "" {
		t.Error("Expected timestamp to be set")
	}
	if resp.Detail != nil {
		t.Error("Expected no detail for basic analysis")
	}

	m := f.service.Metrics()
	if m.TotalAnalyses != 1 || m.SuccessfulAnalyses != 1 || m.BandCounts["Straw"] != 1 {
		t.Errorf("Unexpected metrics %+v", m)
	}
}

func TestAnalyzeURL_Detailed(t *testing.T) {
	f := newFixture(t, nil, DefaultSettings())

	resp, err := f.service.AnalyzeURL(context.Background(), "https://example.com/white.png", analyzer.DetailedOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Result.ColorName != "Pale gold" || resp.FormattedEBC != "7.5" {
		t.Errorf("Unexpected result %+v", resp.Result)
	}
	if resp.Detail == nil {
		t.Fatal("Expected detail")
	}
	if resp.Detail.Sample.SampleSide != 16 || !resp.Detail.Sample.Cropped {
		t.Errorf("Unexpected sample stats %+v", resp.Detail.Sample)
	}
}

func TestAnalyzeURL_EmptyImage(t *testing.T) {
	f := newFixture(t, nil, DefaultSettings())
	url := "https://example.com/empty.png"

	resp, err := f.service.AnalyzeURL(context.Background(), url, analyzer.DefaultOptions())
	if err != nil {
		t.Fatalf("Non-strict analysis must not fail, got %v", err)
	}
	if !resp.Result.IsUnknown() || resp.FormattedEBC != "0.0" || resp.AccuracyLabel != "Low" {
		t.Errorf("Expected Unknown sentinel, got %+v", resp)
	}

	_, err = f.service.AnalyzeURL(context.Background(), url, strictOptions())
	assertAppError(t, err, apperrors.ErrorTypeProcessing, http.StatusUnprocessableEntity)
	if !errors.Is(err, analyzer.ErrEmptyImage) {
		t.Errorf("Expected the analyzer error as cause, got %v", err)
	}

	m := f.service.Metrics()
	if m.UnknownResults != 1 || m.FailedAnalyses != 1 || len(m.BandCounts) != 0 {
		t.Errorf("Unexpected metrics %+v", m)
	}
}

func TestAnalyzeURL_Errors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantType   apperrors.ErrorType
		wantStatus int
		wantFetch  bool
	}{
		{"invalid scheme", "ftp://example.com/a.png", apperrors.ErrorTypeValidation, http.StatusBadRequest, false},
		{"empty", "", apperrors.ErrorTypeValidation, http.StatusBadRequest, false},
		{"not found", "https://example.com/missing.png", apperrors.ErrorTypeNotFound, http.StatusNotFound, true},
		{"timeout", "https://example.com/slow.png", apperrors.ErrorTypeTimeout, http.StatusGatewayTimeout, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, DefaultSettings())
			_, err := f.service.AnalyzeURL(context.Background(), tt.url, analyzer.DefaultOptions())
			assertAppError(t, err, tt.wantType, tt.wantStatus)

			if (f.fetcher.calls > 0) != tt.wantFetch {
				t.Errorf("Expected fetch=%v, got %d calls", tt.wantFetch, f.fetcher.calls)
			}
			if tt.wantFetch && f.service.Metrics().FetchFailures != 1 {
				t.Error("Expected fetch failure to be counted")
			}
		})
	}
}

func TestAnalyzeUpload(t *testing.T) {
	f := newFixture(t, nil, DefaultSettings())

	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(30, 30, color.RGBA{120, 70, 40, 255})); err != nil {
		t.Fatal(err)
	}

	resp, err := f.service.AnalyzeUpload(context.Background(), "pint.png", &buf, analyzer.DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Source != "upload:pint.png" || resp.Result.ColorName != "Pale straw" {
		t.Errorf("Unexpected response %+v", resp)
	}
	if resp.Result.RGB != (models.RGB{R: 120, G: 70, B: 40}) {
		t.Errorf("Unexpected RGB %+v", resp.Result.RGB)
	}

	_, err = f.service.AnalyzeUpload(context.Background(), "notes.txt", strings.NewReader("hello"), analyzer.DefaultOptions())
	assertAppError(t, err, apperrors.ErrorTypeProcessing, http.StatusUnprocessableEntity)
}

func TestAnalyzeUpload_CorruptImage(t *testing.T) {
	f := newFixture(t, nil, DefaultSettings())

	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(20, 20, color.RGBA{200, 150, 50, 255})); err != nil {
		t.Fatal(err)
	}
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()/2])

	_, err := f.service.AnalyzeUpload(context.Background(), "pint.png", truncated, analyzer.DefaultOptions())
	assertAppError(t, err, apperrors.ErrorTypeProcessing, http.StatusUnprocessableEntity)
	if !errors.Is(err, storage.ErrCorruptImage) {
		t.Errorf("Expected ErrCorruptImage as cause, got %v", err)
	}
	if m := f.service.Metrics(); m.FetchFailures != 1 {
		t.Errorf("Expected one fetch failure, got %+v", m)
	}
}

func TestAnalyzeURL_StrictErrorKeepsCause(t *testing.T) {
	base, err := analyzer.NewImageAnalyzer()
	if err != nil {
		t.Fatal(err)
	}
	cause := errors.New("sample saturated")
	fetcher := &mapFetcher{images: map[string]image.Image{
		"https://example.com/a.png": createTestImage(10, 10, color.RGBA{1, 2, 3, 255}),
	}}
	svc := NewBeerAnalysisService(repository.NewImageRepository(fetcher, nil, nil),
		&failingAnalyzer{ImageAnalyzer: base, err: cause}, nil, nil, DefaultSettings())

	_, err = svc.AnalyzeURL(context.Background(), "https://example.com/a.png", strictOptions())
	assertAppError(t, err, apperrors.ErrorTypeProcessing, http.StatusUnprocessableEntity)
	if !errors.Is(err, cause) || !strings.Contains(err.Error(), "sample saturated") {
		t.Errorf("Expected the cause in the error, got %v", err)
	}
	if strings.Contains(err.Error(), "readable pixels") {
		t.Errorf("Unexpected empty-image wording in %v", err)
	}
}

func TestAnalyzeBlob(t *testing.T) {
	blobURL := "https://acct.blob.core.windows.net/beers/amber.png"

	f := newFixture(t, nil, DefaultSettings())
	_, err := f.service.AnalyzeBlob(context.Background(), blobURL, analyzer.DefaultOptions())
	assertAppError(t, err, apperrors.ErrorTypeUnavailable, http.StatusServiceUnavailable)

	_, err = f.service.AnalyzeBlob(context.Background(), "https://example.com/amber.png", analyzer.DefaultOptions())
	assertAppError(t, err, apperrors.ErrorTypeValidation, http.StatusBadRequest)

	blob := &mapFetcher{images: map[string]image.Image{
		blobURL: createTestImage(50, 50, color.RGBA{200, 150, 50, 255}),
	}}
	f = newFixture(t, blob, DefaultSettings())
	resp, err := f.service.AnalyzeBlob(context.Background(), blobURL, analyzer.DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Result.ColorName != "Straw" {
		t.Errorf("Expected Straw, got %s", resp.Result.ColorName)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	f := newFixture(t, nil, Settings{MaxBatchSize: 4, Workers: 2})
	urls := []string{
		"https://example.com/amber.png",
		"https://example.com/missing.png",
		"https://example.com/white.png",
		"https://example.com/empty.png",
	}

	batch, err := f.service.AnalyzeBatch(context.Background(), urls, strictOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if batch.Succeeded != 3 || batch.Failed != 1 {
		t.Errorf("Expected 3 succeeded and 1 failed, got %d/%d", batch.Succeeded, batch.Failed)
	}
	for i, item := range batch.Items {
		if item.Source != urls[i] {
			t.Errorf("Item %d out of order: %s", i, item.Source)
		}
	}
	if batch.Items[0].Response.Result.ColorName != "Straw" {
		t.Errorf("Unexpected first item %+v", batch.Items[0])
	}
	if batch.Items[1].Error == "" || batch.Items[1].Response != nil {
		t.Errorf("Expected second item to carry an error, got %+v", batch.Items[1])
	}
	if batch.Items[2].Response.Result.ColorName != "Pale gold" {
		t.Errorf("Unexpected third item %+v", batch.Items[2])
	}
	if !batch.Items[3].Response.Result.IsUnknown() {
		t.Errorf("Expected Unknown for empty image in batch, got %+v", batch.Items[3])
	}
}

func TestAnalyzeBatch_Sequential(t *testing.T) {
	f := newFixture(t, nil, Settings{MaxBatchSize: 4})
	urls := []string{
		"https://example.com/white.png",
		"https://example.com/missing.png",
		"https://example.com/amber.png",
	}

	options := analyzer.DefaultOptions()
	options.UseWorkerPool = false

	batch, err := f.service.AnalyzeBatch(context.Background(), urls, options)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if batch.Succeeded != 2 || batch.Failed != 1 {
		t.Errorf("Expected 2 succeeded and 1 failed, got %d/%d", batch.Succeeded, batch.Failed)
	}
	want := []string{"Pale gold", "", "Straw"}
	for i, item := range batch.Items {
		if item.Source != urls[i] {
			t.Errorf("Item %d out of order: %s", i, item.Source)
		}
		if want[i] == "" {
			if item.Error == "" {
				t.Errorf("Item %d: expected an error", i)
			}
			continue
		}
		if item.Response == nil || item.Response.Result.ColorName != want[i] {
			t.Errorf("Item %d: expected %s, got %+v", i, want[i], item)
		}
	}
	if f.fetcher.calls != len(urls) {
		t.Errorf("Expected %d fetches, got %d", len(urls), f.fetcher.calls)
	}
}

func TestAnalyzeBatch_Limits(t *testing.T) {
	f := newFixture(t, nil, Settings{MaxBatchSize: 2})

	_, err := f.service.AnalyzeBatch(context.Background(), nil, analyzer.DefaultOptions())
	assertAppError(t, err, apperrors.ErrorTypeValidation, http.StatusBadRequest)

	urls := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}
	_, err = f.service.AnalyzeBatch(context.Background(), urls, analyzer.DefaultOptions())
	assertAppError(t, err, apperrors.ErrorTypeValidation, http.StatusBadRequest)
	if f.fetcher.calls != 0 {
		t.Error("Expected no fetches for an oversized batch")
	}
}

func TestAnalysisTimeout(t *testing.T) {
	base, err := analyzer.NewImageAnalyzer()
	if err != nil {
		t.Fatal(err)
	}
	slow := &slowAnalyzer{ImageAnalyzer: base, release: make(chan struct{})}
	defer close(slow.release)

	fetcher := &mapFetcher{images: map[string]image.Image{
		"https://example.com/a.png": createTestImage(10, 10, color.RGBA{1, 2, 3, 255}),
	}}
	svc := NewBeerAnalysisService(repository.NewImageRepository(fetcher, nil, nil), slow, nil, nil,
		Settings{AnalysisTimeout: 20 * time.Millisecond})

	_, err = svc.AnalyzeURL(context.Background(), "https://example.com/a.png", analyzer.DefaultOptions())
	assertAppError(t, err, apperrors.ErrorTypeTimeout, http.StatusGatewayTimeout)
}

func TestBandsAndClassify(t *testing.T) {
	f := newFixture(t, nil, DefaultSettings())

	if len(f.service.Bands()) != 14 {
		t.Errorf("Expected 14 bands, got %d", len(f.service.Bands()))
	}

	band, err := f.service.LookupBand("light coper")
	if err != nil || band.Name != "Light copper" {
		t.Errorf("Expected Light copper, got %+v, %v", band, err)
	}
	_, err = f.service.LookupBand("stout")
	assertAppError(t, err, apperrors.ErrorTypeNotFound, http.StatusNotFound)

	resp, err := f.service.Classify(7.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.ColorName != "Pale gold" || resp.FormattedEBC != "7.5" {
		t.Errorf("Unexpected classification %+v", resp)
	}

	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := f.service.Classify(v)
		assertAppError(t, err, apperrors.ErrorTypeValidation, http.StatusBadRequest)
	}
}

func TestMetrics_WithoutObserver(t *testing.T) {
	a, _ := analyzer.NewImageAnalyzer()
	svc := NewBeerAnalysisService(repository.NewImageRepository(&mapFetcher{}, nil, nil), a, nil, nil, DefaultSettings())

	m := svc.Metrics()
	if m.TotalAnalyses != 0 || m.BandCounts == nil {
		t.Errorf("Expected empty metrics, got %+v", m)
	}
}
