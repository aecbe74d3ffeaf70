package observer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"go-beer-ebc/pkg/models"
)

type recordingObserver struct {
	name   string
	events []AnalysisEvent
}

func (r *recordingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	r.events = append(r.events, event)
}

func (r *recordingObserver) GetObserverName() string { return r.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event AnalysisEvent) { panic("boom") }

func (panickingObserver) GetObserverName() string { return "panicking" }

func TestMetricsObserver(t *testing.T) {
	m := NewMetricsObserver()
	ctx := context.Background()

	straw := models.AnalysisResult{EBCValue: 4.5, ColorName: "Straw", Accuracy: 0.65}
	unknown := models.UnknownResult()

	events := []AnalysisEvent{
		{EventType: AnalysisStarted},
		{EventType: AnalysisCompleted, ProcessingTime: 10 * time.Millisecond, Result: &straw},
		{EventType: AnalysisStarted},
		{EventType: AnalysisCompleted, ProcessingTime: 30 * time.Millisecond, Result: &straw},
		{EventType: AnalysisStarted},
		{EventType: AnalysisCompleted, ProcessingTime: 20 * time.Millisecond, Result: &unknown},
		{EventType: AnalysisStarted},
		{EventType: ImageFetchFailed},
		{EventType: AnalysisFailed},
	}
	for _, e := range events {
		m.OnEvent(ctx, e)
	}

	got := m.GetMetrics()
	if got.TotalAnalyses != 4 || got.SuccessfulAnalyses != 3 || got.FailedAnalyses != 1 {
		t.Errorf("Unexpected counters %+v", got)
	}
	if got.UnknownResults != 1 || got.FetchFailures != 1 {
		t.Errorf("Unexpected unknown/fetch counters %+v", got)
	}
	if got.BandCounts["Straw"] != 2 || len(got.BandCounts) != 1 {
		t.Errorf("Unexpected band counts %v", got.BandCounts)
	}
	if got.AvgProcessingMs != 20 {
		t.Errorf("Expected 20ms average, got %f", got.AvgProcessingMs)
	}

	// Snapshot must not alias internal state
	got.BandCounts["Straw"] = 100
	if m.GetMetrics().BandCounts["Straw"] != 2 {
		t.Error("Expected metrics snapshot to be a copy")
	}
}

func TestEventPublisher(t *testing.T) {
	p := NewEventPublisher()
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}

	p.Subscribe(first)
	p.Subscribe(panickingObserver{})
	p.Subscribe(second)

	p.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted, Source: "a.jpg"})

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("Expected both observers to be notified despite a panic, got %d/%d", len(first.events), len(second.events))
	}
	if first.events[0].Timestamp.IsZero() {
		t.Error("Expected publisher to stamp the event")
	}

	p.Unsubscribe(first)
	p.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted})
	if len(first.events) != 1 || len(second.events) != 2 {
		t.Errorf("Unexpected event counts after unsubscribe: %d/%d", len(first.events), len(second.events))
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	result := models.AnalysisResult{EBCValue: 7.496, ColorName: "Pale gold", Accuracy: 1}
	NewLoggingObserver(log).OnEvent(context.Background(), AnalysisEvent{
		EventType: AnalysisCompleted,
		Source:    "https://example.com/lager.jpg",
		Success:   true,
		Result:    &result,
		Metadata:  map[string]interface{}{"detailed": true},
	})

	out := buf.String()
	for _, want := range []string{`"color_name":"Pale gold"`, `"ebc":"7.5"`, `"accuracy":"High"`, `"detailed":true`, "Beer analysis completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %s, got %s", want, out)
		}
	}
}
