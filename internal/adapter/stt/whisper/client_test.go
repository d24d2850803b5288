package whisper

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// newStubbedClient points the SDK at a local stub server.
func newStubbedClient(baseURL string) *Client {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = baseURL
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: openai.Whisper1,
		log:   newTestLogger(),
	}
}

func pcmBuffer() *domain.AudioBuffer {
	return &domain.AudioBuffer{
		Data:       []byte("RIFF....WAVEfmt "),
		SampleRate: 16000,
		Encoding:   "wav",
	}
}

func TestTranscribe_ReturnsTextAndConfidence(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != openai.Whisper1 {
			t.Errorf("expected model %s, got %s", openai.Whisper1, got)
		}
		if got := r.FormValue("language"); got != "pt" {
			t.Errorf("expected language pt, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"task": "transcribe",
			"language": "portuguese",
			"duration": 2.4,
			"segments": [
				{"id": 0, "text": "dois pasteis", "avg_logprob": -0.2},
				{"id": 1, "text": "sem cebola", "avg_logprob": -0.4}
			],
			"text": " dois pasteis sem cebola "
		}`))
	}))
	defer server.Close()

	client := newStubbedClient(server.URL)

	// Act
	result, err := client.Transcribe(context.Background(), pcmBuffer(), "pt")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Text != "dois pasteis sem cebola" {
		t.Errorf("expected trimmed transcript, got %q", result.Text)
	}
	want := math.Exp(-0.3)
	if math.Abs(result.Confidence-want) > 1e-9 {
		t.Errorf("expected confidence %f, got %f", want, result.Confidence)
	}
}

func TestTranscribe_EmptyBufferRejectedLocally(t *testing.T) {
	// Arrange
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := newStubbedClient(server.URL)

	// Act
	_, err := client.Transcribe(context.Background(), &domain.AudioBuffer{}, "pt")

	// Assert
	if !errors.Is(err, domain.ErrEmptyAudio) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}
	if called {
		t.Error("expected no upstream call for empty audio")
	}
}

func TestTranscribe_UnauthorizedCarriesStatus(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	client := newStubbedClient(server.URL)

	// Act
	_, err := client.Transcribe(context.Background(), pcmBuffer(), "pt")

	// Assert
	var statusErr *ports.ProviderStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected ProviderStatusError, got %v", err)
	}
	if statusErr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", statusErr.Code)
	}
	if statusErr.Provider != "whisper" {
		t.Errorf("expected provider whisper, got %s", statusErr.Provider)
	}
}

func TestTranscribe_ServerErrorCarriesStatus(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "The server had an error", "type": "server_error"}}`))
	}))
	defer server.Close()

	client := newStubbedClient(server.URL)

	// Act
	_, err := client.Transcribe(context.Background(), pcmBuffer(), "pt")

	// Assert
	var statusErr *ports.ProviderStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected ProviderStatusError, got %v", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", statusErr.Code)
	}
}

func TestConfidenceFrom_NoSegments(t *testing.T) {
	// Arrange
	resp := openai.AudioResponse{Text: "oi"}

	// Act
	conf := confidenceFrom(resp)

	// Assert
	if conf != 0 {
		t.Errorf("expected confidence 0 without segments, got %f", conf)
	}
}
