package deepgram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newStubbedClient(baseURL string) *Client {
	client := NewClient("test-key", "nova-2", newTestLogger())
	client.baseURL = baseURL
	return client
}

func wavBuffer() *domain.AudioBuffer {
	return &domain.AudioBuffer{
		Data:       []byte("RIFF....WAVEfmt "),
		SampleRate: 16000,
		Encoding:   "wav",
	}
}

func TestTranscribe_ReturnsTopAlternative(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/listen" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Token test-key" {
			t.Errorf("expected token auth header, got %q", got)
		}
		if got := r.URL.Query().Get("model"); got != "nova-2" {
			t.Errorf("expected model nova-2, got %s", got)
		}
		if got := r.URL.Query().Get("language"); got != "pt" {
			t.Errorf("expected language pt, got %s", got)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) == 0 {
			t.Error("expected raw audio body")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": {
				"channels": [
					{"alternatives": [
						{"transcript": "duas coxinhas sem catupiry", "confidence": 0.97},
						{"transcript": "duas cozinhas", "confidence": 0.41}
					]}
				]
			}
		}`))
	}))
	defer server.Close()

	client := newStubbedClient(server.URL)

	// Act
	result, err := client.Transcribe(context.Background(), wavBuffer(), "pt")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Text != "duas coxinhas sem catupiry" {
		t.Errorf("expected top alternative, got %q", result.Text)
	}
	if result.Confidence != 0.97 {
		t.Errorf("expected confidence 0.97, got %f", result.Confidence)
	}
}

func TestTranscribe_EmptyResultsYieldEmptyTranscript(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": {"channels": []}}`))
	}))
	defer server.Close()

	client := newStubbedClient(server.URL)

	// Act
	result, err := client.Transcribe(context.Background(), wavBuffer(), "pt")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Text != "" || result.Confidence != 0 {
		t.Errorf("expected empty transcript, got %q (%f)", result.Text, result.Confidence)
	}
}

func TestTranscribe_InvalidCredentialCarriesStatus(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"err_code": "INVALID_AUTH", "err_msg": "Invalid credentials."}`))
	}))
	defer server.Close()

	client := newStubbedClient(server.URL)

	// Act
	_, err := client.Transcribe(context.Background(), wavBuffer(), "pt")

	// Assert
	var statusErr *ports.ProviderStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected ProviderStatusError, got %v", err)
	}
	if statusErr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", statusErr.Code)
	}
	if statusErr.Provider != "deepgram" {
		t.Errorf("expected provider deepgram, got %s", statusErr.Provider)
	}
	if statusErr.Message != "INVALID_AUTH: Invalid credentials." {
		t.Errorf("unexpected message %q", statusErr.Message)
	}
}

func TestTranscribe_ServerErrorCarriesStatus(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream worker pool exhausted"))
	}))
	defer server.Close()

	client := newStubbedClient(server.URL)

	// Act
	_, err := client.Transcribe(context.Background(), wavBuffer(), "pt")

	// Assert
	var statusErr *ports.ProviderStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected ProviderStatusError, got %v", err)
	}
	if statusErr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", statusErr.Code)
	}
}

func TestTranscribe_EmptyBufferRejectedLocally(t *testing.T) {
	// Arrange
	client := newStubbedClient("http://127.0.0.1:0")

	// Act
	_, err := client.Transcribe(context.Background(), &domain.AudioBuffer{}, "pt")

	// Assert
	if !errors.Is(err, domain.ErrEmptyAudio) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestContentType_KnownEncodings(t *testing.T) {
	// Arrange
	cases := map[string]string{
		"wav":      "audio/wav",
		"linear16": "audio/wav",
		"":         "audio/wav",
		"mp3":      "audio/mpeg",
		"ogg":      "audio/ogg",
		"opus":     "application/octet-stream",
	}

	for encoding, want := range cases {
		// Act
		got := contentType(encoding)

		// Assert
		if got != want {
			t.Errorf("contentType(%q) = %q, want %q", encoding, got, want)
		}
	}
}
