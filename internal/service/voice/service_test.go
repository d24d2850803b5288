package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/mocks"
)

func testServiceConfig() ServiceConfig {
	return ServiceConfig{
		SampleRate:         16000,
		Encoding:           "wav",
		MaxAudioBytes:      1 << 20,
		MaxSessionsPerUser: 2,
		MaxCaptureDuration: time.Minute,
	}
}

func newTestService(provider *fakeProvider, catalog []domain.MenuItem, credential domain.Credential) *Service {
	gateway := newTestGateway(provider, credential)
	menu := &mocks.MockMenuService{
		CatalogFunc: func(ctx context.Context) ([]domain.MenuItem, error) {
			return catalog, nil
		},
	}
	return NewService(gateway, menu, credential, testServiceConfig(), newTestLogger())
}

func TestService_DisabledWithoutCredential(t *testing.T) {
	// Arrange
	provider := &fakeProvider{}
	service := newTestService(provider, nil, domain.Credential{KeyName: "OPENAI_API_KEY"})

	// Assert
	if service.Enabled() {
		t.Error("expected service disabled without credential")
	}
}

func TestService_EnabledWithCredential(t *testing.T) {
	// Arrange
	provider := &fakeProvider{}
	service := newTestService(provider, nil, presentCredential())

	// Assert
	if !service.Enabled() {
		t.Error("expected service enabled with credential")
	}
}

func TestService_FullCaptureFlow(t *testing.T) {
	// Arrange
	provider := &fakeProvider{}
	provider.transcribeFunc = func(ctx context.Context, buffer *domain.AudioBuffer, language string) (*domain.TranscriptionResult, error) {
		if string(buffer.Data) != "chunk-1chunk-2" {
			t.Errorf("expected concatenated chunks, got %q", buffer.Data)
		}
		return &domain.TranscriptionResult{Text: "2 pancakes and no butter", Confidence: 0.91}, nil
	}
	service := newTestService(provider, menuOf("pancakes"), presentCredential())
	ctx := context.Background()

	// Act
	sessionID, err := service.StartCapture(ctx, "user-1", true)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := service.PushAudio(ctx, sessionID, []byte("chunk-1")); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if err := service.PushAudio(ctx, sessionID, []byte("chunk-2")); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if err := service.StopCapture(ctx, sessionID); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	order, err := service.SubmitCapture(ctx, sessionID)

	// Assert
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if order.Confidence != 0.91 {
		t.Errorf("expected transcription confidence carried over, got %f", order.Confidence)
	}
	if len(order.Lines) != 1 || order.Lines[0].Name != "pancakes" || order.Lines[0].Quantity != 2 {
		t.Fatalf("expected 2x pancakes, got %+v", order.Lines)
	}
	if _, err := service.sessions.Get(sessionID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected session released after submit, got %v", err)
	}
}

func TestService_StartWithoutPermissionReleasesSlot(t *testing.T) {
	// Arrange
	provider := &fakeProvider{}
	service := newTestService(provider, nil, presentCredential())

	// Act
	_, err := service.StartCapture(context.Background(), "user-1", false)

	// Assert
	var denied *domain.PermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected PermissionDeniedError, got %v", err)
	}
	if service.sessions.ActiveSessions() != 0 {
		t.Errorf("expected no session left behind, got %d", service.sessions.ActiveSessions())
	}
}

func TestService_DiscardFreesSession(t *testing.T) {
	// Arrange
	provider := &fakeProvider{}
	service := newTestService(provider, nil, presentCredential())
	ctx := context.Background()
	sessionID, _ := service.StartCapture(ctx, "user-1", true)

	// Act
	if err := service.DiscardCapture(ctx, sessionID); err != nil {
		t.Fatalf("discard failed: %v", err)
	}

	// Assert
	if _, err := service.sessions.Get(sessionID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected session gone after discard, got %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("expected no transcription on discard, got %d calls", provider.calls)
	}
}

func TestService_SubmitPropagatesTranscriptionFailure(t *testing.T) {
	// Arrange
	provider := &fakeProvider{}
	provider.transcribeFunc = func(ctx context.Context, buffer *domain.AudioBuffer, language string) (*domain.TranscriptionResult, error) {
		return nil, context.DeadlineExceeded
	}
	service := newTestService(provider, nil, presentCredential())
	ctx := context.Background()
	sessionID, _ := service.StartCapture(ctx, "user-1", true)
	service.PushAudio(ctx, sessionID, []byte("audio"))
	service.StopCapture(ctx, sessionID)

	// Act
	_, err := service.SubmitCapture(ctx, sessionID)

	// Assert
	var trErr *domain.TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TranscriptionError, got %v", err)
	}
	if trErr.Kind != domain.TranscriptionTimeout {
		t.Errorf("expected timeout kind, got %s", trErr.Kind)
	}
}

func TestService_CatalogFailureSurfaces(t *testing.T) {
	// Arrange
	provider := &fakeProvider{}
	provider.transcribeFunc = func(ctx context.Context, buffer *domain.AudioBuffer, language string) (*domain.TranscriptionResult, error) {
		return &domain.TranscriptionResult{Text: "coffee"}, nil
	}
	catalogErr := errors.New("catalog store down")
	gateway := newTestGateway(provider, presentCredential())
	menu := &mocks.MockMenuService{
		CatalogFunc: func(ctx context.Context) ([]domain.MenuItem, error) {
			return nil, catalogErr
		},
	}
	service := NewService(gateway, menu, presentCredential(), testServiceConfig(), newTestLogger())

	// Act
	_, err := service.TranscribeAndExtract(context.Background(), audioBuffer())

	// Assert
	if !errors.Is(err, catalogErr) {
		t.Fatalf("expected catalog error surfaced, got %v", err)
	}
}
