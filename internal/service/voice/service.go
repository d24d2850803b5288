package voice

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/observability/telemetry"
	"github.com/seu-repo/comanda/internal/ports"
)

// Service runs the voice-to-order pipeline: capture sessions in, draft
// orders out. The draft is handed to the order-submission boundary by
// the caller; nothing here persists audio or transcripts.
type Service struct {
	sessions  *SessionManager
	gateway   *Gateway
	extractor *Extractor
	menu      ports.MenuService

	enabled    bool
	sampleRate int
	encoding   string
	maxBytes   int

	log *zap.Logger
}

// ServiceConfig carries the capture limits handed down from
// configuration.
type ServiceConfig struct {
	SampleRate         int
	Encoding           string
	MaxAudioBytes      int
	MaxSessionsPerUser int
	MaxCaptureDuration time.Duration
}

// NewService wires the pipeline. A missing credential leaves the
// service disabled: routes stay unmounted and Enabled reports false,
// so the rest of the application runs without the voice feature.
func NewService(gateway *Gateway, menu ports.MenuService, credential domain.Credential, cfg ServiceConfig, log *zap.Logger) *Service {
	enabled := credential.Present
	if !enabled {
		log.Warn("voice ordering disabled: transcription credential absent",
			zap.String("credential", credential.KeyName),
		)
	}

	return &Service{
		sessions:   NewSessionManager(cfg.MaxSessionsPerUser, cfg.MaxCaptureDuration, log),
		gateway:    gateway,
		extractor:  NewExtractor(),
		menu:       menu,
		enabled:    enabled,
		sampleRate: cfg.SampleRate,
		encoding:   cfg.Encoding,
		maxBytes:   cfg.MaxAudioBytes,
		log:        log,
	}
}

// Enabled reports whether the transcription credential was found at
// startup.
func (s *Service) Enabled() bool {
	return s.enabled
}

// StartCapture opens a session and begins recording.
func (s *Service) StartCapture(ctx context.Context, userID string, permissionGranted bool) (string, error) {
	session, err := s.sessions.Open(userID, s.sampleRate, s.encoding, s.maxBytes)
	if err != nil {
		return "", err
	}

	if err := session.Start(permissionGranted); err != nil {
		s.sessions.Release(session.ID)
		return "", err
	}

	telemetry.ActiveCaptureSessions.Inc()
	s.log.Info("voice capture started",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
	)

	return session.ID, nil
}

// PushAudio appends one chunk to a recording session.
func (s *Service) PushAudio(ctx context.Context, sessionID string, chunk []byte) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return session.Write(chunk)
}

// StopCapture finalizes the recording. Idempotent once stopped.
func (s *Service) StopCapture(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return session.Stop()
}

// DiscardCapture drops the session and frees its buffer.
func (s *Service) DiscardCapture(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if err := session.Discard(); err != nil {
		return err
	}

	s.sessions.Release(sessionID)
	telemetry.ActiveCaptureSessions.Dec()
	s.log.Info("voice capture discarded", zap.String("session_id", sessionID))
	return nil
}

// SubmitCapture seals the session, transcribes its buffer and extracts
// a draft order against the current catalog. The session is released
// whether or not transcription succeeds; a failed upload means the
// audio is gone and the user records again.
func (s *Service) SubmitCapture(ctx context.Context, sessionID string) (*domain.ExtractedOrder, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	buffer, err := session.Submit()
	if err != nil {
		return nil, err
	}

	s.sessions.Release(sessionID)
	telemetry.ActiveCaptureSessions.Dec()

	return s.TranscribeAndExtract(ctx, buffer)
}

// TranscribeAndExtract sends a finished buffer through the gateway and
// parses the transcript into a draft order.
func (s *Service) TranscribeAndExtract(ctx context.Context, buffer *domain.AudioBuffer) (*domain.ExtractedOrder, error) {
	provider := s.gateway.provider.Name()

	started := time.Now()
	transcription, err := s.gateway.Transcribe(ctx, buffer)
	telemetry.TranscriptionLatency.Observe(time.Since(started).Seconds())

	if err != nil {
		s.recordFailure(provider, err)
		return nil, err
	}
	telemetry.TranscriptionAttemptsTotal.WithLabelValues(provider, "success").Inc()

	catalog, err := s.menu.Catalog(ctx)
	if err != nil {
		s.log.Error("menu catalog unavailable for extraction", zap.Error(err))
		return nil, err
	}

	order := s.extractor.Extract(transcription.Text, catalog)
	order.Confidence = transcription.Confidence

	resolved := len(order.Resolved())
	unresolved := len(order.Unresolved())
	telemetry.ExtractionLinesTotal.WithLabelValues("resolved").Add(float64(resolved))
	telemetry.ExtractionLinesTotal.WithLabelValues("unresolved").Add(float64(unresolved))

	s.log.Info("voice order extracted",
		zap.String("provider", provider),
		zap.Int("attempts", transcription.Attempts),
		zap.Float64("confidence", transcription.Confidence),
		zap.Int("resolved_lines", resolved),
		zap.Int("unresolved_lines", unresolved),
	)

	return order, nil
}

// Sweep expires overdue recordings. The server runs it on a ticker.
func (s *Service) Sweep() {
	removed := s.sessions.Sweep(time.Now())
	if removed > 0 {
		telemetry.ActiveCaptureSessions.Sub(float64(removed))
	}
}

func (s *Service) recordFailure(provider string, err error) {
	telemetry.TranscriptionAttemptsTotal.WithLabelValues(provider, "failure").Inc()

	switch e := err.(type) {
	case *domain.TranscriptionError:
		telemetry.TranscriptionFailuresTotal.WithLabelValues(provider, string(e.Kind)).Inc()
	case *domain.AuthenticationError:
		telemetry.TranscriptionFailuresTotal.WithLabelValues(provider, "authentication").Inc()
	}
}
