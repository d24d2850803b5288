package voice

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/comanda/internal/infrastructure/retry"
	"github.com/seu-repo/comanda/internal/ports"
)

// GatewayConfig bundles the outbound-call knobs for the transcription
// gateway. Timeout bounds each individual attempt; the retry policy
// bounds how many attempts are made.
type GatewayConfig struct {
	Policy   retry.Policy
	Timeout  time.Duration
	Language string
}

// Gateway uploads finalized audio to the speech provider. It applies
// the retry policy, guards the provider with a circuit breaker, and
// maps failures into the transcription error taxonomy. Stateless apart
// from the breaker: concurrent uploads for different users run
// independently.
type Gateway struct {
	provider   ports.SpeechToText
	credential domain.Credential
	policy     retry.Policy
	timeout    time.Duration
	language   string
	breaker    *circuitbreaker.CircuitBreaker
	log        *zap.Logger
}

// NewGateway wires a provider behind the retry policy and breaker.
func NewGateway(provider ports.SpeechToText, credential domain.Credential, cfg GatewayConfig, log *zap.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	settings := circuitbreaker.DefaultSettings()
	settings.Name = "stt-" + provider.Name()
	settings.IsSuccessful = providerHealthy

	return &Gateway{
		provider:   provider,
		credential: credential,
		policy:     cfg.Policy,
		timeout:    timeout,
		language:   cfg.Language,
		breaker:    circuitbreaker.New(settings, log),
		log:        log,
	}
}

// providerHealthy keeps the breaker closed on errors that say nothing
// about service health. A non-retryable 4xx is the provider answering;
// only transport failures and retryable statuses count against it.
func providerHealthy(err error) bool {
	if err == nil {
		return true
	}
	var statusErr *ports.ProviderStatusError
	if errors.As(err, &statusErr) {
		return !retry.IsRetryableStatus(statusErr.Code)
	}
	return false
}

// Transcribe sends the buffered audio upstream and returns the
// transcript. Preconditions: the credential is present and the buffer
// non-empty. On success Attempts counts every request made including
// the final one. On failure the error is one of MissingCredentialError,
// ErrEmptyAudio, AuthenticationError, TranscriptionError, or the
// caller's context error when the user aborted mid-upload.
func (g *Gateway) Transcribe(ctx context.Context, buffer *domain.AudioBuffer) (*domain.TranscriptionResult, error) {
	if err := g.credential.Require(); err != nil {
		return nil, err
	}
	if buffer.Empty() {
		return nil, domain.ErrEmptyAudio
	}

	var result *domain.TranscriptionResult

	attempts, err := retry.Do(ctx, g.policy, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		res, callErr := circuitbreaker.ExecuteWithResult(g.breaker, func() (*domain.TranscriptionResult, error) {
			return g.provider.Transcribe(attemptCtx, buffer, g.language)
		})
		if callErr != nil {
			return g.classifyAttempt(callErr)
		}

		result = res
		return nil
	})

	if err == nil {
		result.Attempts = attempts
		g.log.Info("transcription succeeded",
			zap.String("provider", g.provider.Name()),
			zap.Int("attempts", attempts),
			zap.Float64("confidence", result.Confidence),
		)
		return result, nil
	}

	// User abort surfaces as the context error, not as a provider
	// failure. The in-flight request was already torn down by the
	// per-attempt context.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	return nil, g.failure(err, attempts)
}

// classifyAttempt decides whether one failed attempt is worth another
// try. Credential rejections and non-retryable 4xx stop the loop
// immediately, as does an open breaker.
func (g *Gateway) classifyAttempt(err error) error {
	var statusErr *ports.ProviderStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == http.StatusUnauthorized || statusErr.Code == http.StatusForbidden:
			return retry.Permanent(&domain.AuthenticationError{
				Provider:   statusErr.Provider,
				StatusCode: statusErr.Code,
			})
		case retry.IsRetryableStatus(statusErr.Code):
			return err
		default:
			return retry.Permanent(err)
		}
	}

	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		return retry.Permanent(err)
	}

	return err
}

// failure renders the terminal error. Credential rejections surface as
// AuthenticationError; everything else becomes a TranscriptionError
// carrying the kind and the attempt count.
func (g *Gateway) failure(lastErr error, attempts int) error {
	var authErr *domain.AuthenticationError
	if errors.As(lastErr, &authErr) {
		g.log.Error("speech provider rejected credential",
			zap.String("provider", authErr.Provider),
			zap.Int("status", authErr.StatusCode),
		)
		return authErr
	}

	kind := classifyKind(lastErr)
	g.log.Warn("transcription failed",
		zap.String("provider", g.provider.Name()),
		zap.String("kind", string(kind)),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)

	return &domain.TranscriptionError{Kind: kind, Attempts: attempts, Err: lastErr}
}

// classifyKind buckets the terminal failure for the user-facing retry
// affordance.
func classifyKind(err error) domain.TranscriptionErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.TranscriptionTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return domain.TranscriptionTimeout
		}
		return domain.TranscriptionNetwork
	}

	var statusErr *ports.ProviderStatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code == http.StatusRequestTimeout || statusErr.Code == http.StatusGatewayTimeout {
			return domain.TranscriptionTimeout
		}
		return domain.TranscriptionServiceError
	}

	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		return domain.TranscriptionServiceError
	}

	return domain.TranscriptionNetwork
}
