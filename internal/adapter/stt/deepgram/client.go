package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/comanda/internal/ports"
)

const defaultBaseURL = "https://api.deepgram.com"

// Client transcribes captured audio through the Deepgram pre-recorded
// API. Requests go through a circuit-breaker HTTP client so a failing
// provider stops receiving traffic while the kitchen keeps running.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *circuitbreaker.HTTPClient
	log        *zap.Logger
}

// NewClient creates a Deepgram transcription client. An empty model
// selects nova-2.
func NewClient(apiKey, model string, log *zap.Logger) *Client {
	if model == "" {
		model = "nova-2"
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: circuitbreaker.NewHTTPClientWithSettings(circuitbreaker.DefaultHTTPClientSettings("deepgram"), log),
		log:        log,
	}
}

// Name identifies the provider in logs, metrics and error messages.
func (c *Client) Name() string {
	return "deepgram"
}

type transcriptionResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

type errorResponse struct {
	ErrCode string `json:"err_code"`
	ErrMsg  string `json:"err_msg"`
}

// Transcribe posts the raw audio body to /v1/listen and returns the
// top alternative of the first channel.
func (c *Client) Transcribe(ctx context.Context, buffer *domain.AudioBuffer, language string) (*domain.TranscriptionResult, error) {
	if buffer == nil || buffer.Empty() {
		return nil, domain.ErrEmptyAudio
	}

	query := url.Values{}
	query.Set("model", c.model)
	query.Set("smart_format", "true")
	if language != "" {
		query.Set("language", language)
	}

	endpoint := c.baseURL + "/v1/listen?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buffer.Data))
	if err != nil {
		return nil, fmt.Errorf("deepgram: create request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", contentType(buffer.Encoding))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var result transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("deepgram: decode response: %w", err)
	}

	transcript, confidence := topAlternative(result)

	c.log.Debug("Deepgram transcription completed",
		zap.Int("audio_bytes", len(buffer.Data)),
		zap.Float64("confidence", confidence),
	)

	return &domain.TranscriptionResult{
		Text:       strings.TrimSpace(transcript),
		Confidence: confidence,
	}, nil
}

// statusError reads the error body and wraps the HTTP status so the
// gateway can separate credential rejections from retryable failures.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := strings.TrimSpace(string(body))
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.ErrMsg != "" {
		message = parsed.ErrMsg
		if parsed.ErrCode != "" {
			message = parsed.ErrCode + ": " + parsed.ErrMsg
		}
	}

	return &ports.ProviderStatusError{
		Provider: c.Name(),
		Code:     resp.StatusCode,
		Message:  message,
	}
}

func topAlternative(result transcriptionResponse) (string, float64) {
	if len(result.Results.Channels) == 0 {
		return "", 0
	}
	alternatives := result.Results.Channels[0].Alternatives
	if len(alternatives) == 0 {
		return "", 0
	}
	return alternatives[0].Transcript, alternatives[0].Confidence
}

// contentType maps the buffer encoding to the MIME type Deepgram
// expects for raw binary uploads.
func contentType(encoding string) string {
	switch strings.ToLower(encoding) {
	case "", "wav", "linear16":
		return "audio/wav"
	case "mp3", "mpeg", "mpga":
		return "audio/mpeg"
	case "ogg", "oga":
		return "audio/ogg"
	case "flac":
		return "audio/flac"
	case "webm":
		return "audio/webm"
	case "m4a", "mp4":
		return "audio/mp4"
	case "mulaw":
		return "audio/mulaw"
	default:
		return "application/octet-stream"
	}
}
