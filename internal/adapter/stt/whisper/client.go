package whisper

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

// Client transcribes captured audio through the OpenAI Whisper API.
// It performs exactly one upstream call per Transcribe; retries and
// circuit breaking belong to the gateway that wraps it.
type Client struct {
	api   *openai.Client
	model string
	log   *zap.Logger
}

// NewClient creates a Whisper transcription client. An empty model
// selects whisper-1.
func NewClient(apiKey, model string, log *zap.Logger) *Client {
	if model == "" {
		model = openai.Whisper1
	}
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
		log:   log,
	}
}

// Name identifies the provider in logs, metrics and error messages.
func (c *Client) Name() string {
	return "whisper"
}

// Transcribe uploads the buffered audio and returns the recognized text.
// The verbose JSON format is requested so segment log-probabilities are
// available for the confidence estimate.
func (c *Client) Transcribe(ctx context.Context, buffer *domain.AudioBuffer, language string) (*domain.TranscriptionResult, error) {
	if buffer == nil || buffer.Empty() {
		return nil, domain.ErrEmptyAudio
	}

	req := openai.AudioRequest{
		Model:    c.model,
		Reader:   bytes.NewReader(buffer.Data),
		FilePath: "capture." + fileExtension(buffer.Encoding),
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	resp, err := c.api.CreateTranscription(ctx, req)
	if err != nil {
		return nil, c.classify(err)
	}

	result := &domain.TranscriptionResult{
		Text:       strings.TrimSpace(resp.Text),
		Confidence: confidenceFrom(resp),
	}

	c.log.Debug("Whisper transcription completed",
		zap.Int("audio_bytes", len(buffer.Data)),
		zap.Int("segments", len(resp.Segments)),
		zap.Float64("confidence", result.Confidence),
	)

	return result, nil
}

// classify converts go-openai errors into ProviderStatusError so the
// gateway can tell credential rejections from retryable failures.
// Transport errors without a status pass through unchanged.
func (c *Client) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ports.ProviderStatusError{
			Provider: c.Name(),
			Code:     apiErr.HTTPStatusCode,
			Message:  apiErr.Message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &ports.ProviderStatusError{
			Provider: c.Name(),
			Code:     reqErr.HTTPStatusCode,
			Message:  reqErr.Error(),
		}
	}

	return err
}

// confidenceFrom estimates overall confidence as exp of the mean
// segment avg_logprob, clamped to [0,1]. Whisper reports no aggregate
// score of its own; when segments are missing the result is 0.
func confidenceFrom(resp openai.AudioResponse) float64 {
	if len(resp.Segments) == 0 {
		return 0
	}

	var sum float64
	for _, seg := range resp.Segments {
		sum += seg.AvgLogprob
	}

	conf := math.Exp(sum / float64(len(resp.Segments)))
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

// fileExtension maps the buffer encoding to the filename hint the API
// uses to pick a decoder.
func fileExtension(encoding string) string {
	switch strings.ToLower(encoding) {
	case "", "wav", "linear16":
		return "wav"
	case "mp3", "ogg", "webm", "flac", "m4a", "mp4", "mpeg", "mpga", "oga":
		return strings.ToLower(encoding)
	default:
		return "wav"
	}
}
