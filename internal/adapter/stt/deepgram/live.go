package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/seu-repo/comanda/internal/domain"
)

// LiveTranscript is one streaming recognition update. Interim results
// carry IsFinal=false and may be rewritten by later updates for the
// same audio window.
type LiveTranscript struct {
	Text        string
	Confidence  float64
	IsFinal     bool
	SpeechFinal bool
}

// LiveStream holds a bidirectional connection to the Deepgram streaming
// API. Audio chunks go up as binary frames, transcripts come back as
// JSON and are delivered on the Transcripts channel. One stream serves
// one capture session.
type LiveStream struct {
	apiKey  string
	model   string
	baseURL string
	log     *zap.Logger

	conn        *websocket.Conn
	transcripts chan LiveTranscript

	closeOnce sync.Once
	done      chan struct{}
}

// NewLiveStream prepares a streaming client. Connect must be called
// before any audio is sent.
func NewLiveStream(apiKey, model string, log *zap.Logger) *LiveStream {
	if model == "" {
		model = "nova-2"
	}
	return &LiveStream{
		apiKey:      apiKey,
		model:       model,
		baseURL:     "wss://api.deepgram.com",
		log:         log,
		transcripts: make(chan LiveTranscript, 16),
		done:        make(chan struct{}),
	}
}

// Connect dials the streaming endpoint and starts the read loop.
func (s *LiveStream) Connect(ctx context.Context, language string, sampleRate int) error {
	query := url.Values{}
	query.Set("model", s.model)
	query.Set("encoding", "linear16")
	query.Set("sample_rate", fmt.Sprintf("%d", sampleRate))
	query.Set("channels", "1")
	query.Set("interim_results", "true")
	query.Set("punctuate", "true")
	query.Set("smart_format", "true")
	if language != "" {
		query.Set("language", language)
	}

	endpoint := s.baseURL + "/v1/listen?" + query.Encode()

	headers := http.Header{
		"Authorization": []string{"Token " + s.apiKey},
	}

	conn, _, err := websocket.Dial(ctx, endpoint, &websocket.DialOptions{
		HTTPHeader: headers,
	})
	if err != nil {
		return fmt.Errorf("deepgram: dial live endpoint: %w", err)
	}

	s.conn = conn
	go s.readLoop()

	s.log.Info("Deepgram live stream connected",
		zap.String("model", s.model),
		zap.String("language", language),
		zap.Int("sample_rate", sampleRate),
	)

	return nil
}

// SendAudio forwards one PCM chunk upstream.
func (s *LiveStream) SendAudio(ctx context.Context, chunk []byte) error {
	if len(chunk) == 0 {
		return domain.ErrEmptyAudio
	}
	return s.conn.Write(ctx, websocket.MessageBinary, chunk)
}

// Finalize asks the provider to flush pending audio into a final
// transcript without closing the stream.
func (s *LiveStream) Finalize(ctx context.Context) error {
	return s.sendControl(ctx, "Finalize")
}

// KeepAlive holds the connection open across silent stretches.
func (s *LiveStream) KeepAlive(ctx context.Context) error {
	return s.sendControl(ctx, "KeepAlive")
}

// Transcripts returns the channel of recognition updates. The channel
// is closed when the stream ends.
func (s *LiveStream) Transcripts() <-chan LiveTranscript {
	return s.transcripts
}

// Close tells the provider the stream is over and releases the
// connection. Safe to call more than once.
func (s *LiveStream) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		if s.conn != nil {
			err = s.sendControl(ctx, "CloseStream")
			s.conn.Close(websocket.StatusNormalClosure, "capture finished")
		}
		close(s.done)
	})
	return err
}

func (s *LiveStream) sendControl(ctx context.Context, messageType string) error {
	msg := map[string]string{"type": messageType}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.Write(ctx, websocket.MessageText, data)
}

// liveResponse mirrors the streaming result payload. Non-result frames
// (metadata, utterance markers) unmarshal with an empty channel and are
// skipped.
type liveResponse struct {
	Type        string  `json:"type"`
	IsFinal     bool    `json:"is_final"`
	SpeechFinal bool    `json:"speech_final"`
	Duration    float64 `json:"duration"`
	Channel     struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func (s *LiveStream) readLoop() {
	defer close(s.transcripts)

	ctx := context.Background()
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			select {
			case <-s.done:
			default:
				s.log.Warn("Deepgram live stream read failed", zap.Error(err))
			}
			return
		}

		var response liveResponse
		if err := json.Unmarshal(data, &response); err != nil {
			s.log.Warn("Deepgram live stream sent malformed payload", zap.Error(err))
			continue
		}

		if len(response.Channel.Alternatives) == 0 {
			continue
		}

		top := response.Channel.Alternatives[0]
		if top.Transcript == "" {
			continue
		}

		update := LiveTranscript{
			Text:        top.Transcript,
			Confidence:  top.Confidence,
			IsFinal:     response.IsFinal,
			SpeechFinal: response.SpeechFinal,
		}

		select {
		case s.transcripts <- update:
		case <-s.done:
			return
		}
	}
}
