package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
)

// SimulatorConfig holds the simulator configuration
type SimulatorConfig struct {
	ServerURL     string
	Token         string
	AudioPath     string
	ChunkSize     int
	ChunkInterval time.Duration
}

// Simulator drives one voice capture session against a running server:
// start, stream the audio file in chunks, stop, submit, print the
// draft. It speaks the same control protocol the waiter tablets use.
type Simulator struct {
	config *SimulatorConfig
	conn   *websocket.Conn
	log    *zap.Logger

	replies chan serverReply
}

// serverReply mirrors the frames the voice websocket sends back.
type serverReply struct {
	Event     string                 `json:"event"`
	SessionID string                 `json:"session_id,omitempty"`
	Draft     *domain.ExtractedOrder `json:"draft,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Retryable bool                   `json:"retryable,omitempty"`
}

type controlMessage struct {
	Action            string `json:"action"`
	PermissionGranted bool   `json:"permission_granted"`
}

// NewSimulator creates a voice order simulator
func NewSimulator(config *SimulatorConfig, log *zap.Logger) *Simulator {
	return &Simulator{
		config:  config,
		log:     log,
		replies: make(chan serverReply, 16),
	}
}

// Connect dials the voice websocket with the bearer token.
func (s *Simulator) Connect() error {
	header := http.Header{}
	if s.config.Token != "" {
		header.Set("Authorization", "Bearer "+s.config.Token)
	}

	conn, _, err := websocket.DefaultDialer.Dial(s.config.ServerURL, header)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	s.conn = conn
	s.log.Info("Connected to voice endpoint", zap.String("url", s.config.ServerURL))

	go s.readReplies()
	return nil
}

// Stop closes the connection.
func (s *Simulator) Stop() {
	if s.conn != nil {
		s.conn.Close()
	}
}

func (s *Simulator) readReplies() {
	defer close(s.replies)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var reply serverReply
		if err := json.Unmarshal(data, &reply); err != nil {
			s.log.Warn("Unparseable server frame", zap.ByteString("data", data))
			continue
		}
		s.replies <- reply
	}
}

// loadAudio reads the configured file, or synthesizes a test tone when
// no file is available so the session can still be exercised end to end.
func (s *Simulator) loadAudio() ([]byte, error) {
	audio, err := os.ReadFile(s.config.AudioPath)
	if err == nil {
		return audio, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	s.log.Warn("Audio file not found, synthesizing test tone",
		zap.String("path", s.config.AudioPath),
	)
	return synthesizeToneWAV(440, 2*time.Second), nil
}

// synthesizeToneWAV renders a mono 16 kHz 16-bit PCM sine wave. The
// transcript will come back empty, but the capture and gateway paths
// get real bytes to chew on.
func synthesizeToneWAV(freqHz float64, d time.Duration) []byte {
	const sampleRate = 16000
	samples := int(float64(sampleRate) * d.Seconds())
	dataLen := samples * 2

	buf := make([]byte, 0, 44+dataLen)
	buf = append(buf, []byte("RIFF")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataLen))
	buf = append(buf, []byte("WAVEfmt ")...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, 1) // mono
	buf = binary.LittleEndian.AppendUint32(buf, sampleRate)
	buf = binary.LittleEndian.AppendUint32(buf, sampleRate*2)
	buf = binary.LittleEndian.AppendUint16(buf, 2)
	buf = binary.LittleEndian.AppendUint16(buf, 16)
	buf = append(buf, []byte("data")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataLen))

	for i := 0; i < samples; i++ {
		v := math.Sin(2 * math.Pi * freqHz * float64(i) / sampleRate)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(v*0.3*math.MaxInt16)))
	}
	return buf
}

// Run plays the whole session and prints the resulting draft.
func (s *Simulator) Run() error {
	audio, err := s.loadAudio()
	if err != nil {
		return err
	}

	if err := s.sendControl("start"); err != nil {
		return err
	}
	reply, err := s.await("recording")
	if err != nil {
		return err
	}
	s.log.Info("Capture session opened", zap.String("session_id", reply.SessionID))

	if err := s.streamAudio(audio); err != nil {
		return err
	}

	if err := s.sendControl("stop"); err != nil {
		return err
	}
	if _, err := s.await("stopped"); err != nil {
		return err
	}

	if err := s.sendControl("submit"); err != nil {
		return err
	}
	reply, err = s.await("draft")
	if err != nil {
		return err
	}

	printDraft(reply.Draft)
	return nil
}

// streamAudio pushes the file in fixed-size binary chunks, pacing them
// like a live microphone would.
func (s *Simulator) streamAudio(audio []byte) error {
	chunks := 0
	for offset := 0; offset < len(audio); offset += s.config.ChunkSize {
		end := offset + s.config.ChunkSize
		if end > len(audio) {
			end = len(audio)
		}

		if err := s.conn.WriteMessage(websocket.BinaryMessage, audio[offset:end]); err != nil {
			return fmt.Errorf("failed to send audio chunk: %w", err)
		}
		chunks++

		if s.config.ChunkInterval > 0 {
			time.Sleep(s.config.ChunkInterval)
		}
	}

	s.log.Info("Audio streamed",
		zap.Int("bytes", len(audio)),
		zap.Int("chunks", chunks),
	)
	return nil
}

func (s *Simulator) sendControl(action string) error {
	msg := controlMessage{Action: action, PermissionGranted: true}
	data, _ := json.Marshal(msg)
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send %s: %w", action, err)
	}
	return nil
}

// await blocks until the server sends the expected event. Error frames
// terminate the run; anything else is logged and skipped.
func (s *Simulator) await(event string) (serverReply, error) {
	timeout := time.After(60 * time.Second)
	for {
		select {
		case reply, ok := <-s.replies:
			if !ok {
				return serverReply{}, fmt.Errorf("connection closed waiting for %s", event)
			}
			if reply.Event == "error" {
				return serverReply{}, fmt.Errorf("server error (retryable=%v): %s", reply.Retryable, reply.Error)
			}
			if reply.Event == event {
				return reply, nil
			}
			s.log.Debug("Skipping frame", zap.String("event", reply.Event))
		case <-timeout:
			return serverReply{}, fmt.Errorf("timeout waiting for %s", event)
		}
	}
}

func printDraft(draft *domain.ExtractedOrder) {
	if draft == nil {
		fmt.Println("No draft returned")
		return
	}

	fmt.Printf("\nTranscript: %q (confidence %.2f)\n\n", draft.Transcript, draft.Confidence)
	for _, line := range draft.Lines {
		if line.Unresolved {
			fmt.Printf("  ?  %q (no menu match)\n", line.RawText)
			continue
		}
		fmt.Printf("  %dx %s", line.Quantity, line.Name)
		for _, m := range line.Modifiers {
			fmt.Printf(" [%s]", m)
		}
		fmt.Printf("  R$ %.2f\n", line.UnitPrice*float64(line.Quantity))
	}
	fmt.Printf("\n%d resolved, %d unresolved\n", len(draft.Resolved()), len(draft.Unresolved()))
}

// RunInteractive drives the session from stdin commands instead of the
// scripted start/stream/stop/submit sequence. Replies print as they
// arrive, so the operator sees exactly what a tablet would.
func (s *Simulator) RunInteractive() error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for reply := range s.replies {
			switch reply.Event {
			case "draft":
				printDraft(reply.Draft)
			case "error":
				fmt.Printf("<- error (retryable=%v): %s\n", reply.Retryable, reply.Error)
			default:
				fmt.Printf("<- %s", reply.Event)
				if reply.SessionID != "" {
					fmt.Printf(" session=%s", reply.SessionID)
				}
				fmt.Println()
			}
		}
	}()

	fmt.Println("Commands: start, send, stop, submit, discard, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(strings.ToLower(scanner.Text()))

		switch cmd {
		case "":
		case "quit", "exit":
			return nil
		case "send":
			audio, err := s.loadAudio()
			if err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			if err := s.streamAudio(audio); err != nil {
				return err
			}
		case "start", "stop", "submit", "discard":
			if err := s.sendControl(cmd); err != nil {
				return err
			}
		default:
			fmt.Printf("! unknown command %q\n", cmd)
		}

		select {
		case <-done:
			return fmt.Errorf("connection closed")
		default:
		}
	}
	return scanner.Err()
}

// WatchKitchen connects to the expediter feed and prints tickets as
// they arrive, the way a kitchen display would.
func WatchKitchen(url string, log *zap.Logger) error {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to kitchen feed: %w", err)
	}
	defer conn.Close()

	log.Info("Watching kitchen feed", zap.String("url", url))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg struct {
			Event  string         `json:"event"`
			Ticket *domain.Ticket `json:"ticket,omitempty"`
			Number int            `json:"number,omitempty"`
			Status string         `json:"status,omitempty"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Event {
		case "ticket":
			if msg.Ticket == nil {
				continue
			}
			fmt.Printf("\n== Ticket #%d (%s)\n", msg.Ticket.Number, msg.Ticket.Type)
			for _, line := range msg.Ticket.Items {
				fmt.Printf("   %dx %s", line.Quantity, line.Name)
				for _, m := range line.Modifiers {
					fmt.Printf(" [%s]", m)
				}
				fmt.Println()
			}
			if msg.Ticket.Notes != "" {
				fmt.Printf("   note: %s\n", msg.Ticket.Notes)
			}
		case "status":
			fmt.Printf("\n== Ticket #%d -> %s\n", msg.Number, msg.Status)
		}
	}
}
