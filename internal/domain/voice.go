package domain

// CaptureState is the lifecycle state of a voice capture session.
type CaptureState string

const (
	CaptureStateIdle      CaptureState = "idle"
	CaptureStateRecording CaptureState = "recording"
	CaptureStateStopped   CaptureState = "stopped"
	CaptureStateDiscarded CaptureState = "discarded"
	CaptureStateSubmitted CaptureState = "submitted"
)

// AudioBuffer holds captured audio bytes plus format metadata. The
// capture session owns it until submission hands it to the
// transcription gateway, which only reads it.
type AudioBuffer struct {
	Data       []byte `json:"-"`
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"` // wav, webm, ogg
}

// Empty reports whether the buffer carries no audio.
func (b *AudioBuffer) Empty() bool {
	return b == nil || len(b.Data) == 0
}

// TranscriptionResult is the successful output of the transcription
// gateway. Consumed once by the extraction step, never persisted.
// Attempts counts upstream calls including the successful one.
type TranscriptionResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Attempts   int     `json:"attempts,omitempty"`
}

// OrderLine is one extracted order entry. Unresolved lines keep the raw
// clause text so the caller can prompt the user instead of losing
// spoken intent.
type OrderLine struct {
	ItemID     string   `json:"item_id,omitempty"`
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	Modifiers  []string `json:"modifiers,omitempty"`
	UnitPrice  float64  `json:"unit_price,omitempty"`
	Station    string   `json:"station,omitempty"`
	Unresolved bool     `json:"unresolved,omitempty"`
	RawText    string   `json:"raw_text,omitempty"`
}

// ExtractedOrder is the structured draft produced from a transcript.
type ExtractedOrder struct {
	Transcript string      `json:"transcript"`
	Confidence float64     `json:"confidence"`
	Lines      []OrderLine `json:"lines"`
}

// Resolved returns the lines that matched a menu item.
func (e *ExtractedOrder) Resolved() []OrderLine {
	var out []OrderLine
	for _, l := range e.Lines {
		if !l.Unresolved {
			out = append(out, l)
		}
	}
	return out
}

// Unresolved returns the lines that matched no menu item.
func (e *ExtractedOrder) Unresolved() []OrderLine {
	var out []OrderLine
	for _, l := range e.Lines {
		if l.Unresolved {
			out = append(out, l)
		}
	}
	return out
}
