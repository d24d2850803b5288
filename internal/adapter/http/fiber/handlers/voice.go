package handlers

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

type VoiceHandler struct {
	service ports.VoiceOrderService
	log     *zap.Logger
}

func NewVoiceHandler(service ports.VoiceOrderService, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		service: service,
		log:     log,
	}
}

type TranscribeRequest struct {
	Audio      string `json:"audio"` // Base64
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
}

// Transcribe is the one-shot path: a finished recording in one request,
// a draft order out. The streaming path lives on /ws/voice.
func (h *VoiceHandler) Transcribe(c *fiber.Ctx) error {
	var req TranscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	audioBytes, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid base64 audio"})
	}

	buffer := &domain.AudioBuffer{
		Data:       audioBytes,
		SampleRate: req.SampleRate,
		Encoding:   req.Encoding,
	}

	draft, err := h.service.TranscribeAndExtract(c.Context(), buffer)
	if err != nil {
		h.log.Warn("Voice transcription failed", zap.Error(err))
		return err
	}

	return c.JSON(draft)
}
