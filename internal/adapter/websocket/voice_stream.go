package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

// VoiceStreamHandler drives a capture session over one websocket.
// Binary frames carry audio chunks; text frames carry JSON control
// messages. One connection owns at most one session at a time.
type VoiceStreamHandler struct {
	service ports.VoiceOrderService
	log     *zap.Logger
}

func NewVoiceStreamHandler(service ports.VoiceOrderService, log *zap.Logger) *VoiceStreamHandler {
	return &VoiceStreamHandler{
		service: service,
		log:     log,
	}
}

type voiceControl struct {
	Action            string `json:"action"` // start, stop, discard, submit
	PermissionGranted bool   `json:"permission_granted"`
}

type voiceReply struct {
	Event     string                 `json:"event"`
	SessionID string                 `json:"session_id,omitempty"`
	Draft     *domain.ExtractedOrder `json:"draft,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Retryable bool                   `json:"retryable,omitempty"`
}

// HandleVoiceStream runs the control loop for one connection.
func (h *VoiceStreamHandler) HandleVoiceStream(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(string)
	ctx := context.Background()

	var sessionID string
	defer func() {
		// A dropped connection discards whatever was being recorded.
		if sessionID != "" {
			if err := h.service.DiscardCapture(ctx, sessionID); err != nil {
				var stateErr *domain.InvalidStateError
				if !errors.As(err, &stateErr) {
					h.log.Warn("Failed to discard capture on disconnect",
						zap.String("session_id", sessionID),
						zap.Error(err),
					)
				}
			}
		}
	}()

	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			if sessionID == "" {
				h.reply(c, voiceReply{Event: "error", Error: "no active capture session"})
				continue
			}
			if err := h.service.PushAudio(ctx, sessionID, data); err != nil {
				h.replyError(c, err)
			}

		case websocket.TextMessage:
			var ctrl voiceControl
			if err := json.Unmarshal(data, &ctrl); err != nil {
				h.reply(c, voiceReply{Event: "error", Error: "invalid control message"})
				continue
			}

			switch ctrl.Action {
			case "start":
				id, err := h.service.StartCapture(ctx, userID, ctrl.PermissionGranted)
				if err != nil {
					h.replyError(c, err)
					continue
				}
				sessionID = id
				h.reply(c, voiceReply{Event: "recording", SessionID: sessionID})

			case "stop":
				if err := h.service.StopCapture(ctx, sessionID); err != nil {
					h.replyError(c, err)
					continue
				}
				h.reply(c, voiceReply{Event: "stopped", SessionID: sessionID})

			case "discard":
				if err := h.service.DiscardCapture(ctx, sessionID); err != nil {
					h.replyError(c, err)
					continue
				}
				h.reply(c, voiceReply{Event: "discarded", SessionID: sessionID})
				sessionID = ""

			case "submit":
				draft, err := h.service.SubmitCapture(ctx, sessionID)
				if err != nil {
					h.replyError(c, err)
					continue
				}
				h.reply(c, voiceReply{Event: "draft", SessionID: sessionID, Draft: draft})
				sessionID = ""

			default:
				h.reply(c, voiceReply{Event: "error", Error: "unknown action: " + ctrl.Action})
			}
		}
	}
}

// replyError maps domain errors onto the wire the same way the HTTP
// error handler does, so clients handle one vocabulary.
func (h *VoiceStreamHandler) replyError(c *websocket.Conn, err error) {
	reply := voiceReply{Event: "error", Error: err.Error()}

	var transcriptionErr *domain.TranscriptionError
	var permissionErr *domain.PermissionDeniedError
	switch {
	case errors.As(err, &transcriptionErr):
		reply.Retryable = true
	case errors.As(err, &permissionErr):
		reply.Retryable = true
	}

	h.reply(c, reply)
}

func (h *VoiceStreamHandler) reply(c *websocket.Conn, reply voiceReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
		h.log.Debug("Failed to write voice reply", zap.Error(err))
	}
}

// SetupVoiceRoutes mounts the voice capture websocket. The caller only
// mounts it when the voice pipeline is enabled.
func SetupVoiceRoutes(app *fiber.App, handler *VoiceStreamHandler, authMiddleware fiber.Handler) {
	app.Use("/ws/voice", authMiddleware, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/voice", websocket.New(handler.HandleVoiceStream))
}

// SetupDashboardRoutes mounts the order event stream for front-of-house
// dashboards.
func SetupDashboardRoutes(app *fiber.App, hub *Hub, authMiddleware fiber.Handler) {
	app.Use("/ws/orders", authMiddleware, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/orders", websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals("user_id").(string)
		hub.AddClient(c, userID)
	}))
}
