package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/pushover/internal/observability"
	"github.com/kursadbilgin/pushover/pkg/pushover"
	"go.uber.org/zap"
)

// MessageSender is satisfied by *pushover.Client.
type MessageSender interface {
	SendMessage(ctx context.Context, message string, opts pushover.Options) (*pushover.Result, error)
}

type MessageHandler struct {
	sender MessageSender
	logger *zap.Logger
}

func NewMessageHandler(sender MessageSender, logger *zap.Logger) (*MessageHandler, error) {
	if sender == nil {
		return nil, fmt.Errorf("message sender is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageHandler{sender: sender, logger: logger}, nil
}

func RegisterMessageRoutes(router fiber.Router, sender MessageSender, logger *zap.Logger) error {
	h, err := NewMessageHandler(sender, logger)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/messages", h.SendMessage)

	return nil
}

type sendMessageRequest struct {
	Message   string         `json:"message"`
	Title     string         `json:"title"`
	URL       string         `json:"url"`
	URLTitle  string         `json:"urlTitle"`
	Timestamp *int64         `json:"timestamp"`
	Priority  *priorityField `json:"priority"`
	Sound     string         `json:"sound"`
	HTML      bool           `json:"html"`
	TTL       *int           `json:"ttl"`
	Retry     *int           `json:"retry"`
	Expire    *int           `json:"expire"`
}

type sendMessageResponse struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Receipt string   `json:"receipt,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// priorityField accepts either a priority name or a bare integer. Integers are
// forwarded unchanged so the service decides on out-of-range values.
type priorityField pushover.Priority

func (p *priorityField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		parsed, err := pushover.ParsePriority(name)
		if err != nil {
			return err
		}
		*p = priorityField(parsed)
		return nil
	}

	var n int
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("%w: priority must be a name or an integer", pushover.ErrValidation)
	}
	*p = priorityField(n)
	return nil
}

func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	req, err := decodeSendMessageRequest(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	result, err := h.sender.SendMessage(ctx, req.Message, requestToOptions(req))
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if !result.OK() {
		status = fiber.StatusBadGateway
		observability.WithContextLogger(h.logger, ctx).Warn("pushover reported delivery failure",
			zap.Int("status", result.Status),
			zap.String("request", result.Request),
			zap.Strings("errors", result.Errors),
		)
	}

	return c.Status(status).JSON(sendMessageResponse{
		Status:  result.Status,
		Request: result.Request,
		Receipt: result.Receipt,
		Errors:  result.Errors,
	})
}

func decodeSendMessageRequest(body []byte) (sendMessageRequest, error) {
	var req sendMessageRequest

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, fmt.Errorf("request body is required")
		}
		return req, fmt.Errorf("invalid request body: %s", strings.TrimPrefix(err.Error(), "json: "))
	}
	if decoder.More() {
		return req, fmt.Errorf("invalid request body: unexpected data after the JSON object")
	}

	return req, nil
}

// requestToOptions passes text fields through unchanged, like the client.
func requestToOptions(req sendMessageRequest) pushover.Options {
	opts := pushover.Options{
		Title:     req.Title,
		URL:       req.URL,
		URLTitle:  req.URLTitle,
		Timestamp: req.Timestamp,
		Sound:     req.Sound,
		HTML:      req.HTML,
		TTL:       req.TTL,
		Retry:     req.Retry,
		Expire:    req.Expire,
	}
	if req.Priority != nil {
		opts.Priority = pushover.Ptr(pushover.Priority(*req.Priority))
	}
	return opts
}
