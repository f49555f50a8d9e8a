// Package web serves the chat over HTTP for the browser client and local use.
package web

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"credit-agent/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

type ChatUseCase interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
	ChatAudio(ctx context.Context, in usecase.AudioInput) (usecase.ChatOutput, error)
	Reset(ctx context.Context, sessionID string) error
}

type processTextRequest struct {
	Text      *string `json:"text"`
	SessionID string  `json:"sessionId"`
}

type processResponse struct {
	Transcript string  `json:"transcript"`
	Response   string  `json:"response"`
	SessionID  string  `json:"sessionId"`
	Intent     string  `json:"intent"`
	AudioURL   *string `json:"audio_url"`
}

type resetRequest struct {
	SessionID string `json:"sessionId"`
}

type server struct {
	uc ChatUseCase
}

// NewApp builds the fiber app with its routes and middleware.
func NewApp(uc ChatUseCase) (*fiber.App, error) {
	if uc == nil {
		return nil, errors.New("web: use case must not be nil")
	}
	s := &server{uc: uc}

	app := fiber.New(fiber.Config{
		AppName:      "credit-agent",
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Correlation-Id",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(correlationID)

	app.Get("/health", s.health)
	app.Post("/process_text", s.processText)
	app.Post("/process_audio", s.processAudio)
	app.Post("/reset", s.reset)
	return app, nil
}

func correlationID(c *fiber.Ctx) error {
	id := c.Get(correlationHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(correlationHeader, id)
	c.Set(correlationHeader, id)
	return c.Next()
}

func (s *server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "OK", "service": "credit-agent"})
}

func (s *server) processText(c *fiber.Ctx) error {
	var in processTextRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Text == nil {
		return fiber.NewError(fiber.StatusBadRequest, "No text provided")
	}

	out, err := s.uc.Chat(c.UserContext(), usecase.ChatInput{Message: *in.Text, SessionID: in.SessionID})
	if err != nil {
		return useCaseError(c, err)
	}

	out.Transcript = *in.Text
	return c.JSON(newProcessResponse(out))
}

// processAudio expects a multipart form with the recording in the "audio"
// field and an optional "sessionId" value.
func (s *server) processAudio(c *fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No audio file provided")
	}
	f, err := fh.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid audio file")
	}
	defer func() { _ = f.Close() }()

	out, err := s.uc.ChatAudio(c.UserContext(), usecase.AudioInput{
		Filename:  fh.Filename,
		Audio:     f,
		SessionID: c.FormValue("sessionId"),
	})
	if err != nil {
		return useCaseError(c, err)
	}
	return c.JSON(newProcessResponse(out))
}

func newProcessResponse(out usecase.ChatOutput) processResponse {
	resp := processResponse{
		Transcript: out.Transcript,
		Response:   out.Reply,
		SessionID:  out.SessionID,
		Intent:     out.Intent,
	}
	if out.AudioURL != "" {
		resp.AudioURL = &out.AudioURL
	}
	return resp
}

func (s *server) reset(c *fiber.Ctx) error {
	var in resetRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.uc.Reset(c.UserContext(), in.SessionID); err != nil {
		return useCaseError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func useCaseError(c *fiber.Ctx, err error) error {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		return err
	}
	switch ucErr.Code {
	case usecase.ErrorInvalidInput:
		return fiber.NewError(fiber.StatusBadRequest, ucErr.Reason)
	case usecase.ErrorNotFound:
		return fiber.NewError(fiber.StatusNotFound, ucErr.Reason)
	default:
		return err
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(),
			"correlation_id", c.Locals(correlationHeader),
			"err", err,
		)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
