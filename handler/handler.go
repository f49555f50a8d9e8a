package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"credit-agent/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

// ChatUseCase is the use-case surface the Lambda handler drives.
type ChatUseCase interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
	Reset(ctx context.Context, sessionID string) error
}

type Handler struct {
	uc ChatUseCase
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
	Intent    string `json:"intent"`
	AudioURL  string `json:"audioUrl,omitempty"`
}

type resetRequest struct {
	SessionID string `json:"sessionId"`
}

type errorResponse struct {
	Error         string `json:"error"`
	Reason        string `json:"reason,omitempty"`
	CorrelationID string `json:"correlationId"`
}

func NewHandler(uc ChatUseCase) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	return &Handler{uc: uc}, nil
}

// Handle serves API Gateway proxy requests for POST /chat and POST /reset.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(req.Headers, correlationHeader)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	logger := slog.Default().With("correlation_id", correlationID, "path", req.Path)

	if req.HTTPMethod != http.MethodPost {
		return errorJSON(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "", correlationID), nil
	}

	body, err := requestBody(req)
	if err != nil {
		return errorJSON(http.StatusBadRequest, string(usecase.ErrorInvalidInput), "invalid_body", correlationID), nil
	}

	switch {
	case strings.HasSuffix(req.Path, "/chat"):
		return h.chat(ctx, logger, body, correlationID), nil
	case strings.HasSuffix(req.Path, "/reset"):
		return h.reset(ctx, logger, body, correlationID), nil
	default:
		return errorJSON(http.StatusNotFound, string(usecase.ErrorNotFound), "unknown_route", correlationID), nil
	}
}

func (h *Handler) chat(ctx context.Context, logger *slog.Logger, body []byte, correlationID string) events.APIGatewayProxyResponse {
	var in chatRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return errorJSON(http.StatusBadRequest, string(usecase.ErrorInvalidInput), "invalid_body", correlationID)
	}

	out, err := h.uc.Chat(ctx, usecase.ChatInput{Message: in.Message, SessionID: in.SessionID})
	if err != nil {
		return useCaseError(logger, err, correlationID)
	}
	logger.Info("chat handled", "session_id", out.SessionID, "intent", out.Intent)

	return jsonResponse(http.StatusOK, chatResponse{
		Reply:     out.Reply,
		SessionID: out.SessionID,
		Intent:    out.Intent,
		AudioURL:  out.AudioURL,
	}, correlationID)
}

func (h *Handler) reset(ctx context.Context, logger *slog.Logger, body []byte, correlationID string) events.APIGatewayProxyResponse {
	var in resetRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return errorJSON(http.StatusBadRequest, string(usecase.ErrorInvalidInput), "invalid_body", correlationID)
	}
	if err := h.uc.Reset(ctx, in.SessionID); err != nil {
		return useCaseError(logger, err, correlationID)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusNoContent,
		Headers:    map[string]string{correlationHeader: correlationID},
	}
}

func useCaseError(logger *slog.Logger, err error, correlationID string) events.APIGatewayProxyResponse {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		logger.Error("unexpected use case error", "err", err)
		return errorJSON(http.StatusInternalServerError, string(usecase.ErrorInternal), "", correlationID)
	}

	status := http.StatusInternalServerError
	switch ucErr.Code {
	case usecase.ErrorInvalidInput:
		status = http.StatusBadRequest
	case usecase.ErrorNotFound:
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", ucErr.Code, "reason", ucErr.Reason, "err", ucErr.Err)
	} else {
		logger.Warn("request rejected", "code", ucErr.Code, "reason", ucErr.Reason)
	}
	return errorJSON(status, string(ucErr.Code), ucErr.Reason, correlationID)
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	return base64.StdEncoding.DecodeString(req.Body)
}

// headerValue looks a header up case-insensitively; API Gateway passes them as sent.
func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func errorJSON(status int, code, reason, correlationID string) events.APIGatewayProxyResponse {
	return jsonResponse(status, errorResponse{Error: code, Reason: reason, CorrelationID: correlationID}, correlationID)
}

func jsonResponse(status int, v any, correlationID string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: correlationID,
		},
		Body: string(body),
	}
}
