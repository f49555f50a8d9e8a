package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"credit-agent/internal/dialogue"
	"credit-agent/internal/domain"
)

const (
	defaultMaxMessageLen = 500
	defaultSessionTTL    = 30 * time.Minute
	maxSessionIDLen      = 128

	replyUnrecognizedSpeech = "Ovozni aniqlashda xatolik yuz berdi. Iltimos, aniq va baland ovozda gapiring."
	failureTranscription    = "transcription"
)

// Dialogue runs one conversational turn against a session's state.
type Dialogue interface {
	Handle(ctx context.Context, state *dialogue.State, utterance string) dialogue.Reply
}

type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (domain.SessionRecord, bool, error)
	SaveSession(ctx context.Context, rec domain.SessionRecord) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// Synthesizer turns reply text into a playable audio URL.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Transcriber turns a recorded question into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

type ChatService struct {
	dialogue      Dialogue
	sessions      SessionStore
	speech        Synthesizer
	transcriber   Transcriber
	sessionTTL    time.Duration
	maxMessageLen int
}

type ChatInput struct {
	Message   string
	SessionID string
}

type AudioInput struct {
	Filename  string
	Audio     io.Reader
	SessionID string
}

type ChatOutput struct {
	Transcript string
	Reply      string
	SessionID  string
	Intent     string
	Failure    string
	AudioURL   string
}

type ChatOption func(*ChatService)

// WithSpeech enables text-to-speech for replies. Synthesis failures never
// fail the turn; the reply is returned without an audio URL.
func WithSpeech(s Synthesizer) ChatOption {
	return func(c *ChatService) {
		c.speech = s
	}
}

// WithTranscription enables ChatAudio.
func WithTranscription(t Transcriber) ChatOption {
	return func(c *ChatService) {
		c.transcriber = t
	}
}

func WithSessionTTL(ttl time.Duration) ChatOption {
	return func(c *ChatService) {
		if ttl > 0 {
			c.sessionTTL = ttl
		}
	}
}

func WithMaxMessageLength(n int) ChatOption {
	return func(c *ChatService) {
		if n > 0 {
			c.maxMessageLen = n
		}
	}
}

func NewChatService(d Dialogue, s SessionStore, opts ...ChatOption) (*ChatService, error) {
	if d == nil {
		return nil, errors.New("usecase: dialogue must not be nil")
	}
	if s == nil {
		return nil, errors.New("usecase: session store must not be nil")
	}
	svc := &ChatService{
		dialogue:      d,
		sessions:      s,
		sessionTTL:    defaultSessionTTL,
		maxMessageLen: defaultMaxMessageLen,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Chat runs one turn for the session, creating the session when SessionID is
// empty or unknown. Blank messages are a valid turn: the dialogue answers them
// with a prompt to speak again.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	if utf8.RuneCountInString(in.Message) > s.maxMessageLen {
		return ChatOutput{}, newError(ErrorInvalidInput, "message_too_long", nil)
	}
	sessionID, err := sessionIDOrNew(in.SessionID)
	if err != nil {
		return ChatOutput{}, err
	}

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return ChatOutput{}, err
	}

	reply := s.dialogue.Handle(ctx, state, in.Message)

	if err := s.saveState(ctx, sessionID, state); err != nil {
		return ChatOutput{}, err
	}

	out := ChatOutput{
		Transcript: in.Message,
		Reply:      reply.Text,
		SessionID:  sessionID,
		Intent:     string(reply.Intent),
		Failure:    string(reply.Failure),
	}
	s.attachSpeech(ctx, &out)

	slog.InfoContext(ctx, "chat turn",
		"session_id", sessionID,
		"intent", out.Intent,
		"failure", out.Failure,
		"awaiting_id", state.AwaitingID(),
	)
	return out, nil
}

// ChatAudio transcribes a recorded question and runs it as a chat turn.
// When nothing is recognised the caller gets a fixed prompt to speak again and
// the session state is left untouched.
func (s *ChatService) ChatAudio(ctx context.Context, in AudioInput) (ChatOutput, error) {
	if s.transcriber == nil {
		return ChatOutput{}, newError(ErrorInvalidInput, "speech_input_disabled", nil)
	}
	if in.Audio == nil {
		return ChatOutput{}, newError(ErrorInvalidInput, "missing_audio", nil)
	}
	sessionID, err := sessionIDOrNew(in.SessionID)
	if err != nil {
		return ChatOutput{}, err
	}

	transcript, err := s.transcriber.Transcribe(ctx, in.Filename, in.Audio)
	transcript = strings.TrimSpace(transcript)
	if err != nil || transcript == "" {
		slog.WarnContext(ctx, "speech transcription failed", "session_id", sessionID, "err", err)
		out := ChatOutput{
			Reply:     replyUnrecognizedSpeech,
			SessionID: sessionID,
			Failure:   failureTranscription,
		}
		s.attachSpeech(ctx, &out)
		return out, nil
	}

	return s.Chat(ctx, ChatInput{Message: transcript, SessionID: sessionID})
}

// Reset ends a session by deleting its state.
func (s *ChatService) Reset(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return newError(ErrorInvalidInput, "missing_session_id", nil)
	}
	_, found, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return newError(ErrorInternal, "session_load_error", err)
	}
	if !found {
		return newError(ErrorNotFound, "session_not_found", nil)
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return newError(ErrorInternal, "session_delete_error", err)
	}
	slog.InfoContext(ctx, "session reset", "session_id", sessionID)
	return nil
}

func (s *ChatService) attachSpeech(ctx context.Context, out *ChatOutput) {
	if s.speech == nil {
		return
	}
	audioURL, err := s.speech.Synthesize(ctx, out.Reply)
	if err != nil {
		slog.WarnContext(ctx, "speech synthesis failed", "session_id", out.SessionID, "err", err)
		return
	}
	out.AudioURL = audioURL
}

func sessionIDOrNew(raw string) (string, error) {
	sessionID := strings.TrimSpace(raw)
	if len(sessionID) > maxSessionIDLen {
		return "", newError(ErrorInvalidInput, "session_id_too_long", nil)
	}
	if sessionID == "" {
		sessionID = newUUID()
	}
	return sessionID, nil
}

func (s *ChatService) loadState(ctx context.Context, sessionID string) (*dialogue.State, error) {
	rec, found, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, newError(ErrorInternal, "session_load_error", err)
	}
	if !found {
		return dialogue.NewState(), nil
	}
	state := dialogue.NewState()
	if err := json.Unmarshal([]byte(rec.State), state); err != nil {
		return nil, newError(ErrorInternal, "session_decode_error", err)
	}
	return state, nil
}

func (s *ChatService) saveState(ctx context.Context, sessionID string, state *dialogue.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return newError(ErrorInternal, "session_encode_error", err)
	}
	if err := s.sessions.SaveSession(ctx, domain.NewSessionRecord(sessionID, string(raw), s.sessionTTL)); err != nil {
		return newError(ErrorInternal, "session_save_error", err)
	}
	return nil
}

var newUUID = func() string {
	return uuid.NewString()
}
