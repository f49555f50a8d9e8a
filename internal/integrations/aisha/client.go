package aisha

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "https://back.aisha.group"
	DefaultVoice   = "gulnoza"
	ttsPath        = "/api/v1/tts/post/"
	sttPath        = "/api/v1/stt/post/"
)

var ErrNoSpeech = errors.New("aisha: no speech detected")

// HTTPStatusError captures non-2xx responses from the speech endpoints.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("aisha: unexpected status %d: %s", e.StatusCode, e.Body)
}

type ttsResponse struct {
	AudioPath string `json:"audio_path"`
}

type sttResponse struct {
	Transcript string `json:"transcript"`
}

// Client talks to the aisha.group Uzbek speech API: TTS for replies and
// STT for recorded questions.
type Client struct {
	apiKey     string
	baseURL    string
	voice      string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if v := strings.TrimRight(strings.TrimSpace(baseURL), "/"); v != "" {
			c.baseURL = v
		}
	}
}

func WithVoice(voice string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(voice); v != "" {
			c.voice = v
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("aisha: api key is required")
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		voice:      DefaultVoice,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Synthesize posts text for synthesis and returns the URL of the generated mp3.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("aisha: text must not be empty")
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := writeFields(form, [][2]string{
		{"transcript", text},
		{"language", "uz"},
		{"model", c.voice},
	}); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("aisha: close form: %w", err)
	}

	var payload ttsResponse
	err := c.post(ctx, ttsPath, form.FormDataContentType(), &body, map[string]string{
		"X-Channels": "stereo",
		"X-Quality":  "64k",
		"X-Rate":     "16000",
		"X-Format":   "mp3",
	}, &payload)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.AudioPath) == "" {
		return "", errors.New("aisha: response has no audio_path")
	}
	return payload.AudioPath, nil
}

// Transcribe uploads a recording as-is and returns the Uzbek transcript.
// ErrNoSpeech is returned when the service recognised nothing.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if audio == nil {
		return "", errors.New("aisha: audio must not be nil")
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "recording.mp3"
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := writeFields(form, [][2]string{
		{"title", "recording_" + uuid.NewString()},
		{"has_diarization", "false"},
		{"language", "uz"},
	}); err != nil {
		return "", err
	}
	part, err := form.CreateFormFile("audio", filename)
	if err != nil {
		return "", fmt.Errorf("aisha: create audio part: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("aisha: read audio: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("aisha: close form: %w", err)
	}

	var payload sttResponse
	if err := c.post(ctx, sttPath, form.FormDataContentType(), &body, nil, &payload); err != nil {
		return "", err
	}
	transcript := strings.TrimSpace(payload.Transcript)
	if transcript == "" {
		return "", ErrNoSpeech
	}
	return transcript, nil
}

func writeFields(form *multipart.Writer, fields [][2]string) error {
	for _, field := range fields {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return fmt.Errorf("aisha: write form field %s: %w", field[0], err)
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("aisha: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-api-key", c.apiKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("aisha: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &HTTPStatusError{StatusCode: res.StatusCode, Body: string(buf)}
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("aisha: decode response: %w", err)
	}
	return nil
}
