// Package app assembles the chat service from configuration. Every binary
// builds its collaborators here so the wiring is identical across transports.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"credit-agent/internal/config"
	"credit-agent/internal/dialogue"
	"credit-agent/internal/integrations/aisha"
	"credit-agent/internal/integrations/gemini"
	"credit-agent/internal/integrations/openai"
	"credit-agent/internal/integrations/paramstore"
	"credit-agent/internal/knowledge"
	"credit-agent/internal/repository"
	"credit-agent/internal/scoring"
	"credit-agent/internal/usecase"
)

// App owns the assembled chat service and the resources behind it.
type App struct {
	Chat *usecase.ChatService

	closers []func() error
}

// Build wires the collaborators cfg asks for. AWS clients are only created
// when PARAM_PREFIX or SESSION_TABLE is set.
func Build(ctx context.Context, cfg config.Config) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			if cerr := a.Close(); cerr != nil {
				slog.WarnContext(ctx, "release partially built app", "err", cerr)
			}
		}
	}()

	var (
		params   *paramstore.Client
		sessions usecase.SessionStore = repository.NewMemoryStore()
	)
	if cfg.ParamPrefix != "" || cfg.SessionTable != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("app: load AWS config: %w", err)
		}
		if cfg.ParamPrefix != "" {
			params, err = paramstore.New(awsssm.NewFromConfig(awsCfg))
			if err != nil {
				return nil, fmt.Errorf("app: create SSM client: %w", err)
			}
		}
		if cfg.SessionTable != "" {
			store, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.SessionTable)
			if err != nil {
				return nil, fmt.Errorf("app: create session store: %w", err)
			}
			sessions = store
		}
	}

	src := knowledge.Source{Path: cfg.KnowledgePath}
	if params != nil {
		src.Params = params
		src.Param = cfg.KnowledgeParam()
	}
	text, err := knowledge.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	scorer, err := buildScorer(cfg)
	if err != nil {
		return nil, err
	}

	generator, err := generatorFor(a, ctx, cfg, params)
	if err != nil {
		return nil, err
	}

	controller, err := dialogue.NewController(scorer, generator, text, dialogue.WithHistoryLimit(cfg.HistoryLimit))
	if err != nil {
		return nil, fmt.Errorf("app: create dialogue controller: %w", err)
	}

	opts := []usecase.ChatOption{
		usecase.WithSessionTTL(cfg.SessionTTL),
		usecase.WithMaxMessageLength(cfg.MaxMessageLength),
	}
	if cfg.TTSAPIKey != "" {
		tts, err := aisha.NewClient(cfg.TTSAPIKey, aisha.WithBaseURL(cfg.TTSBaseURL), aisha.WithVoice(cfg.TTSVoice))
		if err != nil {
			return nil, fmt.Errorf("app: create TTS client: %w", err)
		}
		opts = append(opts, usecase.WithSpeech(tts))
	}
	if cfg.STTAPIKey != "" {
		stt, err := aisha.NewClient(cfg.STTAPIKey, aisha.WithBaseURL(cfg.TTSBaseURL))
		if err != nil {
			return nil, fmt.Errorf("app: create STT client: %w", err)
		}
		opts = append(opts, usecase.WithTranscription(stt))
	}

	a.Chat, err = usecase.NewChatService(controller, sessions, opts...)
	if err != nil {
		return nil, fmt.Errorf("app: create chat service: %w", err)
	}

	slog.InfoContext(ctx, "chat service ready",
		"provider", cfg.Provider(),
		"session_store", sessionStoreName(cfg),
		"tts", cfg.TTSAPIKey != "",
		"stt", cfg.STTAPIKey != "",
	)
	return a, nil
}

// Close releases provider connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func buildScorer(cfg config.Config) (*scoring.Service, error) {
	model, err := scoring.LoadModel(cfg.ScoringModelPath)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	data, err := scoring.LoadDataset(cfg.ScoringDataPath)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return scoring.NewService(model, data)
}

var generatorFor = (*App).buildGenerator

func (a *App) buildGenerator(ctx context.Context, cfg config.Config, params *paramstore.Client) (dialogue.AnswerGenerator, error) {
	switch cfg.Provider() {
	case config.ProviderGemini:
		g, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, float32(cfg.Temperature))
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		a.closers = append(a.closers, g.Close)
		return g, nil
	default:
		opts := []openai.Option{
			openai.WithBaseURL(cfg.LLMBaseURL),
			openai.WithTemperature(cfg.Temperature),
			openai.WithMaxTokens(cfg.MaxTokens),
		}
		switch {
		case cfg.LLMAPIKey != "":
			opts = append(opts, openai.WithAPIKey(cfg.LLMAPIKey))
		case params != nil:
			opts = append(opts, openai.WithSecret(params, cfg.SecretName()))
		}
		client, err := openai.NewClient(opts...)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		return openai.NewGenerator(client, cfg.LLMModel)
	}
}

func sessionStoreName(cfg config.Config) string {
	if cfg.SessionTable != "" {
		return "dynamodb"
	}
	return "memory"
}
