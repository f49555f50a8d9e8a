// Package dialogue is the conversational state machine: it classifies each
// utterance, consults the scoring lookup or the answer generator, and turns every
// outcome, including collaborator failures, into a reply.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"credit-agent/internal/domain"
	"credit-agent/internal/intent"
	"credit-agent/internal/scoring"
	"credit-agent/internal/uzbek"
)

// Scorer returns the predicted credit limit for a customer ID.
// scoring.ErrNotFound reports an unknown ID.
type Scorer interface {
	Lookup(ctx context.Context, id int) (float64, error)
}

// AnswerGenerator produces a free-text answer for a prepared chat transcript.
type AnswerGenerator interface {
	Generate(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// FailureKind names the recovered failure behind a reply, if any.
type FailureKind string

const (
	FailureNone           FailureKind = ""
	FailureParse          FailureKind = "parse_failure"
	FailureLookupNotFound FailureKind = "lookup_not_found"
	FailureGeneration     FailureKind = "generation_failure"
	FailureEmptyInput     FailureKind = "empty_input"
)

// Reply is the outcome of one turn.
type Reply struct {
	Text    string
	Intent  intent.Intent
	Failure FailureKind
}

type Controller struct {
	classifier   *intent.Classifier
	scorer       Scorer
	generator    AnswerGenerator
	knowledge    string
	historyLimit int
}

type Option func(*Controller)

func WithHistoryLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.historyLimit = n
		}
	}
}

func WithKeywords(kw intent.Keywords) Option {
	return func(c *Controller) {
		c.classifier = intent.NewClassifier(kw)
	}
}

func NewController(scorer Scorer, generator AnswerGenerator, knowledge string, opts ...Option) (*Controller, error) {
	if scorer == nil {
		return nil, errors.New("dialogue: scorer must not be nil")
	}
	if generator == nil {
		return nil, errors.New("dialogue: answer generator must not be nil")
	}
	c := &Controller{
		classifier:   intent.NewClassifier(intent.DefaultKeywords()),
		scorer:       scorer,
		generator:    generator,
		knowledge:    knowledge,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Handle runs one turn against state and always returns a reply.
func (c *Controller) Handle(ctx context.Context, state *State, utterance string) Reply {
	text := strings.TrimSpace(uzbek.Normalize(utterance))
	if text == "" {
		return Reply{Text: replyEmptyInput, Failure: FailureEmptyInput}
	}

	res := c.classifier.Classify(text, state)
	reply := c.respond(ctx, state, text, res)
	reply.Intent = res.Intent

	state.record(domain.RoleUser, text, c.historyLimit)
	state.record(domain.RoleAssistant, reply.Text, c.historyLimit)
	return reply
}

func (c *Controller) respond(ctx context.Context, state *State, text string, res intent.Result) Reply {
	switch res.Intent {
	case intent.Greeting:
		return Reply{Text: replyGreeting}
	case intent.Thanks:
		return Reply{Text: replyThanks}
	case intent.BotInfo:
		return Reply{Text: botInfoReply(res.BotTopic)}
	case intent.CreditReasonFollowup:
		return Reply{Text: replyCreditReason}
	case intent.CreditContext:
		return c.lookupCredit(ctx, state, text)
	case intent.CreditQuery:
		state.WaitingForID = true
		return Reply{Text: replyAskID}
	default:
		return c.answer(ctx, state, text)
	}
}

func botInfoReply(topic intent.BotTopic) string {
	switch topic {
	case intent.BotTopicName:
		return replyBotName
	case intent.BotTopicCreator:
		return replyBotCreator
	default:
		return replyBotGeneric
	}
}

func (c *Controller) lookupCredit(ctx context.Context, state *State, text string) Reply {
	id, ok := uzbek.ParseNumber(text)
	if !ok {
		state.WaitingForID = true
		return Reply{Text: replyAskValidID, Failure: FailureParse}
	}

	amount, err := c.scorer.Lookup(ctx, id)
	if err != nil {
		if !errors.Is(err, scoring.ErrNotFound) {
			slog.WarnContext(ctx, "scoring lookup failed", "id", id, "err", err)
		}
		state.WaitingForID = true
		return Reply{Text: fmt.Sprintf(replyIDNotFound, id), Failure: FailureLookupNotFound}
	}

	state.LastCreditAmount = &amount
	state.WaitingForID = false
	return Reply{Text: fmt.Sprintf(replyCreditAmount, amount)}
}

func (c *Controller) answer(ctx context.Context, state *State, text string) Reply {
	out, err := c.generator.Generate(ctx, buildPromptMessages(c.knowledge, text, state.History))
	if err != nil {
		slog.WarnContext(ctx, "answer generation failed", "err", err)
		return Reply{Text: replyCannotAnswer, Failure: FailureGeneration}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		slog.WarnContext(ctx, "answer generation returned empty text")
		return Reply{Text: replyCannotAnswer, Failure: FailureGeneration}
	}
	return Reply{Text: out}
}
