// Package intent tags a normalized utterance with the conversational intent the
// dialogue controller acts on.
package intent

import "strings"

type Intent string

const (
	Greeting             Intent = "greeting"
	Thanks               Intent = "thanks"
	BotInfo              Intent = "bot_info"
	CreditReasonFollowup Intent = "credit_reason_followup"
	CreditContext        Intent = "credit_context"
	CreditQuery          Intent = "credit_query"
	Generic              Intent = "generic"
)

// BotTopic narrows a BotInfo intent to what the user asked about the assistant.
type BotTopic string

const (
	BotTopicNone    BotTopic = ""
	BotTopicName    BotTopic = "name"
	BotTopicCreator BotTopic = "creator"
	BotTopicGeneric BotTopic = "generic"
)

// Conversation is the read-only view of dialogue state the classifier consults.
type Conversation interface {
	AwaitingID() bool
	HasCreditAmount() bool
	// RecentTurns returns the text of the last n history turns, oldest first.
	RecentTurns(n int) []string
	// LastReply returns the most recent assistant turn, or "".
	LastReply() string
}

type Result struct {
	Intent   Intent
	BotTopic BotTopic
}

type rule struct {
	intent Intent
	match  func(text string, conv Conversation) bool
}

// Classifier evaluates its rules in order; the first match wins.
type Classifier struct {
	kw    Keywords
	rules []rule
}

func NewClassifier(kw Keywords) *Classifier {
	if kw.Lookback <= 0 {
		kw.Lookback = defaultLookback
	}
	c := &Classifier{kw: kw}
	c.rules = []rule{
		{Greeting, func(text string, _ Conversation) bool { return containsAny(text, kw.Greeting) }},
		{Thanks, func(text string, _ Conversation) bool { return containsAny(text, kw.Thanks) }},
		{BotInfo, func(text string, _ Conversation) bool { return containsAny(text, kw.BotInfo) }},
		{CreditReasonFollowup, c.isReasonFollowup},
		{CreditContext, c.inCreditContext},
		{CreditQuery, func(text string, _ Conversation) bool { return containsAny(text, kw.Credit) }},
	}
	return c
}

// Classify expects text already passed through uzbek.Normalize.
func (c *Classifier) Classify(text string, conv Conversation) Result {
	for _, r := range c.rules {
		if !r.match(text, conv) {
			continue
		}
		res := Result{Intent: r.intent}
		if r.intent == BotInfo {
			res.BotTopic = c.botTopic(text)
		}
		return res
	}
	return Result{Intent: Generic}
}

// Order returns the intents in the order they are tested.
func (c *Classifier) Order() []Intent {
	out := make([]Intent, 0, len(c.rules)+1)
	for _, r := range c.rules {
		out = append(out, r.intent)
	}
	return append(out, Generic)
}

func (c *Classifier) botTopic(text string) BotTopic {
	switch {
	case containsAny(text, c.kw.BotName):
		return BotTopicName
	case containsAny(text, c.kw.BotCreator):
		return BotTopicCreator
	default:
		return BotTopicGeneric
	}
}

// isReasonFollowup needs a reason word, a quoted amount, and the credit word in
// either the utterance or the reply it follows up on.
func (c *Classifier) isReasonFollowup(text string, conv Conversation) bool {
	if !containsAny(text, c.kw.Reason) || !conv.HasCreditAmount() {
		return false
	}
	return strings.Contains(text, c.kw.CreditWord) || strings.Contains(strings.ToLower(conv.LastReply()), c.kw.CreditWord)
}

func (c *Classifier) inCreditContext(_ string, conv Conversation) bool {
	if conv.AwaitingID() {
		return true
	}
	for _, turn := range conv.RecentTurns(c.kw.Lookback) {
		turn = strings.ToLower(turn)
		if containsAny(turn, c.kw.Credit) || strings.Contains(turn, c.kw.NotFoundMarker) {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
