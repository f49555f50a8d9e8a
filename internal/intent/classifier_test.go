package intent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeConversation struct {
	awaiting  bool
	hasAmount bool
	turns     []string
	lastReply string
}

func (f fakeConversation) AwaitingID() bool      { return f.awaiting }
func (f fakeConversation) HasCreditAmount() bool { return f.hasAmount }
func (f fakeConversation) LastReply() string     { return f.lastReply }

func (f fakeConversation) RecentTurns(n int) []string {
	if len(f.turns) <= n {
		return f.turns
	}
	return f.turns[len(f.turns)-n:]
}

func classify(text string, conv fakeConversation) Result {
	return NewClassifier(DefaultKeywords()).Classify(text, conv)
}

func TestClassify_Basic(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"salom", Greeting},
		{"assalomu alaykum", Greeting},
		{"katta rahmat", Thanks},
		{"sening isming nima", BotInfo},
		{"kredit limiti", CreditQuery},
		{"qarz olmoqchiman", CreditQuery},
		{"bank qachon ochiladi", Generic},
		{"", Generic},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, classify(tc.text, fakeConversation{}).Intent, "text=%q", tc.text)
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	c := NewClassifier(DefaultKeywords())
	require.Equal(t, []Intent{Greeting, Thanks, BotInfo, CreditReasonFollowup, CreditContext, CreditQuery, Generic}, c.Order())

	// greeting beats credit, thanks beats bot info
	require.Equal(t, Greeting, classify("salom, kredit kerak", fakeConversation{}).Intent)
	require.Equal(t, Thanks, classify("rahmat, isming nima", fakeConversation{}).Intent)
	// awaiting an ID beats a fresh credit query
	require.Equal(t, CreditContext, classify("kredit 127", fakeConversation{awaiting: true}).Intent)
}

func TestClassify_BotTopic(t *testing.T) {
	require.Equal(t, Result{Intent: BotInfo, BotTopic: BotTopicName}, classify("isming nima", fakeConversation{}))
	require.Equal(t, Result{Intent: BotInfo, BotTopic: BotTopicCreator}, classify("seni developer kim", fakeConversation{}))
	require.Equal(t, Result{Intent: BotInfo, BotTopic: BotTopicGeneric}, classify("sen kimsan", fakeConversation{}))
}

func TestClassify_ReasonFollowup(t *testing.T) {
	quoted := fakeConversation{
		hasAmount: true,
		turns:     []string{"127", "Sizga bir yil muddatga 4500.00 dollar miqdorida kredit bera olamiz."},
		lastReply: "Sizga bir yil muddatga 4500.00 dollar miqdorida kredit bera olamiz.",
	}
	require.Equal(t, CreditReasonFollowup, classify("nima uchun", quoted).Intent)
	require.Equal(t, CreditReasonFollowup, classify("kredit nima uchun shuncha", fakeConversation{hasAmount: true}).Intent)

	// no amount quoted yet
	require.NotEqual(t, CreditReasonFollowup, classify("kredit nima uchun kerak", fakeConversation{}).Intent)
	// amount known, but neither the utterance nor the last reply is about credit
	require.Equal(t, Generic, classify("nima uchun", fakeConversation{hasAmount: true, lastReply: "Vaalaykum assalom!"}).Intent)
}

func TestClassify_CreditContextLookback(t *testing.T) {
	recent := fakeConversation{turns: []string{"kredit olish", "Kredit limiti uchun ID raqamingizni kiriting", "salom", "Vaalaykum assalom!"}}
	require.Equal(t, CreditContext, classify("bir yuz", recent).Intent)

	notFound := fakeConversation{turns: []string{"999", "ID 999 topilmadi. Iltimos, boshqa ID kiriting."}}
	require.Equal(t, CreditContext, classify("yigirma", notFound).Intent)

	stale := fakeConversation{turns: []string{"kredit", "ID?", "a", "b", "c", "d"}}
	require.Equal(t, Generic, classify("bir yuz", stale).Intent)
}

func TestNewClassifier_DefaultsLookback(t *testing.T) {
	kw := DefaultKeywords()
	kw.Lookback = 0
	c := NewClassifier(kw)
	require.Equal(t, defaultLookback, c.kw.Lookback)
}
