package journal_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/journal"
	"github.com/s21platform/codeu-chat/internal/model"
)

func TestFormatTokenQuotesWhitespace(t *testing.T) {
	assert.Equal(t, "alice", journal.FormatToken("alice"))
	assert.Equal(t, "'hello world'", journal.FormatToken("hello world"))
	assert.Equal(t, "''", journal.FormatToken(""))
}

func TestFormatTokenEscapesEmbeddedQuote(t *testing.T) {
	assert.Equal(t, "'it''s ok'", journal.FormatToken("it's ok"))
}

func TestTokenizerRoundTripsQuotedTokens(t *testing.T) {
	line := journal.FormatLine("ADD-USER", "[1.1]", "it's a name with spaces", "123")
	tok := journal.NewTokenizer(line)

	var got []string
	for tok.HasNext() {
		got = append(got, tok.Next())
	}
	assert.Equal(t, []string{"ADD-USER", "[1.1]", "it's a name with spaces", "123"}, got)
}

func TestTokenizerToleratesExtraWhitespace(t *testing.T) {
	tok := journal.NewTokenizer("  ADD-USER   [1.1]  bob   42  ")
	var got []string
	for tok.HasNext() {
		got = append(got, tok.Next())
	}
	assert.Equal(t, []string{"ADD-USER", "[1.1]", "bob", "42"}, got)
}

type fakeReplayer struct {
	users []struct {
		id   identity.ID
		name string
		t    model.Time
	}
	convs []struct {
		id, owner identity.ID
		title     string
		t         model.Time
	}
	messages []struct {
		id, author, conv identity.ID
		content          string
		t                model.Time
	}
	toggles []string
}

func (f *fakeReplayer) ReplayUser(id identity.ID, name string, t model.Time) error {
	f.users = append(f.users, struct {
		id   identity.ID
		name string
		t    model.Time
	}{id, name, t})
	return nil
}

func (f *fakeReplayer) ReplayConversation(id, owner identity.ID, title string, t model.Time) error {
	f.convs = append(f.convs, struct {
		id, owner identity.ID
		title     string
		t         model.Time
	}{id, owner, title, t})
	return nil
}

func (f *fakeReplayer) ReplayMessage(id, author, conv identity.ID, content string, t model.Time) error {
	f.messages = append(f.messages, struct {
		id, author, conv identity.ID
		content          string
		t                model.Time
	}{id, author, conv, content, t})
	return nil
}

func (f *fakeReplayer) ReplayUserInterestAdd(user, followed identity.ID) error {
	f.toggles = append(f.toggles, "add-user-interest")
	return nil
}
func (f *fakeReplayer) ReplayUserInterestRemove(user, followed identity.ID) error {
	f.toggles = append(f.toggles, "remove-user-interest")
	return nil
}
func (f *fakeReplayer) ReplayConversationInterestAdd(user, conv identity.ID) error {
	f.toggles = append(f.toggles, "add-conv-interest")
	return nil
}
func (f *fakeReplayer) ReplayConversationInterestRemove(user, conv identity.ID) error {
	f.toggles = append(f.toggles, "remove-conv-interest")
	return nil
}
func (f *fakeReplayer) ReplayToggleCreator(conv, user identity.ID, flag bool) error {
	f.toggles = append(f.toggles, "creator")
	return nil
}
func (f *fakeReplayer) ReplayToggleOwner(conv, user identity.ID, flag bool) error {
	f.toggles = append(f.toggles, "owner")
	return nil
}
func (f *fakeReplayer) ReplayToggleMember(conv, user identity.ID, flag bool) error {
	f.toggles = append(f.toggles, "member")
	return nil
}
func (f *fakeReplayer) ReplayToggleRemoved(conv, user identity.ID) error {
	f.toggles = append(f.toggles, "removed")
	return nil
}

func TestReplayDispatchesEachOpcode(t *testing.T) {
	lines := strings.Join([]string{
		"ADD-USER [1.1] alice 100",
		"ADD-CONVERSATION [1.2] [1.1] general 100",
		"ADD-MESSAGE [1.3] [1.1] [1.2] hi 100",
		"ADD-CONVO-CREATOR [1.2] [1.1]",
		"ADD-CONVO-OWNER [1.2] [1.1]",
		"ADD-CONVO-MEMBER [1.2] [1.1]",
		"REMOVE-CONVO-MEMBER [1.2] [1.1]",
		"REMOVE-CONVO-OWNER [1.2] [1.1]",
		"REMOVE-CONVO-TOGGLE [1.2] [1.1]",
		"ADD-INTEREST-USER [1.1] [1.4]",
		"REMOVE-INTEREST-USER [1.1] [1.4]",
		"ADD-INTEREST-CONVERSATION [1.1] [1.2]",
		"REMOVE-INTEREST-CONVERSATION [1.1] [1.2]",
		"",
		"   ",
	}, "\n")

	dst := &fakeReplayer{}
	err := journal.Replay(strings.NewReader(lines), dst, nil)
	require.NoError(t, err)

	require.Len(t, dst.users, 1)
	assert.Equal(t, "alice", dst.users[0].name)
	require.Len(t, dst.convs, 1)
	assert.Equal(t, "general", dst.convs[0].title)
	require.Len(t, dst.messages, 1)
	assert.Equal(t, "hi", dst.messages[0].content)
	assert.Equal(t, []string{
		"creator", "owner", "member", "member", "owner", "removed",
		"add-user-interest", "remove-user-interest",
		"add-conv-interest", "remove-conv-interest",
	}, dst.toggles)
}

func TestReplaySkipsUnparseableLinesWithoutAborting(t *testing.T) {
	lines := strings.Join([]string{
		"ADD-USER [1.1] alice 100",
		"NOT-A-REAL-OPCODE garbage",
		"ADD-USER [1.2] bob 200",
	}, "\n")

	dst := &fakeReplayer{}
	var logged []string
	err := journal.Replay(strings.NewReader(lines), dst, func(format string, args ...interface{}) {
		logged = append(logged, format)
	})
	require.NoError(t, err)
	assert.Len(t, dst.users, 2)
	assert.Len(t, logged, 1)
}
