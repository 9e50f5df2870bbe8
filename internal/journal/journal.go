package journal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/model"
)

// Record opcodes, one per journal line grammar in the wire spec.
const (
	OpAddUser                    = "ADD-USER"
	OpAddConversation            = "ADD-CONVERSATION"
	OpAddMessage                 = "ADD-MESSAGE"
	OpAddInterestUser            = "ADD-INTEREST-USER"
	OpRemoveInterestUser         = "REMOVE-INTEREST-USER"
	OpAddInterestConversation    = "ADD-INTEREST-CONVERSATION"
	OpRemoveInterestConversation = "REMOVE-INTEREST-CONVERSATION"
	OpAddConvoCreator            = "ADD-CONVO-CREATOR"
	OpAddConvoOwner              = "ADD-CONVO-OWNER"
	OpRemoveConvoOwner           = "REMOVE-CONVO-OWNER"
	OpAddConvoMember             = "ADD-CONVO-MEMBER"
	OpRemoveConvoMember          = "REMOVE-CONVO-MEMBER"
	OpRemoveConvoToggle          = "REMOVE-CONVO-TOGGLE"
)

// Writer appends UTF-8 lines to an open journal file. A failed write
// is fatal to the caller: the model has diverged from durable state.
type Writer struct {
	w io.Writer
	f *os.File // nil when w does not own a file (e.g. in tests)
}

// OpenWriter opens path for appending, creating the file if necessary.
// The parent directory must already exist.
func OpenWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	return &Writer{w: f, f: f}, nil
}

// NewWriter wraps an arbitrary io.Writer, for tests and in-memory use.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Close closes the underlying file, if any.
func (w *Writer) Close() error {
	if w.f == nil {
		return nil
	}
	return w.f.Close()
}

// Append writes one already-formatted line followed by a newline and
// flushes it to stable storage.
func (w *Writer) Append(line string) error {
	if _, err := io.WriteString(w.w, line+"\n"); err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	if w.f != nil {
		if err := w.f.Sync(); err != nil {
			return fmt.Errorf("journal: sync: %w", err)
		}
	}
	return nil
}

// AddUser appends an ADD-USER record.
func (w *Writer) AddUser(id identity.ID, name string, t model.Time) error {
	return w.Append(FormatLine(OpAddUser, id.String(), name, formatTime(t)))
}

// AddConversation appends an ADD-CONVERSATION record.
func (w *Writer) AddConversation(id, owner identity.ID, title string, t model.Time) error {
	return w.Append(FormatLine(OpAddConversation, id.String(), owner.String(), title, formatTime(t)))
}

// AddMessage appends an ADD-MESSAGE record.
func (w *Writer) AddMessage(id, author, conv identity.ID, content string, t model.Time) error {
	return w.Append(FormatLine(OpAddMessage, id.String(), author.String(), conv.String(), content, formatTime(t)))
}

// AddInterestUser appends an ADD-INTEREST-USER record.
func (w *Writer) AddInterestUser(user, followed identity.ID) error {
	return w.Append(FormatLine(OpAddInterestUser, user.String(), followed.String()))
}

// RemoveInterestUser appends a REMOVE-INTEREST-USER record.
func (w *Writer) RemoveInterestUser(user, followed identity.ID) error {
	return w.Append(FormatLine(OpRemoveInterestUser, user.String(), followed.String()))
}

// AddInterestConversation appends an ADD-INTEREST-CONVERSATION record.
func (w *Writer) AddInterestConversation(user, conv identity.ID) error {
	return w.Append(FormatLine(OpAddInterestConversation, user.String(), conv.String()))
}

// RemoveInterestConversation appends a REMOVE-INTEREST-CONVERSATION
// record.
func (w *Writer) RemoveInterestConversation(user, conv identity.ID) error {
	return w.Append(FormatLine(OpRemoveInterestConversation, user.String(), conv.String()))
}

// AddConvoCreator appends an ADD-CONVO-CREATOR record.
func (w *Writer) AddConvoCreator(conv, user identity.ID) error {
	return w.Append(FormatLine(OpAddConvoCreator, conv.String(), user.String()))
}

// AddConvoOwner appends an ADD-CONVO-OWNER record.
func (w *Writer) AddConvoOwner(conv, user identity.ID) error {
	return w.Append(FormatLine(OpAddConvoOwner, conv.String(), user.String()))
}

// RemoveConvoOwner appends a REMOVE-CONVO-OWNER record.
func (w *Writer) RemoveConvoOwner(conv, user identity.ID) error {
	return w.Append(FormatLine(OpRemoveConvoOwner, conv.String(), user.String()))
}

// AddConvoMember appends an ADD-CONVO-MEMBER record.
func (w *Writer) AddConvoMember(conv, user identity.ID) error {
	return w.Append(FormatLine(OpAddConvoMember, conv.String(), user.String()))
}

// RemoveConvoMember appends a REMOVE-CONVO-MEMBER record.
func (w *Writer) RemoveConvoMember(conv, user identity.ID) error {
	return w.Append(FormatLine(OpRemoveConvoMember, conv.String(), user.String()))
}

// RemoveConvoToggle appends a REMOVE-CONVO-TOGGLE record (the removed
// bit's flip).
func (w *Writer) RemoveConvoToggle(conv, user identity.ID) error {
	return w.Append(FormatLine(OpRemoveConvoToggle, conv.String(), user.String()))
}

func formatTime(t model.Time) string {
	return strconv.FormatInt(int64(t), 10)
}

// Replayer is the subset of controller.Controller that Replay dispatches
// to: the entrypoints that accept externally supplied ids/times and do
// not append to the journal themselves.
type Replayer interface {
	ReplayUser(id identity.ID, name string, t model.Time) error
	ReplayConversation(id, owner identity.ID, title string, t model.Time) error
	ReplayMessage(id, author, conv identity.ID, content string, t model.Time) error
	ReplayUserInterestAdd(user, followed identity.ID) error
	ReplayUserInterestRemove(user, followed identity.ID) error
	ReplayConversationInterestAdd(user, conv identity.ID) error
	ReplayConversationInterestRemove(user, conv identity.ID) error
	ReplayToggleCreator(conv, user identity.ID, flag bool) error
	ReplayToggleOwner(conv, user identity.ID, flag bool) error
	ReplayToggleMember(conv, user identity.ID, flag bool) error
	ReplayToggleRemoved(conv, user identity.ID) error
}

// Replay reads r line by line, tokenizes each, and dispatches to the
// matching entrypoint on dst. A line that fails to parse or dispatch
// is logged via logf and skipped; replay never aborts.
func Replay(r io.Reader, dst Replayer, logf func(format string, args ...interface{})) error {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if err := replayLine(line, dst); err != nil {
			logf("journal: skipping line %d (%q): %v", lineNo, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("journal: replay: %w", err)
	}
	return nil
}

func replayLine(line string, dst Replayer) error {
	tok := NewTokenizer(line)
	if !tok.HasNext() {
		return nil // blank line, tolerated
	}
	op := tok.Next()

	switch op {
	case OpAddUser:
		id, err := requireID(tok)
		if err != nil {
			return err
		}
		name := tok.Next()
		t, err := requireTime(tok)
		if err != nil {
			return err
		}
		return dst.ReplayUser(id, name, t)

	case OpAddConversation:
		id, err := requireID(tok)
		if err != nil {
			return err
		}
		owner, err := requireID(tok)
		if err != nil {
			return err
		}
		title := tok.Next()
		t, err := requireTime(tok)
		if err != nil {
			return err
		}
		return dst.ReplayConversation(id, owner, title, t)

	case OpAddMessage:
		id, err := requireID(tok)
		if err != nil {
			return err
		}
		author, err := requireID(tok)
		if err != nil {
			return err
		}
		conv, err := requireID(tok)
		if err != nil {
			return err
		}
		content := tok.Next()
		t, err := requireTime(tok)
		if err != nil {
			return err
		}
		return dst.ReplayMessage(id, author, conv, content, t)

	case OpAddInterestUser:
		user, followed, err := requireIDPair(tok)
		if err != nil {
			return err
		}
		return dst.ReplayUserInterestAdd(user, followed)

	case OpRemoveInterestUser:
		user, followed, err := requireIDPair(tok)
		if err != nil {
			return err
		}
		return dst.ReplayUserInterestRemove(user, followed)

	case OpAddInterestConversation:
		user, conv, err := requireIDPair(tok)
		if err != nil {
			return err
		}
		return dst.ReplayConversationInterestAdd(user, conv)

	case OpRemoveInterestConversation:
		user, conv, err := requireIDPair(tok)
		if err != nil {
			return err
		}
		return dst.ReplayConversationInterestRemove(user, conv)

	case OpAddConvoCreator:
		conv, user, err := requireIDPair(tok)
		if err != nil {
			return err
		}
		return dst.ReplayToggleCreator(conv, user, true)

	case OpAddConvoOwner:
		conv, user, err := requireIDPair(tok)
		if err != nil {
			return err
		}
		return dst.ReplayToggleOwner(conv, user, true)

	case OpRemoveConvoOwner:
		conv, user, err := requireIDPair(tok)
		if err != nil {
			return err
		}
		return dst.ReplayToggleOwner(conv, user, false)

	case OpAddConvoMember:
		conv, user, err := requireIDPair(tok)
		if err != nil {
			return err
		}
		return dst.ReplayToggleMember(conv, user, true)

	case OpRemoveConvoMember:
		conv, user, err := requireIDPair(tok)
		if err != nil {
			return err
		}
		return dst.ReplayToggleMember(conv, user, false)

	case OpRemoveConvoToggle:
		conv, user, err := requireIDPair(tok)
		if err != nil {
			return err
		}
		return dst.ReplayToggleRemoved(conv, user)

	default:
		return fmt.Errorf("unknown opcode %q", op)
	}
}

func requireID(tok *Tokenizer) (identity.ID, error) {
	if !tok.HasNext() {
		return identity.Null, fmt.Errorf("expected id, got end of line")
	}
	return identity.Parse(tok.Next())
}

func requireIDPair(tok *Tokenizer) (identity.ID, identity.ID, error) {
	a, err := requireID(tok)
	if err != nil {
		return identity.Null, identity.Null, err
	}
	b, err := requireID(tok)
	if err != nil {
		return identity.Null, identity.Null, err
	}
	return a, b, nil
}

func requireTime(tok *Tokenizer) (model.Time, error) {
	if !tok.HasNext() {
		return 0, fmt.Errorf("expected time, got end of line")
	}
	ms, err := strconv.ParseInt(tok.Next(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time: %w", err)
	}
	return model.Time(ms), nil
}
