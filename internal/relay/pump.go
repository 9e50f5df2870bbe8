package relay

import (
	"context"
	"time"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/model"
	"github.com/s21platform/codeu-chat/internal/timeline"
)

const (
	pullInterval = 5000 * time.Millisecond
	pullMax      = 32
)

// Replayer is the subset of controller.Controller the pump uses to
// materialize remote entities: the replay entrypoints, which accept
// externally supplied ids/times and never journal-fail the pump.
type Replayer interface {
	ReplayUser(id identity.ID, name string, t model.Time) error
	ReplayConversation(id, owner identity.ID, title string, t model.Time) error
	ReplayMessage(id, author, conv identity.ID, content string, t model.Time) error
}

// Store is the minimal read access the pump needs to decide whether a
// component is already known.
type Store interface {
	HasID(id identity.ID) bool
}

// Pump periodically pulls relay bundles onto the Timeline and pushes
// locally authored messages outward.
type Pump struct {
	client   Client
	store    Store
	dst      Replayer
	tl       *timeline.Timeline
	serverID identity.ID
	secret   model.Secret
	log      *logger_lib.Logger

	lastSeen identity.ID
}

// New creates a Pump. Call Start to schedule its first pull.
func New(client Client, store Store, dst Replayer, tl *timeline.Timeline, serverID identity.ID, secret model.Secret, log *logger_lib.Logger) *Pump {
	return &Pump{client: client, store: store, dst: dst, tl: tl, serverID: serverID, secret: secret, log: log}
}

// Start schedules the first pull immediately; the pump reschedules
// itself every pullInterval thereafter.
func (p *Pump) Start() {
	p.tl.ScheduleNow(p.pullOnce)
}

func (p *Pump) pullOnce() {
	defer p.tl.ScheduleIn(pullInterval, p.pullOnce)

	bundles, err := p.client.Read(context.Background(), p.serverID, p.secret, p.lastSeen, pullMax)
	if err != nil {
		p.logError("pullOnce", err)
		return
	}

	for _, b := range bundles {
		p.applyBundle(b)
		p.lastSeen = b.ID
	}
}

// applyBundle materializes each of a bundle's three components if
// unknown to the store. It reads the message component from
// b.Message, not b.User: the source implementation this design is
// modeled on read the same accessor three times, applying the user
// component in place of the message.
func (p *Pump) applyBundle(b Bundle) {
	if !p.store.HasID(b.User.ID) {
		if err := p.dst.ReplayUser(b.User.ID, b.User.Text, b.User.Time); err != nil {
			p.logError("applyBundle.user", err)
		}
	}
	if !p.store.HasID(b.Conversation.ID) {
		if err := p.dst.ReplayConversation(b.Conversation.ID, b.User.ID, b.Conversation.Text, b.Conversation.Time); err != nil {
			p.logError("applyBundle.conversation", err)
		}
	}
	if !p.store.HasID(b.Message.ID) {
		if err := p.dst.ReplayMessage(b.Message.ID, b.User.ID, b.Conversation.ID, b.Message.Text, b.Message.Time); err != nil {
			p.logError("applyBundle.message", err)
		}
	}
}

// PushMessage schedules an outbound write of a locally authored
// message. Failure is logged; the message remains in the local model
// regardless — the relay is best-effort.
func (p *Pump) PushMessage(user, conv, msg Component) {
	p.tl.ScheduleNow(func() {
		if err := p.client.Write(context.Background(), p.serverID, p.secret, user, conv, msg); err != nil {
			p.logError("PushMessage", err)
		}
	})
}

func (p *Pump) logError(fn string, err error) {
	if p.log == nil {
		return
	}
	p.log.AddFuncName(fn)
	p.log.Error(err.Error())
}
