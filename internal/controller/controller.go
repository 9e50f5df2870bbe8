// Package controller owns every state mutation against the model
// store: the live, journaled entrypoints called from dispatcher
// handlers and the relay pump, and the replay entrypoints called only
// by journal.Replay during startup recovery.
package controller

import (
	"errors"
	"fmt"

	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/journal"
	"github.com/s21platform/codeu-chat/internal/model"
)

// ErrUnknownEntity is returned when a create operation references a
// user or conversation that does not exist.
var ErrUnknownEntity = errors.New("controller: unknown entity")

// ErrDuplicate is returned by a replay entrypoint when the supplied id
// already names an entity. The live API never returns it.
var ErrDuplicate = errors.New("controller: duplicate id")

// Clock supplies the current time, injected so tests can control it.
type Clock func() model.Time

// Controller wraps the model store, the id generator, and the journal
// writer, enforcing that every live mutation is atomic with its
// journal append. Every method assumes the caller (the Timeline
// worker) has already serialized access; Controller takes no lock of
// its own.
type Controller struct {
	store *model.Store
	ids   *identity.Generator
	log   *journal.Writer
	now   Clock
}

// New creates a Controller over store, using ids for fresh
// identifiers, log for durability, and now to timestamp live
// mutations.
func New(store *model.Store, ids *identity.Generator, log *journal.Writer, now Clock) *Controller {
	return &Controller{store: store, ids: ids, log: log, now: now}
}

// NewUser assigns a fresh id and the current time, stores the user,
// and journals the creation.
func (c *Controller) NewUser(name string) (model.User, error) {
	u := model.User{ID: c.ids.Next(), Name: name, Creation: c.now()}
	c.store.PutUser(u)
	if err := c.log.AddUser(u.ID, u.Name, u.Creation); err != nil {
		return u, err
	}
	return u, nil
}

// ReplayUser is the replay entrypoint for ADD-USER records: id and
// time are externally supplied and nothing is journaled.
func (c *Controller) ReplayUser(id identity.ID, name string, t model.Time) error {
	if c.store.HasID(id) {
		return fmt.Errorf("%w: user %s", ErrDuplicate, id)
	}
	c.store.PutUser(model.User{ID: id, Name: name, Creation: t})
	c.ids.Observe(id)
	return nil
}

// NewConversation assigns a fresh id and the current time, and grants
// the owner CREATOR, OWNER and MEMBER bits, each toggle journaled as
// its own record after the ADD-CONVERSATION record. Fails with
// ErrUnknownEntity if owner does not exist.
func (c *Controller) NewConversation(title string, owner identity.ID) (model.ConversationHeader, error) {
	if _, ok := c.store.User(owner); !ok {
		return model.ConversationHeader{}, fmt.Errorf("%w: user %s", ErrUnknownEntity, owner)
	}

	h := model.ConversationHeader{ID: c.ids.Next(), Owner: owner, Title: title, Creation: c.now()}
	c.store.PutConversation(h)
	if err := c.log.AddConversation(h.ID, h.Owner, h.Title, h.Creation); err != nil {
		return h, err
	}

	if _, err := c.ToggleCreatorBit(h.ID, owner, true); err != nil {
		return h, err
	}
	if _, err := c.ToggleOwnerBit(h.ID, owner, true); err != nil {
		return h, err
	}
	if _, err := c.ToggleMemberBit(h.ID, owner, true); err != nil {
		return h, err
	}
	return h, nil
}

// ReplayConversation is the replay entrypoint for ADD-CONVERSATION
// records. It does not itself grant access bits: those arrive as
// their own ADD-CONVO-* journal lines immediately following, exactly
// as NewConversation wrote them.
func (c *Controller) ReplayConversation(id, owner identity.ID, title string, t model.Time) error {
	if c.store.HasID(id) {
		return fmt.Errorf("%w: conversation %s", ErrDuplicate, id)
	}
	c.store.PutConversation(model.ConversationHeader{ID: id, Owner: owner, Title: title, Creation: t})
	c.ids.Observe(id)
	return nil
}

// NewMessage assigns a fresh id and the current time, links it onto
// the conversation's list, and journals the creation. Fails with
// ErrUnknownEntity if author or conversation does not exist.
func (c *Controller) NewMessage(author, conversation identity.ID, content string) (model.Message, error) {
	if _, ok := c.store.User(author); !ok {
		return model.Message{}, fmt.Errorf("%w: user %s", ErrUnknownEntity, author)
	}
	if _, ok := c.store.Conversation(conversation); !ok {
		return model.Message{}, fmt.Errorf("%w: conversation %s", ErrUnknownEntity, conversation)
	}

	m := model.Message{ID: c.ids.Next(), Author: author, Conversation: conversation, Content: content, Creation: c.now()}
	m = c.store.PutMessage(m)
	if err := c.log.AddMessage(m.ID, m.Author, m.Conversation, m.Content, m.Creation); err != nil {
		return m, err
	}
	return m, nil
}

// ReplayMessage is the replay entrypoint for ADD-MESSAGE records.
func (c *Controller) ReplayMessage(id, author, conv identity.ID, content string, t model.Time) error {
	if c.store.HasID(id) {
		return fmt.Errorf("%w: message %s", ErrDuplicate, id)
	}
	c.store.PutMessage(model.Message{ID: id, Author: author, Conversation: conv, Content: content, Creation: t})
	c.ids.Observe(id)
	return nil
}

// NewUserInterest adds followed to user's user-interest set,
// idempotently, and journals the change unconditionally. Returns the
// resulting set.
func (c *Controller) NewUserInterest(user, followed identity.ID) ([]identity.ID, error) {
	set, _ := c.store.AddUserInterest(user, followed)
	if err := c.log.AddInterestUser(user, followed); err != nil {
		return set, err
	}
	return set, nil
}

// RemoveUserInterest removes followed from user's user-interest set,
// idempotently.
func (c *Controller) RemoveUserInterest(user, followed identity.ID) ([]identity.ID, error) {
	set, _ := c.store.RemoveUserInterest(user, followed)
	if err := c.log.RemoveInterestUser(user, followed); err != nil {
		return set, err
	}
	return set, nil
}

// ReplayUserInterestAdd is the replay entrypoint for
// ADD-INTEREST-USER records.
func (c *Controller) ReplayUserInterestAdd(user, followed identity.ID) error {
	c.store.AddUserInterest(user, followed)
	return nil
}

// ReplayUserInterestRemove is the replay entrypoint for
// REMOVE-INTEREST-USER records.
func (c *Controller) ReplayUserInterestRemove(user, followed identity.ID) error {
	c.store.RemoveUserInterest(user, followed)
	return nil
}

// NewConversationInterest adds conv to user's conversation-interest
// set, idempotently.
func (c *Controller) NewConversationInterest(user, conv identity.ID) ([]identity.ID, error) {
	set, _ := c.store.AddConversationInterest(user, conv)
	if err := c.log.AddInterestConversation(user, conv); err != nil {
		return set, err
	}
	return set, nil
}

// RemoveConversationInterest removes conv from user's
// conversation-interest set, idempotently.
func (c *Controller) RemoveConversationInterest(user, conv identity.ID) ([]identity.ID, error) {
	set, _ := c.store.RemoveConversationInterest(user, conv)
	if err := c.log.RemoveInterestConversation(user, conv); err != nil {
		return set, err
	}
	return set, nil
}

// ReplayConversationInterestAdd is the replay entrypoint for
// ADD-INTEREST-CONVERSATION records.
func (c *Controller) ReplayConversationInterestAdd(user, conv identity.ID) error {
	c.store.AddConversationInterest(user, conv)
	return nil
}

// ReplayConversationInterestRemove is the replay entrypoint for
// REMOVE-INTEREST-CONVERSATION records.
func (c *Controller) ReplayConversationInterestRemove(user, conv identity.ID) error {
	c.store.RemoveConversationInterest(user, conv)
	return nil
}

// ToggleCreatorBit sets or clears CREATOR on (conv, user) and returns
// the new bitfield. Setting the bit journals an ADD-CONVO-CREATOR
// record; clearing it is not journaled, since the journal has no
// creator-removal record.
func (c *Controller) ToggleCreatorBit(conv, user identity.ID, flag bool) (model.AccessBits, error) {
	bits := c.store.AccessBits(conv, user).Set(model.BitCreator, flag)
	c.store.SetAccessBits(conv, user, bits)
	if flag {
		if err := c.log.AddConvoCreator(conv, user); err != nil {
			return bits, err
		}
	}
	return bits, nil
}

// ReplayToggleCreator is the replay entrypoint for ADD-CONVO-CREATOR
// records (flag is always true on the wire; the opcode has no removal
// counterpart).
func (c *Controller) ReplayToggleCreator(conv, user identity.ID, flag bool) error {
	c.store.SetAccessBits(conv, user, c.store.AccessBits(conv, user).Set(model.BitCreator, flag))
	return nil
}

// ToggleOwnerBit sets or clears OWNER on (conv, user), journals the
// change, and returns the new bitfield.
func (c *Controller) ToggleOwnerBit(conv, user identity.ID, flag bool) (model.AccessBits, error) {
	bits := c.store.AccessBits(conv, user).Set(model.BitOwner, flag)
	c.store.SetAccessBits(conv, user, bits)
	var err error
	if flag {
		err = c.log.AddConvoOwner(conv, user)
	} else {
		err = c.log.RemoveConvoOwner(conv, user)
	}
	if err != nil {
		return bits, err
	}
	return bits, nil
}

// ReplayToggleOwner is the replay entrypoint for ADD-CONVO-OWNER and
// REMOVE-CONVO-OWNER records.
func (c *Controller) ReplayToggleOwner(conv, user identity.ID, flag bool) error {
	c.store.SetAccessBits(conv, user, c.store.AccessBits(conv, user).Set(model.BitOwner, flag))
	return nil
}

// ToggleMemberBit sets or clears MEMBER on (conv, user), journals the
// change, and returns the new bitfield.
func (c *Controller) ToggleMemberBit(conv, user identity.ID, flag bool) (model.AccessBits, error) {
	bits := c.store.AccessBits(conv, user).Set(model.BitMember, flag)
	c.store.SetAccessBits(conv, user, bits)
	var err error
	if flag {
		err = c.log.AddConvoMember(conv, user)
	} else {
		err = c.log.RemoveConvoMember(conv, user)
	}
	if err != nil {
		return bits, err
	}
	return bits, nil
}

// ReplayToggleMember is the replay entrypoint for ADD-CONVO-MEMBER and
// REMOVE-CONVO-MEMBER records.
func (c *Controller) ReplayToggleMember(conv, user identity.ID, flag bool) error {
	c.store.SetAccessBits(conv, user, c.store.AccessBits(conv, user).Set(model.BitMember, flag))
	return nil
}

// ToggleRemovedBit flips REMOVED on (conv, user), journals the change,
// and returns the new bitfield.
func (c *Controller) ToggleRemovedBit(conv, user identity.ID) (model.AccessBits, error) {
	bits := c.store.AccessBits(conv, user).Toggle(model.BitRemoved)
	c.store.SetAccessBits(conv, user, bits)
	if err := c.log.RemoveConvoToggle(conv, user); err != nil {
		return bits, err
	}
	return bits, nil
}

// ReplayToggleRemoved is the replay entrypoint for REMOVE-CONVO-TOGGLE
// records.
func (c *Controller) ReplayToggleRemoved(conv, user identity.ID) error {
	c.store.SetAccessBits(conv, user, c.store.AccessBits(conv, user).Toggle(model.BitRemoved))
	return nil
}

// UpdateUsersLastStatusUpdate sets userID's last status-update time
// and returns the previous value. Not journaled.
func (c *Controller) UpdateUsersLastStatusUpdate(userID identity.ID, t model.Time) model.Time {
	return c.store.SetLastStatusUpdate(userID, t)
}

// UpdateUsersUnseenMessagesCount replaces the unseen-message count for
// (userID, conv) with count, an absolute client-supplied value. Not
// journaled.
func (c *Controller) UpdateUsersUnseenMessagesCount(userID, conv identity.ID, count int32) int32 {
	return c.store.SetUnseenCount(userID, conv, count)
}

// NewUpdatedConversation records t for (userID, conv) in userID's
// stored updated-conversations map and returns the resulting map. Not
// journaled.
func (c *Controller) NewUpdatedConversation(userID, conv identity.ID, t model.Time) map[identity.ID]model.Time {
	return c.store.SetUpdatedConversation(userID, conv, t)
}
