// Package view exposes read-only projections over the model store:
// lookups, enumeration, and derived counts. Every method is a pure
// read and takes no lock beyond what the store itself needs, since it
// is only ever called from the timeline worker alongside the
// controller.
package view

import (
	"sort"

	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/model"
)

// View wraps a model.Store with the server's read-only API.
type View struct {
	store   *model.Store
	version identity.ID
}

// New creates a View over store, fixing version as the server's build
// identity returned by GetInfo.
func New(store *model.Store, version identity.ID) *View {
	return &View{store: store, version: version}
}

// GetUsers returns all users.
func (v *View) GetUsers() []model.User {
	return v.store.Users()
}

// GetConversations returns all conversation headers.
func (v *View) GetConversations() []model.ConversationHeader {
	return v.store.Conversations()
}

// GetConversationPayloads returns payloads for the given ids, silently
// omitting any id that is not a known conversation.
func (v *View) GetConversationPayloads(ids []identity.ID) []model.ConversationPayload {
	out := make([]model.ConversationPayload, 0, len(ids))
	for _, id := range ids {
		if p, ok := v.store.Payload(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// GetMessages returns messages for the given ids, silently omitting
// any id that is not a known message.
func (v *View) GetMessages(ids []identity.ID) []model.Message {
	out := make([]model.Message, 0, len(ids))
	for _, id := range ids {
		if m, ok := v.store.Message(id); ok {
			out = append(out, m)
		}
	}
	return out
}

// FindUser returns the user for id, or the zero User and false if
// unknown.
func (v *View) FindUser(id identity.ID) (model.User, bool) {
	return v.store.User(id)
}

// FindConversation returns the conversation header for id, or the zero
// header and false if unknown.
func (v *View) FindConversation(id identity.ID) (model.ConversationHeader, bool) {
	return v.store.Conversation(id)
}

// FindMessage returns the message for id, or the zero message and
// false if unknown.
func (v *View) FindMessage(id identity.ID) (model.Message, bool) {
	return v.store.Message(id)
}

// GetConversationInterests returns userID's conversation-interest set,
// empty if the user is unknown.
func (v *View) GetConversationInterests(userID identity.ID) []identity.ID {
	return v.store.ConversationInterests(userID)
}

// GetUserInterests returns userID's user-interest set, empty if the
// user is unknown.
func (v *View) GetUserInterests(userID identity.ID) []identity.ID {
	return v.store.UserInterests(userID)
}

// GetLastStatusUpdate returns userID's last recorded status-update
// time, or Time(0) if never set.
func (v *View) GetLastStatusUpdate(userID identity.ID) model.Time {
	return v.store.LastStatusUpdate(userID)
}

// GetUnseenMessagesCount returns the unseen-message count for
// (userID, conv), 0 if absent.
func (v *View) GetUnseenMessagesCount(userID, conv identity.ID) int32 {
	return v.store.UnseenCount(userID, conv)
}

// GetUserAccessControl returns the access bitfield for (conv, user),
// 0 if absent.
func (v *View) GetUserAccessControl(conv, user identity.ID) model.AccessBits {
	return v.store.AccessBits(conv, user)
}

// GetInfo returns the server's fixed build identity.
func (v *View) GetInfo() model.Info {
	return model.Info{Version: v.version}
}

// GetCounts returns a cheap aggregate snapshot, used only to feed the
// reporting mirror.
func (v *View) GetCounts() model.Counts {
	return v.store.Counts()
}

// GetUpdatedConversations derives, for userID, the most recent message
// time (strictly after userID's last status update) in every
// conversation userID is interested in directly or via a followed
// user's ownership; conversations with no such message are omitted.
func (v *View) GetUpdatedConversations(userID identity.ID) map[identity.ID]model.Time {
	since := v.store.LastStatusUpdate(userID)

	candidates := make(map[identity.ID]struct{})
	for _, conv := range v.store.ConversationInterests(userID) {
		candidates[conv] = struct{}{}
	}

	followed := make(map[identity.ID]struct{})
	for _, u := range v.store.UserInterests(userID) {
		followed[u] = struct{}{}
	}
	if len(followed) > 0 {
		for _, header := range v.store.Conversations() {
			if _, ok := followed[header.Owner]; ok {
				candidates[header.ID] = struct{}{}
			}
		}
	}

	result := make(map[identity.ID]model.Time)
	for conv := range candidates {
		payload, ok := v.store.Payload(conv)
		if !ok {
			continue
		}
		latest, found := latestMessageAfter(v.store, payload, since)
		if found {
			result[conv] = latest
		}
	}
	return result
}

func latestMessageAfter(store *model.Store, payload model.ConversationPayload, since model.Time) (model.Time, bool) {
	var latest model.Time
	found := false
	cur := payload.First
	for cur != identity.Null {
		m, ok := store.Message(cur)
		if !ok {
			break
		}
		if m.Creation > since && (!found || m.Creation > latest) {
			latest = m.Creation
			found = true
		}
		cur = m.Next
	}
	return latest, found
}

// SortedIDs is a small helper for tests and admin surfaces that want a
// deterministic ordering of an id slice; the wire protocol itself
// never requires it (sender order is preserved as-is).
func SortedIDs(ids []identity.ID) []identity.ID {
	out := make([]identity.ID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Generator != out[j].Generator {
			return out[i].Generator < out[j].Generator
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}
