package model

import "github.com/s21platform/codeu-chat/internal/identity"

// Store is the single-writer, many-reader arena backing a chat server.
// Every method assumes the caller has already serialized access to it
// (in this server, by only ever calling it from the timeline worker).
type Store struct {
	usersByID   map[identity.ID]User
	usersOrder  []identity.ID
	convByID    map[identity.ID]ConversationHeader
	convOrder   []identity.ID
	payloadByID map[identity.ID]ConversationPayload
	msgByID     map[identity.ID]Message

	userInterests map[identity.ID]*orderedSet // userID -> users of interest
	convInterests map[identity.ID]*orderedSet // userID -> conversations of interest

	access map[identity.ID]map[identity.ID]AccessBits // convID -> userID -> bits

	lastStatusUpdate      map[identity.ID]Time
	unseenCount           map[identity.ID]map[identity.ID]int32 // userID -> convID -> count
	updatedConversations  map[identity.ID]map[identity.ID]Time  // userID -> convID -> time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		usersByID:            make(map[identity.ID]User),
		convByID:             make(map[identity.ID]ConversationHeader),
		payloadByID:          make(map[identity.ID]ConversationPayload),
		msgByID:              make(map[identity.ID]Message),
		userInterests:        make(map[identity.ID]*orderedSet),
		convInterests:        make(map[identity.ID]*orderedSet),
		access:               make(map[identity.ID]map[identity.ID]AccessBits),
		lastStatusUpdate:     make(map[identity.ID]Time),
		unseenCount:          make(map[identity.ID]map[identity.ID]int32),
		updatedConversations: make(map[identity.ID]map[identity.ID]Time),
	}
}

// HasID reports whether id already names any entity (user, conversation
// or message) in the store, enforcing global UUID uniqueness.
func (s *Store) HasID(id identity.ID) bool {
	if _, ok := s.usersByID[id]; ok {
		return true
	}
	if _, ok := s.convByID[id]; ok {
		return true
	}
	if _, ok := s.msgByID[id]; ok {
		return true
	}
	return false
}

// PutUser inserts a new user. The caller must have already checked
// uniqueness via HasID.
func (s *Store) PutUser(u User) {
	s.usersByID[u.ID] = u
	s.usersOrder = append(s.usersOrder, u.ID)
}

// User returns the user for id and whether it was found.
func (s *Store) User(id identity.ID) (User, bool) {
	u, ok := s.usersByID[id]
	return u, ok
}

// Users returns every user in insertion order.
func (s *Store) Users() []User {
	out := make([]User, 0, len(s.usersOrder))
	for _, id := range s.usersOrder {
		out = append(out, s.usersByID[id])
	}
	return out
}

// PutConversation inserts a new conversation header and an empty
// payload. The caller must have already checked uniqueness via HasID.
func (s *Store) PutConversation(h ConversationHeader) {
	s.convByID[h.ID] = h
	s.convOrder = append(s.convOrder, h.ID)
	s.payloadByID[h.ID] = ConversationPayload{ID: h.ID, First: identity.Null, Last: identity.Null}
}

// Conversation returns the header for id and whether it was found.
func (s *Store) Conversation(id identity.ID) (ConversationHeader, bool) {
	c, ok := s.convByID[id]
	return c, ok
}

// Conversations returns every conversation header in insertion order.
func (s *Store) Conversations() []ConversationHeader {
	out := make([]ConversationHeader, 0, len(s.convOrder))
	for _, id := range s.convOrder {
		out = append(out, s.convByID[id])
	}
	return out
}

// Payload returns the linked-list payload for a conversation id.
func (s *Store) Payload(id identity.ID) (ConversationPayload, bool) {
	p, ok := s.payloadByID[id]
	return p, ok
}

// PutMessage appends a message to its conversation's linked list,
// wiring prev/next and updating the payload's first/last pointers.
// The caller must have already checked uniqueness via HasID and that
// the author and conversation exist.
func (s *Store) PutMessage(m Message) Message {
	payload := s.payloadByID[m.Conversation]

	m.Prev = payload.Last
	m.Next = identity.Null

	if payload.Last != identity.Null {
		prev := s.msgByID[payload.Last]
		prev.Next = m.ID
		s.msgByID[prev.ID] = prev
	} else {
		payload.First = m.ID
	}
	payload.Last = m.ID

	s.msgByID[m.ID] = m
	s.payloadByID[m.Conversation] = payload

	return m
}

// Message returns the message for id and whether it was found.
func (s *Store) Message(id identity.ID) (Message, bool) {
	m, ok := s.msgByID[id]
	return m, ok
}

// AddUserInterest adds followed to userID's user-interest set. Returns
// the full current set and whether it changed.
func (s *Store) AddUserInterest(userID, followed identity.ID) ([]identity.ID, bool) {
	set := s.userInterestSet(userID)
	changed := set.Add(followed)
	return set.Items(), changed
}

// RemoveUserInterest removes followed from userID's user-interest set.
func (s *Store) RemoveUserInterest(userID, followed identity.ID) ([]identity.ID, bool) {
	set := s.userInterestSet(userID)
	changed := set.Remove(followed)
	return set.Items(), changed
}

// UserInterests returns userID's current user-interest set.
func (s *Store) UserInterests(userID identity.ID) []identity.ID {
	return s.userInterestSet(userID).Items()
}

func (s *Store) userInterestSet(userID identity.ID) *orderedSet {
	set, ok := s.userInterests[userID]
	if !ok {
		set = newOrderedSet()
		s.userInterests[userID] = set
	}
	return set
}

// AddConversationInterest adds conv to userID's conversation-interest
// set. Returns the full current set and whether it changed.
func (s *Store) AddConversationInterest(userID, conv identity.ID) ([]identity.ID, bool) {
	set := s.convInterestSet(userID)
	changed := set.Add(conv)
	return set.Items(), changed
}

// RemoveConversationInterest removes conv from userID's
// conversation-interest set.
func (s *Store) RemoveConversationInterest(userID, conv identity.ID) ([]identity.ID, bool) {
	set := s.convInterestSet(userID)
	changed := set.Remove(conv)
	return set.Items(), changed
}

// ConversationInterests returns userID's current conversation-interest
// set.
func (s *Store) ConversationInterests(userID identity.ID) []identity.ID {
	return s.convInterestSet(userID).Items()
}

func (s *Store) convInterestSet(userID identity.ID) *orderedSet {
	set, ok := s.convInterests[userID]
	if !ok {
		set = newOrderedSet()
		s.convInterests[userID] = set
	}
	return set
}

// AccessBits returns the bitfield for (conv, user); zero if absent.
func (s *Store) AccessBits(conv, user identity.ID) AccessBits {
	byUser, ok := s.access[conv]
	if !ok {
		return 0
	}
	return byUser[user]
}

// SetAccessBits stores the bitfield for (conv, user).
func (s *Store) SetAccessBits(conv, user identity.ID, bits AccessBits) {
	byUser, ok := s.access[conv]
	if !ok {
		byUser = make(map[identity.ID]AccessBits)
		s.access[conv] = byUser
	}
	byUser[user] = bits
}

// LastStatusUpdate returns userID's last recorded status-update time,
// or Time(0) if never set.
func (s *Store) LastStatusUpdate(userID identity.ID) Time {
	return s.lastStatusUpdate[userID]
}

// SetLastStatusUpdate stores t as userID's last status-update time and
// returns the previous value.
func (s *Store) SetLastStatusUpdate(userID identity.ID, t Time) Time {
	prev := s.lastStatusUpdate[userID]
	s.lastStatusUpdate[userID] = t
	return prev
}

// UnseenCount returns the unseen-message count for (userID, conv), 0
// if absent.
func (s *Store) UnseenCount(userID, conv identity.ID) int32 {
	byConv, ok := s.unseenCount[userID]
	if !ok {
		return 0
	}
	return byConv[conv]
}

// SetUnseenCount replaces the unseen-message count for (userID, conv).
func (s *Store) SetUnseenCount(userID, conv identity.ID, count int32) int32 {
	byConv, ok := s.unseenCount[userID]
	if !ok {
		byConv = make(map[identity.ID]int32)
		s.unseenCount[userID] = byConv
	}
	byConv[conv] = count
	return count
}

// SetUpdatedConversation records t for (userID, conv) in userID's
// stored updated-conversations map and returns a copy of the resulting
// map (a Go map, so it carries no entry order).
func (s *Store) SetUpdatedConversation(userID, conv identity.ID, t Time) map[identity.ID]Time {
	byConv, ok := s.updatedConversations[userID]
	if !ok {
		byConv = make(map[identity.ID]Time)
		s.updatedConversations[userID] = byConv
	}
	byConv[conv] = t

	out := make(map[identity.ID]Time, len(byConv))
	for k, v := range byConv {
		out[k] = v
	}
	return out
}

// Counts is a cheap aggregate snapshot used only to feed the reporting
// mirror; it is not part of the authoritative model's read API proper.
type Counts struct {
	Users         int
	Conversations int
	Messages      int
}

// Counts returns the current aggregate sizes of the primary indices.
func (s *Store) Counts() Counts {
	return Counts{
		Users:         len(s.usersByID),
		Conversations: len(s.convByID),
		Messages:      len(s.msgByID),
	}
}
