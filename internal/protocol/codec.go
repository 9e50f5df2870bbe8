// Package protocol encodes and decodes the domain types (User,
// ConversationHeader, ConversationPayload, Message, UUID, Time, and
// UUID collections and maps) on top of the primitive codec in
// internal/wire.
package protocol

import (
	"io"

	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/model"
	"github.com/s21platform/codeu-chat/internal/wire"
)

// WriteUUID writes id as two INTEGERs.
func WriteUUID(w io.Writer, id identity.ID) error {
	if err := wire.WriteInt(w, int32(id.Generator)); err != nil {
		return err
	}
	return wire.WriteInt(w, int32(id.Sequence))
}

// ReadUUID reads two INTEGERs into an ID.
func ReadUUID(r io.Reader) (identity.ID, error) {
	gen, err := wire.ReadInt(r)
	if err != nil {
		return identity.Null, err
	}
	seq, err := wire.ReadInt(r)
	if err != nil {
		return identity.Null, err
	}
	return identity.ID{Generator: uint32(gen), Sequence: uint32(seq)}, nil
}

// WriteTime writes t as a LONG of milliseconds.
func WriteTime(w io.Writer, t model.Time) error {
	return wire.WriteLong(w, int64(t))
}

// ReadTime reads a LONG into a Time.
func ReadTime(r io.Reader) (model.Time, error) {
	ms, err := wire.ReadLong(r)
	if err != nil {
		return 0, err
	}
	return model.Time(ms), nil
}

// WriteUser writes a User as UUID, STRING name, TIME creation.
func WriteUser(w io.Writer, u model.User) error {
	if err := WriteUUID(w, u.ID); err != nil {
		return err
	}
	if err := wire.WriteString(w, u.Name); err != nil {
		return err
	}
	return WriteTime(w, u.Creation)
}

// ReadUser reads a User in WriteUser's layout.
func ReadUser(r io.Reader) (model.User, error) {
	id, err := ReadUUID(r)
	if err != nil {
		return model.User{}, err
	}
	name, err := wire.ReadString(r)
	if err != nil {
		return model.User{}, err
	}
	t, err := ReadTime(r)
	if err != nil {
		return model.User{}, err
	}
	return model.User{ID: id, Name: name, Creation: t}, nil
}

// WriteConversationHeader writes a ConversationHeader as UUID id,
// UUID owner, STRING title, TIME creation.
func WriteConversationHeader(w io.Writer, h model.ConversationHeader) error {
	if err := WriteUUID(w, h.ID); err != nil {
		return err
	}
	if err := WriteUUID(w, h.Owner); err != nil {
		return err
	}
	if err := wire.WriteString(w, h.Title); err != nil {
		return err
	}
	return WriteTime(w, h.Creation)
}

// ReadConversationHeader reads a ConversationHeader in
// WriteConversationHeader's layout.
func ReadConversationHeader(r io.Reader) (model.ConversationHeader, error) {
	id, err := ReadUUID(r)
	if err != nil {
		return model.ConversationHeader{}, err
	}
	owner, err := ReadUUID(r)
	if err != nil {
		return model.ConversationHeader{}, err
	}
	title, err := wire.ReadString(r)
	if err != nil {
		return model.ConversationHeader{}, err
	}
	t, err := ReadTime(r)
	if err != nil {
		return model.ConversationHeader{}, err
	}
	return model.ConversationHeader{ID: id, Owner: owner, Title: title, Creation: t}, nil
}

// WriteConversationPayload writes a ConversationPayload as UUID id,
// UUID first, UUID last.
func WriteConversationPayload(w io.Writer, p model.ConversationPayload) error {
	if err := WriteUUID(w, p.ID); err != nil {
		return err
	}
	if err := WriteUUID(w, p.First); err != nil {
		return err
	}
	return WriteUUID(w, p.Last)
}

// ReadConversationPayload reads a ConversationPayload in
// WriteConversationPayload's layout.
func ReadConversationPayload(r io.Reader) (model.ConversationPayload, error) {
	id, err := ReadUUID(r)
	if err != nil {
		return model.ConversationPayload{}, err
	}
	first, err := ReadUUID(r)
	if err != nil {
		return model.ConversationPayload{}, err
	}
	last, err := ReadUUID(r)
	if err != nil {
		return model.ConversationPayload{}, err
	}
	return model.ConversationPayload{ID: id, First: first, Last: last}, nil
}

// WriteMessage writes a Message as UUID id, UUID author, UUID
// conversation, STRING content, TIME creation, UUID prev, UUID next.
func WriteMessage(w io.Writer, m model.Message) error {
	if err := WriteUUID(w, m.ID); err != nil {
		return err
	}
	if err := WriteUUID(w, m.Author); err != nil {
		return err
	}
	if err := WriteUUID(w, m.Conversation); err != nil {
		return err
	}
	if err := wire.WriteString(w, m.Content); err != nil {
		return err
	}
	if err := WriteTime(w, m.Creation); err != nil {
		return err
	}
	if err := WriteUUID(w, m.Prev); err != nil {
		return err
	}
	return WriteUUID(w, m.Next)
}

// ReadMessage reads a Message in WriteMessage's layout.
func ReadMessage(r io.Reader) (model.Message, error) {
	id, err := ReadUUID(r)
	if err != nil {
		return model.Message{}, err
	}
	author, err := ReadUUID(r)
	if err != nil {
		return model.Message{}, err
	}
	conv, err := ReadUUID(r)
	if err != nil {
		return model.Message{}, err
	}
	content, err := wire.ReadString(r)
	if err != nil {
		return model.Message{}, err
	}
	t, err := ReadTime(r)
	if err != nil {
		return model.Message{}, err
	}
	prev, err := ReadUUID(r)
	if err != nil {
		return model.Message{}, err
	}
	next, err := ReadUUID(r)
	if err != nil {
		return model.Message{}, err
	}
	return model.Message{ID: id, Author: author, Conversation: conv, Content: content, Creation: t, Prev: prev, Next: next}, nil
}

// WriteUUIDCollection writes a COLLECTION(UUID).
func WriteUUIDCollection(w io.Writer, ids []identity.ID) error {
	return wire.WriteCollection(w, ids, WriteUUID)
}

// ReadUUIDCollection reads a COLLECTION(UUID).
func ReadUUIDCollection(r io.Reader) ([]identity.ID, error) {
	return wire.ReadCollection(r, ReadUUID)
}

// WriteUUIDTimeMap writes a MAP(UUID,TIME) from a Go map, in the
// iteration order Go happens to supply; the wire order of entries is
// therefore not stable between calls.
func WriteUUIDTimeMap(w io.Writer, m map[identity.ID]model.Time) error {
	entries := make([]wire.MapEntry[identity.ID, model.Time], 0, len(m))
	for k, v := range m {
		entries = append(entries, wire.MapEntry[identity.ID, model.Time]{Key: k, Value: v})
	}
	return wire.WriteMap(w, entries, WriteUUID, WriteTime)
}

// ReadUUIDTimeMap reads a MAP(UUID,TIME) into a Go map.
func ReadUUIDTimeMap(r io.Reader) (map[identity.ID]model.Time, error) {
	entries, err := wire.ReadMap(r, ReadUUID, ReadTime)
	if err != nil {
		return nil, err
	}
	out := make(map[identity.ID]model.Time, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}
