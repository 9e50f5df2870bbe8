// Package dispatcher turns one accepted connection into one Timeline
// task: read an opcode, route it through a fixed handler table,
// invoke the Controller or View, and write exactly one response.
package dispatcher

import (
	"errors"
	"fmt"
	"io"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/codeu-chat/internal/controller"
	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/model"
	"github.com/s21platform/codeu-chat/internal/protocol"
	"github.com/s21platform/codeu-chat/internal/relay"
	"github.com/s21platform/codeu-chat/internal/view"
	"github.com/s21platform/codeu-chat/internal/wire"
)

// Controller is the subset of controller.Controller the dispatcher
// calls, kept as an interface so handler tests can substitute a mock.
type Controller interface {
	NewUser(name string) (model.User, error)
	NewConversation(title string, owner identity.ID) (model.ConversationHeader, error)
	NewMessage(author, conversation identity.ID, content string) (model.Message, error)
	NewUserInterest(user, followed identity.ID) ([]identity.ID, error)
	RemoveUserInterest(user, followed identity.ID) ([]identity.ID, error)
	NewConversationInterest(user, conv identity.ID) ([]identity.ID, error)
	RemoveConversationInterest(user, conv identity.ID) ([]identity.ID, error)
	NewUpdatedConversation(userID, conv identity.ID, t model.Time) map[identity.ID]model.Time
	UpdateUsersLastStatusUpdate(userID identity.ID, t model.Time) model.Time
	UpdateUsersUnseenMessagesCount(userID, conv identity.ID, count int32) int32
	ToggleMemberBit(conv, user identity.ID, flag bool) (model.AccessBits, error)
	ToggleOwnerBit(conv, user identity.ID, flag bool) (model.AccessBits, error)
	ToggleCreatorBit(conv, user identity.ID, flag bool) (model.AccessBits, error)
	ToggleRemovedBit(conv, user identity.ID) (model.AccessBits, error)
}

// View is the subset of view.View the dispatcher calls.
type View interface {
	GetUsers() []model.User
	GetConversations() []model.ConversationHeader
	GetConversationPayloads(ids []identity.ID) []model.ConversationPayload
	GetMessages(ids []identity.ID) []model.Message
	GetInfo() model.Info
	GetConversationInterests(userID identity.ID) []identity.ID
	GetUserInterests(userID identity.ID) []identity.ID
	GetLastStatusUpdate(userID identity.ID) model.Time
	GetUnseenMessagesCount(userID, conv identity.ID) int32
	GetUserAccessControl(conv, user identity.ID) model.AccessBits
	GetUpdatedConversations(userID identity.ID) map[identity.ID]model.Time
	FindUser(id identity.ID) (model.User, bool)
	FindConversation(id identity.ID) (model.ConversationHeader, bool)
}

// Relay is the outbound hook a dispatcher uses to push a locally
// created message onward; relay.Pump satisfies it. A nil Relay
// disables push, e.g. when no relay endpoint is configured.
type Relay interface {
	PushMessage(user, conv, msg relay.Component)
}

var (
	_ Controller = (*controller.Controller)(nil)
	_ View       = (*view.View)(nil)
	_ Relay      = (*relay.Pump)(nil)
)

// Dispatcher owns the fixed opcode-to-handler table.
type Dispatcher struct {
	ctrl  Controller
	view  View
	relay Relay
	log   *logger_lib.Logger
}

// New creates a Dispatcher backed by ctrl and v. pushRelay may be nil
// to disable outbound relay push. log may be nil in tests; ambient
// logging is skipped in that case.
func New(ctrl Controller, v View, pushRelay Relay, log *logger_lib.Logger) *Dispatcher {
	return &Dispatcher{ctrl: ctrl, view: v, relay: pushRelay, log: log}
}

// Handle implements the single request/response exchange for one
// connection: read one opcode, dispatch, write one response, and
// return. An unknown opcode is answered with NO_MESSAGE. The NEW_*
// handlers answer an unknown-entity failure (NEW_USER: any controller
// failure) with an absent NULLABLE; any other handler error is logged
// and the response is left unwritten or incomplete. The caller (the Timeline task wrapping this connection) is
// responsible for closing conn afterward.
func (d *Dispatcher) Handle(conn io.ReadWriter) {
	op, err := wire.ReadInt(conn)
	if err != nil {
		d.logError("Handle", fmt.Errorf("reading opcode: %w", err))
		return
	}

	handler, ok := handlers[Opcode(op)]
	if !ok {
		_ = wire.WriteInt(conn, int32(NoMessage))
		return
	}

	if err := handler(d, conn); err != nil {
		d.logError("Handle", fmt.Errorf("opcode %d: %w", op, err))
	}
}

func (d *Dispatcher) logError(fn string, err error) {
	if d.log == nil {
		return
	}
	d.log.AddFuncName(fn)
	d.log.Error(err.Error())
}

type handlerFunc func(d *Dispatcher, conn io.ReadWriter) error

var handlers = map[Opcode]handlerFunc{
	NewUser:                     handleNewUser,
	NewConversation:             handleNewConversation,
	NewMessage:                  handleNewMessage,
	GetUsers:                    handleGetUsers,
	GetAllConversations:         handleGetAllConversations,
	GetConversationsByID:       handleGetConversationsByID,
	GetMessagesByID:             handleGetMessagesByID,
	ServerInfo:                  handleServerInfo,
	GetConversationInterests:    handleGetConversationInterests,
	NewConversationInterest:     handleNewConversationInterest,
	RemoveConversationInterest:  handleRemoveConversationInterest,
	GetUserInterests:            handleGetUserInterests,
	NewUserInterest:             handleNewUserInterest,
	RemoveUserInterest:          handleRemoveUserInterest,
	NewUpdatedConversation:      handleNewUpdatedConversation,
	GetUpdatedConversations:     handleGetUpdatedConversations,
	UpdateUserLastStatusUpdate:  handleUpdateUserLastStatusUpdate,
	GetUserLastStatusUpdate:     handleGetUserLastStatusUpdate,
	GetUserMessageCount:         handleGetUserMessageCount,
	UpdateUserMessageCount:      handleUpdateUserMessageCount,
	ToggleMemberBit:             handleToggleMemberBit,
	ToggleOwnerBit:              handleToggleOwnerBit,
	ToggleCreatorBit:            handleToggleCreatorBit,
	ToggleRemovedBit:            handleToggleRemovedBit,
	GetUserAccessControl:        handleGetUserAccessControl,
}

func handleNewUser(d *Dispatcher, conn io.ReadWriter) error {
	name, err := wire.ReadString(conn)
	if err != nil {
		return err
	}
	u, err := d.ctrl.NewUser(name)
	if err != nil {
		return writeAbsentUser(conn)
	}
	return writePresentUser(conn, u)
}

func handleNewConversation(d *Dispatcher, conn io.ReadWriter) error {
	title, err := wire.ReadString(conn)
	if err != nil {
		return err
	}
	owner, err := protocol.ReadUUID(conn)
	if err != nil {
		return err
	}
	h, err := d.ctrl.NewConversation(title, owner)
	if err != nil {
		if !errors.Is(err, controller.ErrUnknownEntity) {
			return err
		}
		return writeAbsentConversation(conn)
	}
	return writePresentConversation(conn, h)
}

func handleNewMessage(d *Dispatcher, conn io.ReadWriter) error {
	author, err := protocol.ReadUUID(conn)
	if err != nil {
		return err
	}
	conv, err := protocol.ReadUUID(conn)
	if err != nil {
		return err
	}
	content, err := wire.ReadString(conn)
	if err != nil {
		return err
	}
	m, err := d.ctrl.NewMessage(author, conv, content)
	if err != nil {
		if !errors.Is(err, controller.ErrUnknownEntity) {
			return err
		}
		return writeAbsentMessage(conn)
	}
	d.pushRelayMessage(m)
	return writePresentMessage(conn, m)
}

// pushRelayMessage enqueues an outbound relay write for a locally
// created message, per spec: every locally created message triggers
// an outbound (user, conversation, message) pack. A no-op if no relay
// is configured or either referenced entity has since vanished.
func (d *Dispatcher) pushRelayMessage(m model.Message) {
	if d.relay == nil {
		return
	}
	author, ok := d.view.FindUser(m.Author)
	if !ok {
		return
	}
	conv, ok := d.view.FindConversation(m.Conversation)
	if !ok {
		return
	}
	d.relay.PushMessage(
		relay.Component{ID: author.ID, Text: author.Name, Time: author.Creation},
		relay.Component{ID: conv.ID, Text: conv.Title, Time: conv.Creation},
		relay.Component{ID: m.ID, Text: m.Content, Time: m.Creation},
	)
}

func handleGetUsers(d *Dispatcher, conn io.ReadWriter) error {
	if err := wire.WriteInt(conn, int32(GetUsersResponse)); err != nil {
		return err
	}
	return wire.WriteCollection(conn, d.view.GetUsers(), protocol.WriteUser)
}

func handleGetAllConversations(d *Dispatcher, conn io.ReadWriter) error {
	if err := wire.WriteInt(conn, int32(GetAllConversationsResponse)); err != nil {
		return err
	}
	return wire.WriteCollection(conn, d.view.GetConversations(), protocol.WriteConversationHeader)
}

func handleGetConversationsByID(d *Dispatcher, conn io.ReadWriter) error {
	ids, err := protocol.ReadUUIDCollection(conn)
	if err != nil {
		return err
	}
	if err := wire.WriteInt(conn, int32(GetConversationsByIDResponse)); err != nil {
		return err
	}
	return wire.WriteCollection(conn, d.view.GetConversationPayloads(ids), protocol.WriteConversationPayload)
}

func handleGetMessagesByID(d *Dispatcher, conn io.ReadWriter) error {
	ids, err := protocol.ReadUUIDCollection(conn)
	if err != nil {
		return err
	}
	if err := wire.WriteInt(conn, int32(GetMessagesByIDResponse)); err != nil {
		return err
	}
	return wire.WriteCollection(conn, d.view.GetMessages(ids), protocol.WriteMessage)
}

func handleServerInfo(d *Dispatcher, conn io.ReadWriter) error {
	if err := wire.WriteInt(conn, int32(ServerInfoResponse)); err != nil {
		return err
	}
	return protocol.WriteUUID(conn, d.view.GetInfo().Version)
}

func handleGetConversationInterests(d *Dispatcher, conn io.ReadWriter) error {
	user, err := protocol.ReadUUID(conn)
	if err != nil {
		return err
	}
	if err := wire.WriteInt(conn, int32(GetConversationInterestsResponse)); err != nil {
		return err
	}
	return protocol.WriteUUIDCollection(conn, d.view.GetConversationInterests(user))
}

func handleNewConversationInterest(d *Dispatcher, conn io.ReadWriter) error {
	user, conv, err := readUUIDPair(conn)
	if err != nil {
		return err
	}
	set, err := d.ctrl.NewConversationInterest(user, conv)
	if err != nil {
		return err
	}
	if err := wire.WriteInt(conn, int32(NewConversationInterestResponse)); err != nil {
		return err
	}
	return protocol.WriteUUIDCollection(conn, set)
}

func handleRemoveConversationInterest(d *Dispatcher, conn io.ReadWriter) error {
	user, conv, err := readUUIDPair(conn)
	if err != nil {
		return err
	}
	set, err := d.ctrl.RemoveConversationInterest(user, conv)
	if err != nil {
		return err
	}
	if err := wire.WriteInt(conn, int32(RemoveConversationInterestResponse)); err != nil {
		return err
	}
	return protocol.WriteUUIDCollection(conn, set)
}

func handleGetUserInterests(d *Dispatcher, conn io.ReadWriter) error {
	user, err := protocol.ReadUUID(conn)
	if err != nil {
		return err
	}
	if err := wire.WriteInt(conn, int32(GetUserInterestsResponse)); err != nil {
		return err
	}
	return protocol.WriteUUIDCollection(conn, d.view.GetUserInterests(user))
}

func handleNewUserInterest(d *Dispatcher, conn io.ReadWriter) error {
	user, followed, err := readUUIDPair(conn)
	if err != nil {
		return err
	}
	set, err := d.ctrl.NewUserInterest(user, followed)
	if err != nil {
		return err
	}
	if err := wire.WriteInt(conn, int32(NewUserInterestResponse)); err != nil {
		return err
	}
	return protocol.WriteUUIDCollection(conn, set)
}

func handleRemoveUserInterest(d *Dispatcher, conn io.ReadWriter) error {
	user, followed, err := readUUIDPair(conn)
	if err != nil {
		return err
	}
	set, err := d.ctrl.RemoveUserInterest(user, followed)
	if err != nil {
		return err
	}
	if err := wire.WriteInt(conn, int32(RemoveUserInterestResponse)); err != nil {
		return err
	}
	return protocol.WriteUUIDCollection(conn, set)
}

func handleNewUpdatedConversation(d *Dispatcher, conn io.ReadWriter) error {
	user, conv, err := readUUIDPair(conn)
	if err != nil {
		return err
	}
	t, err := protocol.ReadTime(conn)
	if err != nil {
		return err
	}
	result := d.ctrl.NewUpdatedConversation(user, conv, t)
	if err := wire.WriteInt(conn, int32(NewUpdatedConversationResponse)); err != nil {
		return err
	}
	return protocol.WriteUUIDTimeMap(conn, result)
}

func handleGetUpdatedConversations(d *Dispatcher, conn io.ReadWriter) error {
	user, err := protocol.ReadUUID(conn)
	if err != nil {
		return err
	}
	result := d.view.GetUpdatedConversations(user)
	if err := wire.WriteInt(conn, int32(GetUpdatedConversationsResponse)); err != nil {
		return err
	}
	return protocol.WriteUUIDTimeMap(conn, result)
}

func handleUpdateUserLastStatusUpdate(d *Dispatcher, conn io.ReadWriter) error {
	user, err := protocol.ReadUUID(conn)
	if err != nil {
		return err
	}
	t, err := protocol.ReadTime(conn)
	if err != nil {
		return err
	}
	prev := d.ctrl.UpdateUsersLastStatusUpdate(user, t)
	if err := wire.WriteInt(conn, int32(UpdateUserLastStatusUpdateResponse)); err != nil {
		return err
	}
	return protocol.WriteTime(conn, prev)
}

func handleGetUserLastStatusUpdate(d *Dispatcher, conn io.ReadWriter) error {
	user, err := protocol.ReadUUID(conn)
	if err != nil {
		return err
	}
	if err := wire.WriteInt(conn, int32(GetUserLastStatusUpdateResponse)); err != nil {
		return err
	}
	return protocol.WriteTime(conn, d.view.GetLastStatusUpdate(user))
}

func handleGetUserMessageCount(d *Dispatcher, conn io.ReadWriter) error {
	user, conv, err := readUUIDPair(conn)
	if err != nil {
		return err
	}
	if err := wire.WriteInt(conn, int32(GetUserMessageCountResponse)); err != nil {
		return err
	}
	return wire.WriteInt(conn, d.view.GetUnseenMessagesCount(user, conv))
}

func handleUpdateUserMessageCount(d *Dispatcher, conn io.ReadWriter) error {
	user, conv, err := readUUIDPair(conn)
	if err != nil {
		return err
	}
	count, err := wire.ReadInt(conn)
	if err != nil {
		return err
	}
	newCount := d.ctrl.UpdateUsersUnseenMessagesCount(user, conv, count)
	if err := wire.WriteInt(conn, int32(UpdateUserMessageCountResponse)); err != nil {
		return err
	}
	return wire.WriteInt(conn, newCount)
}

func handleToggleMemberBit(d *Dispatcher, conn io.ReadWriter) error {
	conv, user, flag, err := readUUIDPairAndBool(conn)
	if err != nil {
		return err
	}
	bits, err := d.ctrl.ToggleMemberBit(conv, user, flag)
	if err != nil {
		return err
	}
	return writeBitsResponse(conn, ToggleMemberBitResponse, bits)
}

func handleToggleOwnerBit(d *Dispatcher, conn io.ReadWriter) error {
	conv, user, flag, err := readUUIDPairAndBool(conn)
	if err != nil {
		return err
	}
	bits, err := d.ctrl.ToggleOwnerBit(conv, user, flag)
	if err != nil {
		return err
	}
	return writeBitsResponse(conn, ToggleOwnerBitResponse, bits)
}

func handleToggleCreatorBit(d *Dispatcher, conn io.ReadWriter) error {
	conv, user, flag, err := readUUIDPairAndBool(conn)
	if err != nil {
		return err
	}
	bits, err := d.ctrl.ToggleCreatorBit(conv, user, flag)
	if err != nil {
		return err
	}
	return writeBitsResponse(conn, ToggleCreatorBitResponse, bits)
}

func handleToggleRemovedBit(d *Dispatcher, conn io.ReadWriter) error {
	conv, user, err := readUUIDPair(conn)
	if err != nil {
		return err
	}
	bits, err := d.ctrl.ToggleRemovedBit(conv, user)
	if err != nil {
		return err
	}
	return writeBitsResponse(conn, ToggleRemovedBitResponse, bits)
}

func handleGetUserAccessControl(d *Dispatcher, conn io.ReadWriter) error {
	conv, user, err := readUUIDPair(conn)
	if err != nil {
		return err
	}
	bits := d.view.GetUserAccessControl(conv, user)
	return writeBitsResponse(conn, GetUserAccessControlResponse, bits)
}

func writeBitsResponse(conn io.ReadWriter, op Opcode, bits model.AccessBits) error {
	if err := wire.WriteInt(conn, int32(op)); err != nil {
		return err
	}
	return wire.WriteInt(conn, int32(bits))
}

func readUUIDPair(conn io.ReadWriter) (a, b identity.ID, err error) {
	a, err = protocol.ReadUUID(conn)
	if err != nil {
		return
	}
	b, err = protocol.ReadUUID(conn)
	return
}

func readUUIDPairAndBool(conn io.ReadWriter) (a, b identity.ID, flag bool, err error) {
	a, b, err = readUUIDPair(conn)
	if err != nil {
		return
	}
	flag, err = wire.ReadBool(conn)
	return
}

func writePresentUser(conn io.ReadWriter, u model.User) error {
	if err := wire.WriteInt(conn, int32(NewUserResponse)); err != nil {
		return err
	}
	return wire.WriteNullable(conn, u, true, protocol.WriteUser)
}

func writeAbsentUser(conn io.ReadWriter) error {
	if err := wire.WriteInt(conn, int32(NewUserResponse)); err != nil {
		return err
	}
	return wire.WriteNullable(conn, model.User{}, false, protocol.WriteUser)
}

func writePresentConversation(conn io.ReadWriter, h model.ConversationHeader) error {
	if err := wire.WriteInt(conn, int32(NewConversationResponse)); err != nil {
		return err
	}
	return wire.WriteNullable(conn, h, true, protocol.WriteConversationHeader)
}

func writeAbsentConversation(conn io.ReadWriter) error {
	if err := wire.WriteInt(conn, int32(NewConversationResponse)); err != nil {
		return err
	}
	return wire.WriteNullable(conn, model.ConversationHeader{}, false, protocol.WriteConversationHeader)
}

func writePresentMessage(conn io.ReadWriter, m model.Message) error {
	if err := wire.WriteInt(conn, int32(NewMessageResponse)); err != nil {
		return err
	}
	return wire.WriteNullable(conn, m, true, protocol.WriteMessage)
}

func writeAbsentMessage(conn io.ReadWriter) error {
	if err := wire.WriteInt(conn, int32(NewMessageResponse)); err != nil {
		return err
	}
	return wire.WriteNullable(conn, model.Message{}, false, protocol.WriteMessage)
}
