package dispatcher_test

import (
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/model"
)

// MockController is a hand-written stand-in for what mockgen would
// generate from dispatcher.Controller; the module does not run
// mockgen, so this mirrors its usual shape by hand.
type MockController struct {
	ctrl     *gomock.Controller
	recorder *MockControllerMockRecorder
}

type MockControllerMockRecorder struct {
	mock *MockController
}

func NewMockController(ctrl *gomock.Controller) *MockController {
	m := &MockController{ctrl: ctrl}
	m.recorder = &MockControllerMockRecorder{m}
	return m
}

func (m *MockController) EXPECT() *MockControllerMockRecorder { return m.recorder }

func (m *MockController) NewUser(name string) (model.User, error) {
	ret := m.ctrl.Call(m, "NewUser", name)
	return ret[0].(model.User), toError(ret[1])
}
func (mr *MockControllerMockRecorder) NewUser(name interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NewUser", reflect.TypeOf((*MockController)(nil).NewUser), name)
}

func (m *MockController) NewConversation(title string, owner identity.ID) (model.ConversationHeader, error) {
	ret := m.ctrl.Call(m, "NewConversation", title, owner)
	return ret[0].(model.ConversationHeader), toError(ret[1])
}
func (mr *MockControllerMockRecorder) NewConversation(title, owner interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NewConversation", reflect.TypeOf((*MockController)(nil).NewConversation), title, owner)
}

func (m *MockController) NewMessage(author, conversation identity.ID, content string) (model.Message, error) {
	ret := m.ctrl.Call(m, "NewMessage", author, conversation, content)
	return ret[0].(model.Message), toError(ret[1])
}
func (mr *MockControllerMockRecorder) NewMessage(author, conversation, content interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NewMessage", reflect.TypeOf((*MockController)(nil).NewMessage), author, conversation, content)
}

func (m *MockController) NewUserInterest(user, followed identity.ID) ([]identity.ID, error) {
	ret := m.ctrl.Call(m, "NewUserInterest", user, followed)
	return toIDs(ret[0]), toError(ret[1])
}
func (mr *MockControllerMockRecorder) NewUserInterest(user, followed interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NewUserInterest", reflect.TypeOf((*MockController)(nil).NewUserInterest), user, followed)
}

func (m *MockController) RemoveUserInterest(user, followed identity.ID) ([]identity.ID, error) {
	ret := m.ctrl.Call(m, "RemoveUserInterest", user, followed)
	return toIDs(ret[0]), toError(ret[1])
}
func (mr *MockControllerMockRecorder) RemoveUserInterest(user, followed interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveUserInterest", reflect.TypeOf((*MockController)(nil).RemoveUserInterest), user, followed)
}

func (m *MockController) NewConversationInterest(user, conv identity.ID) ([]identity.ID, error) {
	ret := m.ctrl.Call(m, "NewConversationInterest", user, conv)
	return toIDs(ret[0]), toError(ret[1])
}
func (mr *MockControllerMockRecorder) NewConversationInterest(user, conv interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NewConversationInterest", reflect.TypeOf((*MockController)(nil).NewConversationInterest), user, conv)
}

func (m *MockController) RemoveConversationInterest(user, conv identity.ID) ([]identity.ID, error) {
	ret := m.ctrl.Call(m, "RemoveConversationInterest", user, conv)
	return toIDs(ret[0]), toError(ret[1])
}
func (mr *MockControllerMockRecorder) RemoveConversationInterest(user, conv interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveConversationInterest", reflect.TypeOf((*MockController)(nil).RemoveConversationInterest), user, conv)
}

func (m *MockController) NewUpdatedConversation(userID, conv identity.ID, t model.Time) map[identity.ID]model.Time {
	ret := m.ctrl.Call(m, "NewUpdatedConversation", userID, conv, t)
	return toTimeMap(ret[0])
}
func (mr *MockControllerMockRecorder) NewUpdatedConversation(userID, conv, t interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NewUpdatedConversation", reflect.TypeOf((*MockController)(nil).NewUpdatedConversation), userID, conv, t)
}

func (m *MockController) UpdateUsersLastStatusUpdate(userID identity.ID, t model.Time) model.Time {
	ret := m.ctrl.Call(m, "UpdateUsersLastStatusUpdate", userID, t)
	return ret[0].(model.Time)
}
func (mr *MockControllerMockRecorder) UpdateUsersLastStatusUpdate(userID, t interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateUsersLastStatusUpdate", reflect.TypeOf((*MockController)(nil).UpdateUsersLastStatusUpdate), userID, t)
}

func (m *MockController) UpdateUsersUnseenMessagesCount(userID, conv identity.ID, count int32) int32 {
	ret := m.ctrl.Call(m, "UpdateUsersUnseenMessagesCount", userID, conv, count)
	return ret[0].(int32)
}
func (mr *MockControllerMockRecorder) UpdateUsersUnseenMessagesCount(userID, conv, count interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateUsersUnseenMessagesCount", reflect.TypeOf((*MockController)(nil).UpdateUsersUnseenMessagesCount), userID, conv, count)
}

func (m *MockController) ToggleMemberBit(conv, user identity.ID, flag bool) (model.AccessBits, error) {
	ret := m.ctrl.Call(m, "ToggleMemberBit", conv, user, flag)
	return ret[0].(model.AccessBits), toError(ret[1])
}
func (mr *MockControllerMockRecorder) ToggleMemberBit(conv, user, flag interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ToggleMemberBit", reflect.TypeOf((*MockController)(nil).ToggleMemberBit), conv, user, flag)
}

func (m *MockController) ToggleOwnerBit(conv, user identity.ID, flag bool) (model.AccessBits, error) {
	ret := m.ctrl.Call(m, "ToggleOwnerBit", conv, user, flag)
	return ret[0].(model.AccessBits), toError(ret[1])
}
func (mr *MockControllerMockRecorder) ToggleOwnerBit(conv, user, flag interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ToggleOwnerBit", reflect.TypeOf((*MockController)(nil).ToggleOwnerBit), conv, user, flag)
}

func (m *MockController) ToggleCreatorBit(conv, user identity.ID, flag bool) (model.AccessBits, error) {
	ret := m.ctrl.Call(m, "ToggleCreatorBit", conv, user, flag)
	return ret[0].(model.AccessBits), toError(ret[1])
}
func (mr *MockControllerMockRecorder) ToggleCreatorBit(conv, user, flag interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ToggleCreatorBit", reflect.TypeOf((*MockController)(nil).ToggleCreatorBit), conv, user, flag)
}

func (m *MockController) ToggleRemovedBit(conv, user identity.ID) (model.AccessBits, error) {
	ret := m.ctrl.Call(m, "ToggleRemovedBit", conv, user)
	return ret[0].(model.AccessBits), toError(ret[1])
}
func (mr *MockControllerMockRecorder) ToggleRemovedBit(conv, user interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ToggleRemovedBit", reflect.TypeOf((*MockController)(nil).ToggleRemovedBit), conv, user)
}

// MockView is a hand-written stand-in for what mockgen would generate
// from dispatcher.View.
type MockView struct {
	ctrl     *gomock.Controller
	recorder *MockViewMockRecorder
}

type MockViewMockRecorder struct {
	mock *MockView
}

func NewMockView(ctrl *gomock.Controller) *MockView {
	m := &MockView{ctrl: ctrl}
	m.recorder = &MockViewMockRecorder{m}
	return m
}

func (m *MockView) EXPECT() *MockViewMockRecorder { return m.recorder }

func (m *MockView) GetUsers() []model.User {
	ret := m.ctrl.Call(m, "GetUsers")
	if ret[0] == nil {
		return nil
	}
	return ret[0].([]model.User)
}
func (mr *MockViewMockRecorder) GetUsers() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUsers", reflect.TypeOf((*MockView)(nil).GetUsers))
}

func (m *MockView) GetConversations() []model.ConversationHeader {
	ret := m.ctrl.Call(m, "GetConversations")
	if ret[0] == nil {
		return nil
	}
	return ret[0].([]model.ConversationHeader)
}
func (mr *MockViewMockRecorder) GetConversations() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetConversations", reflect.TypeOf((*MockView)(nil).GetConversations))
}

func (m *MockView) GetConversationPayloads(ids []identity.ID) []model.ConversationPayload {
	ret := m.ctrl.Call(m, "GetConversationPayloads", ids)
	if ret[0] == nil {
		return nil
	}
	return ret[0].([]model.ConversationPayload)
}
func (mr *MockViewMockRecorder) GetConversationPayloads(ids interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetConversationPayloads", reflect.TypeOf((*MockView)(nil).GetConversationPayloads), ids)
}

func (m *MockView) GetMessages(ids []identity.ID) []model.Message {
	ret := m.ctrl.Call(m, "GetMessages", ids)
	if ret[0] == nil {
		return nil
	}
	return ret[0].([]model.Message)
}
func (mr *MockViewMockRecorder) GetMessages(ids interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetMessages", reflect.TypeOf((*MockView)(nil).GetMessages), ids)
}

func (m *MockView) GetInfo() model.Info {
	ret := m.ctrl.Call(m, "GetInfo")
	return ret[0].(model.Info)
}
func (mr *MockViewMockRecorder) GetInfo() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetInfo", reflect.TypeOf((*MockView)(nil).GetInfo))
}

func (m *MockView) GetConversationInterests(userID identity.ID) []identity.ID {
	ret := m.ctrl.Call(m, "GetConversationInterests", userID)
	return toIDs(ret[0])
}
func (mr *MockViewMockRecorder) GetConversationInterests(userID interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetConversationInterests", reflect.TypeOf((*MockView)(nil).GetConversationInterests), userID)
}

func (m *MockView) GetUserInterests(userID identity.ID) []identity.ID {
	ret := m.ctrl.Call(m, "GetUserInterests", userID)
	return toIDs(ret[0])
}
func (mr *MockViewMockRecorder) GetUserInterests(userID interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUserInterests", reflect.TypeOf((*MockView)(nil).GetUserInterests), userID)
}

func (m *MockView) GetLastStatusUpdate(userID identity.ID) model.Time {
	ret := m.ctrl.Call(m, "GetLastStatusUpdate", userID)
	return ret[0].(model.Time)
}
func (mr *MockViewMockRecorder) GetLastStatusUpdate(userID interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetLastStatusUpdate", reflect.TypeOf((*MockView)(nil).GetLastStatusUpdate), userID)
}

func (m *MockView) GetUnseenMessagesCount(userID, conv identity.ID) int32 {
	ret := m.ctrl.Call(m, "GetUnseenMessagesCount", userID, conv)
	return ret[0].(int32)
}
func (mr *MockViewMockRecorder) GetUnseenMessagesCount(userID, conv interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUnseenMessagesCount", reflect.TypeOf((*MockView)(nil).GetUnseenMessagesCount), userID, conv)
}

func (m *MockView) GetUserAccessControl(conv, user identity.ID) model.AccessBits {
	ret := m.ctrl.Call(m, "GetUserAccessControl", conv, user)
	return ret[0].(model.AccessBits)
}
func (mr *MockViewMockRecorder) GetUserAccessControl(conv, user interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUserAccessControl", reflect.TypeOf((*MockView)(nil).GetUserAccessControl), conv, user)
}

func (m *MockView) GetUpdatedConversations(userID identity.ID) map[identity.ID]model.Time {
	ret := m.ctrl.Call(m, "GetUpdatedConversations", userID)
	return toTimeMap(ret[0])
}
func (mr *MockViewMockRecorder) GetUpdatedConversations(userID interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUpdatedConversations", reflect.TypeOf((*MockView)(nil).GetUpdatedConversations), userID)
}

func (m *MockView) FindUser(id identity.ID) (model.User, bool) {
	ret := m.ctrl.Call(m, "FindUser", id)
	return ret[0].(model.User), ret[1].(bool)
}
func (mr *MockViewMockRecorder) FindUser(id interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindUser", reflect.TypeOf((*MockView)(nil).FindUser), id)
}

func (m *MockView) FindConversation(id identity.ID) (model.ConversationHeader, bool) {
	ret := m.ctrl.Call(m, "FindConversation", id)
	return ret[0].(model.ConversationHeader), ret[1].(bool)
}
func (mr *MockViewMockRecorder) FindConversation(id interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindConversation", reflect.TypeOf((*MockView)(nil).FindConversation), id)
}

func toError(v interface{}) error {
	if v == nil {
		return nil
	}
	return v.(error)
}

func toIDs(v interface{}) []identity.ID {
	if v == nil {
		return nil
	}
	return v.([]identity.ID)
}

func toTimeMap(v interface{}) map[identity.ID]model.Time {
	if v == nil {
		return nil
	}
	return v.(map[identity.ID]model.Time)
}
