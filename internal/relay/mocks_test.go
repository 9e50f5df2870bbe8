package relay_test

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/model"
	"github.com/s21platform/codeu-chat/internal/relay"
)

// MockClient is a hand-written stand-in for what mockgen would
// generate from relay.Client; the module does not run mockgen, so this
// mirrors its usual shape by hand.
type MockClient struct {
	ctrl     *gomock.Controller
	recorder *MockClientMockRecorder
}

type MockClientMockRecorder struct {
	mock *MockClient
}

func NewMockClient(ctrl *gomock.Controller) *MockClient {
	m := &MockClient{ctrl: ctrl}
	m.recorder = &MockClientMockRecorder{m}
	return m
}

func (m *MockClient) EXPECT() *MockClientMockRecorder { return m.recorder }

func (m *MockClient) Read(ctx context.Context, serverID identity.ID, secret model.Secret, since identity.ID, max int) ([]relay.Bundle, error) {
	ret := m.ctrl.Call(m, "Read", ctx, serverID, secret, since, max)
	var bundles []relay.Bundle
	if ret[0] != nil {
		bundles = ret[0].([]relay.Bundle)
	}
	var err error
	if ret[1] != nil {
		err = ret[1].(error)
	}
	return bundles, err
}
func (mr *MockClientMockRecorder) Read(ctx, serverID, secret, since, max interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*MockClient)(nil).Read), ctx, serverID, secret, since, max)
}

func (m *MockClient) Write(ctx context.Context, serverID identity.ID, secret model.Secret, user, conversation, message relay.Component) error {
	ret := m.ctrl.Call(m, "Write", ctx, serverID, secret, user, conversation, message)
	if ret[0] == nil {
		return nil
	}
	return ret[0].(error)
}
func (mr *MockClientMockRecorder) Write(ctx, serverID, secret, user, conversation, message interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Write", reflect.TypeOf((*MockClient)(nil).Write), ctx, serverID, secret, user, conversation, message)
}
