// Package mocks holds testify mocks of the ports interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/ports"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

var (
	_ ports.Gateway         = (*MockGateway)(nil)
	_ ports.PreferenceStore = (*MockPreferenceStore)(nil)
	_ ports.Prompter        = (*MockPrompter)(nil)
)

type MockGateway struct {
	mock.Mock
}

func NewMockGateway(t testingT) *MockGateway {
	m := &MockGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGateway) ListImages(ctx context.Context) ([]domain.ImageSummary, error) {
	args := m.Called(ctx)
	images, _ := args.Get(0).([]domain.ImageSummary)
	return images, args.Error(1)
}

func (m *MockGateway) GetImage(ctx context.Context, id domain.ImageID) (domain.Image, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Image), args.Error(1)
}

func (m *MockGateway) GetMarkerDetail(ctx context.Context, id domain.MarkerID) (domain.MarkerDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.MarkerDetail), args.Error(1)
}

func (m *MockGateway) PostChatMessage(ctx context.Context, id domain.MarkerID, user, text string) (domain.ChatMessage, error) {
	args := m.Called(ctx, id, user, text)
	return args.Get(0).(domain.ChatMessage), args.Error(1)
}

func (m *MockGateway) PostMarker(ctx context.Context, imageID domain.ImageID, marker domain.NewMarker) (domain.Marker, error) {
	args := m.Called(ctx, imageID, marker)
	return args.Get(0).(domain.Marker), args.Error(1)
}

type MockPreferenceStore struct {
	mock.Mock
}

func NewMockPreferenceStore(t testingT) *MockPreferenceStore {
	m := &MockPreferenceStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockPreferenceStore) Put(ctx context.Context, key string, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockPreferenceStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockPrompter struct {
	mock.Mock
}

func NewMockPrompter(t testingT) *MockPrompter {
	m := &MockPrompter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPrompter) AskDisplayName(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockPrompter) AskMarker(ctx context.Context) (ports.MarkerForm, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.MarkerForm), args.Bool(1), args.Error(2)
}

func (m *MockPrompter) Notify(message string) {
	m.Called(message)
}
