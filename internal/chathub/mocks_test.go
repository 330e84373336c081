package chathub_test

import (
	"unicrew/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveAccount(account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *MockStorage) GetAccountByID(id string) (*models.Account, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockStorage) CreateApplication(app *models.Application) error {
	args := m.Called(app)
	return args.Error(0)
}

func (m *MockStorage) GetApplicationByID(id string) (*models.Application, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockStorage) ListApplicantsByJob(jobID string) ([]models.Application, error) {
	args := m.Called(jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

func (m *MockStorage) UpdateStatuses(jobID string, userIDs []string, target models.Status) ([]models.Application, error) {
	args := m.Called(jobID, userIDs, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

func (m *MockStorage) EndApplication(applicationID string) (*models.Application, error) {
	args := m.Called(applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.ChatHistory) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetChatHistory(roomID string) ([]models.ChatHistory, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatHistory), args.Error(1)
}

func (m *MockStorage) PublishFrame(roomID string, frame models.Frame) error {
	args := m.Called(roomID, frame)
	return args.Error(0)
}

// SubscribeToAllRooms returns nil; the hub treats that as "no pub/sub
// configured" and skips the listener, letting tests drive PubSubCh directly.
func (m *MockStorage) SubscribeToAllRooms() *redis.PubSub {
	m.Called()
	return nil
}

func (m *MockStorage) SaveReview(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockStorage) ListPendingReviews(accountID, role string) ([]models.Application, error) {
	args := m.Called(accountID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

// MockClient is a test double for the chathub.Client interface. Frames the
// hub delivers land in Recv for assertion.
type MockClient struct {
	accountID   string
	role        string
	displayName string
	roomID      string
	closed      bool
	Recv        chan models.Frame
}

func newMockClient(accountID, roomID string) *MockClient {
	return &MockClient{
		accountID:   accountID,
		role:        models.RoleUser,
		displayName: accountID,
		roomID:      roomID,
		Recv:        make(chan models.Frame, 10), // buffered to keep tests non-blocking
	}
}

func (c *MockClient) GetAccountID() string                { return c.accountID }
func (c *MockClient) GetRole() string                     { return c.role }
func (c *MockClient) GetDisplayName() string              { return c.displayName }
func (c *MockClient) GetRoomID() string                   { return c.roomID }
func (c *MockClient) GetSendChannel() chan<- models.Frame { return c.Recv }
func (c *MockClient) Run()                                {}
func (c *MockClient) Close()                              { c.closed = true }
