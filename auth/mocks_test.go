package auth_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/jobhub/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// testLogger discards everything; for tests that only need a non-nil logger.
type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (string, *auth.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(1).(*auth.User)
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthenticator) VerifySession(ctx context.Context, raw string) (*auth.User, error) {
	args := m.Called(ctx, raw)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockTokenService implements auth.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(identity auth.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (auth.AuthClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(auth.AuthClaims)
	return claims, args.Error(1)
}

// MockUsers mocks the credential store. The embedded repository interface
// satisfies the generic CRUD surface; only the methods under test are wired.
type MockUsers struct {
	repository.Repository[*auth.User]
	mock.Mock
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.User, error) {
	args := m.Called(ctx, tx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByUserID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByUserIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, tx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	record, _ := args.Get(0).(*auth.User)
	return record, args.Error(1)
}

func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, tx, user)
	record, _ := args.Get(0).(*auth.User)
	return record, args.Error(1)
}

// MockSessions mocks the session ledger.
type MockSessions struct {
	repository.Repository[*auth.Session]
	mock.Mock
}

func (m *MockSessions) Track(ctx context.Context, userID uuid.UUID, token string) (*auth.Session, error) {
	args := m.Called(ctx, userID, token)
	record, _ := args.Get(0).(*auth.Session)
	return record, args.Error(1)
}

func (m *MockSessions) TrackTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, token string) (*auth.Session, error) {
	args := m.Called(ctx, tx, userID, token)
	record, _ := args.Get(0).(*auth.Session)
	return record, args.Error(1)
}

func (m *MockSessions) ExistsForUser(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	args := m.Called(ctx, userID, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessions) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessions) DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

func (m *MockSessions) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockRepositoryManager bundles the mocked stores. RunInTx executes the
// callback directly; the mocked stores ignore the transaction handle.
type MockRepositoryManager struct {
	UsersRepo    auth.Users
	SessionsRepo auth.Sessions
}

func (m *MockRepositoryManager) Users() auth.Users       { return m.UsersRepo }
func (m *MockRepositoryManager) Sessions() auth.Sessions { return m.SessionsRepo }

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Validate() error { return nil }
func (m *MockRepositoryManager) MustValidate()   {}

// capturingSink records activity events for assertions.
type capturingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, evt auth.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return nil
}

func (c *capturingSink) Events() []auth.ActivityEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]auth.ActivityEvent, len(c.events))
	copy(out, c.events)
	return out
}

// notFoundErr mirrors what the repository layer returns on a lookup miss.
func notFoundErr() error {
	return errors.New("record not found", errors.CategoryNotFound).
		WithCode(errors.CodeNotFound).
		WithTextCode("RECORD_NOT_FOUND")
}
