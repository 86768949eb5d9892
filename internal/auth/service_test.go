package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/domain/credential"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepo) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) List(ctx context.Context) ([]*account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepo) LockForUpdate(ctx context.Context, username string) (*account.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) UpdateBalance(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepo) WithTx(tx pgx.Tx) account.Repository {
	args := m.Called(tx)
	return args.Get(0).(account.Repository)
}

type MockCredentialRepo struct {
	mock.Mock
}

func (m *MockCredentialRepo) Create(ctx context.Context, cred *credential.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepo) GetByUsername(ctx context.Context, username string) (*credential.Credential, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credential.Credential), args.Error(1)
}

func (m *MockCredentialRepo) WithTx(tx pgx.Tx) credential.Repository {
	args := m.Called(tx)
	return args.Get(0).(credential.Repository)
}

type serviceFixture struct {
	service        *Service
	mockDB         pgxmock.PgxPoolIface
	accountRepo    *MockAccountRepo
	credentialRepo *MockCredentialRepo
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	accountRepo := &MockAccountRepo{}
	credentialRepo := &MockCredentialRepo{}

	return &serviceFixture{
		service:        NewService(slog.Default(), mockDB, credentialRepo, accountRepo, bcrypt.MinCost),
		mockDB:         mockDB,
		accountRepo:    accountRepo,
		credentialRepo: credentialRepo,
	}
}

func TestService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("success creates account and credential atomically", func(t *testing.T) {
		f := newServiceFixture(t)
		f.mockDB.ExpectBegin()
		f.mockDB.ExpectCommit()

		f.accountRepo.On("WithTx", mock.Anything).Return(f.accountRepo)
		f.accountRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *account.Account) bool {
			return a.Username == "alice" && a.Balance == 0
		})).Return(nil).Once()
		f.credentialRepo.On("WithTx", mock.Anything).Return(f.credentialRepo)
		f.credentialRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *credential.Credential) bool {
			return c.Username == "alice" &&
				bcrypt.CompareHashAndPassword(c.PasswordHash, []byte("s3cret")) == nil
		})).Return(nil).Once()

		acc, err := f.service.Signup(ctx, "alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "alice", acc.Username)
		assert.NoError(t, f.mockDB.ExpectationsWereMet())
		f.accountRepo.AssertExpectations(t)
		f.credentialRepo.AssertExpectations(t)
	})

	t.Run("empty username", func(t *testing.T) {
		f := newServiceFixture(t)

		acc, err := f.service.Signup(ctx, "", "s3cret")
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, account.ErrEmptyUsername)
	})

	t.Run("empty password", func(t *testing.T) {
		f := newServiceFixture(t)

		acc, err := f.service.Signup(ctx, "alice", "")
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})

	t.Run("taken username rolls back", func(t *testing.T) {
		f := newServiceFixture(t)
		f.mockDB.ExpectBegin()
		f.mockDB.ExpectRollback()

		f.accountRepo.On("WithTx", mock.Anything).Return(f.accountRepo)
		f.accountRepo.On("Create", mock.Anything, mock.Anything).
			Return(account.ErrAccountAlreadyExists{Username: "alice"}).Once()

		acc, err := f.service.Signup(ctx, "alice", "s3cret")
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, account.ErrAccountAlreadyExists{})
		assert.NoError(t, f.mockDB.ExpectationsWereMet())
		f.credentialRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("credential insert failure rolls back the account", func(t *testing.T) {
		f := newServiceFixture(t)
		f.mockDB.ExpectBegin()
		f.mockDB.ExpectRollback()

		f.accountRepo.On("WithTx", mock.Anything).Return(f.accountRepo)
		f.accountRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.credentialRepo.On("WithTx", mock.Anything).Return(f.credentialRepo)
		f.credentialRepo.On("Create", mock.Anything, mock.Anything).
			Return(errors.New("db error")).Once()

		acc, err := f.service.Signup(ctx, "alice", "s3cret")
		assert.Nil(t, acc)
		assert.Error(t, err)
		assert.NoError(t, f.mockDB.ExpectationsWereMet())
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		f := newServiceFixture(t)
		f.credentialRepo.On("GetByUsername", mock.Anything, "alice").
			Return(&credential.Credential{Username: "alice", PasswordHash: hash}, nil).Once()

		err := f.service.Login(ctx, "alice", "s3cret")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newServiceFixture(t)
		f.credentialRepo.On("GetByUsername", mock.Anything, "alice").
			Return(&credential.Credential{Username: "alice", PasswordHash: hash}, nil).Once()

		err := f.service.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, credential.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newServiceFixture(t)
		f.credentialRepo.On("GetByUsername", mock.Anything, "ghost").
			Return(nil, credential.ErrInvalidCredentials).Once()

		err := f.service.Login(ctx, "ghost", "s3cret")
		assert.ErrorIs(t, err, credential.ErrInvalidCredentials)
	})
}
