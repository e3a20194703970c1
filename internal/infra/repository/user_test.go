//go:build unit

package repository

import (
	"context"
	"testing"

	"salon-booking/internal/infra"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserWriteQueries struct {
	mock.Mock
}

func (m *MockUserWriteQueries) UpdateUserLastLogin(ctx context.Context, db sqlc.DBTX, id uuid.UUID) error {
	args := m.Called(ctx, db, id)
	return args.Error(0)
}

func (m *MockUserWriteQueries) CreateUser(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateUserParams) (uuid.UUID, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestUpdateLastLogin(t *testing.T) {
	testUserID := uuid.New()

	tests := []struct {
		name      string
		mockError error
		wantError bool
	}{
		{name: "success", mockError: nil, wantError: false},
		{name: "database error", mockError: assert.AnError, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockUserWriteQueries)
			mockQueries.On("UpdateUserLastLogin", mock.Anything, mock.Anything, testUserID).Return(tt.mockError)

			repo := NewUserRepository(mockQueries, nil)

			err := repo.UpdateLastLogin(context.Background(), testUserID)

			if tt.wantError {
				assert.Error(t, err)
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
			} else {
				assert.NoError(t, err)
			}
			mockQueries.AssertExpectations(t)
		})
	}
}

func TestCreateUser(t *testing.T) {
	staffID := uuid.New()
	u, err := builder.NewUserBuilder().AsStaff(staffID).WithEmail("Stylist@Example.com").BuildDomain()
	require.NoError(t, err)

	t.Run("success: ロールと紐付けを保存", func(t *testing.T) {
		mockQueries := new(MockUserWriteQueries)
		newID := uuid.New()
		mockQueries.On("CreateUser", mock.Anything, mock.Anything, mock.MatchedBy(func(p sqlc.CreateUserParams) bool {
			return p.Email == "stylist@example.com" &&
				p.Role == "STAFF" &&
				p.StaffID.Valid && uuid.UUID(p.StaffID.Bytes) == staffID &&
				!p.ClientID.Valid &&
				p.IsActive
		})).Return(newID, nil)

		id, err := NewUserRepository(mockQueries, nil).Create(context.Background(), u)

		require.NoError(t, err)
		assert.Equal(t, newID, id)
		mockQueries.AssertExpectations(t)
	})

	t.Run("error: メール重複は DuplicateKey", func(t *testing.T) {
		mockQueries := new(MockUserWriteQueries)
		mockQueries.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).
			Return(uuid.Nil, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_key"})

		_, err := NewUserRepository(mockQueries, nil).Create(context.Background(), u)

		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
		assert.Equal(t, "users_email_lower_key", infra.ConstraintOf(err))
	})
}
