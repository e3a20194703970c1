//go:build unit

package commands

import (
	"context"
	"testing"
	"time"

	"salon-booking/internal/domain/auth"
	"salon-booking/internal/domain/client"
	"salon-booking/internal/domain/user"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/pkg/jwt"
	"salon-booking/internal/pkg/password"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"
	"salon-booking/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserReadStore struct {
	mock.Mock
}

func (m *MockUserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*queries.AuthorizedUserView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*queries.AuthorizedUserView), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

type authFixture struct {
	store    *memstore.Store
	users    *MockUserReadStore
	clock    *clock.MockClock
	jwt      *jwt.Service
	commands AuthCommands
	hash     string
	staffID  uuid.UUID
	view     *queries.AuthorizedUserView
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("password123")
	require.NoError(t, err)

	f := &authFixture{
		store:   memstore.New(),
		users:   &MockUserReadStore{},
		clock:   clock.NewMockClock(time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)),
		hash:    hash,
		staffID: uuid.New(),
	}
	f.jwt = jwt.NewService("test-secret-key-for-unit-tests-only", 15*time.Minute, 24*time.Hour, f.clock)
	f.view = &queries.AuthorizedUserView{
		ID:       uuid.New(),
		Email:    "staff@example.com",
		Role:     user.RoleStaff.String(),
		StaffID:  &f.staffID,
		IsActive: true,
	}
	f.commands = NewAuthCommands(f.store, f.users, f.jwt, hasher)
	return f
}

func credentials(t *testing.T, email, pass string) auth.Credentials {
	t.Helper()
	c, err := auth.NewCredentials(email, pass)
	require.NoError(t, err)
	return c
}

func TestAuthCommands_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success: トークンが発行され最終ログインが記録される", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByEmail", mock.Anything, "staff@example.com").Return(f.view, f.hash, nil).Once()

		res, err := f.commands.Login(ctx, credentials(t, "staff@example.com", "password123"))

		require.NoError(t, err)
		assert.Equal(t, f.view.ID, res.Principal.UserID)
		assert.Equal(t, user.RoleStaff, res.Principal.Role)
		assert.Equal(t, f.clock.Now().Add(15*time.Minute), res.TokenPair.AccessExpiresAt)
		assert.Equal(t, 1, f.store.Logins(f.view.ID))

		claims, err := f.jwt.ValidateToken(res.TokenPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)
		require.NotNil(t, claims.StaffID)
		assert.Equal(t, f.staffID, *claims.StaffID)
		f.users.AssertExpectations(t)
	})

	t.Run("success: 最終ログインの更新失敗はログインを妨げない", func(t *testing.T) {
		f := newAuthFixture(t)
		f.store.FailCommit = assert.AnError
		f.users.On("FindByEmail", mock.Anything, "staff@example.com").Return(f.view, f.hash, nil).Once()

		res, err := f.commands.Login(ctx, credentials(t, "staff@example.com", "password123"))

		require.NoError(t, err)
		assert.NotEmpty(t, res.TokenPair.AccessToken)
		assert.Equal(t, 0, f.store.Logins(f.view.ID))
	})

	t.Run("error: パスワード不一致", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByEmail", mock.Anything, "staff@example.com").Return(f.view, f.hash, nil).Once()

		_, err := f.commands.Login(ctx, credentials(t, "staff@example.com", "wrong-password"))

		assert.True(t, errs.Is(err, ErrInvalidCredentials))
		assert.True(t, errs.Is(err, errs.ErrUnauthorized))
	})

	t.Run("error: 存在しないユーザーは不一致と同じエラー", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByEmail", mock.Anything, "ghost@example.com").
			Return(nil, "", infra.WrapRepoErr("user not found", pgx.ErrNoRows, infra.KindNotFound)).Once()

		_, err := f.commands.Login(ctx, credentials(t, "ghost@example.com", "password123"))

		assert.True(t, errs.Is(err, ErrInvalidCredentials))
	})

	t.Run("error: 無効化されたユーザー", func(t *testing.T) {
		f := newAuthFixture(t)
		inactive := *f.view
		inactive.IsActive = false
		f.users.On("FindByEmail", mock.Anything, "staff@example.com").Return(&inactive, f.hash, nil).Once()

		_, err := f.commands.Login(ctx, credentials(t, "staff@example.com", "password123"))

		assert.True(t, errs.Is(err, ErrUserInactive))
		assert.True(t, errs.Is(err, errs.ErrForbidden))
		assert.Equal(t, 0, f.store.Logins(f.view.ID))
	})
}

func TestAuthCommands_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("success: ロールはストアから読み直される", func(t *testing.T) {
		f := newAuthFixture(t)
		staleToken, _, err := f.jwt.GenerateRefreshToken(user.Principal{UserID: f.view.ID, Role: user.RoleClient})
		require.NoError(t, err)
		f.users.On("FindByID", mock.Anything, f.view.ID).Return(f.view, nil).Once()

		f.clock.Add(time.Hour)
		pair, err := f.commands.RefreshToken(ctx, staleToken)

		require.NoError(t, err)
		claims, err := f.jwt.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.RoleStaff.String(), claims.Role)
		assert.Equal(t, f.clock.Now().Add(24*time.Hour), pair.RefreshExpiresAt)
	})

	t.Run("error: アクセストークンでは更新できない", func(t *testing.T) {
		f := newAuthFixture(t)
		access, _, err := f.jwt.GenerateAccessToken(user.Principal{UserID: f.view.ID, Role: user.RoleStaff})
		require.NoError(t, err)

		_, err = f.commands.RefreshToken(ctx, access)

		assert.True(t, errs.Is(err, ErrTokenValidation))
	})

	t.Run("error: 期限切れのトークン", func(t *testing.T) {
		f := newAuthFixture(t)
		refresh, _, err := f.jwt.GenerateRefreshToken(user.Principal{UserID: f.view.ID, Role: user.RoleStaff})
		require.NoError(t, err)
		f.clock.Add(25 * time.Hour)

		_, err = f.commands.RefreshToken(ctx, refresh)

		assert.True(t, errs.Is(err, errs.ErrUnauthorized))
	})

	t.Run("error: 改ざんされたトークン", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.commands.RefreshToken(ctx, "not-a-token")

		assert.True(t, errs.Is(err, ErrTokenValidation))
	})

	t.Run("error: 削除されたユーザー", func(t *testing.T) {
		f := newAuthFixture(t)
		refresh, _, err := f.jwt.GenerateRefreshToken(user.Principal{UserID: f.view.ID, Role: user.RoleStaff})
		require.NoError(t, err)
		f.users.On("FindByID", mock.Anything, f.view.ID).
			Return(nil, infra.WrapRepoErr("user not found", pgx.ErrNoRows, infra.KindNotFound)).Once()

		_, err = f.commands.RefreshToken(ctx, refresh)

		assert.True(t, errs.Is(err, ErrTokenValidation))
	})
}

func TestAuthCommands_Signup(t *testing.T) {
	ctx := context.Background()
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	input := SignupInput{
		Name:     "Ana Torres",
		Email:    "Ana.Torres@Example.com",
		Phone:    "+1 555 010 0200",
		Password: "password123",
	}

	t.Run("success: 顧客と CLIENT ユーザーを作成してログインする", func(t *testing.T) {
		f := newAuthFixture(t)

		res, err := f.commands.Signup(ctx, input, shared.Actor{IP: "203.0.113.9"})

		require.NoError(t, err)
		require.Len(t, f.store.Clients(), 1)
		cl := f.store.Clients()[0]
		assert.Equal(t, "ana.torres@example.com", cl.Email)

		assert.Equal(t, user.RoleClient, res.Principal.Role)
		require.NotNil(t, res.Principal.ClientID)
		assert.Equal(t, cl.ID, *res.Principal.ClientID)
		assert.Equal(t, "ana.torres@example.com", res.User.Email)

		account, ok := f.store.User("ana.torres@example.com")
		require.True(t, ok)
		assert.Equal(t, res.User.ID, account.ID())
		assert.NoError(t, hasher.Compare(account.PasswordHash(), "password123"))

		claims, err := f.jwt.ValidateToken(res.TokenPair.AccessToken)
		require.NoError(t, err)
		require.NotNil(t, claims.ClientID)
		assert.Equal(t, cl.ID, *claims.ClientID)

		entries := f.store.AuditEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, "user", entries[0].Entity)
		assert.Equal(t, res.User.ID, entries[0].EntityID)
		assert.Equal(t, "203.0.113.9", entries[0].Actor.IP)
	})

	t.Run("success: 予約済みの顧客レコードに紐付ける", func(t *testing.T) {
		f := newAuthFixture(t)
		existing := client.Client{ID: uuid.New(), Name: "Ana", Email: "ana.torres@example.com", PhoneCiphertext: "enc:x"}
		f.store.AddClient(existing)

		res, err := f.commands.Signup(ctx, input, shared.Actor{})

		require.NoError(t, err)
		assert.Len(t, f.store.Clients(), 1)
		require.NotNil(t, res.User.ClientID)
		assert.Equal(t, existing.ID, *res.User.ClientID)
	})

	t.Run("error: 登録済みのメールは ErrEmailTaken", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.commands.Signup(ctx, input, shared.Actor{})
		require.NoError(t, err)

		again := input
		again.Email = "ANA.TORRES@example.com"
		_, err = f.commands.Signup(ctx, again, shared.Actor{})

		assert.True(t, errs.Is(err, ErrEmailTaken))
		assert.True(t, errs.Is(err, errs.ErrConflict))
		assert.Len(t, f.store.AuditEntries(), 1)
	})

	t.Run("error: 重複で失敗した場合は顧客も作られない", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.commands.Signup(ctx, input, shared.Actor{})
		require.NoError(t, err)
		// the client row disappears but the account stays, so only the user insert conflicts
		f.store.RemoveClient("ana.torres@example.com")

		_, err = f.commands.Signup(ctx, input, shared.Actor{})

		assert.True(t, errs.Is(err, ErrEmailTaken))
		assert.Empty(t, f.store.Clients())
	})

	invalid := []struct {
		name   string
		mutate func(*SignupInput)
	}{
		{name: "短いパスワード", mutate: func(in *SignupInput) { in.Password = "short" }},
		{name: "不正な電話番号", mutate: func(in *SignupInput) { in.Phone = "12" }},
		{name: "不正なメール", mutate: func(in *SignupInput) { in.Email = "not-an-email" }},
		{name: "短い名前", mutate: func(in *SignupInput) { in.Name = "A" }},
	}
	for _, tc := range invalid {
		t.Run("error: "+tc.name, func(t *testing.T) {
			f := newAuthFixture(t)
			in := input
			tc.mutate(&in)

			_, err := f.commands.Signup(ctx, in, shared.Actor{})

			assert.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)
			assert.Empty(t, f.store.Clients())
		})
	}
}
