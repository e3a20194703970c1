//go:build unit

package user_test

import (
	"strings"
	"testing"

	"salon-booking/internal/domain/user"
	"salon-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreFields(user.Principal{}, "UserID"),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		expected := user.Principal{Role: user.RoleAdmin}
		if diff := cmp.Diff(expected, actual.Principal(), cmpOpts...); diff != "" {
			t.Errorf("Principal mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, actual.ID(), actual.Principal().UserID)
		assert.True(t, actual.IsActive())
		assert.Nil(t, actual.LastLogin())
	})

	t.Run("メールアドレスは小文字に正規化", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().WithEmail("  Ana.Torres@Example.COM ").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "ana.torres@example.com", actual.Email().Value())
	})

	t.Run("メールアドレス検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "有効なメールアドレスOK",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "空のメールアドレスNG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "@なしNG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalidemail.com") },
				errIs:  user.ErrInvalidEmail,
			},
		})
	})

	t.Run("ロール検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "小文字の admin ロールOK",
				mutate: func(b *builder.UserBuilder) { b.Role = "admin" },
			},
			{
				name:   "無効なロールNG",
				mutate: func(b *builder.UserBuilder) { b.Role = "operator" },
				errIs:  user.ErrInvalidRole,
			},
			{
				name:   "空のロールNG",
				mutate: func(b *builder.UserBuilder) { b.Role = "" },
				errIs:  user.ErrInvalidRole,
			},
		})
	})

	t.Run("ロールと紐付け検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "スタッフ紐付きのSTAFF OK",
				mutate: func(b *builder.UserBuilder) { b.AsStaff(uuid.New()) },
			},
			{
				name:   "顧客紐付きのCLIENT OK",
				mutate: func(b *builder.UserBuilder) { b.AsClient(uuid.New()) },
			},
			{
				name:   "紐付けなしのSTAFF NG",
				mutate: func(b *builder.UserBuilder) { b.Role = string(user.RoleStaff) },
				errIs:  user.ErrRoleLinkMismatch,
			},
			{
				name:   "紐付けなしのCLIENT NG",
				mutate: func(b *builder.UserBuilder) { b.Role = string(user.RoleClient) },
				errIs:  user.ErrRoleLinkMismatch,
			},
		})
	})
}

func TestPasswordPolicy(t *testing.T) {
	_, err := user.NewPassword("short")
	assert.ErrorIs(t, err, user.ErrPasswordTooWeak)

	_, err = user.NewPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, user.ErrPasswordTooLong)

	p, err := user.NewPassword("longenough")
	require.NoError(t, err)
	assert.Equal(t, "longenough", p.Value())
	assert.Equal(t, "[REDACTED]", p.LogValue().String())
}

func TestEmailLogValue(t *testing.T) {
	e, err := user.NewEmail("Lucia@Example.com")
	require.NoError(t, err)

	assert.Equal(t, "lucia@example.com", e.Value())
	assert.Equal(t, "l***@example.com", e.LogValue().String())
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
			} else {
				require.Nil(t, actual)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
