//go:build unit

package queries

import (
	"context"
	"testing"
	"time"

	"salon-booking/internal/domain/user"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAppointmentReadStore struct {
	mock.Mock
}

func (m *MockAppointmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*AppointmentView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentReadStore) List(ctx context.Context, filter AppointmentFilter) ([]AppointmentView, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]AppointmentView), args.Error(1)
}

func viewsStartingAt(n int, first time.Time) []AppointmentView {
	out := make([]AppointmentView, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, AppointmentView{ID: uuid.New(), StartAt: first.Add(-time.Duration(i) * time.Hour)})
	}
	return out
}

func TestAppointmentQueries_List(t *testing.T) {
	ctx := context.Background()
	staffID := uuid.New()
	otherStaffID := uuid.New()
	clientID := uuid.New()

	admin := user.Principal{UserID: uuid.New(), Role: user.RoleAdmin}
	staff := user.Principal{UserID: uuid.New(), Role: user.RoleStaff, StaffID: &staffID}
	cli := user.Principal{UserID: uuid.New(), Role: user.RoleClient, ClientID: &clientID}

	t.Run("success: ADMIN は staffId で絞り込める", func(t *testing.T) {
		store := new(MockAppointmentReadStore)
		q := NewAppointmentQueries(store, time.UTC)

		store.On("List", ctx, mock.MatchedBy(func(f AppointmentFilter) bool {
			return f.StaffID != nil && *f.StaffID == otherStaffID && f.ClientID == nil && f.Limit == DefaultListLimit+1
		})).Return([]AppointmentView{}, nil)

		page, err := q.List(ctx, admin, ListAppointmentsInput{StaffID: &otherStaffID})

		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Empty(t, page.NextCursor)
		store.AssertExpectations(t)
	})

	t.Run("success: STAFF は自分の予約のみ", func(t *testing.T) {
		store := new(MockAppointmentReadStore)
		q := NewAppointmentQueries(store, time.UTC)

		store.On("List", ctx, mock.MatchedBy(func(f AppointmentFilter) bool {
			return f.StaffID != nil && *f.StaffID == staffID
		})).Return([]AppointmentView{}, nil)

		_, err := q.List(ctx, staff, ListAppointmentsInput{})

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("error: STAFF が他のスタッフを指定すると Forbidden", func(t *testing.T) {
		store := new(MockAppointmentReadStore)
		q := NewAppointmentQueries(store, time.UTC)

		_, err := q.List(ctx, staff, ListAppointmentsInput{StaffID: &otherStaffID})

		assert.True(t, errs.Is(err, errs.ErrForbidden))
		store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("success: CLIENT は自分の予約に限定される", func(t *testing.T) {
		store := new(MockAppointmentReadStore)
		q := NewAppointmentQueries(store, time.UTC)

		store.On("List", ctx, mock.MatchedBy(func(f AppointmentFilter) bool {
			return f.ClientID != nil && *f.ClientID == clientID
		})).Return([]AppointmentView{}, nil)

		_, err := q.List(ctx, cli, ListAppointmentsInput{})

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("success: date はローカル日付の範囲になる", func(t *testing.T) {
		loc := time.FixedZone("ECT", -5*3600)
		store := new(MockAppointmentReadStore)
		q := NewAppointmentQueries(store, loc)

		wantFrom := time.Date(2030, 1, 7, 0, 0, 0, 0, loc)
		store.On("List", ctx, mock.MatchedBy(func(f AppointmentFilter) bool {
			return f.From != nil && f.From.Equal(wantFrom) &&
				f.To != nil && f.To.Equal(wantFrom.Add(24*time.Hour))
		})).Return([]AppointmentView{}, nil)

		_, err := q.List(ctx, admin, ListAppointmentsInput{Date: "2030-01-07"})

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("error: date の形式不正", func(t *testing.T) {
		q := NewAppointmentQueries(new(MockAppointmentReadStore), time.UTC)

		_, err := q.List(ctx, admin, ListAppointmentsInput{Date: "07/01/2030"})

		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("success: 次ページがあるとカーソルを返す", func(t *testing.T) {
		store := new(MockAppointmentReadStore)
		q := NewAppointmentQueries(store, time.UTC)
		rows := viewsStartingAt(3, time.Date(2030, 1, 7, 15, 0, 0, 0, time.UTC))

		store.On("List", ctx, mock.MatchedBy(func(f AppointmentFilter) bool { return f.Limit == 3 })).
			Return(rows, nil)

		page, err := q.List(ctx, admin, ListAppointmentsInput{Limit: 2})

		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		require.NotEmpty(t, page.NextCursor)

		afterStart, afterID, err := DecodeAfterCursor(page.NextCursor)
		require.NoError(t, err)
		assert.True(t, afterStart.Equal(rows[1].StartAt))
		assert.Equal(t, rows[1].ID, afterID)
	})

	t.Run("success: カーソルが keyset 条件になる", func(t *testing.T) {
		store := new(MockAppointmentReadStore)
		q := NewAppointmentQueries(store, time.UTC)
		at := time.Date(2030, 1, 7, 9, 30, 0, 0, time.UTC)
		id := uuid.New()

		store.On("List", ctx, mock.MatchedBy(func(f AppointmentFilter) bool {
			return f.AfterStart != nil && f.AfterStart.Equal(at) && f.AfterID != nil && *f.AfterID == id
		})).Return([]AppointmentView{}, nil)

		_, err := q.List(ctx, admin, ListAppointmentsInput{Cursor: EncodeAfterCursor(at, id)})

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("error: 不正なカーソル", func(t *testing.T) {
		q := NewAppointmentQueries(new(MockAppointmentReadStore), time.UTC)

		_, err := q.List(ctx, admin, ListAppointmentsInput{Cursor: "not-a-cursor"})

		assert.True(t, errs.Is(err, ErrInvalidCursor))
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})
}

func TestAppointmentQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	view := &AppointmentView{ID: uuid.New(), StaffID: uuid.New(), ClientID: clientID}

	t.Run("success: 本人の CLIENT は参照できる", func(t *testing.T) {
		store := new(MockAppointmentReadStore)
		store.On("FindByID", ctx, view.ID).Return(view, nil)
		q := NewAppointmentQueries(store, time.UTC)

		got, err := q.GetByID(ctx, user.Principal{Role: user.RoleClient, ClientID: &clientID}, view.ID)

		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("error: 他人の CLIENT は Forbidden", func(t *testing.T) {
		other := uuid.New()
		store := new(MockAppointmentReadStore)
		store.On("FindByID", ctx, view.ID).Return(view, nil)
		q := NewAppointmentQueries(store, time.UTC)

		_, err := q.GetByID(ctx, user.Principal{Role: user.RoleClient, ClientID: &other}, view.ID)

		assert.True(t, errs.Is(err, ErrAppointmentAccess))
	})

	t.Run("error: 存在しない予約は NotFound", func(t *testing.T) {
		id := uuid.New()
		store := new(MockAppointmentReadStore)
		store.On("FindByID", ctx, id).
			Return(nil, infra.WrapRepoErr("appointment not found", assert.AnError, infra.KindNotFound))
		q := NewAppointmentQueries(store, time.UTC)

		_, err := q.GetByID(ctx, user.Principal{Role: user.RoleAdmin}, id)

		assert.True(t, errs.Is(err, ErrAppointmentNotFound))
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, ValidateLimit(0))
	assert.Equal(t, DefaultListLimit, ValidateLimit(-5))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, MaxListLimit, ValidateLimit(MaxListLimit+1))
}
