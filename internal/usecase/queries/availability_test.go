//go:build unit

package queries

import (
	"context"
	"testing"
	"time"

	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/domain/catalog"
	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/domain/schedule"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/errs"
	"salon-booking/tests/common/memstore"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type availabilityFixture struct {
	store    *memstore.Store
	clock    *clock.MockClock
	q        AvailabilityQueries
	staffID  uuid.UUID
	haircut  uuid.UUID
	inactive uuid.UUID
	combo    uuid.UUID
}

// 2030-01-07 is a Monday.
const monday = "2030-01-07"

func newAvailabilityFixture(t *testing.T) *availabilityFixture {
	t.Helper()
	f := &availabilityFixture{
		store:    memstore.New(),
		clock:    clock.NewMockClock(time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)),
		staffID:  uuid.New(),
		haircut:  uuid.New(),
		inactive: uuid.New(),
		combo:    uuid.New(),
	}

	mon, err := schedule.NewDayWindow(int(time.Monday), true, 9*60, 18*60)
	require.NoError(t, err)
	sun, err := schedule.NewDayWindow(int(time.Sunday), false, 0, 0)
	require.NoError(t, err)
	weekly, err := schedule.NewWeeklySchedule([]schedule.DayWindow{mon, sun})
	require.NoError(t, err)

	f.store.AddStaff(schedule.Staff{ID: f.staffID, Name: "S1", Active: true, Schedule: weekly})
	f.store.AddService(catalog.Service{ID: f.haircut, Name: "haircut", DurationMin: 60, PriceCents: 2500, Active: true})
	f.store.AddService(catalog.Service{ID: f.inactive, Name: "retired", DurationMin: 30, PriceCents: 1000})
	f.store.AddCombo(catalog.Combo{ID: f.combo, Name: "pack", PriceCents: 2000, Active: true, ServiceIDs: []uuid.UUID{f.haircut}})

	cfg := config.NewTestConfig().Booking
	f.q = NewAvailabilityQueries(f.store, f.clock, cfg, time.UTC)
	return f
}

func (f *availabilityFixture) book(t *testing.T, start time.Time, minutes int) {
	t.Helper()
	slot, err := schedule.NewInterval(start, start.Add(time.Duration(minutes)*time.Minute))
	require.NoError(t, err)
	f.store.AddAppointment(appointment.ReconstructAppointment(
		uuid.New(), uuid.New(), f.staffID, nil, slot, appointment.StatusConfirmed,
		appointment.Notes{}, idempotency.Key(uuid.NewString()), nil, start, start,
	))
}

func TestComputeAvailableSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("success: 15分刻みで既存予約を避ける", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.book(t, time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC), 60)

		view, err := f.q.ComputeAvailableSlots(ctx, AvailabilityInput{
			StaffID:    f.staffID,
			Date:       monday,
			ServiceIDs: []uuid.UUID{f.haircut},
		})

		require.NoError(t, err)
		assert.Empty(t, view.Reason)
		assert.Equal(t, 60, view.DurationMin)
		require.NotEmpty(t, view.Slots)

		first := view.Slots[0]
		last := view.Slots[len(view.Slots)-1]
		assert.Equal(t, time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC), first.StartAt)
		assert.Equal(t, time.Date(2030, 1, 7, 17, 0, 0, 0, time.UTC), last.StartAt)

		busy := schedule.Interval{
			Start: time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2030, 1, 7, 11, 0, 0, 0, time.UTC),
		}
		for i, s := range view.Slots {
			assert.Equal(t, 0, s.StartAt.Minute()%15)
			assert.False(t, schedule.Overlaps(schedule.Interval{Start: s.StartAt, End: s.EndAt}, busy))
			if i > 0 {
				assert.True(t, s.StartAt.After(view.Slots[i-1].StartAt))
			}
		}
		// 09:00 then 11:00..17:00 every 15 minutes
		assert.Len(t, view.Slots, 1+25)
	})

	t.Run("success: コンボは構成サービスの所要時間で計算される", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		view, err := f.q.ComputeAvailableSlots(ctx, AvailabilityInput{
			StaffID: f.staffID,
			Date:    monday,
			ComboID: &f.combo,
		})

		require.NoError(t, err)
		assert.Equal(t, 60, view.DurationMin)
		assert.Len(t, view.Slots, 33)
	})

	t.Run("success: 休業日は空と STAFF_UNAVAILABLE", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		view, err := f.q.ComputeAvailableSlots(ctx, AvailabilityInput{
			StaffID:    f.staffID,
			Date:       "2030-01-06",
			ServiceIDs: []uuid.UUID{f.haircut},
		})

		require.NoError(t, err)
		assert.Empty(t, view.Slots)
		assert.Equal(t, ReasonStaffUnavailable, view.Reason)
	})

	t.Run("success: 休業日は存在しないサービスでも STAFF_UNAVAILABLE", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		view, err := f.q.ComputeAvailableSlots(ctx, AvailabilityInput{
			StaffID:    f.staffID,
			Date:       "2030-01-06",
			ServiceIDs: []uuid.UUID{uuid.New(), f.inactive},
		})

		require.NoError(t, err)
		assert.Empty(t, view.Slots)
		assert.Equal(t, ReasonStaffUnavailable, view.Reason)
		assert.Zero(t, view.DurationMin)
	})

	t.Run("success: スケジュールのない曜日も STAFF_UNAVAILABLE", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		view, err := f.q.ComputeAvailableSlots(ctx, AvailabilityInput{
			StaffID:    f.staffID,
			Date:       "2030-01-08",
			ServiceIDs: []uuid.UUID{f.haircut},
		})

		require.NoError(t, err)
		assert.Equal(t, ReasonStaffUnavailable, view.Reason)
	})

	t.Run("success: 満席は FULLY_BOOKED", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.book(t, time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC), 9*60)

		view, err := f.q.ComputeAvailableSlots(ctx, AvailabilityInput{
			StaffID:    f.staffID,
			Date:       monday,
			ServiceIDs: []uuid.UUID{f.haircut},
		})

		require.NoError(t, err)
		assert.Empty(t, view.Slots)
		assert.Equal(t, ReasonFullyBooked, view.Reason)
	})

	t.Run("success: 当日は現在時刻以前の枠を含まない", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.clock.Set(time.Date(2030, 1, 7, 16, 0, 0, 0, time.UTC))

		view, err := f.q.ComputeAvailableSlots(ctx, AvailabilityInput{
			StaffID:    f.staffID,
			Date:       monday,
			ServiceIDs: []uuid.UUID{f.haircut},
		})

		require.NoError(t, err)
		got := make([]time.Time, 0, len(view.Slots))
		for _, s := range view.Slots {
			got = append(got, s.StartAt)
		}
		want := []time.Time{
			time.Date(2030, 1, 7, 16, 15, 0, 0, time.UTC),
			time.Date(2030, 1, 7, 16, 30, 0, 0, time.UTC),
			time.Date(2030, 1, 7, 16, 45, 0, 0, time.UTC),
			time.Date(2030, 1, 7, 17, 0, 0, 0, time.UTC),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("slots mismatch (-want +got):\n%s", diff)
		}
	})

	errorCases := []struct {
		name  string
		input func(f *availabilityFixture) AvailabilityInput
		class error
	}{
		{
			name: "過去日は ValidationError",
			input: func(f *availabilityFixture) AvailabilityInput {
				return AvailabilityInput{StaffID: f.staffID, Date: "2029-12-31", ServiceIDs: []uuid.UUID{f.haircut}}
			},
			class: errs.ErrValidation,
		},
		{
			name: "日付形式の誤り",
			input: func(f *availabilityFixture) AvailabilityInput {
				return AvailabilityInput{StaffID: f.staffID, Date: "next monday", ServiceIDs: []uuid.UUID{f.haircut}}
			},
			class: errs.ErrValidation,
		},
		{
			name: "サービス未指定",
			input: func(f *availabilityFixture) AvailabilityInput {
				return AvailabilityInput{StaffID: f.staffID, Date: monday}
			},
			class: errs.ErrValidation,
		},
		{
			name: "存在しないスタッフ",
			input: func(f *availabilityFixture) AvailabilityInput {
				return AvailabilityInput{StaffID: uuid.New(), Date: monday, ServiceIDs: []uuid.UUID{f.haircut}}
			},
			class: errs.ErrNotFound,
		},
		{
			name: "無効なサービス",
			input: func(f *availabilityFixture) AvailabilityInput {
				return AvailabilityInput{StaffID: f.staffID, Date: monday, ServiceIDs: []uuid.UUID{f.inactive}}
			},
			class: errs.ErrNotFound,
		},
		{
			name: "存在しないコンボ",
			input: func(f *availabilityFixture) AvailabilityInput {
				id := uuid.New()
				return AvailabilityInput{StaffID: f.staffID, Date: monday, ComboID: &id}
			},
			class: errs.ErrNotFound,
		},
	}

	for _, tc := range errorCases {
		t.Run("error: "+tc.name, func(t *testing.T) {
			f := newAvailabilityFixture(t)

			_, err := f.q.ComputeAvailableSlots(ctx, tc.input(f))

			require.Error(t, err)
			assert.True(t, errs.Is(err, tc.class), "got %v", err)
		})
	}

	t.Run("error: 非アクティブなスタッフは NotFound", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		id := uuid.New()
		f.store.AddStaff(schedule.Staff{ID: id, Active: false})

		_, err := f.q.ComputeAvailableSlots(ctx, AvailabilityInput{StaffID: id, Date: monday, ServiceIDs: []uuid.UUID{f.haircut}})

		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})
}
