//go:build unit

package catalog_test

import (
	"testing"
	"time"

	"salon-booking/internal/domain/catalog"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelection(t *testing.T) {
	a, b, combo := uuid.New(), uuid.New(), uuid.New()

	cases := []struct {
		name    string
		ids     []uuid.UUID
		combo   *uuid.UUID
		max     int
		wantErr error
	}{
		{name: "サービス指定OK", ids: []uuid.UUID{a, b}, max: 20},
		{name: "コンボ指定OK", combo: &combo, max: 20},
		{name: "未指定NG", max: 20, wantErr: catalog.ErrEmptySelection},
		{name: "両方指定NG", ids: []uuid.UUID{a}, combo: &combo, max: 20, wantErr: catalog.ErrAmbiguousSelection},
		{name: "上限超過NG", ids: []uuid.UUID{a, b}, max: 1, wantErr: catalog.ErrTooManyServices},
		{name: "重複NG", ids: []uuid.UUID{a, a}, max: 20, wantErr: catalog.ErrDuplicateService},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := catalog.NewSelection(c.ids, c.combo, c.max)
			if c.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, c.wantErr)
		})
	}
}

func TestResolve(t *testing.T) {
	cut := catalog.Service{ID: uuid.New(), Name: "Haircut", DurationMin: 60, PriceCents: 2000, Active: true}
	color := catalog.Service{ID: uuid.New(), Name: "Color", DurationMin: 90, PriceCents: 6000, Active: true}
	retired := catalog.Service{ID: uuid.New(), Name: "Retired", DurationMin: 30, PriceCents: 1000, Active: false}
	services := map[uuid.UUID]catalog.Service{cut.ID: cut, color.ID: color, retired.ID: retired}

	t.Run("サービスの価格と所要時間を解決", func(t *testing.T) {
		sel, err := catalog.NewSelection([]uuid.UUID{cut.ID, color.ID}, nil, 20)
		require.NoError(t, err)

		lines, err := catalog.Resolve(sel, services, nil)
		require.NoError(t, err)

		want := []catalog.Line{
			{ServiceID: cut.ID, Name: "Haircut", DurationMin: 60, PriceCents: 2000},
			{ServiceID: color.ID, Name: "Color", DurationMin: 90, PriceCents: 6000},
		}
		if diff := cmp.Diff(want, lines); diff != "" {
			t.Errorf("lines mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 150*time.Minute, catalog.TotalDuration(lines))
		assert.Equal(t, int64(8000), catalog.TotalPrice(lines))
	})

	t.Run("無効なサービスNG", func(t *testing.T) {
		sel, err := catalog.NewSelection([]uuid.UUID{cut.ID, retired.ID}, nil, 20)
		require.NoError(t, err)

		_, err = catalog.Resolve(sel, services, nil)
		require.ErrorIs(t, err, catalog.ErrServiceUnavailable)
	})

	t.Run("存在しないサービスNG", func(t *testing.T) {
		sel, err := catalog.NewSelection([]uuid.UUID{uuid.New()}, nil, 20)
		require.NoError(t, err)

		_, err = catalog.Resolve(sel, services, nil)
		require.ErrorIs(t, err, catalog.ErrServiceUnavailable)
	})

	t.Run("コンボ価格を按分", func(t *testing.T) {
		combo := &catalog.Combo{ID: uuid.New(), PriceCents: 7001, Active: true, ServiceIDs: []uuid.UUID{cut.ID, color.ID}}
		sel, err := catalog.NewSelection(nil, &combo.ID, 20)
		require.NoError(t, err)

		lines, err := catalog.Resolve(sel, services, combo)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, int64(1750), lines[0].PriceCents)
		assert.Equal(t, int64(5251), lines[1].PriceCents)
		assert.Equal(t, int64(7001), catalog.TotalPrice(lines))
		assert.Equal(t, 150*time.Minute, catalog.TotalDuration(lines))
	})

	t.Run("無効なコンボNG", func(t *testing.T) {
		combo := &catalog.Combo{ID: uuid.New(), PriceCents: 100, Active: false, ServiceIDs: []uuid.UUID{cut.ID}}
		sel, err := catalog.NewSelection(nil, &combo.ID, 20)
		require.NoError(t, err)

		_, err = catalog.Resolve(sel, services, combo)
		require.ErrorIs(t, err, catalog.ErrComboUnavailable)
	})

	t.Run("所要時間ゼロNG", func(t *testing.T) {
		zero := catalog.Service{ID: uuid.New(), DurationMin: 0, Active: true}
		sel, err := catalog.NewSelection([]uuid.UUID{zero.ID}, nil, 20)
		require.NoError(t, err)

		_, err = catalog.Resolve(sel, map[uuid.UUID]catalog.Service{zero.ID: zero}, nil)
		require.ErrorIs(t, err, catalog.ErrZeroDuration)
	})
}

func TestAllocatePrice(t *testing.T) {
	lines := []catalog.Line{{PriceCents: 0}, {PriceCents: 0}, {PriceCents: 0}}
	out := catalog.AllocatePrice(100, lines)
	assert.Equal(t, []int64{33, 33, 34}, []int64{out[0].PriceCents, out[1].PriceCents, out[2].PriceCents})
	assert.Equal(t, int64(0), lines[0].PriceCents, "input is not mutated")
}
