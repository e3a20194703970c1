//go:build unit

package api_test

import (
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"salon-booking/internal/handler/api"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"
	"salon-booking/tests/common/httptest"
	queriesmock "salon-booking/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAvailabilityHandler_Get(t *testing.T) {
	staffID := uuid.New()
	svcA, svcB := uuid.New(), uuid.New()
	start := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*queriesmock.MockAvailabilityQueries, func(path string) *nethttptest.ResponseRecorder) {
		ctrl := gomock.NewController(t)
		q := queriesmock.NewMockAvailabilityQueries(ctrl)
		r := newTestRouter()
		r.GET("/availability", api.NewAvailabilityHandler(q).Get)
		return q, func(path string) *nethttptest.ResponseRecorder {
			return httptest.PerformRequest(t, r, http.MethodGet, path, nil, "")
		}
	}

	t.Run("success: カンマ区切りと繰り返しの serviceIds を受け付ける", func(t *testing.T) {
		q, get := setup(t)
		q.EXPECT().ComputeAvailableSlots(gomock.Any(), queries.AvailabilityInput{
			StaffID:    staffID,
			Date:       "2030-01-07",
			ServiceIDs: []uuid.UUID{svcA, svcB},
		}).Return(&queries.AvailabilityView{
			StaffID:     staffID,
			Date:        "2030-01-07",
			DurationMin: 60,
			Slots:       []queries.SlotView{{StartAt: start, EndAt: start.Add(time.Hour)}},
		}, nil)

		rec := get("/availability?staffId=" + staffID.String() + "&date=2030-01-07&serviceIds=" + svcA.String() + "," + svcB.String())

		var res resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &res)
		assert.Equal(t, 60, res.DurationMin)
		assert.Len(t, res.Slots, 1)
		assert.True(t, res.Slots[0].StartAt.Equal(start))
	})

	t.Run("success: 空きなしは理由付き", func(t *testing.T) {
		q, get := setup(t)
		q.EXPECT().ComputeAvailableSlots(gomock.Any(), gomock.Any()).Return(&queries.AvailabilityView{
			StaffID: staffID,
			Date:    "2030-01-07",
			Slots:   []queries.SlotView{},
			Reason:  queries.ReasonStaffUnavailable,
		}, nil)

		rec := get("/availability?staffId=" + staffID.String() + "&date=2030-01-07&serviceIds=" + svcA.String())

		var res resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &res)
		assert.Empty(t, res.Slots)
		assert.Equal(t, queries.ReasonStaffUnavailable, res.Reason)
	})

	t.Run("error: 必須パラメータ欠落と形式不正は 400", func(t *testing.T) {
		_, get := setup(t)
		for _, path := range []string{
			"/availability?date=2030-01-07",
			"/availability?staffId=" + staffID.String(),
			"/availability?staffId=" + staffID.String() + "&date=07-01-2030",
			"/availability?staffId=" + staffID.String() + "&date=2030-01-07&serviceIds=bad",
		} {
			rec := get(path)
			httptest.AssertErrorCode(t, rec, http.StatusBadRequest, httperr.CodeValidation)
		}
	})

	t.Run("error: 存在しないスタッフは 404", func(t *testing.T) {
		q, get := setup(t)
		q.EXPECT().ComputeAvailableSlots(gomock.Any(), gomock.Any()).Return(nil, shared.ErrStaffNotFound)

		rec := get("/availability?staffId=" + staffID.String() + "&date=2030-01-07&serviceIds=" + svcA.String())
		httptest.AssertErrorCode(t, rec, http.StatusNotFound, httperr.CodeNotFound)
	})
}
