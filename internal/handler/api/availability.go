package api

import (
	"net/http"

	reqdto "salon-booking/internal/handler/dto/request"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Available slots
// @Description Bookable start times for a staff member on a local date. Empty slots come with a reason.
// @Tags availability
// @Produce json
// @Param staffId query string true "Staff ID"
// @Param date query string true "Local date YYYY-MM-DD"
// @Param serviceIds query []string false "Service IDs, repeated or comma separated" collectionFormat(multi)
// @Param comboId query string false "Combo ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	var query reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.BadRequest(c, err, reqdto.FieldErrors(err))
		return
	}
	in, err := query.ToInput()
	if err != nil {
		httperr.BadRequest(c, err, []reqdto.FieldError{{Field: "serviceIds", Rule: "uuid"}})
		return
	}

	view, err := h.q.ComputeAvailableSlots(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
