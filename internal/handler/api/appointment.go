package api

import (
	"net/http"

	reqdto "salon-booking/internal/handler/dto/request"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/handler/middleware"
	"salon-booking/internal/usecase/commands"
	"salon-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReplayedHeader marks a response served from the idempotency ledger.
const ReplayedHeader = "Idempotent-Replayed"

type AppointmentHandler struct {
	cmds commands.AppointmentCommands
	q    queries.AppointmentQueries
}

func NewAppointmentHandler(cmds commands.AppointmentCommands, q queries.AppointmentQueries) *AppointmentHandler {
	return &AppointmentHandler{cmds: cmds, q: q}
}

// @Summary Create appointment
// @Description Book an appointment. The idempotency key comes from the body or the Idempotency-Key header.
// @Tags appointments
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body reqdto.CreateAppointmentRequest true "Create appointment request"
// @Success 201 {object} resdto.AppointmentResponse
// @Success 200 {object} resdto.AppointmentResponse "Replayed result"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req reqdto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, reqdto.FieldErrors(err))
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req.ToInput(c.GetHeader(reqdto.IdempotencyKeyHeader)), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		c.Header(ReplayedHeader, "true")
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromAppointmentView(result.Appointment))
}

// @Summary List appointments
// @Description Admins see all appointments, staff their own schedule, clients their own bookings
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param staffId query string false "Staff ID (admin only)"
// @Param date query string false "Local date YYYY-MM-DD"
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.AppointmentListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.Respond(c, commands.ErrAuthenticationRequired)
		return
	}
	var query reqdto.ListAppointmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.BadRequest(c, err, reqdto.FieldErrors(err))
		return
	}

	page, err := h.q.List(c.Request.Context(), principal, query.ToInput())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAppointmentPage(page))
}

// @Summary Get appointment
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.AppointmentResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.Respond(c, commands.ErrAuthenticationRequired)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, err, nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}

// @Summary Cancel appointment
// @Description Owning client, assigned staff or an admin may cancel a pending or confirmed appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body reqdto.CancelAppointmentRequest false "Cancel request"
// @Success 200 {object} resdto.AppointmentResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, err, nil)
		return
	}
	var req reqdto.CancelAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, err, reqdto.FieldErrors(err))
			return
		}
	}

	view, err := h.cmds.Cancel(c.Request.Context(), id, middleware.Actor(c), req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}
