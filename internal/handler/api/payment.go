package api

import (
	"net/http"

	reqdto "salon-booking/internal/handler/dto/request"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/handler/middleware"
	"salon-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds commands.PaymentCommands
}

func NewPaymentHandler(cmds commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{cmds: cmds}
}

// @Summary Record payment
// @Description Record the single payment of an appointment. Staff may only record for their own appointments.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body reqdto.RecordPaymentRequest true "Record payment request"
// @Success 201 {object} resdto.PaymentResponse
// @Success 200 {object} resdto.PaymentResponse "Replayed result"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req reqdto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, reqdto.FieldErrors(err))
		return
	}

	result, err := h.cmds.Record(c.Request.Context(), req.ToInput(c.GetHeader(reqdto.IdempotencyKeyHeader)), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	res, err := resdto.FromPaymentView(result.Payment)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	status := http.StatusCreated
	if result.IsReplayed {
		c.Header(ReplayedHeader, "true")
		status = http.StatusOK
	}
	c.JSON(status, res)
}
