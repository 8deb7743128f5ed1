package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"unimarket/internal/application/billing/usecases"
	"unimarket/internal/shared/logger"
	"unimarket/internal/shared/utils"
)

// RenewalHandler exposes the two renewal triggers. The cron endpoint
// charges everything coming due inside the lookahead window; the admin
// endpoint only touches subscriptions that are already due.
type RenewalHandler struct {
	chargeRenewalsUC *usecases.ChargeRenewalsUseCase
	logger           logger.Interface
}

func NewRenewalHandler(chargeRenewalsUC *usecases.ChargeRenewalsUseCase, logger logger.Interface) *RenewalHandler {
	return &RenewalHandler{
		chargeRenewalsUC: chargeRenewalsUC,
		logger:           logger,
	}
}

// @Summary		Run scheduled renewals
// @Description	Charge all subscriptions coming due within the scheduled lookahead window
// @Tags			renewals
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=usecases.BatchResult}	"Batch completed"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/renewals/run [post]
func (h *RenewalHandler) RunScheduled(c *gin.Context) {
	h.run(c, usecases.ScheduledRenewalLookahead)
}

// @Summary		Run due renewals
// @Description	Charge only subscriptions that are already due, without lookahead
// @Tags			renewals
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=usecases.BatchResult}	"Batch completed"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/admin/renewals/run [post]
func (h *RenewalHandler) RunDue(c *gin.Context) {
	h.run(c, usecases.AdminRenewalLookahead)
}

func (h *RenewalHandler) run(c *gin.Context, lookahead time.Duration) {
	result, err := h.chargeRenewalsUC.Execute(c.Request.Context(), usecases.ChargeRenewalsCommand{
		Lookahead: lookahead,
	})
	if err != nil {
		h.logger.Errorw("renewal batch failed", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to run renewal batch")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "renewal batch completed", result)
}
