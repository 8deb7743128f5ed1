package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"unimarket/internal/application/billing/usecases"
	"unimarket/internal/domain/user"
	"unimarket/internal/shared/errors"
	"unimarket/internal/shared/logger"
	"unimarket/internal/shared/utils"
)

// maxIPNBodySize caps the notification body we are willing to read.
const maxIPNBodySize = 1 << 20

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("paidplan", func(fl validator.FieldLevel) bool {
			return user.ParsePlanType(fl.Field().String()).IsPaid()
		})
	}
}

type PaymentHandler struct {
	handleIPNUC         *usecases.HandleIPNUseCase
	startSubscriptionUC *usecases.StartSubscriptionUseCase
	logger              logger.Interface
}

func NewPaymentHandler(
	handleIPNUC *usecases.HandleIPNUseCase,
	startSubscriptionUC *usecases.StartSubscriptionUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		handleIPNUC:         handleIPNUC,
		startSubscriptionUC: startSubscriptionUC,
		logger:              logger,
	}
}

// @Summary		Payment notification
// @Description	Receive an instant payment notification from the card gateway
// @Tags			payments
// @Accept			json
// @Produce		plain
// @Success		200	{string}	string	"OK"
// @Failure		400	{object}	utils.APIResponse	"Malformed notification"
// @Failure		404	{object}	utils.APIResponse	"Unknown order"
// @Failure		500	{object}	utils.APIResponse	"Internal server error"
// @Router			/payments/ipn [post]
func (h *PaymentHandler) HandleIPN(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIPNBodySize))
	if err != nil {
		h.logger.Warnw("failed to read notification body", "error", err, "ip", c.ClientIP())
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := h.handleIPNUC.Execute(c.Request.Context(), usecases.HandleIPNCommand{Body: body}); err != nil {
		if appErr := errors.GetAppError(err); appErr != nil {
			utils.ErrorResponse(c, appErr.Code, appErr.Message)
			return
		}
		h.logger.Errorw("failed to process payment notification", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to process notification")
		return
	}

	// The gateway retries until it sees a literal OK body.
	c.String(http.StatusOK, "OK")
}

type StartSubscriptionRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	PlanType string `json:"plan_type" binding:"required,paidplan"`
}

// @Summary		Start subscription payment
// @Description	Create a pending order and obtain the gateway redirect URL
// @Tags			payments
// @Accept			json
// @Produce		json
// @Param			subscription	body		StartSubscriptionRequest	true	"Subscription data"
// @Success		200				{object}	utils.APIResponse{data=usecases.StartSubscriptionResult}	"Payment started"
// @Failure		400				{object}	utils.APIResponse	"Bad request"
// @Failure		404				{object}	utils.APIResponse	"Unknown user or plan"
// @Failure		500				{object}	utils.APIResponse	"Internal server error"
// @Router			/payments/start [post]
func (h *PaymentHandler) StartSubscription(c *gin.Context) {
	var req StartSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.startSubscriptionUC.Execute(c.Request.Context(), usecases.StartSubscriptionCommand{
		UserID:   req.UserID,
		PlanType: req.PlanType,
	})
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil {
			utils.ErrorResponse(c, appErr.Code, appErr.Message)
			return
		}
		h.logger.Errorw("failed to start subscription payment", "error", err, "user_id", req.UserID)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to start payment")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "payment started", result)
}
