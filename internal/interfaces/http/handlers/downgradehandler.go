package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"unimarket/internal/application/billing/usecases"
	"unimarket/internal/shared/errors"
	"unimarket/internal/shared/logger"
	"unimarket/internal/shared/utils"
)

type DowngradeHandler struct {
	downgradeUC *usecases.DowngradeUserUseCase
	logger      logger.Interface
}

func NewDowngradeHandler(downgradeUC *usecases.DowngradeUserUseCase, logger logger.Interface) *DowngradeHandler {
	return &DowngradeHandler{
		downgradeUC: downgradeUC,
		logger:      logger,
	}
}

type DowngradeRequest struct {
	Reason string `json:"reason"`
}

// @Summary		Downgrade user
// @Description	Drop a user to the basic plan and cancel the active subscription
// @Tags			admin
// @Accept			json
// @Produce		json
// @Param			id			path		int					true	"User ID"
// @Param			downgrade	body		DowngradeRequest	false	"Downgrade reason"
// @Success		200			{object}	utils.APIResponse	"User downgraded"
// @Failure		400			{object}	utils.APIResponse	"Invalid user id"
// @Failure		404			{object}	utils.APIResponse	"Unknown user"
// @Failure		500			{object}	utils.APIResponse	"Internal server error"
// @Security		Bearer
// @Router			/admin/users/{id}/downgrade [post]
func (h *DowngradeHandler) Downgrade(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || userID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req DowngradeRequest
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "manual downgrade"
	}

	err = h.downgradeUC.Execute(c.Request.Context(), usecases.DowngradeUserCommand{
		UserID: uint(userID),
		Reason: req.Reason,
	})
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil {
			utils.ErrorResponse(c, appErr.Code, appErr.Message)
			return
		}
		h.logger.Errorw("failed to downgrade user", "error", err, "user_id", userID)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to downgrade user")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "user downgraded", gin.H{"user_id": userID})
}
