package transfers

import (
	"net/http"

	"bookingdesk/internal/shared/middleware"
	"bookingdesk/internal/shared/utils/params"
	"bookingdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (ctrl *Controller) Create(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	t, err := ctrl.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.RespondError(c, "Failed to create transfer", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Transfer created successfully", t, nil)
}

func (ctrl *Controller) Get(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	t, err := ctrl.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondError(c, "Failed to get transfer", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Transfer retrieved successfully", t, nil)
}

func (ctrl *Controller) List(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	list, err := ctrl.service.List(c.Request.Context(), actor, q)
	if err != nil {
		response.RespondError(c, "Failed to list transfers", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Transfers retrieved successfully", list, nil)
}

func (ctrl *Controller) UpdateStatus(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	t, err := ctrl.service.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		response.RespondError(c, "Failed to update transfer status", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Transfer status updated", t, nil)
}
