package flights

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

// Create godoc
// @Summary Create a flight
// @Tags flights
// @Accept json
// @Produce json
// @Param request body CreateFlightRequest true "Flight"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/flights [post]
func (ctrl *Controller) Create(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	var req CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	f, err := ctrl.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.RespondError(c, "Failed to create flight", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Flight created successfully", f, nil)
}

func (ctrl *Controller) Get(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	f, err := ctrl.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondError(c, "Failed to get flight", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Flight retrieved successfully", f, nil)
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
		response.RespondError(c, "Failed to list flights", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Flights retrieved successfully", list, nil)
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
	f, err := ctrl.service.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		response.RespondError(c, "Failed to update flight status", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Flight status updated", f, nil)
}

// UploadTicket godoc
// @Summary Upload a flight e-ticket
// @Tags flights
// @Accept multipart/form-data
// @Param ticket formData file true "E-ticket"
// @Router /admin/flights/{id}/ticket [post]
func (ctrl *Controller) UploadTicket(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("ticket")
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Ticket file is required", nil, err.Error())
		return
	}
	file, err := fh.Open()
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Unable to read ticket file", nil, err.Error())
		return
	}
	defer file.Close()

	f, err := ctrl.service.UploadTicket(c.Request.Context(), actor, id, fh.Filename, file)
	if err != nil {
		response.RespondError(c, "Failed to upload ticket", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Ticket uploaded successfully", f, nil)
}

func (ctrl *Controller) SendCredentials(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.SendCredentials(c.Request.Context(), actor, id); err != nil {
		response.RespondError(c, "Failed to send credentials", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusAccepted, "Credentials queued for delivery", nil, nil)
}
