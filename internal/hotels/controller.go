package hotels

import (
	"net/http"
	"strconv"

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

func (ctrl *Controller) CreateHotel(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	var req CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	h, err := ctrl.service.CreateHotel(c.Request.Context(), actor, req)
	if err != nil {
		response.RespondError(c, "Failed to create hotel", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Hotel created successfully", h, nil)
}

func (ctrl *Controller) GetHotel(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	h, err := ctrl.service.GetHotel(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, "Failed to get hotel", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Hotel retrieved successfully", h, nil)
}

func (ctrl *Controller) ListHotels(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	eventID, _ := strconv.ParseUint(c.Query("event_id"), 10, 64)

	list, err := ctrl.service.ListHotels(c.Request.Context(), actor, uint(eventID))
	if err != nil {
		response.RespondError(c, "Failed to list hotels", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Hotels retrieved successfully", list, nil)
}

func (ctrl *Controller) UpdateHotel(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	h, err := ctrl.service.UpdateHotel(c.Request.Context(), actor, id, req)
	if err != nil {
		response.RespondError(c, "Failed to update hotel", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Hotel updated successfully", h, nil)
}

func (ctrl *Controller) DeleteHotel(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.DeleteHotel(c.Request.Context(), actor, id); err != nil {
		response.RespondError(c, "Failed to delete hotel", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Hotel deleted successfully", nil, nil)
}

func (ctrl *Controller) CreatePackage(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	hotelID, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	p, err := ctrl.service.CreatePackage(c.Request.Context(), actor, hotelID, req)
	if err != nil {
		response.RespondError(c, "Failed to create package", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Package created successfully", p, nil)
}

func (ctrl *Controller) ListPackages(c *gin.Context) {
	hotelID, ok := params.ID(c, "id")
	if !ok {
		return
	}
	list, err := ctrl.service.ListPackages(c.Request.Context(), hotelID)
	if err != nil {
		response.RespondError(c, "Failed to list packages", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Packages retrieved successfully", list, nil)
}

func (ctrl *Controller) UpdatePackage(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "packageId")
	if !ok {
		return
	}
	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	p, err := ctrl.service.UpdatePackage(c.Request.Context(), actor, id, req)
	if err != nil {
		response.RespondError(c, "Failed to update package", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Package updated successfully", p, nil)
}

func (ctrl *Controller) DeletePackage(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "packageId")
	if !ok {
		return
	}
	if err := ctrl.service.DeletePackage(c.Request.Context(), actor, id); err != nil {
		response.RespondError(c, "Failed to delete package", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Package deleted successfully", nil, nil)
}
