package events

import (
	"net/http"

	"bookingdesk/internal/shared/middleware"
	"bookingdesk/internal/shared/utils/params"
	"bookingdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	GetPublishedEvent(c *gin.Context)
	ListEvents(c *gin.Context)
	ListPublishedEvents(c *gin.Context)
	UpdateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	event, err := ctrl.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.RespondError(c, "Failed to create event", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	event, err := ctrl.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondError(c, "Failed to get event", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

func (ctrl *controller) GetPublishedEvent(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	event, err := ctrl.service.GetPublished(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, "Failed to get event", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

func (ctrl *controller) ListEvents(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.List(c.Request.Context(), actor, query)
	if err != nil {
		response.RespondError(c, "Failed to list events", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", result, nil)
}

func (ctrl *controller) ListPublishedEvents(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.ListPublished(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, "Failed to list events", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", result, nil)
}

func (ctrl *controller) UpdateEvent(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	event, err := ctrl.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.RespondError(c, "Failed to update event", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event updated successfully", event, nil)
}

func (ctrl *controller) DeleteEvent(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), actor, id); err != nil {
		response.RespondError(c, "Failed to delete event", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event deleted successfully", nil, nil)
}
