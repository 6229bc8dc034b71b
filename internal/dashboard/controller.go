package dashboard

import (
	"net/http"

	"bookingdesk/internal/shared/middleware"
	"bookingdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetSummary godoc
// @Summary Role-scoped back-office summary
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse
// @Router /dashboard [get]
func (ctrl *Controller) GetSummary(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	summary, err := ctrl.service.Summary(c.Request.Context(), actor)
	if err != nil {
		response.RespondError(c, "Failed to load dashboard", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Dashboard retrieved successfully", summary, nil)
}
