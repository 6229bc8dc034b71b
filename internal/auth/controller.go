package auth

import (
	"net/http"

	"bookingdesk/internal/shared/middleware"
	"bookingdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return false
	}
	return true
}

// Register godoc
// @Summary Register a guest account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account"
// @Success 201 {object} response.StandardApiResponse
// @Router /auth/register [post]
func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondError(ctx, "Failed to register user", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "User registered successfully", resp, nil)
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} response.StandardApiResponse
// @Router /auth/login [post]
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		response.RespondError(ctx, "Invalid email or password", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Login successful", resp, nil)
}

func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if !c.bind(ctx, &req) {
		return
	}

	pair, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondError(ctx, "Invalid or expired refresh token", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Token refreshed successfully", pair, nil)
}

// Logout is stateless; clients drop their tokens
func (c *Controller) Logout(ctx *gin.Context) {
	var req LogoutRequest
	_ = ctx.ShouldBindJSON(&req)
	response.RespondJSON(ctx, "success", http.StatusOK, "Logged out successfully", nil, nil)
}

func (c *Controller) ChangePassword(ctx *gin.Context) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req ChangePasswordRequest
	if !c.bind(ctx, &req) {
		return
	}

	if err := c.service.ChangePassword(ctx.Request.Context(), actor.ID, &req); err != nil {
		response.RespondError(ctx, "Failed to change password", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Password changed successfully", nil, nil)
}

func (c *Controller) GetMe(ctx *gin.Context) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	me, err := c.service.Me(ctx.Request.Context(), actor.ID)
	if err != nil {
		response.RespondError(ctx, "Failed to load user", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "User data retrieved successfully", me, nil)
}

// CreateOrganizer godoc
// @Summary Create an organizer account
// @Description Returns the generated credentials as JSON, or as a PDF sheet with ?format=pdf
// @Tags admin
// @Accept json
// @Produce json,application/pdf
// @Param body body CreateOrganizerRequest true "Organizer"
// @Param format query string false "json or pdf"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/organizers [post]
func (c *Controller) CreateOrganizer(ctx *gin.Context) {
	actor, _ := middleware.ActorFromContext(ctx)

	var req CreateOrganizerRequest
	if !c.bind(ctx, &req) {
		return
	}

	creds, err := c.service.CreateOrganizer(ctx.Request.Context(), actor, &req)
	if err != nil {
		response.RespondError(ctx, "Failed to create organizer", err)
		return
	}

	if ctx.Query("format") == "pdf" {
		data, err := c.service.CredentialsPDF(creds)
		if err != nil {
			response.RespondError(ctx, "Organizer created but credentials sheet failed", err)
			return
		}
		response.RespondPDF(ctx, "organizer-"+creds.User.Email+".pdf", data)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Organizer created successfully", creds, nil)
}
