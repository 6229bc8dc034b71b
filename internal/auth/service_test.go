package auth

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookingdesk/internal/documents"
	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/shared/config"
	"bookingdesk/internal/shared/middleware"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testJWT = config.JWTConfig{Secret: "test-secret", JWTExpiresIn: 15 * time.Minute, RefreshExpiresIn: 24 * time.Hour}

func newTestService(t *testing.T) (Service, users.Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}))

	repo := users.NewRepository(db)
	renderer := documents.NewRenderer(documents.Options{Company: documents.Party{Name: "Booking Desk"}, Locale: "fr", Currency: "MAD"})
	return NewService(repo, testJWT, "http://localhost:8080/login", renderer, logger.Discard()), repo
}

func TestRegisterForcesUserRole(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{FirstName: "Nadia", LastName: "Alaoui", Email: " Nadia@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, string(users.RoleUser), resp.User.Role)
	assert.Equal(t, "nadia@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)

	stored, err := repo.GetByEmail(ctx, "nadia@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.True(t, users.CheckPassword(stored.Password, "secret123"))

	_, err = svc.Register(ctx, &RegisterRequest{FirstName: "Nadia", LastName: "Alaoui", Email: "nadia@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, &RegisterRequest{FirstName: "Karim", LastName: "Bennani", Email: "karim@example.com", Password: "secret123"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "karim@example.com", Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.Type)

	_, err = svc.Login(ctx, &LoginRequest{Email: "karim@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRefreshRequiresRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	resp, err := svc.Register(ctx, &RegisterRequest{FirstName: "Hind", LastName: "Chraibi", Email: "hind@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pair, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = svc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	resp, err := svc.Register(ctx, &RegisterRequest{FirstName: "Amine", LastName: "Fassi", Email: "amine@example.com", Password: "secret123"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newsecret"}))
	_, err = svc.Login(ctx, &LoginRequest{Email: "amine@example.com", Password: "newsecret"})
	assert.NoError(t, err)
}

func TestCreateOrganizer(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	req := &CreateOrganizerRequest{FirstName: "Leila", LastName: "Berrada", Email: "leila@events.ma"}

	_, err := svc.CreateOrganizer(ctx, users.Actor{ID: 5, Role: users.RoleOrganizer}, req)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	creds, err := svc.CreateOrganizer(ctx, users.Actor{ID: 1, Role: users.RoleAdmin}, req)
	require.NoError(t, err)
	assert.Equal(t, string(users.RoleOrganizer), creds.User.Role)
	assert.Len(t, creds.Password, 12)
	assert.Equal(t, "http://localhost:8080/login", creds.LoginURL)

	stored, err := repo.GetByEmail(ctx, "leila@events.ma")
	require.NoError(t, err)
	assert.True(t, users.CheckPassword(stored.Password, creds.Password))

	pdf, err := svc.CredentialsPDF(creds)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, err = svc.CreateOrganizer(ctx, users.Actor{ID: 1, Role: users.RoleAdmin}, req)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAccessTokenPassesMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	resp, err := svc.Register(context.Background(), &RegisterRequest{FirstName: "Sara", LastName: "Lahlou", Email: "sara@example.com", Password: "secret123"})
	require.NoError(t, err)

	cfg := &config.Config{JWT: testJWT}
	r := gin.New()
	var got users.Actor
	r.GET("/me", middleware.JWTAuthWithConfig(cfg), func(c *gin.Context) {
		got, _ = middleware.ActorFromContext(c)
		c.Status(http.StatusOK)
	})

	for _, tc := range []struct {
		token string
		code  int
	}{
		{resp.AccessToken, http.StatusOK},
		{resp.RefreshToken, http.StatusUnauthorized},
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.code, w.Code)
	}
	assert.Equal(t, resp.User.ID, got.ID)
	assert.Equal(t, users.RoleUser, got.Role)
}
