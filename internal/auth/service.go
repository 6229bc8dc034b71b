package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"bookingdesk/internal/documents"
	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/shared/config"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
	ErrUserAlreadyExists  = fmt.Errorf("user already exists: %w", apperror.ErrConflict)
	ErrInvalidToken       = fmt.Errorf("invalid token: %w", apperror.ErrUnauthorized)
)

const issuer = "bookingdesk"

type Renderer interface {
	Render(templateName string, data any) ([]byte, error)
}

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error
	Me(ctx context.Context, userID uint) (*UserResponse, error)
	CreateOrganizer(ctx context.Context, actor users.Actor, req *CreateOrganizerRequest) (*OrganizerCredentials, error)
	CredentialsPDF(creds *OrganizerCredentials) ([]byte, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type service struct {
	repo     users.Repository
	jwt      config.JWTConfig
	loginURL string
	renderer Renderer
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo users.Repository, jwtConfig config.JWTConfig, loginURL string, renderer Renderer, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		jwt:      jwtConfig,
		loginURL: loginURL,
		renderer: renderer,
		log:      logger.OrDefault(log).WithComponent("auth"),
		now:      time.Now,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	user := &users.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     normalizeEmail(req.Email),
		Phone:     req.Phone,
		Role:      users.RoleUser,
	}
	if err := s.createUser(ctx, user, req.Password); err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.log.LogAuthFailure(ctx, "unknown email", "")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !users.CheckPassword(user.Password, req.Password) {
		s.log.LogAuthFailure(ctx, "wrong password", "")
		return nil, ErrInvalidCredentials
	}

	s.log.LogAuthSuccess(ctx, user.ID, "password")
	return s.authResponse(user)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.generateTokenPair(user)
}

func (s *service) ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !users.CheckPassword(user.Password, req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	hashed, err := users.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hashed)
}

func (s *service) Me(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// CreateOrganizer generates a password, stores only its hash and returns
// the plain value once.
func (s *service) CreateOrganizer(ctx context.Context, actor users.Actor, req *CreateOrganizerRequest) (*OrganizerCredentials, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	password, err := users.GeneratePassword(12)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}

	user := &users.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     normalizeEmail(req.Email),
		Phone:     req.Phone,
		Role:      users.RoleOrganizer,
	}
	if err := s.createUser(ctx, user, password); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "organizer created", "user_id", user.ID, "by", actor.ID)
	return &OrganizerCredentials{
		User:     toUserResponse(user),
		Password: password,
		LoginURL: s.loginURL,
	}, nil
}

// CredentialsPDF renders the credentials sheet on the fly; it is never stored
func (s *service) CredentialsPDF(creds *OrganizerCredentials) ([]byte, error) {
	return s.renderer.Render(documents.TemplateOrganizerCredentials, documents.CredentialsContext{
		Name:        strings.TrimSpace(creds.User.FirstName + " " + creds.User.LastName),
		Email:       creds.User.Email,
		Password:    creds.Password,
		Role:        creds.User.Role,
		LoginURL:    creds.LoginURL,
		GeneratedAt: s.now(),
	})
}

func (s *service) createUser(ctx context.Context, user *users.User, password string) error {
	exists, err := s.repo.EmailExists(ctx, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserAlreadyExists
	}

	hashed, err := users.HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.repo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *service) authResponse(user *users.User) (*AuthResponse, error) {
	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.validateToken(tokenString)
}

func (s *service) generateTokenPair(user *users.User) (*TokenPair, error) {
	now := s.now()

	access, err := s.sign(user, TokenTypeAccess, now, s.jwt.JWTExpiresIn)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, TokenTypeRefresh, now, s.jwt.RefreshExpiresIn)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwt.JWTExpiresIn.Seconds()),
	}, nil
}

func (s *service) sign(user *users.User, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.Secret))
}

func (s *service) validateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwt.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
