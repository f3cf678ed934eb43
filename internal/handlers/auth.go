package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/auth"
	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/dto"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/service"
)

// AuthHandler handles registration, login, token refresh and logout.
type AuthHandler struct {
	tokens  *auth.TokenManager
	refresh *auth.RefreshStore
	userSvc *service.UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(tokens *auth.TokenManager, refresh *auth.RefreshStore, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{tokens: tokens, refresh: refresh, userSvc: userSvc}
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  dto.TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	h.issueTokens(c, http.StatusCreated, user)
}

// Login godoc
// @Summary      Login with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	h.issueTokens(c, http.StatusOK, user)
}

// Refresh godoc
// @Summary      Rotate a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RefreshRequest  true  "Refresh token"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, ok, err := h.refresh.Consume(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	user, err := h.userSvc.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	h.issueTokens(c, http.StatusOK, user)
}

// Logout godoc
// @Summary      Invalidate a refresh token
// @Tags         auth
// @Accept       json
// @Param        body  body  dto.RefreshRequest  true  "Refresh token"
// @Success      204
// @Failure      400   {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_ = h.refresh.Delete(c.Request.Context(), req.RefreshToken)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) issueTokens(c *gin.Context, status int, user dom.User) {
	access, err := h.tokens.IssueAccess(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	refreshToken, err := h.refresh.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(status, dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(h.tokens.AccessTTL().Seconds()),
		User:         userToResponse(user),
	})
}
