package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid registration details", Details: []string{err.Error()}})
		return
	}

	resp, err := c.authService.Register(req)
	if errors.Is(err, service.ErrUsernameTaken) {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Username is already taken"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Registration failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to register"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Login godoc
// @Summary Log in with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Username and password are required", Details: []string{err.Error()}})
		return
	}

	resp, err := c.authService.Login(req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid username or password"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Login failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to log in"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Current user
// @Description Resolves the bearer token to the authenticated user.
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.UserDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	token := bearerToken(ctx)
	if token == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
		return
	}

	user, err := c.authService.GetUserFromToken(token)
	if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrUserNotFound) {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to resolve user"})
		return
	}
	ctx.JSON(http.StatusOK, dto.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// Logout godoc
// @Summary Log out
// @Description Tokens are stateless, so logout is a client-side discard; this just acknowledges.
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// InitDemoUsers godoc
// @Summary Seed demo accounts
// @Description Creates the demo HR and candidate accounts if they do not exist yet.
// @Tags Auth
// @Produce json
// @Success 200 {array} dto.UserDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/init-demo [post]
func (c *AuthController) InitDemoUsers(ctx *gin.Context) {
	users, err := c.authService.InitDemoUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to seed demo users")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to seed demo users"})
		return
	}
	ctx.JSON(http.StatusOK, users)
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
