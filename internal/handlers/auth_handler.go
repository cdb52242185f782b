package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/identity"
)

// AuthHandler handles session-related HTTP requests
type AuthHandler struct {
	provider identity.Provider
	engine   *engine.Engine
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(provider identity.Provider, eng *engine.Engine) *AuthHandler {
	return &AuthHandler{provider: provider, engine: eng}
}

// RegisterAuthRoutes registers unprotected session routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.SignUp)
	g.POST("/signin", h.SignIn)
	g.GET("/session", h.Session)
}

// RegisterProtectedAuthRoutes registers routes that need a session
func (h *AuthHandler) RegisterProtectedAuthRoutes(g *echo.Group) {
	g.POST("/signout", h.SignOut)
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

// SignUp registers a new account with the identity provider.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.provider.SignUp(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusCreated, sess)
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignIn authenticates an existing account with email and password.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.provider.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrNoSession) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, sess)
}

// Session resolves the bearer credential and returns the session with the
// member's profile, the startup bootstrap call.
func (h *AuthHandler) Session(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) < 8 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
	}

	sess, err := h.provider.Session(c.Request().Context(), authHeader[7:])
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired credential")
	}

	profile := h.engine.Profile(c.Request().Context(), sess.UserID)
	return c.JSON(http.StatusOK, map[string]any{
		"session": sess,
		"profile": profile,
	})
}

// SignOut revokes every credential issued to the authenticated user.
func (h *AuthHandler) SignOut(c echo.Context) error {
	userID := c.Get("userID").(string)
	if err := h.provider.SignOut(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
