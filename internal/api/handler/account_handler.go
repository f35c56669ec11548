package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pagescope/user-service/internal/api/metrics"
	"github.com/pagescope/user-service/internal/api/middleware"
	"github.com/pagescope/user-service/internal/core/domain"
	"github.com/pagescope/user-service/internal/core/ports"
)

// AccountHandler serves the self-service account endpoints.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register creates a new user account under a tenant page.
//
// @Summary      Register a new user
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	data, err := bindPayload(c)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user, err := h.accounts.Register(c.Request().Context(), data)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()

	return c.JSON(http.StatusOK, userResponse{
		Status:  statusSuccess,
		Message: "user registered",
		User:    user,
	})
}

// Login authenticates a user by email or nick within a page and returns a token.
//
// @Summary      Login
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	data, err := bindPayload(c)
	if err != nil {
		return err
	}

	result, err := h.accounts.Login(c.Request().Context(), data)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, authResponse{
		Status:  statusSuccess,
		Message: "login successful",
		User:    result.User,
		Token:   result.Token,
	})
}

// RenewToken extends the expiry of the presented token.
//
// @Summary      Renew token
// @Tags         account
// @Produce      json
// @Param        token  header    string  true  "Session token"
// @Success      200    {object}  tokenResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /token/renew [post]
func (h *AccountHandler) RenewToken(c echo.Context) error {
	token, err := h.accounts.RenewToken(c.Request().Context(), middleware.RawToken(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		Status:  statusSuccess,
		Message: "token renewed",
		Token:   token,
	})
}

func registrationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "conflict"
	case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrValidationFailed):
		return "invalid"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrMissingFields):
		return "invalid_credentials"
	default:
		return "error"
	}
}
