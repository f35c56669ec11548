package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pagescope/user-service/internal/api/metrics"
	"github.com/pagescope/user-service/internal/api/middleware"
	"github.com/pagescope/user-service/internal/core/domain"
	"github.com/pagescope/user-service/internal/core/ports"
)

// UserHandler serves the user management endpoints behind the auth gate.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Update edits a user. Without an id the caller edits themselves.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        token  header    string         true   "Session token"
// @Param        id     path      string         false  "User id, defaults to the caller"
// @Param        body   body      updateRequest  true   "Fields to change"
// @Success      200    {object}  authResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /update/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	data, err := bindPayload(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if id == "" {
		id = caller.ID
	}

	result, err := h.accounts.Update(c.Request().Context(), id, caller, data)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Status:  statusSuccess,
		Message: "user updated",
		User:    result.User,
		Token:   result.Token,
	})
}

// Delete removes another user of the caller's page.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        token  header    string  true  "Session token"
// @Param        id     path      string  true  "User id"
// @Success      200    {object}  userResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /delete/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	removed, err := h.accounts.Delete(c.Request().Context(), c.Param("id"), caller)
	if err != nil {
		return err
	}
	metrics.DeletionsTotal.Inc()

	return c.JSON(http.StatusOK, userResponse{
		Status:  statusSuccess,
		Message: "user deleted",
		User:    removed,
	})
}

// List returns one page of the caller's tenant users, newest first.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        token  header    string  true   "Session token"
// @Param        page   path      int     false  "Page number, defaults to 1"
// @Success      200    {object}  listResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /list/{page} [get]
func (h *UserHandler) List(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var params listParams
	if err := binder.BindPathParams(c, &params); err != nil {
		return domain.ErrInvalidPayload.WithDetails("page must be a positive integer")
	}
	if err := c.Validate(&params); err != nil {
		return err
	}
	if params.Page == 0 {
		params.Page = 1
	}

	list, err := h.accounts.List(c.Request().Context(), caller.Page, params.Page)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listResponse{
		Status:     statusSuccess,
		Message:    "user list",
		Page:       list.Page,
		TotalPages: list.TotalPages,
		Limit:      list.Limit,
		TotalUsers: list.TotalUsers,
		Next:       list.Next,
		Prev:       list.Prev,
		Users:      list.Users,
	})
}

// One returns a single user. Without an id the caller's own record is
// returned; anonymous callers must name an id.
//
// @Summary      Get one user
// @Tags         users
// @Produce      json
// @Param        token  header    string  false  "Session token"
// @Param        id     path      string  false  "User id, defaults to the caller"
// @Success      200    {object}  oneResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /one/{id} [get]
func (h *UserHandler) One(c echo.Context) error {
	id := c.Param("id")
	caller, authenticated := middleware.Identity(c)
	if id == "" && !authenticated {
		return domain.ErrIdentityRequired
	}

	// Anonymous lookups are scoped to the pseudo-page named after the client role.
	page := domain.RoleClient
	if authenticated {
		page = caller.Page
		if id == "" {
			id = caller.ID
		}
	}

	user, err := h.accounts.Get(c.Request().Context(), page, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, oneResponse{Status: statusSuccess, Data: user})
}
