package handler

import "github.com/pagescope/user-service/internal/core/domain"

const statusSuccess = "success"

type userResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type authResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type tokenResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type listResponse struct {
	Status     string         `json:"status"`
	Message    string         `json:"message"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Limit      int            `json:"limit"`
	TotalUsers int64          `json:"total_users"`
	Next       *string        `json:"next,omitempty"`
	Prev       *string        `json:"prev,omitempty"`
	Users      []*domain.User `json:"users"`
}

type oneResponse struct {
	Status string       `json:"status"`
	Data   *domain.User `json:"data"`
}

// errorResponse documents the error envelope rendered by the HTTP error handler.
type errorResponse struct {
	Status  string   `json:"status" example:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// registerRequest documents the registration body. The handler decodes into
// a domain.Payload so that presence can be checked per key.
type registerRequest struct {
	Name     string `json:"name" example:"Ana"`
	Surname  string `json:"surname,omitempty"`
	Nick     string `json:"nick" example:"ana1"`
	Email    string `json:"email" example:"ana@example.com"`
	Password string `json:"password" example:"Str0ng!pwd"`
	Role     string `json:"role" example:"role_client"`
	Page     string `json:"page" example:"siteA"`
}

type loginRequest struct {
	Login    string `json:"login" example:"ana@example.com"`
	Password string `json:"password" example:"Str0ng!pwd"`
	Page     string `json:"page" example:"siteA"`
}

type updateRequest struct {
	Name      string `json:"name,omitempty"`
	Surname   string `json:"surname,omitempty"`
	Nick      string `json:"nick,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role,omitempty"`
	Image     string `json:"image,omitempty"`
	ImagePath string `json:"imagePath,omitempty"`
}

type listParams struct {
	Page int `param:"page" validate:"omitempty,min=1"`
}
