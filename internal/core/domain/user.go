package domain

import "time"

const (
	RoleAdmin  = "role_admin"
	RoleClient = "role_client"

	// RoleOptional is not a real role. Routes that accept it let anonymous
	// requests through the auth gate.
	RoleOptional = "optional"
)

const (
	DefaultImage     = "default.png"
	DefaultImagePath = "/uploads/users/default.png"
)

// User is an account registered under a tenant page. Password and Role are
// never serialized outward.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname,omitempty"`
	Nick      string    `json:"nick"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"-"`
	Image     string    `json:"image"`
	ImagePath string    `json:"imagePath"`
	Page      string    `json:"page"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns a copy of u with the credential and role fields cleared.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Password = ""
	clone.Role = ""
	return &clone
}

// UserPage is one page of a tenant's users plus the paging metadata.
type UserPage struct {
	Users      []*User
	TotalDocs  int64
	Limit      int
	Page       int
	TotalPages int
	PrevPage   *int
	NextPage   *int
}
