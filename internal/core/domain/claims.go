package domain

// Claims is the identity carried by a signed token: a snapshot of the user
// at issue time. IssuedAt and ExpiresAt are unix seconds; zero means unset.
type Claims struct {
	ID        string
	Name      string
	Surname   string
	Nick      string
	Email     string
	Role      string
	Image     string
	Page      string
	IssuedAt  int64
	ExpiresAt int64
}

// ClaimsFor snapshots u into a fresh claims value with no timestamps.
func ClaimsFor(u *User) Claims {
	return Claims{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Nick:    u.Nick,
		Email:   u.Email,
		Role:    u.Role,
		Image:   u.Image,
		Page:    u.Page,
	}
}

// IsAdmin reports whether the claims carry the administrator role.
func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
