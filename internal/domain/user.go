package domain

import "time"

// Role names what a user may do in the admin panel.
type Role string

const (
	RoleAdmin Role = "admin"
)

// User is an admin-panel account. An empty SiteID means the user administers every site.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	SiteID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAdminister reports whether the user may read or replace the given site's content.
func (u *User) CanAdminister(siteID string) bool {
	if u == nil || u.Role != RoleAdmin {
		return false
	}
	return u.SiteID == "" || u.SiteID == siteID
}
