package domain

import "time"

// Principal is the verified caller behind a bearer token.
type Principal struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	SiteID string `json:"siteId,omitempty"`
}

// PrincipalFromUser projects a stored user into a principal.
func PrincipalFromUser(u *User) *Principal {
	return &Principal{ID: u.ID, Email: u.Email, Role: u.Role, SiteID: u.SiteID}
}

// CanAdminister mirrors User.CanAdminister for the authenticated caller.
func (p *Principal) CanAdminister(siteID string) bool {
	if p == nil || p.Role != RoleAdmin {
		return false
	}
	return p.SiteID == "" || p.SiteID == siteID
}

// Token is an issued bearer credential.
type Token struct {
	Value     string
	ExpiresAt time.Time
}
