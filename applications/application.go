package applications

import "time"

// Application represents a registered client system (a tenant) whose end users
// authenticate through this service. The ClientID is public and immutable after
// creation; the ClientSecret is confidential and is disclosed in plaintext only
// once, at creation time.
type Application struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ClientID     string    `json:"clientId"`
	ClientSecret string    `json:"clientSecret,omitempty"`
	Scopes       []string  `json:"scopes"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasScope checks if the application has been granted a specific scope
func (a *Application) HasScope(scope string) bool {
	for _, s := range a.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
