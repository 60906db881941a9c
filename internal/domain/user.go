package domain

// User is the profile returned by the identity service
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// Session pairs an authenticated user with the opaque bearer token issued for it
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
