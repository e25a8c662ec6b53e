package session

// Session is the client's record of the currently authenticated user.
// The token is opaque: it is stored and forwarded on authenticated calls,
// never inspected locally.
type Session struct {
	Token string `json:"token"`
	Email string `json:"email"`
}
