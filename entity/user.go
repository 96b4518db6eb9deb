package entity

// Customer is the opaque authenticated-user view handed over by the auth
// provider. The client never manages credentials or token refresh itself.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}
