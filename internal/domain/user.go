package domain

// User is the outward view of a registered identity. It never carries the
// credential secret.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
