// meganote/types/user.go
package types

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Identity is the authenticated caller attached to a request by the access gate.
type Identity struct {
	ID       int
	Username string
}
