package request

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountRequest names the account an operation applies to
type AccountRequest struct {
	Username string `json:"username"`
}
