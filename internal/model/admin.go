package model

// AdminLoginRequest is the payload for operator login.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Operator is the single account allowed to manage imports.
type Operator struct {
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
}
