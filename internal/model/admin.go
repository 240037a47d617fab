package model

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,max=128"`
	Password string `json:"password" binding:"required,max=128"`
}
