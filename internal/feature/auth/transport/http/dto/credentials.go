// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// CredentialsReq is the request body for /register and /login.
type CredentialsReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRes is the response body for a successful /register.
type RegisterRes struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// TokenRes is the response body for a successful /login.
type TokenRes struct {
	Token string `json:"token"`
}
