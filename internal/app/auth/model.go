package auth

import "backend/internal/app/user"

type RegisterRequest struct {
	Username       string `json:"username" binding:"required,min=2,max=50"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	InvitationCode string `json:"invitationCode"`
}

type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success bool          `json:"success"`
	Token   string        `json:"token"`
	User    *user.Profile `json:"user"`
}

type MeResponse struct {
	User *user.Profile `json:"user"`
}

type RegistrationStatus struct {
	InvitationRequired bool `json:"invitationRequired"`
	RemainingSlots     int  `json:"remainingSlots"`
	IsEarlyAccess      bool `json:"isEarlyAccess"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
