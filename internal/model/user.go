package model

// Role is the upstream access role attached to every account.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// User mirrors the upstream account record. The portal never owns or
// mutates it; it is used for navigation gating only.
type User struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role"`
}

// DisplayName falls back to the mailbox part of the email when the
// upstream record carries no name.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse is the upstream token grant. The token lives in the
// server-side session and is never sent back to the browser.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        Role   `json:"role"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Message     string `json:"message,omitempty"`
}

type RegisterRequest struct {
	Email          string `json:"email" form:"email" binding:"required"`
	Password       string `json:"password" form:"password" binding:"required"`
	Name           string `json:"name" form:"name" binding:"required"`
	DOB            string `json:"dob" form:"dob"`
	Gender         string `json:"gender" form:"gender"`
	ContactNumber  string `json:"contactNumber" form:"contactNumber"`
	Address        string `json:"address" form:"address"`
	MedicalHistory string `json:"medicalHistory" form:"medicalHistory"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" form:"currentPassword" binding:"required"`
	NewPassword        string `json:"newPassword" form:"newPassword" binding:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" form:"confirmNewPassword" binding:"required"`
}

type UpdateUserIdentityRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
	Role  Role   `json:"role" form:"role" binding:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" form:"password" binding:"required"`
}
