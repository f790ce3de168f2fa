package staff

import "time"

// LoginRequest captures the staff credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token issued on login.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Staff       StaffDTO  `json:"staff"`
}

// StaffDTO is the public view of a staff member.
type StaffDTO struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// SuperuserInput holds the createsuperuser arguments.
type SuperuserInput struct {
	Email    string
	Password string
}
