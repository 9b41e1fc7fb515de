package dto

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	Role         string      `json:"role"`
	HomePath     string      `json:"home_path"`
	User         *ProfileDTO `json:"user,omitempty"`
}

type ProfileDTO struct {
	ID        uint64  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	CompanyID *uint64 `json:"company_id,omitempty"`
}

// SessionDTO - ответ /auth/me.
type SessionDTO struct {
	UserID   uint64 `json:"user_id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	HomePath string `json:"home_path"`
}
