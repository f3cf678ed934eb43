package dto

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RefreshRequest is the JSON body for POST /auth/refresh and logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries a fresh access/refresh token pair.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

// UpdateProfileRequest is the JSON body for PATCH /me.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=120"`
	Bio         *string `json:"bio" binding:"omitempty,max=1000"`
}
