package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterOwnerRequest creates a business together with its owner account.
type RegisterOwnerRequest struct {
	BusinessName  string  `json:"business_name"  validate:"required,min=2,max=255"`
	BusinessEmail *string `json:"business_email" validate:"omitempty,email"`
	Phone         string  `json:"phone"          validate:"omitempty,max=32"`
	Address       string  `json:"address"        validate:"omitempty,max=500"`
	Name          string  `json:"name"           validate:"required,min=2,max=100"`
	Username      string  `json:"username"       validate:"required,min=3,max=100"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Password      string  `json:"password"       validate:"required,min=8"`
}

type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=100"`
	Name     string  `json:"name"     validate:"required,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role"     validate:"required,oneof=manager salesman"`
}

// Redacted returns a copy safe to echo back in error responses.
func (r LoginRequest) Redacted() interface{} { r.Password = ""; return r }

func (r RegisterOwnerRequest) Redacted() interface{} { r.Password = ""; return r }

func (r CreateUserRequest) Redacted() interface{} { r.Password = ""; return r }

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID         string  `json:"id"`
	BusinessID string  `json:"business_id"`
	Username   string  `json:"username"`
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	Role       string  `json:"role"`
	CreatedBy  *string `json:"created_by"`
	Active     bool    `json:"active"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}
