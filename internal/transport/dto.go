package transport

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Skotchmaster/catalog/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Price accepts both 150 and "150".
type CreateProductRequest struct {
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Price       *json.Number `json:"price"`
}

// PatchProductRequest keeps the price raw so a malformed value is reported
// only after the product lookup and ownership check.
type PatchProductRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Price       json.RawMessage `json:"price"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"user_id"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// ParsePrice converts a decoded price. A nil input stays nil.
func ParsePrice(n *json.Number) (*float64, error) {
	if n == nil {
		return nil, nil
	}
	v, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("price %q is not a number: %w", n.String(), err)
	}
	return &v, nil
}

// ParseRawPrice accepts the same forms as CreateProductRequest.Price. Absent
// and null both mean unchanged.
func ParseRawPrice(raw json.RawMessage) (*float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("price %s is not a number: %w", raw, err)
	}
	return ParsePrice(&n)
}
