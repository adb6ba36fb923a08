package entity

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserResp `json:"user"`
}

type UserResp struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type RegisterInput struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=150"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}
