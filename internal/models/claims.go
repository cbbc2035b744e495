package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload of an admin API bearer token. The subject lives in
// RegisteredClaims.Subject.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
