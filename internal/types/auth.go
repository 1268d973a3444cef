package types

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload carried by access tokens.
// Subject holds the username, ID the jti, UserID the numeric account id.
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}
