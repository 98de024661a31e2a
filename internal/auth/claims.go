package auth

import "time"

// AccessClaims are the claims carried by a v4.local access token.
// The token is encrypted, so nothing here is readable without the key.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`

	// TokenID carries the session ID so a refresh can be tied back to
	// the session that issued it.
	TokenID string `json:"jti"`
}
