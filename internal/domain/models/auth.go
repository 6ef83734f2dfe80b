package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the decoded claim set of a verified ID token.
// Field names follow Firebase Auth ID tokens, which carry the uid in both
// "sub" and "user_id".
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	UserID               string `json:"user_id"`
	Email                string `json:"email"`
	EmailVerified        bool   `json:"email_verified"`
	Name                 string `json:"name"`
	Picture              string `json:"picture"`
	AuthTime             int64  `json:"auth_time"`
}

// Identity is the minimal caller identity handed to services.
// It lives for one request and is never persisted.
type Identity struct {
	SubjectID   string `json:"subject_id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}
