package utils // package utils provides helper functions for token creation and verification

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned for every token verification failure:
// bad signature, unexpected algorithm, malformed payload, missing
// claims or expiry in the past. Callers must not be able to tell
// which check failed.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string. Exp stores the expiration
// timestamp as a time.Time. Access tokens are short-lived and carried
// in the Authorization header when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenClaims is the identity decoded from a verified access token.
type TokenClaims struct {
	Username string // subject of the token
	UserID   uint64 // numeric user identifier
	Role     string // role name (admin or user)
}

// NewAccessToken builds and signs an HS256 JWT for a user. It takes the
// signing secret, the username (used as subject), the user ID, the user's
// role, and a TTL in minutes. The JWT carries the claims: subject (sub),
// numeric id, role, expiration (exp) and issued at (iat).
func NewAccessToken(secret, username string, userID uint64, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  username,
		"id":   userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a raw token and
// returns the identity it carries. The signing method is checked before
// the signature; expiry is enforced by the jwt library during Parse.
// All failures collapse into ErrInvalidToken.
func ParseAccessToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return TokenClaims{}, ErrInvalidToken
	}
	// JSON numbers decode as float64.
	idf, ok := claims["id"].(float64)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return TokenClaims{}, ErrInvalidToken
	}
	return TokenClaims{Username: sub, UserID: uint64(idf), Role: role}, nil
}
