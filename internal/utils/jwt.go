package utils // package utils provides helpers for session token signing and parsing

import (
    "strings"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/pkg/errors"
)

// RoleAdmin is the role claim granted to dashboard users.
const RoleAdmin = "admin"

// ErrInvalidSession is returned for any token that fails verification.
var ErrInvalidSession = errors.New("invalid session token")

// Session is the identity carried by a verified session token.
type Session struct {
    UserID string
    Email  string
    Role   string
}

// NewSessionToken builds and signs an HS256 JWT in the shape issued by the
// session provider: subject (sub), email, role, expiration (exp) and
// issued at (iat).  The API only needs it for tooling and tests.
func NewSessionToken(secret string, s Session, ttl time.Duration) (string, time.Time, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sub":   s.UserID,
        "email": s.Email,
        "role":  s.Role,
        "exp":   exp.Unix(),
        "iat":   now.Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return "", time.Time{}, errors.Wrap(err, "sign session")
    }
    return signed, exp, nil
}

// ParseSessionToken verifies raw against secret and extracts the session.
// Tokens must be HMAC-signed, unexpired and carry a non-empty subject.  An
// empty secret rejects every token.
func ParseSessionToken(secret, raw string) (Session, error) {
    if secret == "" || strings.TrimSpace(raw) == "" {
        return Session{}, ErrInvalidSession
    }
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSession
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return Session{}, ErrInvalidSession
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Session{}, ErrInvalidSession
    }
    sub, _ := claims["sub"].(string)
    if sub == "" {
        return Session{}, ErrInvalidSession
    }
    email, _ := claims["email"].(string)
    role, _ := claims["role"].(string)
    return Session{UserID: sub, Email: email, Role: role}, nil
}
