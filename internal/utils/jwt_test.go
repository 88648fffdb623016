package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
    raw, exp, err := NewSessionToken("s3cret", Session{UserID: "user_1", Email: "a@b.c", Role: RoleAdmin}, time.Hour)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

    s, err := ParseSessionToken("s3cret", raw)
    require.NoError(t, err)
    assert.Equal(t, Session{UserID: "user_1", Email: "a@b.c", Role: RoleAdmin}, s)
}

func TestParseSessionTokenRejects(t *testing.T) {
    good, _, err := NewSessionToken("s3cret", Session{UserID: "user_1"}, time.Hour)
    require.NoError(t, err)
    expired, _, err := NewSessionToken("s3cret", Session{UserID: "user_1"}, -time.Minute)
    require.NoError(t, err)
    noSub, _, err := NewSessionToken("s3cret", Session{}, time.Hour)
    require.NoError(t, err)
    noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_1"}).SignedString([]byte("s3cret"))
    require.NoError(t, err)

    cases := map[string]struct{ secret, raw string }{
        "wrong secret": {"other", good},
        "empty secret": {"", good},
        "expired":      {"s3cret", expired},
        "no subject":   {"s3cret", noSub},
        "no expiry":    {"s3cret", noExp},
        "garbage":      {"s3cret", "not-a-jwt"},
        "blank":        {"s3cret", " "},
    }
    for name, tc := range cases {
        t.Run(name, func(t *testing.T) {
            _, err := ParseSessionToken(tc.secret, tc.raw)
            assert.ErrorIs(t, err, ErrInvalidSession)
        })
    }
}
