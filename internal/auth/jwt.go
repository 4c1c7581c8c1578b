package auth

import (
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// --- Context Keys ---

// contextKey is a custom type used for context keys to avoid collisions.
type contextKey string

// ClientIDKey carries the authenticated client id through the request context.
const ClientIDKey contextKey = "clientID"

// --- JWT Claims ---

// CustomClaims includes standard JWT claims plus our custom ones.
// Match this with the claims struct in api/middleware.go
type CustomClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// NewAccessToken generates a new JWT access token for an API client.
// Tokens are minted out-of-band (memctl token) and presented as bearer
// tokens on the chat API.
func NewAccessToken(clientID string, jwtSecret string, expiration time.Duration) (string, error) {
	if clientID == "" {
		clientID = uuid.NewString()
	}

	claims := CustomClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "inboxpilot-backend",
			Subject:   clientID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		log.Printf("Error signing JWT token for client %s: %v", clientID, err)
		return "", err
	}

	return signedToken, nil
}
