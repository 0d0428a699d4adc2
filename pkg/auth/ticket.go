package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// SocketTicketTTL bounds how long an issued websocket ticket stays
// valid. Tickets are single-purpose and short-lived: the client fetches
// one immediately before dialing the socket.
const SocketTicketTTL = 30 * time.Second

type socketClaims struct {
	CompanyName string `json:"company_name"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// IssueSocketTicket signs a short-lived HMAC token identifying the
// company for the websocket endpoint, which cannot rely on custom
// headers during the browser handshake.
func IssueSocketTicket(secret string, identity *Identity) (string, error) {
	now := time.Now()
	claims := socketClaims{
		CompanyName: identity.Name,
		Role:        string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SocketTicketTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign socket ticket: %w", err)
	}
	return signed, nil
}

// ParseSocketTicket validates a ticket and returns the identity it
// encodes.
func ParseSocketTicket(secret, ticket string) (*Identity, error) {
	var claims socketClaims
	token, err := jwt.ParseWithClaims(ticket, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse socket ticket: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid socket ticket")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("parse socket ticket subject: %w", err)
	}

	return &Identity{ID: id, Name: claims.CompanyName, Role: models.Role(claims.Role)}, nil
}
