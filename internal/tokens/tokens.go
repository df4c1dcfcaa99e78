package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/todo_app/internal/models"
)

var (
	ErrAuthentication = errors.New("could not authenticate user")
	ErrMissingClaim   = errors.New("missing claim")
	ErrEmptySecret    = errors.New("signing secret is empty")
	ErrUnsupportedAlg = errors.New("unsupported signing algorithm")
)

// Claims is the signed payload: sub carries the username, id the user id.
type Claims struct {
	UserID *uint       `json:"id,omitempty"`
	Role   models.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Validate runs after the registered claims checks during parsing.
func (c *Claims) Validate() error {
	switch {
	case c.Subject == "":
		return fmt.Errorf("%w: sub", ErrMissingClaim)
	case c.UserID == nil:
		return fmt.Errorf("%w: id", ErrMissingClaim)
	case c.Role == "":
		return fmt.Errorf("%w: role", ErrMissingClaim)
	case !c.Role.Valid():
		return fmt.Errorf("unknown role %q", c.Role)
	}
	return nil
}

// Identity is what downstream handlers and authorization checks read.
type Identity struct {
	Username string      `json:"username"`
	ID       uint        `json:"id"`
	Role     models.Role `json:"role"`
}

type Service struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

func NewService(secret []byte, algorithm string) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, algorithm)
	}
	return &Service{secret: secret, method: method, now: time.Now}, nil
}

// Issue signs a token for the user that stops validating after ttl.
func (s *Service) Issue(username string, userID uint, role models.Role, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID: &userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate verifies signature, algorithm, expiry and required claims.
// Every failure is reported as ErrAuthentication.
func (s *Service) Validate(tokenStr string) (*Identity, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if !tkn.Valid {
		return nil, ErrAuthentication
	}

	return &Identity{
		Username: claims.Subject,
		ID:       *claims.UserID,
		Role:     claims.Role,
	}, nil
}
