package tokens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/catalog/internal/revocation"
)

const (
	DefaultAccessTTL = time.Hour
	accessType       = "access"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type AccessClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Identity is what a valid token proves about its bearer.
type Identity struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

type Service struct {
	Secret  []byte
	TTL     time.Duration
	Revoked revocation.Store

	now func() time.Time
}

func NewService(secret []byte, ttl time.Duration, revoked revocation.Store) *Service {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &Service{
		Secret:  secret,
		TTL:     ttl,
		Revoked: revoked,
		now:     time.Now,
	}
}

func NewJTI() string { return uuid.NewString() }

func (s *Service) IssueToken(userID uint) (string, *AccessClaims, error) {
	issuedAt := s.now()
	claims := &AccessClaims{
		Type: accessType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        NewJTI(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.TTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign access token: %w", err)
	}
	return token, claims, nil
}

// ParseClaims checks signature, algorithm and time claims. It does not consult
// the revocation set.
func (s *Service) ParseClaims(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.Secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != accessType {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, claims.Type)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", ErrInvalidToken)
	}
	return &claims, nil
}

// ValidateToken returns the identity carried by tokenStr. Any token problem,
// including revocation, yields ErrInvalidToken; a failing revocation store is
// returned as is.
func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (Identity, error) {
	claims, err := s.ParseClaims(tokenStr)
	if err != nil {
		return Identity{}, err
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 0)
	if err != nil || userID == 0 {
		return Identity{}, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}

	revoked, err := s.Revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Identity{}, fmt.Errorf("%w: token revoked", ErrInvalidToken)
	}

	return Identity{
		UserID:    uint(userID),
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return fmt.Errorf("%w: empty jti", ErrInvalidToken)
	}
	return s.Revoked.Revoke(ctx, jti, expiresAt)
}
