// Package auth validates the bearer tokens issued by the identity provider
// and turns their claims into an identity.Principal.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
	ErrTokenNotYetValid  = errors.New("token is not yet valid")
	ErrInvalidClaims     = errors.New("invalid token claims")
	ErrMissingUserID     = errors.New("missing user_id in claims")
	ErrMissingRole       = errors.New("missing or unknown role in claims")
	ErrMissingHood       = errors.New("missing rt/rw in claims")
	ErrMissingResidentID = errors.New("resident token without resident_id")
)

// Claims are the identity provider claims the ledger relies on
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	RT         string `json:"rt"`
	RW         string `json:"rw"`
	ResidentID string `json:"resident_id,omitempty"`
}

// JWTService signs and validates HS256 access tokens
type JWTService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: cfg.AccessTokenExpiration,
		now:        time.Now,
	}
}

// IssuedToken is a signed access token
type IssuedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"` // Bearer
}

// Issue signs an access token for a principal. The identity provider does this
// in production; the ledger only needs it for development tokens and tests.
func (s *JWTService) Issue(p identity.Principal) (*IssuedToken, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   p.UserID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: p.UserID.String(),
		Role:   p.Role.String(),
		RT:     p.Neighborhood.RT,
		RW:     p.Neighborhood.RW,
	}
	if p.ResidentID != nil {
		claims.ResidentID = p.ResidentID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{AccessToken: signed, ExpiresAt: expiresAt, TokenType: "Bearer"}, nil
}

// Validate parses a token and returns the principal it describes
func (s *JWTService) Validate(tokenString string) (identity.Principal, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return identity.Principal{}, err
	}
	return claims.Principal()
}

func (s *JWTService) parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Principal converts the claims, rejecting tokens the ledger cannot scope
func (c *Claims) Principal() (identity.Principal, error) {
	if c.UserID == "" {
		return identity.Principal{}, ErrMissingUserID
	}
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return identity.Principal{}, ErrInvalidClaims
	}

	role := identity.Role(c.Role)
	if !role.IsValid() {
		return identity.Principal{}, ErrMissingRole
	}

	hood, err := shared.NewNeighborhood(c.RT, c.RW)
	if err != nil {
		return identity.Principal{}, ErrMissingHood
	}

	p := identity.Principal{UserID: userID, Role: role, Neighborhood: hood}
	if role == identity.RoleResident {
		if c.ResidentID == "" {
			return identity.Principal{}, ErrMissingResidentID
		}
		residentID, err := uuid.Parse(c.ResidentID)
		if err != nil {
			return identity.Principal{}, ErrInvalidClaims
		}
		p.ResidentID = &residentID
	}
	return p, nil
}
