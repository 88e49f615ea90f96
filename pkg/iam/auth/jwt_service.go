package auth

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/config"
	"github.com/Abraxas-365/hireflow/pkg/iam"
	"github.com/Abraxas-365/hireflow/pkg/iam/scopes"
	"github.com/Abraxas-365/hireflow/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the verified content of an access token
type TokenClaims struct {
	UserID    kernel.UserID
	Email     string
	Name      string
	Role      string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// JWTService validates access tokens. GenerateAccessToken exists for local
// development and tests; production tokens come from the identity provider.
type JWTService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	issuer         string
	audience       []string
	now            func() time.Time
}

func NewJWTServiceFromConfig(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		secretKey:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenTTL,
		issuer:         cfg.Issuer,
		audience:       cfg.Audience,
		now:            time.Now,
	}
}

// JWTClaims is the wire format of the access token
type JWTClaims struct {
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Role   string   `json:"role,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

func (j *JWTService) GenerateAccessToken(userID kernel.UserID, email, name, role string, scopeList []string) (string, error) {
	now := j.now()

	claims := JWTClaims{
		Email:  email,
		Name:   name,
		Role:   role,
		Scopes: scopeList,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   userID.String(),
			Audience:  j.audience,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", iam.ErrTokenGenerationFailed().WithCause(err)
	}
	return signed, nil
}

// ValidateAccessToken checks signature, expiry, issuer and audience. A token
// without explicit scopes gets the scopes of its role.
func (j *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}
	if len(j.audience) > 0 {
		opts = append(opts, jwt.WithAudience(j.audience[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, iam.ErrTokenInvalid().WithDetail("reason", err.Error())
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, iam.ErrTokenInvalid().WithDetail("reason", "invalid claims")
	}
	if claims.Subject == "" {
		return nil, iam.ErrTokenInvalid().WithDetail("reason", "missing subject")
	}

	out := &TokenClaims{
		UserID: kernel.NewUserID(claims.Subject),
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
		Scopes: scopes.ResolveScopes(claims.Scopes, claims.Role),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
