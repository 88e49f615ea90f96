package config

import "time"

// AuthConfig covers verification of access tokens issued by the identity
// provider. Tokens are HS256 with a shared secret.
type AuthConfig struct {
	JWT    JWTConfig
	Cookie CookieConfig
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       []string
}

type CookieConfig struct {
	AccessTokenName string
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET_KEY", ""),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute),
			Issuer:         getEnv("JWT_ISSUER", "hireflow"),
			Audience:       getEnvStringSlice("JWT_AUDIENCE", []string{"hireflow-api"}),
		},
		Cookie: CookieConfig{
			AccessTokenName: getEnv("COOKIE_ACCESS_TOKEN_NAME", "access_token"),
		},
	}
}
