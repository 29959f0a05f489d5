package config

import "time"

// JwtConfig holds bearer token configuration.
type JwtConfig struct {
	Secret      string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer      string `env:"JWT_ISSUER" env-default:"agora"`
	Audience    string `env:"JWT_AUDIENCE" env-default:"agora-api"`
	TokenExpiry string `env:"TOKEN_EXPIRY" env-default:"24h"`
}

// Expiry parses the configured token lifetime, falling back to 24 hours on
// a bad value.
func (c JwtConfig) Expiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
