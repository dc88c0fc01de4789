// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"strings"
	"time"
)

// Carrier strategy names accepted in AUTH_CARRIER. Exactly one strategy is
// active per deployment; the resolver and the login handler both follow it.
const (
	CarrierBearer  = "bearer"  // JWT in the Authorization header
	CarrierCookie  = "cookie"  // JWT in an HTTP-only cookie
	CarrierSession = "session" // server-side session, id in an HTTP-only cookie
)

// insecureSecret is the JWT signing fallback. It exists so the service can
// boot in development; production deployments must set JWT_SECRET.
const insecureSecret = "dev-insecure-secret"

// Config holds all runtime configuration values. Every field has a default
// suitable only for local development.
type Config struct {
	Env          string        // application environment (dev/prod)
	Port         string        // HTTP port to listen on
	DBUser       string        // database username
	DBPass       string        // database password (optional)
	DBHost       string        // database host address
	DBPort       string        // database port number
	DBName       string        // database name
	DBMaxConns   int           // connection pool cap
	JWTSecret    string        // secret used to sign JWTs
	TokenTTL     time.Duration // identity carrier lifetime
	BcryptCost   int           // bcrypt cost for password hashing
	Carrier      string        // active carrier strategy (bearer/cookie/session)
	CookieName   string        // cookie name for cookie/session carriers
	CookieSecure bool          // set the Secure flag on issued cookies
	GateCatalog  bool          // require identity on cat write endpoints
}

// Load reads configuration from the environment. The gallery boots with
// defaults everywhere so it can run locally out of the box; it warns loudly
// when the signing secret is the placeholder.
func Load() Config {
	cfg := Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "3000"),
		DBUser:       envStr("DB_USER", "root"),
		DBPass:       envStr("DB_PASS", ""),
		DBHost:       envStr("DB_HOST", "localhost"),
		DBPort:       envStr("DB_PORT", "3306"),
		DBName:       envStr("DB_NAME", "express_sql_db"),
		DBMaxConns:   envInt("DB_MAX_CONNS", 10),
		JWTSecret:    envStr("JWT_SECRET", insecureSecret),
		TokenTTL:     envDur("TOKEN_TTL", 2*time.Hour),
		BcryptCost:   envInt("BCRYPT_COST", 10),
		Carrier:      strings.ToLower(envStr("AUTH_CARRIER", CarrierBearer)),
		CookieName:   envStr("COOKIE_NAME", "gallery_auth"),
		CookieSecure: envBool("COOKIE_SECURE", false),
		GateCatalog:  envBool("GATE_CATALOG", false),
	}
	if cfg.JWTSecret == insecureSecret {
		log.Printf("config: JWT_SECRET not set, using insecure development secret")
	}
	switch cfg.Carrier {
	case CarrierBearer, CarrierCookie, CarrierSession:
	default:
		log.Printf("config: unknown AUTH_CARRIER %q, falling back to bearer", cfg.Carrier)
		cfg.Carrier = CarrierBearer
	}
	if cfg.DBMaxConns < 1 {
		cfg.DBMaxConns = 1
	}
	if cfg.BcryptCost < 10 {
		cfg.BcryptCost = 10
	}
	return cfg
}
