package config

import (
	"time"

	"github.com/GoAbsensi/GoAbsensi/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	DB         DB
	Log        logger.Log
	Title      string
	Webserver  Webserver
	Auth       Auth
	Permission Permission
	Redis      Redis
	Seed       Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	SecureHeaders  bool   // send HSTS, frame and content type protection headers
	Metrics        bool   // expose /metrics for prometheus
}

// Auth holds credential settings.
type Auth struct {
	TokenSecret   string        // HS256 signing secret, at least 32 bytes
	TokenIssuer   string        // iss claim of issued credentials
	TokenTTL      time.Duration // lifetime of a credential, also the staleness bound of embedded permissions
	CookieName    string        // cookie carrying the credential for browser clients
	CookieSecure  bool          // set the Secure flag on the credential cookie
	DenylistTable string        // table holding revoked credential ids
}

// Permission holds settings of the permission cache.
type Permission struct {
	CacheTTL     time.Duration // how long a resolved set is served
	CacheBackend string        // memory or redis
}

// Redis holds the connection settings of the shared permission cache.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Seed holds the initial administrator account created by the seeder.
type Seed struct {
	OnStart       bool // run the seeder when the webserver starts
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// Secrets are read from the environment with prefix GOABSENSI, e.g. GOABSENSI_TOKEN_SECRET.
type Secrets struct {
	TokenSecret   string `envconfig:"TOKEN_SECRET"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}
