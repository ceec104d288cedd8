package config

// Supported database engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string
	Path       string // database file, sqlite only
	SSLMode    string // postgres only, used when Extras is empty
	Debug      bool   // log every statement
}
