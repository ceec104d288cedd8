// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"

	"github.com/GoAbsensi/GoAbsensi/internal/config"
)

// Create builds the MySQL Data Source Name from the configuration.
func Create(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
		dbCfg.DB.Extras,
	)

	return out
}

// Postgres builds a PostgreSQL connection URL from the configuration.
func Postgres(dbCfg *config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbCfg.DB.User, dbCfg.DB.Password),
		Host:     fmt.Sprintf("%s:%d", dbCfg.DB.Host, dbCfg.DB.Port),
		Path:     "/" + dbCfg.DB.Name,
		RawQuery: dbCfg.DB.Extras,
	}

	if u.RawQuery == "" && dbCfg.DB.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(dbCfg.DB.SSLMode)
	}

	return u.String()
}
