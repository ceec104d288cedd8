// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	// JSONEnv holds a JSON document merged over the toml file.
	JSONEnv = "GO_ABSENSI_CONFIG_JSON"

	// EnvPrefix is the prefix of secret overrides, see Secrets.
	EnvPrefix = "GOABSENSI"

	// CacheMemory keeps resolved permission sets inside the process.
	CacheMemory = "memory"
	// CacheRedis keeps resolved permission sets in redis, shared between instances.
	CacheRedis = "redis"

	minTokenSecret = 32

	defaultShutDownTime  = 5
	defaultTokenTTL      = 20 * time.Minute
	defaultCacheTTL      = 60 * time.Second
	defaultCookieName    = "token"
	defaultTokenIssuer   = "go-absensi"
	defaultDenylistTable = "revoked_tokens"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(JSONEnv)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	if err = applySecrets(&c); err != nil {
		return c, err
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// applySecrets overrides secrets from the environment so they never have to live in main.toml.
func applySecrets(c *Config) error {
	var s Secrets

	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return errors.Wrap(err, "failed to read secrets from environment")
	}

	if s.TokenSecret != "" {
		c.Auth.TokenSecret = s.TokenSecret
	}

	if s.DBPassword != "" {
		c.DB.Password = s.DBPassword
	}

	if s.RedisAddr != "" {
		c.Redis.Addr = s.RedisAddr
	}

	if s.RedisPassword != "" {
		c.Redis.Password = s.RedisPassword
	}

	if s.AdminPassword != "" {
		c.Seed.AdminPassword = s.AdminPassword
	}

	return nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(redact(*c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(redact(*c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func redact(c Config) Config {
	const hidden = "********"

	for _, s := range []*string{&c.Auth.TokenSecret, &c.DB.Password, &c.Redis.Password, &c.Seed.AdminPassword} {
		if *s != "" {
			*s = hidden
		}
	}

	return c
}

// validate the config and fill in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if len(c.Auth.TokenSecret) < minTokenSecret {
		return errors.Wrap(ErrTokenSecretTooShort, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	case "":
		c.DB.GormEngine = EngineSQLite
	default:
		return errors.Wrapf(ErrUnknownDBEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	switch c.Permission.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if c.Redis.Addr == "" {
			return errors.Wrap(ErrRedisAddrMissing, invalidErrMessage)
		}
	case "":
		c.Permission.CacheBackend = CacheMemory
	default:
		return errors.Wrapf(ErrUnknownCacheBackend, "%s: %q", invalidErrMessage, c.Permission.CacheBackend)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}

	if c.Auth.TokenIssuer == "" {
		c.Auth.TokenIssuer = defaultTokenIssuer
	}

	if c.Auth.CookieName == "" {
		c.Auth.CookieName = defaultCookieName
	}

	if c.Auth.DenylistTable == "" {
		c.Auth.DenylistTable = defaultDenylistTable
	}

	if c.Permission.CacheTTL <= 0 {
		c.Permission.CacheTTL = defaultCacheTTL
	}

	return nil
}
