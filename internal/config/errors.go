package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrTokenSecretTooShort error if the credential signing secret is shorter than 32 bytes.
	ErrTokenSecretTooShort = errors.New("auth.tokensecret must be at least 32 bytes")

	// ErrUnknownDBEngine error if db.gormengine is not mysql, postgres or sqlite.
	ErrUnknownDBEngine = errors.New("toml config db.gormengine is unknown")

	// ErrUnknownCacheBackend error if permission.cachebackend is not memory or redis.
	ErrUnknownCacheBackend = errors.New("toml config permission.cachebackend is unknown")

	// ErrRedisAddrMissing error if the redis cache backend is selected without an address.
	ErrRedisAddrMissing = errors.New("toml config redis.addr is required for the redis cache backend")
)
