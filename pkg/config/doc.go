// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct tag parsing. Each configuration type
// is parsed once and cached; types implementing Validator are checked before
// they are cached.
//
//	type Config struct {
//		Store string        `env:"SESSION_STORE" envDefault:"memory"`
//		TTL   time.Duration `env:"SESSION_EXPIRE_TIME" envDefault:"168h"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// LoadEnv reads additional .env files and ResetCache forces the next Load to
// parse again, which tests rely on.
package config
