package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL"`
}

// Jwt carries the process-wide signing key for session tokens. It is
// constructed once at startup and injected into the auth service; no
// call site reads the secret from the environment directly.
type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Purchase struct {
	// CommitRetries bounds how many times a purchase commit is retried
	// after losing an optimistic race before ErrConflict surfaces.
	CommitRetries int `envconfig:"COMMIT_RETRIES" default:"3"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[coinshop]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Jwt       *Jwt       `envconfig:"JWT"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Purchase  *Purchase  `envconfig:"PURCHASE"`
}
