package credential

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Source is a single place a credential may be found. Load returns the
// credential or an empty string; errors are treated as "not found".
type Source interface {
	Name() string
	Load(ctx context.Context) (string, error)
}

// Prober walks an ordered list of sources and returns the first
// non-empty credential. Each source is attempted at most once per
// prober; there is no other caching.
type Prober struct {
	sources   []Source
	attempted map[string]bool
	found     string
}

// NewProber creates a prober over the given sources, probed in order.
func NewProber(sources ...Source) *Prober {
	return &Prober{
		sources:   sources,
		attempted: make(map[string]bool),
	}
}

// Probe returns the discovered credential, or false if no remaining
// source yields one.
func (p *Prober) Probe(ctx context.Context) (string, bool) {
	if p.found != "" {
		return p.found, true
	}
	for _, src := range p.sources {
		if p.attempted[src.Name()] {
			continue
		}
		p.attempted[src.Name()] = true

		value, err := src.Load(ctx)
		if err != nil {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			p.found = value
			return value, true
		}
	}
	return "", false
}

// Static is a fixed credential value (e.g. from config).
type Static string

func (Static) Name() string { return "static" }

func (s Static) Load(ctx context.Context) (string, error) { return string(s), nil }

// Env reads the first non-empty value among the given environment
// variable names.
type Env []string

func (Env) Name() string { return "env" }

func (e Env) Load(ctx context.Context) (string, error) {
	for _, key := range e {
		if v := os.Getenv(key); v != "" {
			return v, nil
		}
	}
	return "", nil
}

// DotEnv reads the given keys out of a .env file without mutating the
// process environment.
type DotEnv struct {
	Path string
	Keys []string
}

func (DotEnv) Name() string { return "dotenv" }

func (d DotEnv) Load(ctx context.Context) (string, error) {
	path := d.Path
	if path == "" {
		path = ".env"
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return "", err
	}
	for _, key := range d.Keys {
		if v := values[key]; v != "" {
			return v, nil
		}
	}
	return "", nil
}

// File reads the whole file as the credential.
type File string

func (File) Name() string { return "file" }

func (f File) Load(ctx context.Context) (string, error) {
	raw, err := os.ReadFile(string(f))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
