// Package keypool spreads calls to one rate-limited provider across several
// independently rate-limited API keys.
//
// Keys are handed out round-robin. Each call to [Pool.Next] returns the key at
// the cursor, records the use, and advances the cursor:
//
//	pool := keypool.FromEnv("GEMINI_API_KEY", 9, os.LookupEnv)
//	cred, err := pool.Next()
//	if err != nil {
//	    return err // *gengate.ConfigurationError when the pool is empty
//	}
//	client := newClient(cred.Secret())
//
// A Pool is safe for concurrent use and is meant to live for the whole process.
package keypool

import (
	"strconv"
	"sync"
	"time"

	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
)

// Credential is a snapshot of one pooled key taken when it was handed out.
type Credential struct {
	// Index is the key's ordinal position in the pool.
	Index int
	// Uses is the number of times the key has been handed out, including this one.
	Uses int64
	// LastUsed is when the key was handed out.
	LastUsed time.Time

	secret string
}

// Secret returns the API key.
func (c Credential) Secret() string { return c.secret }

// String never prints the secret.
func (c Credential) String() string { return "credential#" + strconv.Itoa(c.Index) }

type entry struct {
	secret   string
	uses     int64
	lastUsed time.Time
}

// Pool hands out credentials round-robin.
type Pool struct {
	provider model.Family

	mu      sync.Mutex
	entries []entry
	cursor  int
	now     func() time.Time
}

// Option configures a Pool.
type Option func(*Pool)

// WithProvider names the provider in configuration errors.
func WithProvider(f model.Family) Option {
	return func(p *Pool) {
		p.provider = f
	}
}

// WithClock overrides the time source used for LastUsed.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) {
		p.now = now
	}
}

// New creates a pool from secrets in order. Empty secrets are skipped.
func New(secrets []string, opts ...Option) *Pool {
	p := &Pool{now: time.Now}
	for _, s := range secrets {
		if s != "" {
			p.entries = append(p.entries, entry{secret: s})
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromEnv loads prefix_1 .. prefix_max using lookup. Gaps in the numbering are
// tolerated; only present, non-empty entries are pooled. If no numbered entry
// exists, the bare prefix variable is used as a single-key pool.
func FromEnv(prefix string, max int, lookup func(string) (string, bool), opts ...Option) *Pool {
	return New(EnvSecrets(prefix, max, lookup), opts...)
}

// EnvSecrets returns the secrets FromEnv would pool, in order.
func EnvSecrets(prefix string, max int, lookup func(string) (string, bool)) []string {
	var secrets []string
	for i := 1; i <= max; i++ {
		if v, ok := lookup(prefix + "_" + strconv.Itoa(i)); ok && v != "" {
			secrets = append(secrets, v)
		}
	}
	if len(secrets) == 0 {
		if v, ok := lookup(prefix); ok && v != "" {
			secrets = append(secrets, v)
		}
	}
	return secrets
}

// Len returns the number of pooled credentials.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Next returns the credential at the cursor and advances the cursor modulo the
// pool size. It fails with a *gengate.ConfigurationError if the pool is empty.
func (p *Pool) Next() (Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.entries) == 0 {
		return Credential{}, &gengate.ConfigurationError{
			Provider: p.provider,
			Msg:      "key rotation pool is empty",
		}
	}

	idx := p.cursor
	e := &p.entries[idx]
	e.uses++
	e.lastUsed = p.now()
	p.cursor = (p.cursor + 1) % len(p.entries)

	return Credential{
		Index:    idx,
		Uses:     e.uses,
		LastUsed: e.lastUsed,
		secret:   e.secret,
	}, nil
}

// CredentialStats reports usage of one credential.
type CredentialStats struct {
	Index    int       `json:"index"`
	Uses     int64     `json:"uses"`
	LastUsed time.Time `json:"lastUsed"`
}

// Stats is an observability snapshot of a pool. It never contains secrets.
type Stats struct {
	Size        int               `json:"size"`
	Cursor      int               `json:"cursor"`
	Credentials []CredentialStats `json:"credentials"`
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{
		Size:        len(p.entries),
		Cursor:      p.cursor,
		Credentials: make([]CredentialStats, len(p.entries)),
	}
	for i, e := range p.entries {
		s.Credentials[i] = CredentialStats{Index: i, Uses: e.uses, LastUsed: e.lastUsed}
	}
	return s
}
