package credential

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

// Loader resolves named credentials from an ordered chain of sources,
// first hit wins. A name that no source knows yields a credential with
// Present=false; Load never fails, so each consumer decides whether
// absence is fatal.
type Loader struct {
	sources []ports.SecretSource
	log     *zap.Logger

	mu     sync.RWMutex
	loaded map[string]domain.Credential
}

// NewLoader creates a loader over the given sources. With no sources it
// falls back to the process environment.
func NewLoader(log *zap.Logger, sources ...ports.SecretSource) *Loader {
	if len(sources) == 0 {
		sources = []ports.SecretSource{EnvSource{}}
	}
	return &Loader{
		sources: sources,
		log:     log,
		loaded:  make(map[string]domain.Credential),
	}
}

// Load resolves the credential for name. The result is cached: sources
// are consulted once per name for the lifetime of the process, so the
// returned value is stable and safe for concurrent reads.
func (l *Loader) Load(ctx context.Context, name string) domain.Credential {
	l.mu.RLock()
	if cred, ok := l.loaded[name]; ok {
		l.mu.RUnlock()
		return cred
	}
	l.mu.RUnlock()

	cred := domain.Credential{KeyName: name}
	for _, src := range l.sources {
		value, found, err := src.Lookup(ctx, name)
		if err != nil {
			// A broken source must not take the process down; fall
			// through to the next one.
			l.log.Warn("Secret source lookup failed",
				zap.String("credential", name),
				zap.Error(err),
			)
			continue
		}
		if found {
			cred.Value = value
			cred.Present = true
			break
		}
	}

	if !cred.Present {
		l.log.Warn("Credential not found in any source",
			zap.String("credential", name),
		)
	}

	l.mu.Lock()
	l.loaded[name] = cred
	l.mu.Unlock()

	return cred
}

// EnvSource resolves secrets from the process environment. An empty
// value counts as absent.
type EnvSource struct{}

func (EnvSource) Lookup(_ context.Context, name string) (string, bool, error) {
	value, ok := os.LookupEnv(name)
	value = strings.TrimSpace(value)
	return value, ok && value != "", nil
}
