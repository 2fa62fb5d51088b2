package secret

import (
	"context"
	"os"
)

// Env reads secrets from the process environment, using the secret name as the variable name.
type Env struct {
	lookup func(string) (string, bool)
}

// NewEnv creates an environment-backed secret store.
func NewEnv() *Env {
	return &Env{lookup: os.LookupEnv}
}

// GetMany returns the names that are set in the environment. Empty values count as set.
func (e *Env) GetMany(_ context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, n := range names {
		if v, ok := e.lookup(n); ok {
			out[n] = v
		}
	}
	return out, nil
}
