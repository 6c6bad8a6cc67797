// Package resolver finds the value of a setting that may come from several
// sources, such as a command line flag or the environment.
package resolver

import (
	"os"

	"github.com/pkg/errors"
)

// ErrUnresolved is returned by CompositeResolver when no delegate produced a
// value.
var ErrUnresolved = errors.New("could not resolve: no delegate resolved")

// Resolver resolves a setting, getting a value such as a URL.
type Resolver interface {
	// Resolve returns the value, or "" if this source does not set it.
	Resolve() (string, error)
}

// ConstantResolver always returns the same value
type ConstantResolver struct {
	s string
}

func NewConstantResolver(s string) *ConstantResolver {
	return &ConstantResolver{s: s}
}

func (r *ConstantResolver) Resolve() (string, error) {
	return r.s, nil
}

// EnvResolver resolves by looking for a key in the OS Environment
type EnvResolver struct {
	key string
}

func NewEnvResolver(key string) *EnvResolver {
	return &EnvResolver{key: key}
}

func (r *EnvResolver) Resolve() (string, error) {
	return os.Getenv(r.key), nil
}

// CompositeResolver resolves by resolving, in order, via delegates
type CompositeResolver struct {
	dels []Resolver
}

func NewCompositeResolver(dels ...Resolver) *CompositeResolver {
	return &CompositeResolver{dels: dels}
}

// Resolve returns the first non-empty value or error of the delegates, and
// ErrUnresolved if there is none.
func (r *CompositeResolver) Resolve() (string, error) {
	for _, d := range r.dels {
		if s, err := d.Resolve(); s != "" || err != nil {
			return s, err
		}
	}
	return "", ErrUnresolved
}
