package aggregate

import (
	"fmt"
	"time"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/sources"
)

// Tagged pairs a raw upstream record with the source that produced it.
type Tagged struct {
	Source string
	Raw    sources.Raw
}

// MapFunc converts one source-native record into the canonical contest shape.
type MapFunc func(raw sources.Raw, now time.Time) (domain.Contest, error)

// UnknownSourceError reports a record tagged with a source that was never
// registered. This is a programmer error, not a runtime condition: every
// adapter handed to the aggregator must have its mapper registered.
type UnknownSourceError struct {
	Source string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("no normalizer registered for source %q", e.Source)
}

// Registry maps source names to their normalization functions. Sources are
// registered explicitly at composition time so that adding one is a
// compile-checked wiring change rather than a string-matched branch.
type Registry struct {
	mappers map[string]MapFunc
	now     func() time.Time
}

// NewRegistry constructs an empty Registry with a real clock.
func NewRegistry() *Registry {
	return &Registry{
		mappers: make(map[string]MapFunc),
		now:     time.Now,
	}
}

// Register binds a source name to its mapping function. Registering the same
// source twice panics: it can only happen through a wiring mistake.
func (r *Registry) Register(source string, fn MapFunc) {
	if source == "" || fn == nil {
		panic("aggregate: Register requires a source name and a mapper")
	}
	if _, exists := r.mappers[source]; exists {
		panic(fmt.Sprintf("aggregate: source %q registered twice", source))
	}
	r.mappers[source] = fn
}

// Normalize converts a tagged record into a canonical contest, computing its
// status at the current instant.
func (r *Registry) Normalize(rec Tagged) (domain.Contest, error) {
	fn, ok := r.mappers[rec.Source]
	if !ok {
		return domain.Contest{}, &UnknownSourceError{Source: rec.Source}
	}
	return fn(rec.Raw, r.now())
}

// Sources returns the registered source names; used to validate requested
// subsets against the configured adapters.
func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.mappers))
	for name := range r.mappers {
		names = append(names, name)
	}
	return names
}
