package format

import (
	"github.com/tokenport/tokenport/internal/log"
)

// Registry holds the active adapters and ranks their detection results.
// Selection policy is maximum confidence; ties favor registration order,
// so more specific adapters should be registered first.
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates a registry with the given adapters, preserving order.
func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: adapters}
}

// Register appends an adapter. Registering a name twice is a no-op.
func (r *Registry) Register(a Adapter) {
	if r.Has(a.Name()) {
		return
	}
	r.adapters = append(r.adapters, a)
}

// Has reports whether an adapter with the given format name is registered.
func (r *Registry) Has(name string) bool {
	for _, a := range r.adapters {
		if a.Name() == name {
			return true
		}
	}
	return false
}

// Get returns the adapter for a format name, or nil.
func (r *Registry) Get(name string) Adapter {
	for _, a := range r.adapters {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// Adapters returns the registered adapters in registration order.
func (r *Registry) Adapters() []Adapter {
	return r.adapters
}

// Detect runs every registered adapter and returns the highest-confidence
// result. A strictly greater confidence is required to displace an earlier
// adapter's result.
func (r *Registry) Detect(data interface{}) DetectionResult {
	best := DetectionResult{Format: FormatFlat, Confidence: 0}
	for i, a := range r.adapters {
		result := a.Detect(data)
		log.Debug("detect: adapter %s scored %.2f", a.Name(), result.Confidence)
		if i == 0 || result.Confidence > best.Confidence {
			best = result
		}
	}
	return best
}

// DetectAll runs every registered adapter and returns all results in
// registration order, for diagnostic surfaces.
func (r *Registry) DetectAll(data interface{}) []DetectionResult {
	results := make([]DetectionResult, 0, len(r.adapters))
	for _, a := range r.adapters {
		results = append(results, a.Detect(data))
	}
	return results
}
