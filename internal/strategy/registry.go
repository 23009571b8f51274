package strategy

// Registry maps strategy names to instances. It is an explicit value
// passed into the comparison call rather than package-global state, so
// tests can build independent registries. Populate it fully at startup:
// concurrent reads are safe as long as no Register call races them.
type Registry struct {
	names      []string
	strategies map[string]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register stores the strategy under its declared name. Registering the
// same name twice silently overwrites the previous entry (last write
// wins); the original registration position is kept for List ordering.
func (r *Registry) Register(s Strategy) {
	name := s.Metadata().Name
	if _, exists := r.strategies[name]; !exists {
		r.names = append(r.names, name)
	}
	r.strategies[name] = s
}

// Get returns the strategy registered under name.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// List returns all registered names in registration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// MetadataOf returns the metadata of the named strategy.
func (r *Registry) MetadataOf(name string) (Metadata, bool) {
	s, ok := r.strategies[name]
	if !ok {
		return Metadata{}, false
	}
	return s.Metadata(), true
}

// DefaultRegistry returns a registry with every built-in strategy.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewAAVCStatic())
	r.Register(NewAAVCMovingAverage())
	r.Register(NewAAVCHighestReset())
	r.Register(NewAAVCDynamic())
	r.Register(NewDCA())
	r.Register(NewBuyAndHold())
	return r
}
