package strategy

// Parameters is a resolved parameter set: the strategy's schema defaults
// with caller overrides merged on top. It is validated before a run
// starts and never partially applied.
type Parameters map[string]interface{}

// ResolveParameters merges the schema defaults from meta with the
// caller-supplied overrides. Override keys not present in the schema are
// carried through untouched so strategies can ignore them.
func ResolveParameters(meta Metadata, overrides map[string]interface{}) Parameters {
	resolved := make(Parameters, len(meta.Parameters)+len(overrides))
	for name, spec := range meta.Parameters {
		if spec.Default != nil {
			resolved[name] = spec.Default
		}
	}
	for name, value := range overrides {
		resolved[name] = value
	}
	return resolved
}

// Float returns the named parameter as a float64, accepting the integer
// forms YAML and JSON decoders produce. Missing or non-numeric values
// fall back to the given default.
func (p Parameters) Float(name string, fallback float64) float64 {
	value, ok := p[name]
	if !ok || value == nil {
		return fallback
	}
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

// Int returns the named parameter as an int.
func (p Parameters) Int(name string, fallback int) int {
	value, ok := p[name]
	if !ok || value == nil {
		return fallback
	}
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// String returns the named parameter as a string.
func (p Parameters) String(name, fallback string) string {
	if v, ok := p[name].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Has reports whether the parameter is present with a non-nil value.
func (p Parameters) Has(name string) bool {
	v, ok := p[name]
	return ok && v != nil
}
