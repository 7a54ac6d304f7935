package provider

import (
	"strings"
	"sync"
)

// GenericName is the platform unknown names fall back to.
const GenericName = "generic"

// Module contributes platforms to a registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds the known platforms by name.
type Registry struct {
	mu        sync.RWMutex
	platforms map[string]*Platform
}

// NewRegistry creates a registry populated by the given modules.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{platforms: make(map[string]*Platform)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds or replaces a platform.
func (r *Registry) Register(p *Platform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.platforms[NormalizeName(p.Name)] = p
}

// Names returns the registered platform names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	return names
}

// Provider returns a provider for the named platform. Names that are not
// registered resolve to the generic platform, and to an empty generic
// platform when none is registered either.
func (r *Registry) Provider(name string) *Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.platforms[NormalizeName(name)]; ok {
		return &Provider{platform: p}
	}
	if p, ok := r.platforms[GenericName]; ok {
		return &Provider{platform: p}
	}
	empty := NewPlatform(GenericName)
	empty.Generic = true
	return &Provider{platform: empty}
}

// NormalizeName lowercases a platform identifier and maps the aliases the
// upstream API uses onto provider names.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "google-actions", "google_actions", "actions-on-google":
		return "google"
	case "messenger", "facebook-messenger":
		return "facebook"
	}
	return n
}

var defaultResponsePlatforms = map[string]struct{}{
	"facebook": {},
	"google":   {},
	"kik":      {},
	"line":     {},
	"skype":    {},
	"slack":    {},
	"telegram": {},
	"twitter":  {},
	"viber":    {},
}

// DefaultResponsePlatforms returns the defaultResponsePlatforms value of an
// intent response for the given platform: {name: true} when the NLU platform
// supports it as a default response platform, otherwise an empty map.
func DefaultResponsePlatforms(name string) map[string]bool {
	n := NormalizeName(name)
	if _, ok := defaultResponsePlatforms[n]; ok {
		return map[string]bool{n: true}
	}
	return map[string]bool{}
}
