package layout

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
)

// ErrNoLayouts is returned when no ship layout is available.
var ErrNoLayouts = errors.New("no ship layouts available")

// Provider supplies ship layouts. Content packs register one at startup.
type Provider interface {
	Name() string
	Layouts() ([]*ShipLayout, error)
}

// Resolver is an optional Provider capability: a provider that can resolve a
// layout by name on demand, for layouts it does not list up front.
type Resolver interface {
	ResolveLayout(name string) (*ShipLayout, bool)
}

// Allower decides whether a layout may be used. config.Settings implements it.
type Allower interface {
	AllowsShip(name string) bool
}

// DirProvider loads layouts from a directory of YAML files.
type DirProvider struct {
	Label string
	Dir   string
}

// Name returns the provider label.
func (p *DirProvider) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Dir
}

// Layouts loads every layout file in the directory.
func (p *DirProvider) Layouts() ([]*ShipLayout, error) {
	return LoadFromDirectory(p.Dir)
}

// StaticProvider serves a fixed list of layouts.
type StaticProvider struct {
	Label string
	List  []*ShipLayout
}

// Name returns the provider label.
func (p *StaticProvider) Name() string { return p.Label }

// Layouts returns the fixed list.
func (p *StaticProvider) Layouts() ([]*ShipLayout, error) { return p.List, nil }

// Registry aggregates the layouts of every registered provider.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	layouts   []*ShipLayout
	loaded    bool
	warned    bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterProvider adds a provider. The next lookup reloads the layout list.
func (r *Registry) RegisterProvider(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
	r.loaded = false
}

// Refresh reloads layouts from every provider, sorted by label.
// A failing provider is logged and skipped.
func (r *Registry) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshLocked()
}

func (r *Registry) refreshLocked() {
	r.layouts = r.layouts[:0]
	r.warned = false

	for _, p := range r.providers {
		list, err := p.Layouts()
		if err != nil {
			logger.Error("Failed to load ship layouts", "provider", p.Name(), "error", err)
			continue
		}
		for _, l := range list {
			if l == nil {
				continue
			}
			if l.Source == "" {
				l.Source = p.Name()
			}
			r.layouts = append(r.layouts, l)
		}
	}

	sort.SliceStable(r.layouts, func(i, j int) bool {
		return strings.ToLower(r.layouts[i].DisplayLabel()) < strings.ToLower(r.layouts[j].DisplayLabel())
	})
	r.loaded = true

	if len(r.layouts) == 0 {
		r.warnEmptyLocked()
	} else {
		logger.Debug("Ship layouts loaded", "count", len(r.layouts))
	}
}

func (r *Registry) warnEmptyLocked() {
	if r.warned {
		return
	}
	r.warned = true
	logger.Warning("No ship layouts found; crashed gravship sites are disabled until a layout provider is registered")
}

// ensureLoaded refreshes on first use, or while the registry is still empty.
func (r *Registry) ensureLoaded() {
	r.mu.RLock()
	ok := r.loaded && len(r.layouts) > 0
	r.mu.RUnlock()
	if ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded || len(r.layouts) == 0 {
		r.refreshLocked()
	}
}

// NotifySettingsChanged re-arms the empty-content warning.
func (r *Registry) NotifySettingsChanged() {
	r.mu.Lock()
	r.warned = false
	r.mu.Unlock()
}

// All returns every known layout, sorted by label.
func (r *Registry) All() []*ShipLayout {
	r.ensureLoaded()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ShipLayout, len(r.layouts))
	copy(out, r.layouts)
	return out
}

// Names returns every layout name in label order.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = l.Name
	}
	return names
}

// HasContent reports whether any layout is available.
func (r *Registry) HasContent() bool {
	r.ensureLoaded()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.layouts) > 0
}

// Get finds a layout by name, ignoring case. Providers implementing Resolver
// are asked when no listed layout matches.
func (r *Registry) Get(name string) (*ShipLayout, bool) {
	if name == "" {
		return nil, false
	}
	r.ensureLoaded()

	r.mu.RLock()
	for _, l := range r.layouts {
		if strings.EqualFold(l.Name, name) {
			r.mu.RUnlock()
			return l, true
		}
	}
	r.mu.RUnlock()

	// Resolved layouts may be tagged with their source below.
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		res, ok := p.(Resolver)
		if !ok {
			continue
		}
		if l, ok := res.ResolveLayout(name); ok && l != nil {
			if l.Source == "" {
				l.Source = p.Name()
			}
			return l, true
		}
	}
	return nil, false
}

// Allowed returns the layouts the allower permits, in label order.
func (r *Registry) Allowed(allow Allower) []*ShipLayout {
	if allow == nil {
		return nil
	}
	var out []*ShipLayout
	for _, l := range r.All() {
		if allow.AllowsShip(l.Name) {
			out = append(out, l)
		}
	}
	return out
}

// Random picks any layout.
func (r *Registry) Random(rng *rand.Rand) (*ShipLayout, error) {
	all := r.All()
	if len(all) == 0 {
		logger.Warning("Random ship layout requested but no layouts are loaded")
		return nil, ErrNoLayouts
	}
	chosen := all[rng.Intn(len(all))]
	logger.Info("Randomly selected ship layout", "layout", chosen.Name, "label", chosen.Label)
	return chosen, nil
}

// RandomAllowed picks a layout the allower permits.
func (r *Registry) RandomAllowed(allow Allower, rng *rand.Rand) (*ShipLayout, error) {
	allowed := r.Allowed(allow)
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: every layout is disabled", ErrNoLayouts)
	}
	return allowed[rng.Intn(len(allowed))], nil
}
