package dict

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry holds one immutable Dictionary per declared version. A version
// loads exactly once (double-checked, so concurrent first requests share one
// load) and its slot is swapped wholesale on Reload; a failed load is sticky
// and isolated to its version.
type Registry struct {
	dir   string
	order []string

	mu    sync.RWMutex
	slots map[string]*slot
}

type slot struct {
	mu    sync.Mutex
	done  chan struct{} // nil until a load starts, closed when it finishes
	dict  *Dictionary
	err   error
	label string
}

// Slot load states reported by Versions.
const (
	StatusUnloaded = "unloaded"
	StatusLoading  = "loading"
	StatusReady    = "ready"
	StatusFailed   = "failed"
)

// VersionInfo is one registry entry's public status.
type VersionInfo struct {
	Version   string `json:"version"`
	Label     string `json:"label,omitempty"`
	Status    string `json:"status"`
	Available bool   `json:"available"`
}

// NewRegistry declares the versions of a dictionary directory. Nothing loads
// until LoadAll or the first Get.
func NewRegistry(dir string, versions []ManifestVersion) *Registry {
	r := &Registry{dir: dir, slots: make(map[string]*slot, len(versions))}
	for _, v := range versions {
		if _, dup := r.slots[v.Name]; dup {
			continue
		}
		r.slots[v.Name] = &slot{label: v.Label}
		r.order = append(r.order, v.Name)
	}
	return r
}

// LoadAll eagerly loads every declared version. Load failures are logged and
// isolated; the registry stays servable for the versions that loaded.
func (r *Registry) LoadAll() {
	for _, v := range r.order {
		if _, err := r.Get(v); err != nil {
			log.Error().Str("version", v).Err(err).Msg("version unavailable")
		}
	}
}

// Get returns the version's dictionary, loading it on first use. Requests
// arriving while a load is in flight block until it completes and never
// observe a partially built dictionary.
func (r *Registry) Get(version string) (*Dictionary, error) {
	r.mu.RLock()
	s, ok := r.slots[version]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Version: version, Entity: "version", Key: version}
	}

	s.mu.Lock()
	if s.done == nil {
		s.done = make(chan struct{})
		s.mu.Unlock()

		d, err := LoadVersion(r.dir, version)

		s.mu.Lock()
		s.dict, s.err = d, err
		close(s.done)
		s.mu.Unlock()
		return d, err
	}
	done := s.done
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dict, s.err
}

// Reload rebuilds a version from its inputs and atomically swaps the slot.
// Readers keep whatever dictionary they already hold.
func (r *Registry) Reload(version string) (*Dictionary, error) {
	r.mu.Lock()
	s, ok := r.slots[version]
	if !ok {
		r.mu.Unlock()
		return nil, &NotFoundError{Version: version, Entity: "version", Key: version}
	}
	r.slots[version] = &slot{label: s.label}
	r.mu.Unlock()
	return r.Get(version)
}

// Versions lists declared versions in manifest order with load status.
func (r *Registry) Versions() []VersionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]VersionInfo, 0, len(r.order))
	for _, v := range r.order {
		s := r.slots[v]
		s.mu.Lock()
		status := StatusUnloaded
		switch {
		case s.done == nil:
		case !closed(s.done):
			status = StatusLoading
		case s.err != nil:
			status = StatusFailed
		default:
			status = StatusReady
		}
		s.mu.Unlock()
		out = append(out, VersionInfo{
			Version:   v,
			Label:     s.label,
			Status:    status,
			Available: status == StatusReady,
		})
	}
	return out
}

func closed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
