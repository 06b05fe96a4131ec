package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/1broseidon/termtile/internal/runtimepath"
)

// WindowRegistry tracks the bidirectional mapping between a Hub window
// id and the real platform window id it represents. The Hub knows
// nothing about X11; this is the seam the daemon uses to translate
// between the two without teaching the core any I/O.
type WindowRegistry struct {
	mu         sync.Mutex
	toHub      map[uint32]int
	toPlatform map[int]uint32
}

// NewWindowRegistry creates an empty registry.
func NewWindowRegistry() *WindowRegistry {
	return &WindowRegistry{
		toHub:      make(map[uint32]int),
		toPlatform: make(map[int]uint32),
	}
}

// Bind records that platformID and hubID name the same window.
func (r *WindowRegistry) Bind(platformID uint32, hubID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toHub[platformID] = hubID
	r.toPlatform[hubID] = platformID
}

// Unbind removes any mapping for platformID.
func (r *WindowRegistry) Unbind(platformID uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hubID, ok := r.toHub[platformID]; ok {
		delete(r.toHub, platformID)
		delete(r.toPlatform, hubID)
	}
}

// HubID resolves a platform window id to the Hub's id for it.
func (r *WindowRegistry) HubID(platformID uint32) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.toHub[platformID]
	return id, ok
}

// PlatformID resolves a Hub window id back to the real window it came from.
func (r *WindowRegistry) PlatformID(hubID int) (uint32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.toPlatform[hubID]
	return id, ok
}

// TrackedPlatformIDs returns every platform window id currently bound.
func (r *WindowRegistry) TrackedPlatformIDs() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint32, 0, len(r.toHub))
	for id := range r.toHub {
		ids = append(ids, id)
	}
	return ids
}

type registryEntry struct {
	PlatformID uint32 `json:"platform_id"`
	HubID      int    `json:"hub_id"`
}

// Save writes the binding table to the runtime registry file so the
// next daemon lifecycle can tell which windows it was managing.
func (r *WindowRegistry) Save() error {
	path, err := runtimepath.WindowRegistryPath()
	if err != nil {
		return err
	}

	r.mu.Lock()
	entries := make([]registryEntry, 0, len(r.toHub))
	for pid, hid := range r.toHub {
		entries = append(entries, registryEntry{PlatformID: pid, HubID: hid})
	}
	r.mu.Unlock()

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal window registry: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write window registry: %w", err)
	}
	return nil
}

// Load replaces the binding table with the persisted one. The caller
// is responsible for validating the entries against live state; stale
// bindings are expected after a restart.
func (r *WindowRegistry) Load() error {
	path, err := runtimepath.WindowRegistryPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var entries []registryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse window registry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.toHub = make(map[uint32]int, len(entries))
	r.toPlatform = make(map[int]uint32, len(entries))
	for _, e := range entries {
		r.toHub[e.PlatformID] = e.HubID
		r.toPlatform[e.HubID] = e.PlatformID
	}
	return nil
}
