// Package roster resolves short engine IDs to their full startup
// recipe (pkg/engine.Ref), persisted to a single yaml file in a
// cuteataxx directory under the user's home directory (xdg.Home).
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/cuteataxx/arbiter/pkg/engine"
)

// Directory is where the roster file lives, mirroring the teacher's
// ArbiterDirectory layout under xdg.Home.
var Directory = filepath.Join(xdg.Home, "cuteataxx")

// File is the roster's on-disk path.
var File = filepath.Join(Directory, "engines.yaml")

const permissions = 0755

// Roster is the in-memory registry, keyed by engine ID.
type Roster struct {
	entries map[string]engine.Ref
}

// Load reads the roster file, creating an empty one (and its
// containing directory) if it does not exist yet.
func Load() (*Roster, error) {
	if err := os.MkdirAll(Directory, permissions); err != nil {
		return nil, fmt.Errorf("roster: create %s: %w", Directory, err)
	}

	data, err := os.ReadFile(File)
	if os.IsNotExist(err) {
		return &Roster{entries: make(map[string]engine.Ref)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("roster: read %s: %w", File, err)
	}

	var list []engine.Ref
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("roster: parse %s: %w", File, err)
	}

	r := &Roster{entries: make(map[string]engine.Ref, len(list))}
	for _, ref := range list {
		r.entries[ref.ID] = ref
	}
	return r, nil
}

// Get resolves id to its Ref, or reports that no such engine is registered.
func (r *Roster) Get(id string) (engine.Ref, error) {
	ref, ok := r.entries[id]
	if !ok {
		return engine.Ref{}, fmt.Errorf("roster: no engine registered with id %q", id)
	}
	return ref, nil
}

// Put registers or overwrites ref under its own ID.
func (r *Roster) Put(ref engine.Ref) error {
	if ref.ID == "" {
		return fmt.Errorf("roster: engine ref has empty id")
	}
	r.entries[ref.ID] = ref
	return r.save()
}

// Remove deletes the engine with the given id, if present.
func (r *Roster) Remove(id string) error {
	delete(r.entries, id)
	return r.save()
}

// List returns every registered Ref, sorted by ID in natural
// (AlphanumCompare) order.
func (r *Roster) List() []engine.Ref {
	out := make([]engine.Ref, 0, len(r.entries))
	for _, ref := range r.entries {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool {
		return AlphanumCompare(out[i].ID, out[j].ID)
	})
	return out
}

func (r *Roster) save() error {
	data, err := yaml.Marshal(r.List())
	if err != nil {
		return fmt.Errorf("roster: marshal: %w", err)
	}
	if err := os.WriteFile(File, data, permissions); err != nil {
		return fmt.Errorf("roster: write %s: %w", File, err)
	}
	return nil
}
