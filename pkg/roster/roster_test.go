package roster

import (
	"path/filepath"
	"testing"

	"github.com/cuteataxx/arbiter/pkg/engine"
)

func withTempRoster(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	oldDir, oldFile := Directory, File
	Directory = dir
	File = filepath.Join(dir, "engines.yaml")
	t.Cleanup(func() { Directory, File = oldDir, oldFile })
}

func TestLoadEmptyRosterHasNoEntries(t *testing.T) {
	withTempRoster(t)
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(r.List()) != 0 {
		t.Errorf("List() on a fresh roster = %v, want empty", r.List())
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	withTempRoster(t)
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ref := engine.Ref{ID: "alpha", Name: "Alpha", Path: "/usr/bin/alpha"}
	if err := r.Put(ref); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := r.Get("alpha")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != ref.ID || got.Name != ref.Name || got.Path != ref.Path {
		t.Errorf("Get(alpha) = %+v, want %+v", got, ref)
	}

	// Reload from disk to confirm persistence.
	r2, err := Load()
	if err != nil {
		t.Fatalf("Load (reload): %v", err)
	}
	if _, err := r2.Get("alpha"); err != nil {
		t.Errorf("Get(alpha) after reload: %v", err)
	}
}

func TestGetUnknownIDErrors(t *testing.T) {
	withTempRoster(t)
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := r.Get("nope"); err == nil {
		t.Error("Get(nope): expected an error")
	}
}

func TestListIsAlphanumSorted(t *testing.T) {
	withTempRoster(t)
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, id := range []string{"engine10", "engine2", "engine1"} {
		if err := r.Put(engine.Ref{ID: id}); err != nil {
			t.Fatalf("Put(%s): %v", id, err)
		}
	}

	list := r.List()
	var ids []string
	for _, ref := range list {
		ids = append(ids, ref.ID)
	}
	want := []string{"engine1", "engine2", "engine10"}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("List()[%d] = %q, want %q (full: %v)", i, ids[i], id, ids)
		}
	}
}

func TestRemove(t *testing.T) {
	withTempRoster(t)
	r, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_ = r.Put(engine.Ref{ID: "gone"})
	if err := r.Remove("gone"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := r.Get("gone"); err == nil {
		t.Error("Get after Remove: expected an error")
	}
}
