package daemon

import "testing"

func TestWindowRegistry_BindResolveUnbind(t *testing.T) {
	r := NewWindowRegistry()
	r.Bind(0xa0, 7)
	r.Bind(0xb1, 9)

	if id, ok := r.HubID(0xa0); !ok || id != 7 {
		t.Fatalf("HubID(0xa0) = %d, %v; want 7, true", id, ok)
	}
	if id, ok := r.PlatformID(9); !ok || id != 0xb1 {
		t.Fatalf("PlatformID(9) = %#x, %v; want 0xb1, true", id, ok)
	}

	r.Unbind(0xa0)
	if _, ok := r.HubID(0xa0); ok {
		t.Fatalf("HubID resolved after Unbind")
	}
	if _, ok := r.PlatformID(7); ok {
		t.Fatalf("PlatformID resolved after Unbind")
	}
	if got := len(r.TrackedPlatformIDs()); got != 1 {
		t.Fatalf("TrackedPlatformIDs() len = %d, want 1", got)
	}
}

func TestWindowRegistry_SaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	r := NewWindowRegistry()
	r.Bind(0x1c4, 3)
	r.Bind(0x2d5, 12)
	if err := r.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded := NewWindowRegistry()
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if id, ok := loaded.HubID(0x1c4); !ok || id != 3 {
		t.Fatalf("loaded HubID(0x1c4) = %d, %v; want 3, true", id, ok)
	}
	if pid, ok := loaded.PlatformID(12); !ok || pid != 0x2d5 {
		t.Fatalf("loaded PlatformID(12) = %#x, %v; want 0x2d5, true", pid, ok)
	}
}
