package recent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zhubert/afterthought-core/bundle"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	file := filepath.Join(t.TempDir(), "data", "recent-databases.json")
	return NewStoreWithPath(func() (string, error) { return file, nil }), file
}

func TestList_Empty(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List = %v, want empty", got)
	}
}

func TestAdd_MovesToFrontAndDedupes(t *testing.T) {
	store, _ := newTestStore(t)

	a := bundle.Info{Name: "A", Path: "/docs/A"}
	b := bundle.Info{Name: "B", Path: "/docs/B"}
	for _, info := range []bundle.Info{a, b, a} {
		if err := store.Add(info); err != nil {
			t.Fatalf("Add(%s): %v", info.Name, err)
		}
	}

	got, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]bundle.Info{a, b}, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	last, err := store.LastOpened(func(string) bool { return true })
	if err != nil {
		t.Fatalf("LastOpened: %v", err)
	}
	if last != a.Path {
		t.Errorf("LastOpened = %q, want %q", last, a.Path)
	}
}

func TestAdd_Caps(t *testing.T) {
	store, _ := newTestStore(t)

	for i := range MaxEntries + 5 {
		p := filepath.Join("/docs", string(rune('a'+i)))
		if err := store.Add(bundle.Info{Name: p, Path: p}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != MaxEntries {
		t.Errorf("len(List) = %d, want %d", len(got), MaxEntries)
	}
}

func TestLastOpened_Invalid(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Add(bundle.Info{Name: "Gone", Path: "/docs/Gone"}); err != nil {
		t.Fatal(err)
	}

	last, err := store.LastOpened(func(string) bool { return false })
	if err != nil {
		t.Fatalf("LastOpened: %v", err)
	}
	if last != "" {
		t.Errorf("LastOpened = %q, want empty for invalid database", last)
	}
}

func TestRemove(t *testing.T) {
	store, file := newTestStore(t)
	a := bundle.Info{Name: "A", Path: "/docs/A"}
	b := bundle.Info{Name: "B", Path: "/docs/B"}
	for _, info := range []bundle.Info{a, b} {
		if err := store.Add(info); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := store.Remove(b.Path)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Error("Remove should report removal")
	}

	removed, err = store.Remove("/docs/none")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed {
		t.Error("Remove of unknown path should report false")
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	var data struct {
		Databases  []bundle.Info `json:"databases"`
		LastOpened *string       `json:"lastOpened"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]bundle.Info{a}, data.Databases); diff != "" {
		t.Errorf("file databases mismatch (-want +got):\n%s", diff)
	}
	if data.LastOpened != nil {
		t.Errorf("lastOpened = %q, want null after removing it", *data.LastOpened)
	}
}
