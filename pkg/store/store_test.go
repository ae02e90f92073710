package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/template"
)

func newTemplate(t *testing.T, name string, kinds ...element.Kind) *template.Definition {
	t.Helper()
	reg := element.NewRegistry()
	d := template.New(name, template.Letter, template.Landscape)
	for _, k := range kinds {
		el, err := reg.Create(k)
		if err != nil {
			t.Fatal(err)
		}
		el.X, el.Y = 50, 50
		if _, err := d.Add(el); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

// testStore runs the behaviour every backend shares.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	a := newTemplate(t, "invoice", element.KindText, element.KindTable)
	b := newTemplate(t, "label", element.KindBarcode)

	t.Run("PutGet", func(t *testing.T) {
		if err := s.Put(ctx, a); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got == a {
			t.Error("Get returned the stored pointer")
		}
		if got.Name != "invoice" || got.Len() != 2 {
			t.Errorf("Get = %s with %d elements", got.Name, got.Len())
		}
		if got.Elements[1].Table == nil || got.Elements[1].Table.Columns != 3 {
			t.Error("table payload lost")
		}
	})

	t.Run("Replace", func(t *testing.T) {
		a.Name = "invoice v2"
		if err := s.Put(ctx, a); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get(ctx, a.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "invoice v2" {
			t.Errorf("Name = %q, want replaced name", got.Name)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := s.Put(ctx, b); err != nil {
			t.Fatal(err)
		}
		list, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 {
			t.Fatalf("List = %d entries, want 2", len(list))
		}
		if list[0].ID != a.ID || list[0].Elements != 2 {
			t.Errorf("list[0] = %+v", list[0])
		}
		if list[1].Name != "label" || list[1].UpdatedAt.IsZero() {
			t.Errorf("list[1] = %+v", list[1])
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.Delete(ctx, b.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Get(ctx, b.ID); !ferrors.Is(err, ferrors.ErrCodeNotFound) {
			t.Errorf("Get after Delete = %v, want NOT_FOUND", err)
		}
		if err := s.Delete(ctx, b.ID); err != nil {
			t.Errorf("second Delete = %v, want nil", err)
		}
	})

	t.Run("InvalidID", func(t *testing.T) {
		for _, id := range []string{"", "../escape", "a*"} {
			if _, err := s.Get(ctx, id); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
				t.Errorf("Get(%q) = %v, want INVALID_INPUT", id, err)
			}
		}
		bad := newTemplate(t, "bad")
		bad.ID = "has space"
		if err := s.Put(ctx, bad); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
			t.Errorf("Put(bad id) = %v, want INVALID_INPUT", err)
		}
		if err := s.Put(ctx, nil); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
			t.Errorf("Put(nil) = %v, want INVALID_INPUT", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Path() != dir {
		t.Errorf("Path = %q, want %q", s.Path(), dir)
	}
	testStore(t, s)

	// Foreign and corrupt files are ignored by List.
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600)
	_ = os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0600)
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("List = %d entries, want 1", len(list))
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("FORMWORK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FORMWORK_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr, Prefix: "formwork-test:" + element.NewID() + ":"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FORMWORK_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FORMWORK_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "formwork_test", Collection: element.NewID()})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.coll.Drop(ctx)
		_ = s.Close()
	}()
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"Memory", Config{Backend: BackendMemory}, false},
		{"File", Config{Backend: BackendFile, Dir: t.TempDir()}, false},
		{"DefaultIsFile", Config{Dir: t.TempDir()}, false},
		{"Unknown", Config{Backend: "tape"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				_ = s.Close()
			}
		})
	}
}

func TestParseSummary(t *testing.T) {
	sum := parseSummary("abc", []any{"invoice", "3", "2026-01-02T03:04:05Z"})
	if sum.ID != "abc" || sum.Name != "invoice" || sum.Elements != 3 || sum.UpdatedAt.Year() != 2026 {
		t.Errorf("parseSummary = %+v", sum)
	}
	empty := parseSummary("x", []any{nil, nil, nil})
	if empty.Name != "" || empty.Elements != 0 || !empty.UpdatedAt.IsZero() {
		t.Errorf("parseSummary(nil) = %+v", empty)
	}
}
