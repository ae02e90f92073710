// Package store persists template definitions by ID.
//
// Four backends implement [Store]:
//   - [MemoryStore]: in-process map, for tests and one-shot CLI runs
//   - [FileStore]: one JSON file per template in a directory
//   - [RedisStore]: one key per template, for shared deployments
//   - [MongoStore]: one document per template, with queryable metadata
//
// All backends validate template IDs with [ferrors.ValidateTemplateID]
// before building keys or paths from them, and all return a NOT_FOUND error
// from Get when the ID is unknown. Deleting a missing template is not an
// error.
//
// Use [Open] to build a backend from a [Config]:
//
//	s, err := store.Open(ctx, store.Config{Backend: store.BackendFile, Dir: dir})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	err = s.Put(ctx, tmpl)
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/template"
)

// Store is the interface for template storage backends.
type Store interface {
	// Put stores d under d.ID, replacing any previous version.
	Put(ctx context.Context, d *template.Definition) error

	// Get returns the template stored under id.
	Get(ctx context.Context, id string) (*template.Definition, error)

	// List returns a summary of every stored template, sorted by name and ID.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes the template stored under id.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Summary describes a stored template without loading its elements.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Elements  int       `json:"elements" bson:"elements"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func summarize(d *template.Definition, now time.Time) Summary {
	return Summary{ID: d.ID, Name: d.Name, Elements: d.Len(), UpdatedAt: now.UTC()}
}

func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func checkPut(d *template.Definition) error {
	if d == nil {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "nil template")
	}
	return ferrors.ValidateTemplateID(d.ID)
}

func notFound(id string) error {
	return &ferrors.Error{Code: ferrors.ErrCodeNotFound, Message: "template not found", Subject: id}
}

// Backend names a storage backend.
type Backend string

// Supported backends.
const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendMongo  Backend = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend Backend     `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// Open connects to the backend named by cfg.Backend. An empty backend means
// the file store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendFile, "":
		s, err = NewFileStore(cfg.Dir)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, ferrors.New(ferrors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
