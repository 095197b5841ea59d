package inventory

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// Resolver maps display names to ids of one reference table. Matching is
// case-insensitive after trimming. A Resolver caches for the lifetime of a
// single import and must not be shared between imports.
type Resolver struct {
	store      repo.ReferenceRepository
	autoCreate bool
	fold       cases.Caser
	ids        map[string]int64
}

// NewResolver preloads every existing name with one query.
func NewResolver(ctx context.Context, store repo.ReferenceRepository, autoCreate bool) (*Resolver, error) {
	names, err := store.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("preload names: %w", err)
	}

	r := &Resolver{
		store:      store,
		autoCreate: autoCreate,
		fold:       cases.Fold(),
		ids:        make(map[string]int64, len(names)),
	}
	for id, name := range names {
		key := r.key(name)
		// several stored spellings of one name resolve to the oldest row
		if existing, ok := r.ids[key]; !ok || id < existing {
			r.ids[key] = id
		}
	}
	return r, nil
}

func (r *Resolver) key(name string) string {
	return r.fold.String(strings.TrimSpace(name))
}

// Resolve returns the id for name, creating the row with the trimmed name
// when it is missing and auto-create is enabled. ok is false when the name
// is blank or could not be resolved.
func (r *Resolver) Resolve(ctx context.Context, name string) (id int64, ok bool, err error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, false, nil
	}

	key := r.key(trimmed)
	if id, ok := r.ids[key]; ok {
		return id, true, nil
	}
	if !r.autoCreate {
		return 0, false, nil
	}

	id, err = r.store.CreateNamed(ctx, trimmed)
	if err != nil {
		return 0, false, fmt.Errorf("create %q: %w", trimmed, err)
	}
	r.ids[key] = id
	return id, true, nil
}
