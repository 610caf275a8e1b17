package reference

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/OpenNSW/tariff/internal/config"
	"github.com/OpenNSW/tariff/internal/storage"
)

// Holder loads the Store from its Source on first use and hands the same
// instance to every caller afterwards. A failed load is remembered and
// returned on every call.
type Holder struct {
	source Source
	once   sync.Once
	store  *Store
	err    error
}

func NewHolder(source Source) *Holder {
	return &Holder{source: source}
}

// NewStaticHolder wraps an already built Store.
func NewStaticHolder(store *Store) *Holder {
	h := &Holder{store: store}
	h.once.Do(func() {})
	return h
}

// Get returns the loaded Store, loading it on the first call.
func (h *Holder) Get(ctx context.Context) (*Store, error) {
	h.once.Do(func() {
		h.store, h.err = h.source.Load(ctx)
		if h.err != nil {
			slog.ErrorContext(ctx, "failed to load reference dataset", "error", h.err)
			return
		}
		meta := h.store.Metadata()
		slog.InfoContext(ctx, "reference dataset loaded",
			"source", meta.Source,
			"datasetVersion", meta.DatasetVersion,
			"schemaVersion", meta.SchemaVersion,
			"countries", meta.Countries,
			"tariffLines", meta.TariffLines,
			"originRules", meta.OriginRules,
		)
	})
	return h.store, h.err
}

// NewSourceFromConfig creates the Source selected by cfg. driver is needed
// for the storage source and db for the database source.
func NewSourceFromConfig(cfg config.ReferenceConfig, driver storage.StorageDriver, db *gorm.DB) (Source, error) {
	switch cfg.Source {
	case config.ReferenceSourceEmbedded, config.ReferenceSourceStorage:
		loader, err := NewLoader(cfg.SchemaConstraint)
		if err != nil {
			return nil, err
		}
		if cfg.Source == config.ReferenceSourceEmbedded {
			return NewEmbeddedSource(loader), nil
		}
		if driver == nil {
			return nil, fmt.Errorf("storage reference source requires a storage driver")
		}
		return NewObjectSource(loader, driver, cfg.Key), nil
	case config.ReferenceSourceDatabase:
		if db == nil {
			return nil, fmt.Errorf("database reference source requires a database connection")
		}
		return NewDatabaseSource(db, cfg.DatasetVersion), nil
	default:
		return nil, fmt.Errorf("unsupported reference source: %s", cfg.Source)
	}
}
