package reference

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	"gorm.io/gorm"

	"github.com/OpenNSW/tariff/internal/storage"
	"github.com/OpenNSW/tariff/internal/tariff/hscode"
	"github.com/OpenNSW/tariff/internal/tariff/model"
)

//go:embed data/default.yaml
var defaultBundle []byte

// Source produces a Store. Implementations are called once at startup.
type Source interface {
	Load(ctx context.Context) (*Store, error)
}

// EmbeddedSource loads the dataset compiled into the binary.
type EmbeddedSource struct {
	loader *Loader
}

func NewEmbeddedSource(loader *Loader) *EmbeddedSource {
	return &EmbeddedSource{loader: loader}
}

func (s *EmbeddedSource) Load(ctx context.Context) (*Store, error) {
	return s.loader.Load(defaultBundle, FormatYAML, "embedded")
}

// ObjectSource loads a bundle from a storage driver (local filesystem or S3).
type ObjectSource struct {
	loader *Loader
	driver storage.StorageDriver
	key    string
}

func NewObjectSource(loader *Loader, driver storage.StorageDriver, key string) *ObjectSource {
	return &ObjectSource{loader: loader, driver: driver, key: key}
}

func (s *ObjectSource) Load(ctx context.Context) (*Store, error) {
	format, err := FormatFromKey(s.key)
	if err != nil {
		return nil, err
	}

	body, contentType, err := s.driver.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference bundle %s: %w", s.key, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference bundle %s: %w", s.key, err)
	}
	slog.InfoContext(ctx, "reference bundle fetched", "key", s.key, "contentType", contentType, "bytes", len(data))

	return s.loader.Load(data, format, "storage:"+s.key)
}

// DatabaseSource loads the dataset from the relational reference tables.
type DatabaseSource struct {
	db             *gorm.DB
	datasetVersion string
}

func NewDatabaseSource(db *gorm.DB, datasetVersion string) *DatabaseSource {
	return &DatabaseSource{db: db, datasetVersion: datasetVersion}
}

func (s *DatabaseSource) Load(ctx context.Context) (*Store, error) {
	db := s.db.WithContext(ctx)

	var profiles []model.TaxProfileRecord
	if err := db.Order("country").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to load tax profiles: %w", err)
	}
	var lines []model.TariffLineRecord
	if err := db.Order("destination, code").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load tariff lines: %w", err)
	}
	var rules []model.OriginRuleRecord
	if err := db.Order("scope, code").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to load origin rules: %w", err)
	}
	var members []model.MemberStateRecord
	if err := db.Order("country").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to load member states: %w", err)
	}

	b, err := bundleFromRows(s.datasetVersion, profiles, lines, rules, members)
	if err != nil {
		return nil, err
	}
	return Build(b, "database")
}

func bundleFromRows(version string, profiles []model.TaxProfileRecord, lines []model.TariffLineRecord, rules []model.OriginRuleRecord, members []model.MemberStateRecord) (*Bundle, error) {
	b := &Bundle{
		SchemaVersion:  CurrentSchemaVersion,
		DatasetVersion: version,
		Countries:      make(map[string]CountryEntry, len(profiles)),
		OriginRules: OriginRuleTables{
			Headings: map[string]RuleEntry{},
			Chapters: map[string]RuleEntry{},
		},
	}

	for _, p := range profiles {
		b.Countries[p.Country] = CountryEntry{
			Name: p.Name,
			Bloc: p.Bloc,
			Tax: TaxEntry{
				VATRate:        p.VATRate,
				VATOnDuty:      p.VATOnDuty,
				StatisticalFee: p.StatisticalFee,
				CommunityLevy:  p.CommunityLevy,
				BlocLevy:       p.BlocLevy,
			},
			Chapters:     map[string]RateEntry{},
			HS6:          map[string]RateEntry{},
			SubPositions: map[string]RateEntry{},
			Preferential: map[string]RateEntry{},
		}
	}

	for _, l := range lines {
		c, ok := b.Countries[l.Destination]
		if !ok {
			return nil, fmt.Errorf("%w: tariff line %s references unknown destination %s", ErrInvalidDataset, l.Code, l.Destination)
		}
		entry := RateEntry{Rate: l.DutyRate, Description: l.Description}
		if l.Regime == model.RegimePreferential {
			c.Preferential[l.Code] = entry
			continue
		}
		switch n := len(l.Code); {
		case n == hscode.ChapterLen:
			c.Chapters[l.Code] = entry
		case n == hscode.SubheadingLen:
			c.HS6[l.Code] = entry
		case n >= hscode.MinSubPositionLen:
			c.SubPositions[l.Code] = entry
		default:
			return nil, fmt.Errorf("%w: tariff line %s for %s has no schedule level", ErrInvalidDataset, l.Code, l.Destination)
		}
	}

	for _, r := range rules {
		entry := RuleEntry{Rule: r.RuleCode, Description: r.Description}
		switch r.Scope {
		case model.RuleScopeHeading:
			b.OriginRules.Headings[r.Code] = entry
		case model.RuleScopeChapter:
			b.OriginRules.Chapters[r.Code] = entry
		case model.RuleScopeDefault:
			b.DefaultOriginRule = &entry
		default:
			return nil, fmt.Errorf("%w: origin rule %s has unknown scope %q", ErrInvalidDataset, r.Code, r.Scope)
		}
	}

	for _, m := range members {
		b.Members = append(b.Members, m.Country)
	}
	return b, nil
}
