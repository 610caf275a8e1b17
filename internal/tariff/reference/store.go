// Package reference holds the read-only tariff and rules-of-origin dataset
// the engine resolves against, and the sources it can be loaded from.
package reference

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OpenNSW/tariff/internal/tariff/model"
)

// Metadata describes the dataset a Store was built from.
type Metadata struct {
	SchemaVersion  string    `json:"schema_version"`
	DatasetVersion string    `json:"dataset_version"`
	Description    string    `json:"description,omitempty"`
	Source         string    `json:"source"`
	LoadedAt       time.Time `json:"loaded_at"`
	Countries      int       `json:"countries"`
	Members        int       `json:"members"`
	TariffLines    int       `json:"tariff_lines"`
	OriginRules    int       `json:"origin_rules"`
}

type schedule struct {
	profile      model.CountryTaxProfile
	chapters     map[string]model.TariffRecord
	hs6          map[string]model.TariffRecord
	subPositions map[string]model.TariffRecord
	subsByHS6    map[string][]model.TariffRecord // sorted by code
	preferential map[string]decimal.Decimal
}

// Store is the immutable, in-memory reference dataset. It is safe for
// concurrent reads; nothing mutates it after Build returns.
type Store struct {
	meta         Metadata
	schedules    map[string]*schedule
	members      map[string]struct{}
	headingRules map[string]model.OriginRule
	chapterRules map[string]model.OriginRule
	defaultRule  *model.OriginRule
}

func (s *Store) Metadata() Metadata { return s.meta }

// DatasetVersion labels results computed against this store.
func (s *Store) DatasetVersion() string { return s.meta.DatasetVersion }

// HasCountry reports whether code is a destination with a loaded schedule.
func (s *Store) HasCountry(code string) bool {
	_, ok := s.schedules[code]
	return ok
}

// IsKnownOrigin reports whether code may appear as an origin: a free-trade
// area member or any destination in the dataset.
func (s *Store) IsKnownOrigin(code string) bool {
	if _, ok := s.members[code]; ok {
		return true
	}
	return s.HasCountry(code)
}

// Country returns the tax profile of a destination.
func (s *Store) Country(code string) (model.CountryTaxProfile, bool) {
	sc, ok := s.schedules[code]
	if !ok {
		return model.CountryTaxProfile{}, false
	}
	return sc.profile, true
}

// Countries returns every destination profile sorted by country code.
func (s *Store) Countries() []model.CountryTaxProfile {
	out := make([]model.CountryTaxProfile, 0, len(s.schedules))
	for _, sc := range s.schedules {
		out = append(out, sc.profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

func (s *Store) SubPosition(dest, code string) (model.TariffRecord, bool) {
	return s.lookup(dest, code, func(sc *schedule) map[string]model.TariffRecord { return sc.subPositions })
}

func (s *Store) HS6(dest, code string) (model.TariffRecord, bool) {
	return s.lookup(dest, code, func(sc *schedule) map[string]model.TariffRecord { return sc.hs6 })
}

func (s *Store) Chapter(dest, code string) (model.TariffRecord, bool) {
	return s.lookup(dest, code, func(sc *schedule) map[string]model.TariffRecord { return sc.chapters })
}

func (s *Store) lookup(dest, code string, table func(*schedule) map[string]model.TariffRecord) (model.TariffRecord, bool) {
	sc, ok := s.schedules[dest]
	if !ok {
		return model.TariffRecord{}, false
	}
	rec, ok := table(sc)[code]
	return rec, ok
}

// SubPositionsUnder returns the national lines of dest that begin with hs6,
// sorted by code. The slice is a copy.
func (s *Store) SubPositionsUnder(dest, hs6 string) []model.TariffRecord {
	sc, ok := s.schedules[dest]
	if !ok {
		return nil
	}
	lines := sc.subsByHS6[hs6]
	out := make([]model.TariffRecord, len(lines))
	copy(out, lines)
	return out
}

// PreferentialRate returns a non-zero free-trade area rate recorded for dest and hs6.
func (s *Store) PreferentialRate(dest, hs6 string) (decimal.Decimal, bool) {
	sc, ok := s.schedules[dest]
	if !ok {
		return decimal.Zero, false
	}
	rate, ok := sc.preferential[hs6]
	return rate, ok
}

func (s *Store) HeadingRule(heading string) (model.OriginRule, bool) {
	r, ok := s.headingRules[heading]
	return r, ok
}

func (s *Store) ChapterRule(chapter string) (model.OriginRule, bool) {
	r, ok := s.chapterRules[chapter]
	return r, ok
}

// DefaultRule returns the dataset-wide fallback origin rule.
func (s *Store) DefaultRule() (model.OriginRule, bool) {
	if s.defaultRule == nil {
		return model.OriginRule{}, false
	}
	return *s.defaultRule, true
}

// Lines returns every tariff record of dest whose code starts with prefix,
// ordered by code. Levels have distinct code lengths, so a chapter sorts
// before the subheadings and lines below it.
func (s *Store) Lines(dest, prefix string) []model.TariffRecord {
	sc, ok := s.schedules[dest]
	if !ok {
		return nil
	}
	var out []model.TariffRecord
	for _, table := range []map[string]model.TariffRecord{sc.chapters, sc.hs6, sc.subPositions} {
		for code, rec := range table {
			if strings.HasPrefix(code, prefix) {
				out = append(out, rec)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
