package reference

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OpenNSW/tariff/internal/tariff/hscode"
	"github.com/OpenNSW/tariff/internal/tariff/model"
)

// ErrInvalidDataset is returned when a bundle cannot be turned into a Store.
var ErrInvalidDataset = errors.New("invalid reference dataset")

var countryCodePattern = regexp.MustCompile(`^[A-Z]{2,3}$`)

// Build checks the bundle's invariants and indexes it into an immutable Store.
// All problems found are reported together.
func Build(b *Bundle, source string) (*Store, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: empty bundle", ErrInvalidDataset)
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(b.DatasetVersion) == "" {
		fail("dataset_version is required")
	}
	if len(b.Countries) == 0 {
		fail("at least one country is required")
	}

	s := &Store{
		schedules:    make(map[string]*schedule, len(b.Countries)),
		members:      make(map[string]struct{}, len(b.Members)),
		headingRules: make(map[string]model.OriginRule, len(b.OriginRules.Headings)),
		chapterRules: make(map[string]model.OriginRule, len(b.OriginRules.Chapters)),
	}

	for _, m := range b.Members {
		if !countryCodePattern.MatchString(m) {
			fail("member %q is not an upper-case country code", m)
			continue
		}
		s.members[m] = struct{}{}
	}

	lines := 0
	for code, entry := range b.Countries {
		if !countryCodePattern.MatchString(code) {
			fail("country %q is not an upper-case country code", code)
			continue
		}
		sc, problems := buildSchedule(code, entry)
		errs = append(errs, problems...)
		lines += len(sc.chapters) + len(sc.hs6) + len(sc.subPositions)
		s.schedules[code] = sc
	}

	for heading, entry := range b.OriginRules.Headings {
		if len(heading) != hscode.HeadingLen || !hscode.IsDigits(heading) {
			fail("origin rule key %q is not a 4-digit heading", heading)
			continue
		}
		rule, err := buildRule(model.RuleScopeHeading, heading, entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.headingRules[heading] = rule
	}
	for chapter, entry := range b.OriginRules.Chapters {
		if len(chapter) != hscode.ChapterLen || !hscode.IsDigits(chapter) {
			fail("origin rule key %q is not a 2-digit chapter", chapter)
			continue
		}
		rule, err := buildRule(model.RuleScopeChapter, chapter, entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.chapterRules[chapter] = rule
	}
	if b.DefaultOriginRule != nil {
		rule, err := buildRule(model.RuleScopeDefault, "", *b.DefaultOriginRule)
		if err != nil {
			errs = append(errs, err)
		} else {
			s.defaultRule = &rule
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, errors.Join(errs...))
	}

	s.meta = Metadata{
		SchemaVersion:  b.SchemaVersion,
		DatasetVersion: b.DatasetVersion,
		Description:    b.Description,
		Source:         source,
		LoadedAt:       time.Now().UTC(),
		Countries:      len(s.schedules),
		Members:        len(s.members),
		TariffLines:    lines,
		OriginRules:    len(s.headingRules) + len(s.chapterRules),
	}
	if s.defaultRule != nil {
		s.meta.OriginRules++
	}
	return s, nil
}

func buildSchedule(country string, entry CountryEntry) (*schedule, []error) {
	var errs []error
	sc := &schedule{
		profile: model.CountryTaxProfile{
			Country:        country,
			Name:           entry.Name,
			Bloc:           entry.Bloc,
			VATRate:        entry.Tax.VATRate,
			VATOnDuty:      entry.Tax.VATOnDuty,
			StatisticalFee: entry.Tax.StatisticalFee,
			CommunityLevy:  entry.Tax.CommunityLevy,
			BlocLevy:       entry.Tax.BlocLevy,
		},
		chapters:     make(map[string]model.TariffRecord, len(entry.Chapters)),
		hs6:          make(map[string]model.TariffRecord, len(entry.HS6)),
		subPositions: make(map[string]model.TariffRecord, len(entry.SubPositions)),
		subsByHS6:    make(map[string][]model.TariffRecord),
		preferential: make(map[string]decimal.Decimal, len(entry.Preferential)),
	}

	for name, v := range map[string]decimal.Decimal{
		"vat_rate":        entry.Tax.VATRate,
		"statistical_fee": entry.Tax.StatisticalFee,
		"community_levy":  entry.Tax.CommunityLevy,
		"bloc_levy":       entry.Tax.BlocLevy,
	} {
		if v.IsNegative() {
			errs = append(errs, fmt.Errorf("%s: %s is negative", country, name))
		}
	}

	add := func(table map[string]model.TariffRecord, precision model.Precision, minLen, maxLen int, rates map[string]RateEntry) {
		for code, r := range rates {
			if len(code) < minLen || len(code) > maxLen || !hscode.IsDigits(code) {
				errs = append(errs, fmt.Errorf("%s: %s code %q has the wrong length", country, precision, code))
				continue
			}
			if r.Rate.IsNegative() {
				errs = append(errs, fmt.Errorf("%s: %s rate for %q is negative", country, precision, code))
				continue
			}
			table[code] = model.TariffRecord{
				Code:        code,
				Precision:   precision,
				DutyRate:    r.Rate,
				Description: r.Description,
			}
		}
	}
	add(sc.chapters, model.PrecisionChapter, hscode.ChapterLen, hscode.ChapterLen, entry.Chapters)
	add(sc.hs6, model.PrecisionHS6Country, hscode.SubheadingLen, hscode.SubheadingLen, entry.HS6)
	add(sc.subPositions, model.PrecisionSubPosition, hscode.MinSubPositionLen, hscode.MaxSubPositionLen, entry.SubPositions)

	for code, rec := range sc.subPositions {
		hs6 := code[:hscode.SubheadingLen]
		sc.subsByHS6[hs6] = append(sc.subsByHS6[hs6], rec)
	}
	for _, recs := range sc.subsByHS6 {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Code < recs[j].Code })
	}

	for code, r := range entry.Preferential {
		if len(code) != hscode.SubheadingLen || !hscode.IsDigits(code) {
			errs = append(errs, fmt.Errorf("%s: preferential code %q is not an HS6 code", country, code))
			continue
		}
		if r.Rate.IsNegative() {
			errs = append(errs, fmt.Errorf("%s: preferential rate for %q is negative", country, code))
			continue
		}
		sc.preferential[code] = r.Rate
	}
	return sc, errs
}

func buildRule(scope model.RuleScope, key string, entry RuleEntry) (model.OriginRule, error) {
	criterion, err := model.ParseRuleCode(entry.Rule)
	if err != nil {
		if key == "" {
			return model.OriginRule{}, fmt.Errorf("default origin rule: %w", err)
		}
		return model.OriginRule{}, fmt.Errorf("%s origin rule %s: %w", scope, key, err)
	}
	return model.OriginRule{
		Scope:       scope,
		MatchedCode: key,
		Criterion:   criterion,
		Description: entry.Description,
	}, nil
}
