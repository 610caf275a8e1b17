package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RuleKind identifies an origin qualification regime.
type RuleKind string

const (
	RuleKindWhollyObtained        RuleKind = "WO"   // Wholly obtained in the exporting state
	RuleKindChangeOfTariffHeading RuleKind = "CTH"  // Change of tariff heading
	RuleKindValueAdded            RuleKind = "VA"   // Minimum regional value content
	RuleKindYarnForward           RuleKind = "YARN" // Manufacture from yarn
	RuleKindYetToBeAgreed         RuleKind = "YTB"  // Criterion still under negotiation
)

// RuleScope is the level of the classification a rule was defined at.
type RuleScope string

const (
	RuleScopeHeading RuleScope = "heading"
	RuleScopeChapter RuleScope = "chapter"
	RuleScopeDefault RuleScope = "default"
)

// OriginCriterion is a closed variant over the rule kinds. Only the value-added
// variant carries a payload (the required regional content percentage).
// The zero value is not a valid criterion.
type OriginCriterion struct {
	kind            RuleKind
	regionalContent int
}

func WhollyObtained() OriginCriterion        { return OriginCriterion{kind: RuleKindWhollyObtained} }
func ChangeOfTariffHeading() OriginCriterion { return OriginCriterion{kind: RuleKindChangeOfTariffHeading} }
func YarnForward() OriginCriterion           { return OriginCriterion{kind: RuleKindYarnForward} }
func YetToBeAgreed() OriginCriterion         { return OriginCriterion{kind: RuleKindYetToBeAgreed} }

// ValueAdded returns a regional value content criterion of pct percent.
func ValueAdded(pct int) (OriginCriterion, error) {
	if pct <= 0 || pct > 100 {
		return OriginCriterion{}, fmt.Errorf("regional content must be within 1..100, got %d", pct)
	}
	return OriginCriterion{kind: RuleKindValueAdded, regionalContent: pct}, nil
}

// ParseRuleCode parses WO, CTH, YARN, YTB and VA_n (VAn is accepted too).
func ParseRuleCode(code string) (OriginCriterion, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	switch RuleKind(c) {
	case RuleKindWhollyObtained:
		return WhollyObtained(), nil
	case RuleKindChangeOfTariffHeading:
		return ChangeOfTariffHeading(), nil
	case RuleKindYarnForward:
		return YarnForward(), nil
	case RuleKindYetToBeAgreed:
		return YetToBeAgreed(), nil
	}

	if rest, ok := strings.CutPrefix(c, string(RuleKindValueAdded)); ok {
		rest = strings.TrimPrefix(rest, "_")
		pct, err := strconv.Atoi(rest)
		if err != nil || rest == "" {
			return OriginCriterion{}, fmt.Errorf("unknown origin rule code %q", code)
		}
		return ValueAdded(pct)
	}
	return OriginCriterion{}, fmt.Errorf("unknown origin rule code %q", code)
}

// Kind returns the rule kind.
func (c OriginCriterion) Kind() RuleKind { return c.kind }

// RegionalContent returns the required regional content percentage for VA rules.
func (c OriginCriterion) RegionalContent() (int, bool) {
	if c.kind != RuleKindValueAdded {
		return 0, false
	}
	return c.regionalContent, true
}

// Code renders the canonical rule code, e.g. "WO" or "VA_40".
func (c OriginCriterion) Code() string {
	if c.kind == RuleKindValueAdded {
		return fmt.Sprintf("VA_%d", c.regionalContent)
	}
	return string(c.kind)
}

func (c OriginCriterion) String() string { return c.Code() }

func (c OriginCriterion) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Code())
}

func (c *OriginCriterion) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	parsed, err := ParseRuleCode(code)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// OriginRule is the rule of origin that applies to a product code.
type OriginRule struct {
	Scope       RuleScope
	MatchedCode string // heading or chapter the rule is keyed by; empty for the default
	Criterion   OriginCriterion
	Description string
}

type originRuleJSON struct {
	Scope           RuleScope `json:"scope"`
	MatchedCode     string    `json:"matched_code,omitempty"`
	RuleCode        string    `json:"rule_code"`
	RuleKind        RuleKind  `json:"rule_kind"`
	RegionalContent *int      `json:"regional_content"`
	Description     string    `json:"description"`
}

func (r OriginRule) MarshalJSON() ([]byte, error) {
	out := originRuleJSON{
		Scope:       r.Scope,
		MatchedCode: r.MatchedCode,
		RuleCode:    r.Criterion.Code(),
		RuleKind:    r.Criterion.Kind(),
		Description: r.Description,
	}
	if pct, ok := r.Criterion.RegionalContent(); ok {
		out.RegionalContent = &pct
	}
	return json.Marshal(out)
}

func (r *OriginRule) UnmarshalJSON(data []byte) error {
	var in originRuleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	criterion, err := ParseRuleCode(in.RuleCode)
	if err != nil {
		return err
	}
	*r = OriginRule{
		Scope:       in.Scope,
		MatchedCode: in.MatchedCode,
		Criterion:   criterion,
		Description: in.Description,
	}
	return nil
}
