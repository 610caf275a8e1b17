package service

import (
	"fmt"

	"github.com/OpenNSW/tariff/internal/tariff/hscode"
	"github.com/OpenNSW/tariff/internal/tariff/model"
	"github.com/OpenNSW/tariff/internal/tariff/reference"
)

// OriginResolver determines the rule of origin a product must satisfy for
// preferential treatment: heading rule, then chapter rule, then the dataset default.
type OriginResolver struct{}

func NewOriginResolver() *OriginResolver {
	return &OriginResolver{}
}

func (o *OriginResolver) Resolve(store *reference.Store, code hscode.ProductCode) (model.OriginRule, error) {
	if code.HasHeading() {
		if rule, ok := store.HeadingRule(code.Heading); ok {
			return rule, nil
		}
	}
	if rule, ok := store.ChapterRule(code.Chapter); ok {
		return rule, nil
	}
	if rule, ok := store.DefaultRule(); ok {
		return rule, nil
	}
	return model.OriginRule{}, fmt.Errorf("%w: no rule for %s and no default rule loaded", model.ErrOriginRuleUndetermined, code.Digits)
}

// ResolveCode normalizes raw before resolving it.
func (o *OriginResolver) ResolveCode(store *reference.Store, raw string) (model.OriginRule, error) {
	code, err := hscode.Parse(raw)
	if err != nil {
		return model.OriginRule{}, err
	}
	return o.Resolve(store, code)
}
