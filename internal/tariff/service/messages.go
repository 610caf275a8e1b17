package service

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/OpenNSW/tariff/internal/tariff/model"
)

const (
	msgRateVariation      = "rate_variation"
	msgRateRecommendation = "rate_recommendation"
	msgRateExact          = "rate_exact"
)

var warningCatalog = newWarningCatalog()

func newWarningCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(tag language.Tag, key, msg string) {
		if err := b.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}

	set(language.English, msgRateVariation,
		"National sub-positions under HS %[1]s carry different duty rates, from %[2]s to %[3]s.")
	set(language.French, msgRateVariation,
		"Les sous-positions nationales du SH %[1]s ont des taux de droits différents, de %[2]s à %[3]s.")

	set(language.English, msgRateRecommendation,
		"Declare the full national tariff line to get the exact rate. %[1]s was applied.")
	set(language.French, msgRateRecommendation,
		"Déclarez la ligne tarifaire nationale complète pour obtenir le taux exact. Taux appliqué : %[1]s.")

	set(language.English, msgRateExact,
		"The declared national tariff line %[1]s was applied at %[2]s.")
	set(language.French, msgRateExact,
		"La ligne tarifaire nationale déclarée %[1]s a été appliquée au taux de %[2]s.")
	return b
}

func printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(warningCatalog))
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

// buildRateWarning turns a variation report into the bilingual warning attached
// to a result. The recommendation only asks for the full national line when
// the rate was not resolved at sub-position level.
func buildRateWarning(report *model.RateVariationReport, res *model.RateResolution) *model.RateWarning {
	en, fr := printer(language.English), printer(language.French)
	lo, hi, used := percent(report.MinRate), percent(report.MaxRate), percent(report.RateUsed)

	w := &model.RateWarning{
		MinRate:   report.MinRate,
		MaxRate:   report.MaxRate,
		MessageEN: en.Sprintf(msgRateVariation, report.HS6Code, lo, hi),
		MessageFR: fr.Sprintf(msgRateVariation, report.HS6Code, lo, hi),
	}
	if res != nil && res.Precision == model.PrecisionSubPosition {
		w.RecommendationEN = en.Sprintf(msgRateExact, res.MatchedCode, used)
		w.RecommendationFR = fr.Sprintf(msgRateExact, res.MatchedCode, used)
	} else {
		w.RecommendationEN = en.Sprintf(msgRateRecommendation, used)
		w.RecommendationFR = fr.Sprintf(msgRateRecommendation, used)
	}
	return w
}
