// Package hscode parses free-form Harmonized System codes into their prefix hierarchy.
package hscode

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/OpenNSW/tariff/internal/tariff/model"
)

const (
	ChapterLen        = 2
	HeadingLen        = 4
	SubheadingLen     = 6
	MinSubPositionLen = 8
	MaxSubPositionLen = 12
)

// separators users put between digit groups, e.g. "1006.30", "1006 30 10", "61-09".
var separators = strings.NewReplacer(" ", "", ".", "", "-", "", "/", "", "_", "", ",", "", "\t", "")

// ProductCode is the prefix hierarchy of a product code. Levels the input was
// too short to fill are empty; each non-empty level is a prefix of the next.
type ProductCode struct {
	Digits      string `json:"digits"`
	Chapter     string `json:"chapter"`
	Heading     string `json:"heading,omitempty"`
	Subheading  string `json:"subheading,omitempty"`
	SubPosition string `json:"sub_position,omitempty"`
}

// Parse normalizes raw and derives its chapter, heading, subheading and
// national sub-position. It fails with model.ErrInvalidCodeFormat when the
// cleaned code is not 2 to 12 ASCII digits.
func Parse(raw string) (ProductCode, error) {
	digits := StripSeparators(raw)

	if digits == "" {
		return ProductCode{}, fmt.Errorf("%w: empty code", model.ErrInvalidCodeFormat)
	}
	if !IsDigits(digits) {
		return ProductCode{}, fmt.Errorf("%w: %q contains non-digit characters", model.ErrInvalidCodeFormat, raw)
	}
	if len(digits) < ChapterLen {
		return ProductCode{}, fmt.Errorf("%w: %q is shorter than %d digits", model.ErrInvalidCodeFormat, raw, ChapterLen)
	}
	if len(digits) > MaxSubPositionLen {
		return ProductCode{}, fmt.Errorf("%w: %q is longer than %d digits", model.ErrInvalidCodeFormat, raw, MaxSubPositionLen)
	}

	code := ProductCode{
		Digits:  digits,
		Chapter: digits[:ChapterLen],
	}
	if len(digits) >= HeadingLen {
		code.Heading = digits[:HeadingLen]
	}
	if len(digits) >= SubheadingLen {
		code.Subheading = digits[:SubheadingLen]
	}
	if len(digits) >= MinSubPositionLen {
		code.SubPosition = digits
	}
	return code, nil
}

// StripSeparators folds raw to ASCII and removes grouping characters. It
// does not check that the result is a valid code.
func StripSeparators(raw string) string {
	// NFKC folds full-width digits and punctuation to ASCII before stripping
	return separators.Replace(norm.NFKC.String(strings.TrimSpace(raw)))
}

// MustParse is Parse for codes known to be valid, such as reference data keys.
func MustParse(raw string) ProductCode {
	code, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return code
}

// HasSubPosition reports whether the code names a national tariff line.
func (c ProductCode) HasSubPosition() bool { return c.SubPosition != "" }

// HasSubheading reports whether the code reaches the internationally harmonized 6-digit level.
func (c ProductCode) HasSubheading() bool { return c.Subheading != "" }

// HasHeading reports whether the code reaches the 4-digit heading level.
func (c ProductCode) HasHeading() bool { return c.Heading != "" }

func (c ProductCode) String() string { return c.Digits }

// IsDigits reports whether s is non-empty and consists only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
