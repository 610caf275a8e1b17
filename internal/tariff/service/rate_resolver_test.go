package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenNSW/tariff/internal/tariff/model"
)

func TestRateResolver_Order(t *testing.T) {
	assert.Equal(t, []model.Precision{
		model.PrecisionSubPosition,
		model.PrecisionHS6Country,
		model.PrecisionChapter,
	}, NewRateResolver().Order())
}

func TestRateResolver_Resolve(t *testing.T) {
	store := newTestStore(t)
	resolver := NewRateResolver()

	tests := []struct {
		name          string
		dest          string
		code          string
		wantRate      string
		wantPrecision model.Precision
		wantMatched   string
		wantSub       bool
	}{
		{"Sub-Position", "NG", "1006.30.10.00", "0.5", model.PrecisionSubPosition, "1006301000", true},
		{"Unknown Sub-Position Falls Back To HS6", "NG", "1006304000", "0.1", model.PrecisionHS6Country, "100630", false},
		{"HS6", "NG", "100630", "0.1", model.PrecisionHS6Country, "100630", false},
		{"Zero Rate HS6", "NG", "300490", "0", model.PrecisionHS6Country, "300490", false},
		{"Chapter", "NG", "1001", "0.05", model.PrecisionChapter, "10", false},
		{"Chapter From Unlisted HS6", "NG", "610910", "0.2", model.PrecisionChapter, "61", false},
		{"Chapter Only Input", "TT", "01", "0.2", model.PrecisionChapter, "01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := resolver.ResolveCode(store, tt.dest, tt.code)
			require.NoError(t, err)
			assert.True(t, res.Rate.Equal(d(tt.wantRate)), "rate %s", res.Rate)
			assert.Equal(t, tt.wantPrecision, res.Precision)
			assert.Equal(t, tt.wantMatched, res.MatchedCode)
			if tt.wantSub {
				require.NotNil(t, res.SubPositionUsed)
				assert.Equal(t, tt.wantMatched, *res.SubPositionUsed)
			} else {
				assert.Nil(t, res.SubPositionUsed)
			}
		})
	}
}

func TestRateResolver_Errors(t *testing.T) {
	store := newTestStore(t)
	resolver := NewRateResolver()

	t.Run("Unknown Destination", func(t *testing.T) {
		_, err := resolver.ResolveCode(store, "XX", "100630")
		assert.ErrorIs(t, err, model.ErrCountryNotFound)
	})

	t.Run("No Rate At Any Level", func(t *testing.T) {
		_, err := resolver.ResolveCode(store, "NG", "870323")
		assert.ErrorIs(t, err, model.ErrRateNotFound)
		assert.Equal(t, model.ErrorCodeRateNotFound, model.CodeOf(err))
	})

	t.Run("Invalid Code", func(t *testing.T) {
		_, err := resolver.ResolveCode(store, "NG", "10A630")
		assert.ErrorIs(t, err, model.ErrInvalidCodeFormat)
	})
}
