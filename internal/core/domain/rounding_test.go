package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentforge/payroll-fx/internal/core/domain"
)

func TestParseRoundingMethod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.RoundingMethod
		wantErr bool
	}{
		{name: "empty defaults to half_up", input: "", want: domain.RoundHalfUp},
		{name: "up", input: "up", want: domain.RoundUp},
		{name: "down", input: "down", want: domain.RoundDown},
		{name: "half_up", input: "half_up", want: domain.RoundHalfUp},
		{name: "half_down", input: "half_down", want: domain.RoundHalfDown},
		{name: "half_even", input: "half_even", want: domain.RoundHalfEven},
		{name: "unknown method", input: "ceiling", wantErr: true},
		{name: "wrong case", input: "HALF_UP", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseRoundingMethod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		places int32
		method domain.RoundingMethod
		want   string
	}{
		{name: "up rounds any remainder away", value: "2155.554", places: 2, method: domain.RoundUp, want: "2155.56"},
		{name: "down truncates", value: "2155.559", places: 2, method: domain.RoundDown, want: "2155.55"},
		{name: "half_up midpoint goes away from zero", value: "2155.555", places: 2, method: domain.RoundHalfUp, want: "2155.56"},
		{name: "half_down midpoint goes toward zero", value: "2155.555", places: 2, method: domain.RoundHalfDown, want: "2155.55"},
		{name: "half_down above midpoint still rounds away", value: "2155.556", places: 2, method: domain.RoundHalfDown, want: "2155.56"},
		{name: "half_even midpoint to even (down)", value: "2155.565", places: 2, method: domain.RoundHalfEven, want: "2155.56"},
		{name: "half_even midpoint to even (up)", value: "2155.575", places: 2, method: domain.RoundHalfEven, want: "2155.58"},
		{name: "negative half_up midpoint away from zero", value: "-2155.555", places: 2, method: domain.RoundHalfUp, want: "-2155.56"},
		{name: "negative half_down midpoint toward zero", value: "-2155.555", places: 2, method: domain.RoundHalfDown, want: "-2155.55"},
		{name: "zero places", value: "2.5", places: 0, method: domain.RoundHalfUp, want: "3"},
		{name: "already exact", value: "100.00", places: 2, method: domain.RoundHalfEven, want: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := decimal.NewFromString(tt.value)
			require.NoError(t, err)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)

			got, err := domain.Round(v, tt.places, tt.method)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}

func TestRound_UnknownMethod(t *testing.T) {
	_, err := domain.Round(decimal.NewFromInt(1), 2, domain.RoundingMethod("nearest"))
	assert.Error(t, err)
}
