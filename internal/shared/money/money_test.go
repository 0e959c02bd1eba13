package money

import (
	"testing"

	"go-sirh/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFromValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{12.5, "12.5", true},
		{"1500.75", "1500.75", true},
		{nil, "0", false},
		{"abc", "0", false},
	}
	for _, tt := range tests {
		got, ok := FromValue(tt.in)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got.String())
	}
}

func TestPercentAndFloat(t *testing.T) {
	got := Percent(decimal.NewFromInt(6000), decimal.RequireFromString("4.48"))
	assert.Equal(t, "268.8", got.String())
	assert.Equal(t, 0.33, Float(decimal.NewFromInt(1).Div(decimal.NewFromInt(3))))
	assert.Equal(t, "0", Field(store.Record{}, "montant").String())
}
