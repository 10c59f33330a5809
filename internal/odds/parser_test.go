package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMixedSeparators(t *testing.T) {
	bundle, ok := Parse("1.85/2,10 , 3.40")
	require.True(t, ok)
	require.Len(t, bundle, 3)
	assert.InDelta(t, 1.85, bundle[0], 1e-9)
	assert.InDelta(t, 2.10, bundle[1], 1e-9)
	assert.InDelta(t, 3.40, bundle[2], 1e-9)
	assert.True(t, bundle.Complete())
}

func TestParseAbsent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"letters", "abc"},
		{"at boundary", "1.01"},
		{"below boundary", "1.00"},
		{"separators only", "/ ; ,"},
		{"negative", "-2.5"},
		{"overflow", "1e400"},
		{"negative overflow", "-1e400"},
		{"nan", "NaN"},
		{"inf", "Inf"},
		{"infinity", "+Infinity"},
		{"huge exponent", "1e999999999"},
		{"underflow", "5e-400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle, ok := Parse(tt.raw)
			assert.False(t, ok)
			assert.Nil(t, bundle)
		})
	}
}

func TestParseDropsInvalidTokens(t *testing.T) {
	bundle, ok := Parse("abc 1.00 2.5; x 3")
	require.True(t, ok)
	assert.Equal(t, Bundle{2.5, 3}, bundle)
	assert.False(t, bundle.Complete())
}

func TestParseSkipsNonFiniteTokens(t *testing.T) {
	bundle, ok := Parse("2.0 3.0 1e400")
	require.True(t, ok)
	assert.Equal(t, Bundle{2, 3}, bundle)
	assert.False(t, bundle.Complete())

	bundle, ok = Parse("1e400 2.5e0 NaN 4")
	require.True(t, ok)
	assert.Equal(t, Bundle{2.5, 4}, bundle)
}

func TestParseReadsLeadingNumber(t *testing.T) {
	tests := []struct {
		raw      string
		expected Bundle
	}{
		{"2.50€", Bundle{2.5}},
		{"1.85x 3.1.2", Bundle{1.85, 3.1}},
		{"+2.2", Bundle{2.2}},
		{"1.5e1", Bundle{15}},
		{"2.75e", Bundle{2.75}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			bundle, ok := Parse(tt.raw)
			require.True(t, ok)
			require.Len(t, bundle, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], bundle[i], 1e-9)
			}
		})
	}

	_, ok := Parse("€2.50")
	assert.False(t, ok)
}

func TestParseKeepsFirstThree(t *testing.T) {
	bundle, ok := Parse("2 3 4 5 6")
	require.True(t, ok)
	assert.Equal(t, Bundle{2, 3, 4}, bundle)
}

func TestParseCommaHandling(t *testing.T) {
	tests := []struct {
		raw      string
		expected Bundle
	}{
		{"1,85", Bundle{1.85}},
		{"1.85,2.10", Bundle{1.85, 2.10}},
		{"1,85,2,10", Bundle{1.85, 2.10}},
		{"2,5;3,1;4", Bundle{2.5, 3.1, 4}},
		{"2, 3", Bundle{2, 3}},
		{"1,01 1,02", Bundle{1.02}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			bundle, ok := Parse(tt.raw)
			require.True(t, ok)
			require.Len(t, bundle, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], bundle[i], 1e-9)
			}
		})
	}
}

func TestParseSingle(t *testing.T) {
	odd, ok := ParseSingle("2.00 abc 3.00")
	require.True(t, ok)
	assert.Equal(t, 2.0, odd)

	odd, ok = ParseSingle("1,85/2")
	require.True(t, ok)
	assert.InDelta(t, 1.85, odd, 1e-9)

	for _, raw := range []string{"1.01", "", "1.00 2.00", "abc 2.00", "1e400 2.00"} {
		_, ok = ParseSingle(raw)
		assert.False(t, ok, raw)
	}

	assert.Nil(t, Ptr(""))
	require.NotNil(t, Ptr("1.5"))
	assert.Equal(t, 1.5, *Ptr("1.5"))
}
