package exporter

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "zero value",
			input:    0.0,
			expected: "0",
		},
		{
			name:     "positive integer",
			input:    123.0,
			expected: "123",
		},
		{
			name:     "negative integer",
			input:    -456.0,
			expected: "-456",
		},
		{
			name:     "decimal with trailing zeros",
			input:    123.450000,
			expected: "123.45",
		},
		{
			name:     "small positive decimal",
			input:    0.001234,
			expected: "0.001234",
		},
		{
			name:     "large population",
			input:    2700000,
			expected: "2700000",
		},
		{
			name:     "risk reduction percentage",
			input:    80,
			expected: "80",
		},
		{
			name:     "full precision kept",
			input:    1.1234567890123,
			expected: "1.1234567890123",
		},
		{
			name:     "scientific notation input",
			input:    1.23e-5,
			expected: "0.0000123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatFloat(tt.input)
			assert.Equal(t, tt.expected, result, "formatFloat(%v) = %s, want %s", tt.input, result, tt.expected)
		})
	}
}

func TestFormatFloat_ReadsBackExactly(t *testing.T) {
	values := []float64{1.0 / 3.0, 2.0 / 3.0 * 100, 66.66666666666667, 0.1 + 0.2, 12345.6789}

	for _, v := range values {
		parsed, err := strconv.ParseFloat(formatFloat(v), 64)
		assert.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
}

func TestFormatNullable(t *testing.T) {
	v := 12.5

	assert.Equal(t, "", formatNullable(nil))
	assert.Equal(t, "12.5", formatNullable(&v))
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{name: "zero value", input: 0, expected: "0"},
		{name: "year", input: 2022, expected: "2022"},
		{name: "negative", input: -7, expected: "-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatInt(tt.input))
		})
	}
}

func TestFormatBool(t *testing.T) {
	tests := []struct {
		name     string
		input    bool
		expected string
	}{
		{
			name:     "true value",
			input:    true,
			expected: "True",
		},
		{
			name:     "false value",
			input:    false,
			expected: "False",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatBool(tt.input)
			assert.Equal(t, tt.expected, result, "formatBool(%t) = %s, want %s", tt.input, result, tt.expected)
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2021, time.November, 13, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2021-11-13", formatDate(d))
}

// BenchmarkFormatFloat tests the performance of formatFloat function
func BenchmarkFormatFloat(b *testing.B) {
	testValues := []float64{
		0.0,
		123.456789,
		-987.654321,
		1234567.890123,
		0.000001,
		999999.999999,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, val := range testValues {
			_ = formatFloat(val)
		}
	}
}
