package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ann@example.com", true},
		{"a.b@c.d", true},
		{"first@second@host.org", true},
		{"no-at-sign.com", false},
		{"dot.before@host", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"5551234567", true},
		{"(555) 123-4567", true},
		{"+1 555 123 4567", false},
		{"555-1234", false},
		{"555123456x", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.in))
		})
	}
}

func TestISBN(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0441013597", true},
		{"978-0-441-01359-3", true},
		{"978 0441013593", true},
		{"044101359X", false},
		{"12345678901", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ISBN(tt.in))
		})
	}
}

func TestYearAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want bool
	}{
		{"1965", true},
		{"1000", true},
		{"2024", true},
		{"999", false},
		{"2025", false},
		{"nineteen", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, YearAt(tt.in, now))
		})
	}
}

func TestDate(t *testing.T) {
	assert.True(t, Date("2024-02-29"))
	assert.False(t, Date("2023-02-29"))
	assert.False(t, Date("01/02/2024"))
	assert.False(t, Date(""))
}

func TestNonEmpty(t *testing.T) {
	assert.True(t, NonEmpty("x"))
	assert.False(t, NonEmpty("   "))
	assert.False(t, NonEmpty(""))
}
