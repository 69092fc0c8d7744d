package intrinsic

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
)

func TestFormatPrintf(t *testing.T) {
	tests := []struct {
		spec   string
		want   string
		values int
	}{
		{spec: "I5", want: "%5d", values: 1},
		{spec: "I5, 2X, F10.2", want: "%5d  %10.2f", values: 2},
		{spec: "'X =', F10.2", want: "X =%10.2f", values: 1},
		{spec: "3I4", want: "%4d%4d%4d", values: 3},
		{spec: "2(I3, 1X)", want: "%3d %3d ", values: 2},
		{spec: "A, /, A10", want: "%s\n%10s", values: 2},
		{spec: "'100%'", want: "100%%"},
		{spec: "'It''s'", want: "It's"},
		{spec: "1PE12.4", want: "%12.4e", values: 1},
		{spec: "e12.4e2, g9.3", want: "%12.4e%9.3g", values: 2},
		{spec: "L2", want: "%2s", values: 1},
		{spec: "", want: ""},
	}
	for _, tt := range tests {
		f, err := ParseFormat(tt.spec)
		be.Err(t, err, nil)
		got, values, err := f.Printf()
		be.Err(t, err, nil)
		be.Equal(t, got, tt.want)
		be.Equal(t, values, tt.values)
	}
}

func TestFormatUnsupported(t *testing.T) {
	f, err := ParseFormat("T10, I2")
	be.Err(t, err, nil)
	_, _, err = f.Printf()
	be.True(t, errors.Is(err, ErrUnsupportedEdit))

	_, err = ParseFormat("I5, (")
	be.True(t, err != nil)
}

func TestSplitEdit(t *testing.T) {
	tests := []struct {
		edit   string
		letter string
		width  int
		prec   int
	}{
		{"I5", "I", 5, -1},
		{"f10.2", "F", 10, 2},
		{"A", "A", 0, -1},
		{"ES12.4", "ES", 12, 4},
		{"E12.4E3", "E", 12, 4},
	}
	for _, tt := range tests {
		letter, width, prec := splitEdit(tt.edit)
		be.Equal(t, letter, tt.letter)
		be.Equal(t, width, tt.width)
		be.Equal(t, prec, tt.prec)
	}
}

func TestQuoteFortran(t *testing.T) {
	be.Equal(t, QuoteFortran("It's"), "'It''s'")
	be.Equal(t, unquoteFortran(QuoteFortran("a''b")), "a''b")
}
