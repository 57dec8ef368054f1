package cli

import (
	"strings"
	"testing"

	"github.com/aretw0/trmc/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")

	_, err := SanitizeInput(strings.Repeat("0", 8))
	require.NoError(t, err)

	_, err = SanitizeInput(strings.Repeat("0", 9))
	require.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInput_IgnoresBadLimit(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "-3")
	assert.Equal(t, DefaultMaxInputSize, getMaxInputSize())
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   int
	}{
		{"Bracketed Paste", "\x1b[200~0101\x1b[201~", 0},
		{"Null Byte", "01\x0010", 2},
		{"Bell", "0101\x07", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.input, got)

			_, err = domain.ParseTape(got)
			require.ErrorIs(t, err, domain.ErrMalformedTape)
			var tapeErr *domain.TapeError
			require.ErrorAs(t, err, &tapeErr)
			assert.Equal(t, tt.pos, tapeErr.Pos)
		})
	}
}

func TestSanitizeInput_KeepsTape(t *testing.T) {
	got, err := SanitizeInput("0101\r\n")
	require.NoError(t, err)

	tape, err := domain.ParseTape(got)
	require.NoError(t, err)
	assert.Equal(t, "0101", tape.String())
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("01\xff")
	require.ErrorIs(t, err, ErrInvalidUTF8)
}
