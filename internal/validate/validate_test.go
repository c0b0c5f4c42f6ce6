package validate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		maxLen  int
		want    NameErrorKind // empty means valid
		wantLen int
	}{
		{"simple", "Alyssa", 32, "", 0},
		{"digits", "Vee2", 32, "", 0},
		{"single char", "X", 32, "", 0},
		{"exactly max", strings.Repeat("X", 32), 32, "", 0},
		{"empty", "", 32, NameEmpty, 0},
		{"forty chars", strings.Repeat("X", 40), 32, NameTooLong, 40},
		{"one over", strings.Repeat("X", 33), 32, NameTooLong, 33},
		{"emoji", "\U0001F345", 32, NameInvalidCharacter, 4},
		{"mojibake emoji", "ðŸ\u008d…", 32, NameInvalidCharacter, 9},
		{"space", "Alyssa P", 32, NameInvalidCharacter, 8},
		{"punctuation", "O'Neil", 32, NameInvalidCharacter, 6},
		{"accented", "Zoë", 32, NameInvalidCharacter, 4},
		{"lower ceiling", "Marnie", 4, NameTooLong, 6},
		{"ceiling clamps to max", strings.Repeat("X", 33), 64, NameTooLong, 33},
		{"zero ceiling uses default", "Alyssa", 0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Name(tt.input, tt.maxLen)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}

			var ne *NameError
			require.True(t, errors.As(err, &ne), "expected *NameError, got %v", err)
			assert.Equal(t, tt.want, ne.Kind)
			assert.Equal(t, tt.wantLen, ne.Length)
			assert.NotEmpty(t, ne.Error())
		})
	}
}

func TestNameInvalidCharacterReportsFirstOffender(t *testing.T) {
	err := Name("ab-c_d", 32)

	var ne *NameError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, '-', ne.Char)
}

func TestFinalScore(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  ScoreErrorKind
	}{
		{"minimum accepted", 5.0, ""},
		{"maximum accepted", 100.0, ""},
		{"middle", 78.0, ""},
		{"just below minimum", math.Nextafter(5.0, 0), ScoreBelowMinimum},
		{"just above maximum", math.Nextafter(100.0, 200), ScoreAboveMaximum},
		{"far below", 4.2, ScoreBelowMinimum},
		{"far above", 144.0, ScoreAboveMaximum},
		{"negative", -1, ScoreBelowMinimum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FinalScore(tt.value, DefaultFinalBounds)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}

			var se *ScoreError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.want, se.Kind)
			assert.Equal(t, tt.value, se.Value)
		})
	}
}

func TestFinalScoreCustomBounds(t *testing.T) {
	b := Bounds{Min: 0, Max: 10}
	assert.NoError(t, FinalScore(0, b))
	assert.NoError(t, FinalScore(10, b))

	var se *ScoreError
	require.ErrorAs(t, FinalScore(10.5, b), &se)
	assert.Equal(t, 10.0, se.Bound)
}

func TestNumber(t *testing.T) {
	assert.NoError(t, Number("midterm", 187.5))
	assert.NoError(t, Number("midterm", -3))

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var ne *NumberError
		require.ErrorAs(t, Number("homework_a", v), &ne)
		assert.Equal(t, "homework_a", ne.Field)
	}
}

func TestComplete(t *testing.T) {
	v := 56.0

	assert.NoError(t, Complete(
		Field{"midterm", &v},
		Field{"final", &v},
	))

	err := Complete(
		Field{"midterm", &v},
		Field{"final", nil},
		Field{"homework_a", &v},
		Field{"homework_b", nil},
	)

	var ie *IncompleteError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []string{"final", "homework_b"}, ie.Missing)
	assert.Contains(t, ie.Error(), "final, homework_b")
}
