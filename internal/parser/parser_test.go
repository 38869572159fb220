package parser

import (
	"testing"

	"voicepick-service/internal/lexicon"
	"voicepick-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActions(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		language string
		action   string
		quantity int
	}{
		{"pick with quantity", "pick 3", "en", models.ActionPick, 3},
		{"pick without quantity", "pick", "en", models.ActionPick, 1},
		{"pick synonym", "took five, I mean 5", "en", models.ActionPick, 5},
		{"confirm", "yes", "en", models.ActionConfirm, 1},
		{"skip phrase", "item not found", "en", models.ActionSkip, 1},
		{"repeat", "say that again", "en", models.ActionRepeat, 1},
		{"help", "I need help", "en", models.ActionHelp, 1},
		{"unknown", "xyz", "en", models.ActionUnknown, 1},
		{"uppercase normalized", "  PICK 12  ", "en", models.ActionPick, 12},
		{"japanese pick", "3 ピック", "ja", models.ActionPick, 3},
		{"japanese confirm", "はい", "ja", models.ActionConfirm, 1},
		{"japanese skip", "在庫切れ", "ja", models.ActionSkip, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.text, tt.language)
			require.NoError(t, err)
			assert.Equal(t, tt.action, cmd.Action)
			assert.Equal(t, tt.quantity, cmd.Quantity)
			assert.Equal(t, tt.language, cmd.Language)
		})
	}
}

func TestParseIsPure(t *testing.T) {
	first, err := Parse("Pick 7 units", "en")
	require.NoError(t, err)
	second, err := Parse("Pick 7 units", "en")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseFirstMatchWins(t *testing.T) {
	// "picked" and "done" both appear; pick precedes confirm in the
	// lexicon's fixed order
	cmd, err := Parse("picked and done", "en")
	require.NoError(t, err)
	assert.Equal(t, models.ActionPick, cmd.Action)
}

func TestParseUnknownConfidence(t *testing.T) {
	cmd, err := Parse("xyz", "en")
	require.NoError(t, err)
	assert.Equal(t, models.ActionUnknown, cmd.Action)
	assert.Equal(t, UnknownConfidence, cmd.Confidence)
	assert.Equal(t, 1, cmd.Quantity)
}

func TestParseQuantityFirstDigitRun(t *testing.T) {
	cmd, err := Parse("pick 12 of the 99", "en")
	require.NoError(t, err)
	assert.Equal(t, 12, cmd.Quantity)

	cmd, err = Parse("pick 0", "en")
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.Quantity)
}

func TestParseQuantitySaturates(t *testing.T) {
	// a digit run long enough to wrap int64 must not go negative
	cmd, err := Parse("pick 9223372036854775808", "en")
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, cmd.Quantity)

	cmd, err = Parse("pick 99999999999999999999999999", "en")
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, cmd.Quantity)
	assert.GreaterOrEqual(t, cmd.Quantity, 0)
}

func TestParseUnsupportedLanguage(t *testing.T) {
	_, err := Parse("pick 3", "de")
	require.Error(t, err)
	assert.ErrorIs(t, err, lexicon.ErrUnsupportedLanguage)
}
