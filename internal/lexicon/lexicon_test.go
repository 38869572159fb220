package lexicon

import (
	"testing"

	"voicepick-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupOrderIsFixed(t *testing.T) {
	expected := []string{
		models.ActionPick,
		models.ActionConfirm,
		models.ActionSkip,
		models.ActionRepeat,
		models.ActionHelp,
	}

	for _, language := range []string{"en", "ja"} {
		table, err := Lookup(language)
		require.NoError(t, err)
		require.Len(t, table, len(expected))
		for i, entry := range table {
			assert.Equal(t, expected[i], entry.Action, "language %s position %d", language, i)
			assert.NotEmpty(t, entry.Phrases)
		}
	}
}

func TestLookupUnsupportedLanguage(t *testing.T) {
	_, err := Lookup("fr")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.False(t, Supported("fr"))
	assert.True(t, Supported("en"))
}

func TestHelpCatalog(t *testing.T) {
	for _, language := range []string{"en", "ja"} {
		catalog, err := HelpCatalog(language)
		require.NoError(t, err)
		assert.Len(t, catalog, 5)
	}

	_, err := HelpCatalog("fr")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}
