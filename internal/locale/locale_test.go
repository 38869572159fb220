package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllKindsRegistered(t *testing.T) {
	for _, language := range []string{"en", "ja"} {
		for _, kind := range Kinds() {
			_, ok := templates[language][kind]
			assert.True(t, ok, "language %s missing kind %d", language, kind)
		}
	}
}

func TestItemAnnouncementArgs(t *testing.T) {
	en := Message("en", KindItemAnnouncement, 5, "Industrial Bearing", "A-3-15")
	assert.Equal(t, "Pick 5 units of Industrial Bearing at location A-3-15", en)

	ja := Message("ja", KindItemAnnouncement, 5, "Industrial Bearing", "A-3-15")
	assert.Contains(t, ja, "A-3-15")
	assert.Contains(t, ja, "5 個")
}

func TestOverflowArgs(t *testing.T) {
	en := Message("en", KindOverflow, 9, 5)
	assert.Equal(t, "Cannot pick 9 units, only 5 are required", en)

	ja := Message("ja", KindOverflow, 9, 5)
	assert.Contains(t, ja, "9")
	assert.Contains(t, ja, "5")
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, Message("en", KindHelp), Message("xx", KindHelp))
	assert.False(t, Supported("xx"))
	assert.True(t, Supported("ja"))
}
