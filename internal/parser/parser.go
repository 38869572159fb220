// Package parser classifies recognized utterance text into a typed
// picking command. Parsing is pure and synchronous: identical input
// always yields an identical ParsedCommand.
package parser

import (
	"strings"

	"voicepick-service/internal/lexicon"
	"voicepick-service/internal/models"
)

// UnknownConfidence is the fixed confidence assigned when no trigger
// phrase matches. It marks "parser did not match", distinct from the
// acoustic confidence supplied by the voice layer.
const UnknownConfidence = 0.5

// MaxQuantity caps the extracted quantity. A digit run past this bound
// is a recognition artifact, not a count a worker said; saturating
// keeps the value positive so the quantity guard downstream rejects it.
const MaxQuantity = 1_000_000

// Parse normalizes the text and scans the language's lexicon in its
// fixed order; the first action with a matching phrase wins. A quantity
// is read from the first contiguous run of digits, defaulting to 1.
func Parse(text, language string) (models.ParsedCommand, error) {
	table, err := lexicon.Lookup(language)
	if err != nil {
		return models.ParsedCommand{}, err
	}

	normalized := strings.ToLower(strings.TrimSpace(text))

	for _, entry := range table {
		for _, phrase := range entry.Phrases {
			if strings.Contains(normalized, phrase) {
				return models.ParsedCommand{
					Action:     entry.Action,
					Quantity:   extractQuantity(normalized),
					Confidence: 1.0,
					Original:   normalized,
					Language:   language,
				}, nil
			}
		}
	}

	return models.ParsedCommand{
		Action:     models.ActionUnknown,
		Quantity:   1,
		Confidence: UnknownConfidence,
		Original:   normalized,
		Language:   language,
	}, nil
}

// extractQuantity returns the value of the first digit run, or 1.
// The accumulator saturates at MaxQuantity so it cannot wrap negative.
func extractQuantity(text string) int {
	value := 0
	found := false
	for _, r := range text {
		if r >= '0' && r <= '9' {
			if value < MaxQuantity {
				value = value*10 + int(r-'0')
			}
			found = true
			continue
		}
		if found {
			break
		}
	}
	if !found {
		return 1
	}
	if value > MaxQuantity {
		value = MaxQuantity
	}
	return value
}
