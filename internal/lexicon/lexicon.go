// Package lexicon holds the per-language tables of trigger phrases for
// voice commands. Matching is a sequential substring scan, so the order
// of entries is part of the contract: the first action whose phrase
// appears in the utterance wins.
package lexicon

import (
	"fmt"

	"voicepick-service/internal/models"
)

// ErrUnsupportedLanguage is returned for a language with no registered table.
var ErrUnsupportedLanguage = fmt.Errorf("unsupported language")

// Entry binds one action to its trigger phrases.
type Entry struct {
	Action  string
	Phrases []string
}

// Scan order is fixed: pick, confirm, skip, repeat, help.
var tables = map[string][]Entry{
	"en": {
		{Action: models.ActionPick, Phrases: []string{"pick", "picked", "take", "took", "get", "got"}},
		{Action: models.ActionConfirm, Phrases: []string{"confirm", "yes", "correct", "done", "complete"}},
		{Action: models.ActionSkip, Phrases: []string{"skip", "missing", "not found", "unavailable"}},
		{Action: models.ActionRepeat, Phrases: []string{"repeat", "again", "what", "pardon"}},
		{Action: models.ActionHelp, Phrases: []string{"help", "assistance", "support"}},
	},
	"ja": {
		{Action: models.ActionPick, Phrases: []string{"ピック", "とる", "とった", "取る", "取った"}},
		{Action: models.ActionConfirm, Phrases: []string{"確認", "はい", "正しい", "完了", "かんりょう"}},
		{Action: models.ActionSkip, Phrases: []string{"スキップ", "ない", "見つからない", "在庫切れ"}},
		{Action: models.ActionRepeat, Phrases: []string{"繰り返し", "もう一度", "何", "すみません"}},
		{Action: models.ActionHelp, Phrases: []string{"ヘルプ", "助け", "サポート"}},
	},
}

// Lookup returns the ordered action table for a language.
func Lookup(language string) ([]Entry, error) {
	table, ok := tables[language]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}
	return table, nil
}

// Supported reports whether a language has a registered table.
func Supported(language string) bool {
	_, ok := tables[language]
	return ok
}

// HelpEntry describes one voice command to the worker.
type HelpEntry struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

var helpCatalog = map[string][]HelpEntry{
	"en": {
		{Command: "Pick [quantity]", Description: "Confirm picking items"},
		{Command: "Confirm", Description: "Confirm current action"},
		{Command: "Skip", Description: "Skip item (not found/unavailable)"},
		{Command: "Repeat", Description: "Repeat last instruction"},
		{Command: "Help", Description: "Get assistance"},
	},
	"ja": {
		{Command: "[数量] ピック", Description: "アイテムのピックを確認"},
		{Command: "確認", Description: "現在のアクションを確認"},
		{Command: "スキップ", Description: "アイテムをスキップ（見つからない/在庫切れ）"},
		{Command: "繰り返し", Description: "最後の指示を繰り返し"},
		{Command: "ヘルプ", Description: "サポートを受ける"},
	},
}

// HelpCatalog returns the spoken-command reference card for a language.
func HelpCatalog(language string) ([]HelpEntry, error) {
	catalog, ok := helpCatalog[language]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}
	return catalog, nil
}
