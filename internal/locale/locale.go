// Package locale renders the spoken messages of the picking workflow.
// Every message is keyed by a fixed kind and registered per language.
package locale

import (
	"fmt"

	"voicepick-service/internal/lexicon"
)

// Kind identifies one message template.
type Kind int

const (
	// KindItemAnnouncement args: quantity, product name, location
	KindItemAnnouncement Kind = iota
	// KindNotUnderstood has no args
	KindNotUnderstood
	// KindPickRecorded args: quantity
	KindPickRecorded
	// KindShortPickRecorded args: quantity picked, quantity ordered
	KindShortPickRecorded
	// KindOverflow args: requested quantity, ordered quantity
	KindOverflow
	// KindNothingToConfirm has no args
	KindNothingToConfirm
	// KindSkipped has no args
	KindSkipped
	// KindCompleted has no args
	KindCompleted
	// KindHelp has no args
	KindHelp
	// KindUnknownCommand has no args
	KindUnknownCommand
	// KindGatewayError has no args
	KindGatewayError
	// KindItemNotFound has no args
	KindItemNotFound
)

var kinds = []Kind{
	KindItemAnnouncement,
	KindNotUnderstood,
	KindPickRecorded,
	KindShortPickRecorded,
	KindOverflow,
	KindNothingToConfirm,
	KindSkipped,
	KindCompleted,
	KindHelp,
	KindUnknownCommand,
	KindGatewayError,
	KindItemNotFound,
}

// Kinds returns every registered message kind.
func Kinds() []Kind {
	return kinds
}

var templates = map[string]map[Kind]string{
	"en": {
		KindItemAnnouncement:  "Pick %d units of %s at location %s",
		KindNotUnderstood:     "I did not understand. Please repeat the command",
		KindPickRecorded:      "%d units recorded. Say confirm to continue",
		KindShortPickRecorded: "%d of %d units recorded. Say confirm to continue or pick again",
		KindOverflow:          "Cannot pick %d units, only %d are required",
		KindNothingToConfirm:  "Nothing to confirm yet. Pick the item first",
		KindSkipped:           "Item skipped. Moving to the next item",
		KindCompleted:         "Order complete. All items processed",
		KindHelp:              "Available commands: pick with quantity, confirm, skip, repeat, help",
		KindUnknownCommand:    "Unknown command. Say help for the list of commands",
		KindGatewayError:      "Warehouse system unavailable. Please try again",
		KindItemNotFound:      "Item record not found. Please notify a supervisor",
	},
	"ja": {
		KindItemAnnouncement:  "位置 %[3]s の %[2]s を %[1]d 個ピックしてください",
		KindNotUnderstood:     "聞き取れませんでした。もう一度お願いします",
		KindPickRecorded:      "%d 個記録しました。確認と言ってください",
		KindShortPickRecorded: "%[2]d 個中 %[1]d 個記録しました。確認、または再度ピックしてください",
		KindOverflow:          "%[2]d 個必要のところ %[1]d 個はピックできません",
		KindNothingToConfirm:  "まだ確認できません。先にアイテムをピックしてください",
		KindSkipped:           "アイテムをスキップしました。次のアイテムへ移動します",
		KindCompleted:         "注文完了。すべてのアイテムを処理しました",
		KindHelp:              "利用可能なコマンド: 数量でピック、確認、スキップ、繰り返し、ヘルプ",
		KindUnknownCommand:    "不明なコマンドです。ヘルプと言ってください",
		KindGatewayError:      "倉庫システムに接続できません。もう一度お試しください",
		KindItemNotFound:      "アイテムの記録が見つかりません。管理者に連絡してください",
	},
}

// Message renders the template for a kind in the given language. An
// unregistered language falls back to English so a worker always hears
// something; Supported languages are validated at session load.
func Message(language string, kind Kind, args ...interface{}) string {
	table, ok := templates[language]
	if !ok {
		table = templates["en"]
	}
	return fmt.Sprintf(table[kind], args...)
}

// Supported reports whether both a message table and a command lexicon
// exist for the language.
func Supported(language string) bool {
	_, ok := templates[language]
	return ok && lexicon.Supported(language)
}
