package voice

import (
	"context"
	"testing"

	"voicepick-service/internal/gateway"
	"voicepick-service/internal/models"
	"voicepick-service/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedAdapterReplaysScript(t *testing.T) {
	adapter := NewScriptedAdapter(
		Utterance{Text: "pick 5", Confidence: 0.9},
		Utterance{Text: "confirm", Confidence: 0.9},
	)

	var heard []string
	adapter.StartListening(func(text string, confidence float64) {
		heard = append(heard, text)
		assert.Equal(t, 0.9, confidence)
	})

	assert.Equal(t, []string{"pick 5", "confirm"}, heard)
}

func TestScriptedAdapterIdempotentStartStop(t *testing.T) {
	adapter := NewScriptedAdapter()

	// stop while not listening is a no-op
	adapter.StopListening()
	assert.False(t, adapter.Listening())

	adapter.StartListening(func(string, float64) {})
	assert.True(t, adapter.Listening())

	// start while listening is a no-op
	adapter.StartListening(func(string, float64) {
		t.Fatal("second listener must not be installed")
	})

	adapter.StopListening()
	adapter.StopListening()
	assert.False(t, adapter.Listening())
}

func TestScriptedAdapterRecordsSpeech(t *testing.T) {
	adapter := NewScriptedAdapter()
	adapter.Speak("hello", "en")
	adapter.Speak("こんにちは", "ja")
	assert.Equal(t, []string{"hello", "こんにちは"}, adapter.Spoken())
	assert.True(t, adapter.IsSupported())
}

func TestChannelAdapterDropsWhenNotListening(t *testing.T) {
	adapter := NewChannelAdapter(nil)

	received := 0
	adapter.Submit(Recognition{Text: "pick 1", Confidence: 0.9})
	assert.Equal(t, 0, received)

	adapter.StartListening(func(string, float64) { received++ })
	adapter.StartListening(func(string, float64) { received += 100 })
	adapter.Submit(Recognition{Text: "pick 1", Confidence: 0.9})
	assert.Equal(t, 1, received)

	adapter.StopListening()
	adapter.StopListening()
	adapter.Submit(Recognition{Text: "pick 1", Confidence: 0.9})
	assert.Equal(t, 1, received)
	assert.False(t, adapter.IsSupported())
}

// End to end: a scripted conversation drives a whole session and the
// adapter hears every announcement.
func TestDriverRunsScriptedSession(t *testing.T) {
	g := gateway.NewMemoryGateway()
	g.SeedOrder(
		models.Order{ID: 1, WarehouseID: 1},
		[]models.Product{
			{ID: 1, Name: "Industrial Bearing", LocationAisle: "A", LocationShelf: "3", LocationBin: "15"},
		},
		[]models.OrderItem{
			{ID: 1, OrderID: 1, ProductID: 1, QuantityOrdered: 5, Status: models.ItemStatusPending},
		},
	)

	machine := session.NewMachine(g, nil)
	adapter := NewScriptedAdapter(
		Utterance{Text: "mumble", Confidence: 0.3},
		Utterance{Text: "pick 5", Confidence: 0.9},
		Utterance{Text: "confirm", Confidence: 0.9},
	)
	driver := NewDriver(adapter, machine)

	_, announcements, err := machine.LoadOrder(context.Background(), 7, 1)
	require.NoError(t, err)
	driver.SpeakAll(announcements)

	driver.Start(context.Background())
	driver.Stop()

	spoken := adapter.Spoken()
	require.Len(t, spoken, 4)
	assert.Equal(t, "Pick 5 units of Industrial Bearing at location A-3-15", spoken[0])
	assert.Equal(t, "I did not understand. Please repeat the command", spoken[1])
	assert.Equal(t, "5 units recorded. Say confirm to continue", spoken[2])
	assert.Equal(t, "Order complete. All items processed", spoken[3])
	assert.Equal(t, session.StateCompleted, machine.State())
}
