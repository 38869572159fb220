package voice

import (
	"sync"

	"voicepick-service/internal/util"

	"go.uber.org/zap"
)

// Recognition is one utterance delivered by an external recognizer,
// for example the HTTP endpoint a voice terminal posts to.
type Recognition struct {
	Text       string
	Confidence float64
}

// Speaker delivers synthesized speech back to the worker's device.
type Speaker interface {
	Speak(text, language string)
}

// ChannelAdapter bridges a stream of externally recognized utterances
// into the Adapter contract. The service feeds Submit; the adapter
// forwards to the registered listener while listening.
type ChannelAdapter struct {
	mu        sync.Mutex
	listening bool
	onResult  ResultFunc
	speaker   Speaker
	logger    *zap.Logger
}

// NewChannelAdapter creates an adapter that speaks through the given
// speaker. A nil speaker logs announcements instead.
func NewChannelAdapter(speaker Speaker) *ChannelAdapter {
	return &ChannelAdapter{
		speaker: speaker,
		logger:  util.NamedLogger("voice"),
	}
}

// StartListening registers the result callback. Idempotent.
func (a *ChannelAdapter) StartListening(onResult ResultFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listening {
		return
	}
	a.listening = true
	a.onResult = onResult
}

// StopListening drops the callback. Idempotent.
func (a *ChannelAdapter) StopListening() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listening = false
	a.onResult = nil
}

// Submit forwards one recognition to the listener. Recognitions that
// arrive while not listening are dropped.
func (a *ChannelAdapter) Submit(rec Recognition) {
	a.mu.Lock()
	onResult := a.onResult
	a.mu.Unlock()

	if onResult == nil {
		a.logger.Debug("Recognition dropped: not listening",
			zap.String("text", rec.Text))
		return
	}
	onResult(rec.Text, rec.Confidence)
}

// Speak forwards announcement text to the device speaker.
func (a *ChannelAdapter) Speak(text, language string) {
	if a.speaker == nil {
		a.logger.Info("Announcement",
			zap.String("text", text),
			zap.String("language", language))
		return
	}
	a.speaker.Speak(text, language)
}

// IsSupported reports whether a speaker is attached.
func (a *ChannelAdapter) IsSupported() bool {
	return a.speaker != nil
}

// Listening reports whether the adapter is currently listening.
func (a *ChannelAdapter) Listening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listening
}
