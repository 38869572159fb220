package voice

import "sync"

// Utterance is one scripted recognition result.
type Utterance struct {
	Text       string
	Confidence float64
}

// ScriptedAdapter is the test double: it feeds a fixed script of
// utterances to the listener and records everything spoken.
type ScriptedAdapter struct {
	mu        sync.Mutex
	script    []Utterance
	spoken    []string
	listening bool
	onResult  ResultFunc
}

// NewScriptedAdapter creates an adapter that will replay the given
// utterances once listening starts.
func NewScriptedAdapter(script ...Utterance) *ScriptedAdapter {
	return &ScriptedAdapter{script: script}
}

// StartListening replays the script to onResult. Starting while already
// listening is a no-op.
func (a *ScriptedAdapter) StartListening(onResult ResultFunc) {
	a.mu.Lock()
	if a.listening {
		a.mu.Unlock()
		return
	}
	a.listening = true
	a.onResult = onResult
	script := a.script
	a.script = nil
	a.mu.Unlock()

	for _, u := range script {
		a.mu.Lock()
		listening := a.listening
		a.mu.Unlock()
		if !listening {
			return
		}
		onResult(u.Text, u.Confidence)
	}
}

// StopListening is a no-op when not listening.
func (a *ScriptedAdapter) StopListening() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listening = false
	a.onResult = nil
}

// Speak records the spoken text.
func (a *ScriptedAdapter) Speak(text, language string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spoken = append(a.spoken, text)
}

// IsSupported always holds for the scripted adapter.
func (a *ScriptedAdapter) IsSupported() bool {
	return true
}

// Listening reports whether the adapter is currently listening.
func (a *ScriptedAdapter) Listening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listening
}

// Spoken returns a copy of everything spoken so far.
func (a *ScriptedAdapter) Spoken() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	spoken := make([]string, len(a.spoken))
	copy(spoken, a.spoken)
	return spoken
}
