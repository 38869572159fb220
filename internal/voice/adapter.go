// Package voice abstracts speech recognition and synthesis away from
// the picking core. The core only ever sees recognized text plus an
// acoustic confidence, and hands back announcement text to speak.
package voice

// ResultFunc receives one recognized utterance.
type ResultFunc func(text string, confidence float64)

// Adapter is the voice I/O boundary. StartListening and StopListening
// are idempotent: starting while listening and stopping while stopped
// are no-ops, not errors.
type Adapter interface {
	StartListening(onResult ResultFunc)
	StopListening()
	Speak(text, language string)
	IsSupported() bool
}
