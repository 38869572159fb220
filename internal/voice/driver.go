package voice

import (
	"context"

	"voicepick-service/internal/session"
	"voicepick-service/internal/util"

	"go.uber.org/zap"
)

// Driver wires an Adapter to a session machine: utterances from the
// adapter go into the machine, the machine's announcements come back
// out as speech.
type Driver struct {
	adapter Adapter
	machine *session.Machine
	logger  *zap.Logger
}

// NewDriver binds an adapter to a machine.
func NewDriver(adapter Adapter, machine *session.Machine) *Driver {
	return &Driver{
		adapter: adapter,
		machine: machine,
		logger:  util.NamedLogger("voice-driver"),
	}
}

// Start begins forwarding utterances. Stopping voice input at any point
// leaves the machine in its last stable state; the machine itself
// guarantees mutations are atomic per command.
func (d *Driver) Start(ctx context.Context) {
	d.adapter.StartListening(func(text string, confidence float64) {
		announcements, err := d.machine.SubmitUtterance(ctx, text, confidence)
		if err != nil {
			d.logger.Warn("Utterance not accepted",
				zap.String("text", text),
				zap.Error(err))
			return
		}
		d.SpeakAll(announcements)
	})
}

// Stop stops listening. Idempotent.
func (d *Driver) Stop() {
	d.adapter.StopListening()
}

// SpeakAll speaks a batch of announcements in order.
func (d *Driver) SpeakAll(announcements []session.Announcement) {
	for _, a := range announcements {
		d.adapter.Speak(a.Text, d.machine.Language())
	}
}
