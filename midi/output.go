package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-comping/comping"
	"go-comping/debug"
)

// OutputManager hands out senders for named output ports, opening each
// port lazily on first use.
type OutputManager struct {
	defaultPort string
	senders     map[string]func(gomidi.Message) error
	mu          sync.RWMutex
}

// NewOutputManager creates an output manager. defaultPort may be empty,
// in which case the first available output port is used.
func NewOutputManager(defaultPort string) *OutputManager {
	return &OutputManager{
		defaultPort: defaultPort,
		senders:     make(map[string]func(gomidi.Message) error),
	}
}

// Sender returns a send function for the given port name, lazily opening
// it. An empty name selects the default port. Returns nil when the port
// cannot be found or opened.
func (o *OutputManager) Sender(portName string) func(gomidi.Message) error {
	if portName == "" {
		portName = o.defaultPort
	}

	o.mu.RLock()
	if sender, ok := o.senders[portName]; ok {
		o.mu.RUnlock()
		return sender
	}
	o.mu.RUnlock()

	o.mu.Lock()
	defer o.mu.Unlock()

	// Double-check after acquiring write lock
	if sender, ok := o.senders[portName]; ok {
		return sender
	}

	outPorts := gomidi.GetOutPorts()
	for _, port := range outPorts {
		if portName == "" || port.String() == portName {
			sender, err := gomidi.SendTo(port)
			if err != nil {
				debug.Log("midi", "open out %q: %v", port.String(), err)
				return nil
			}
			o.senders[portName] = sender
			debug.Log("midi", "opened out %q", port.String())
			return sender
		}
	}
	return nil
}

// TriggerSender adapts one output port + channel into the comping.Sender
// the performance manager plays through.
type TriggerSender struct {
	Out     *OutputManager
	Port    string
	Channel uint8 // MIDI channel 1-16
}

func (t *TriggerSender) NoteOn(n comping.Note, velocity uint8) {
	if send := t.Out.Sender(t.Port); send != nil {
		send(gomidi.NoteOn(t.midiChannel(), clampNote(n), velocity))
	}
}

func (t *TriggerSender) NoteOff(n comping.Note) {
	if send := t.Out.Sender(t.Port); send != nil {
		send(gomidi.NoteOff(t.midiChannel(), clampNote(n)))
	}
}

func (t *TriggerSender) midiChannel() uint8 {
	if t.Channel < 1 || t.Channel > 16 {
		return 0
	}
	return t.Channel - 1
}

// clampNote truncates the core's open-ended pitch range to the MIDI wire.
func clampNote(n comping.Note) uint8 {
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}
