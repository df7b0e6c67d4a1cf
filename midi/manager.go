package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// DeviceEvent is emitted when keyboards connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller *KeyboardController
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of MIDI keyboards. Every
// input port that is not our own virtual output counts as a keyboard;
// an optional filter narrows that to configured port names.
type DeviceManager struct {
	controllers map[string]*KeyboardController
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	filter      func(portName string) bool
}

// NewDeviceManager creates a device manager. A nil filter accepts every
// input port.
func NewDeviceManager(filter func(portName string) bool) *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]*KeyboardController),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		filter:      filter,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected keyboards
func (dm *DeviceManager) Controllers() map[string]*KeyboardController {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	snapshot := make(map[string]*KeyboardController, len(dm.controllers))
	for k, v := range dm.controllers {
		snapshot[k] = v
	}
	return snapshot
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		// CoreMIDI is hung - skip this scan
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		id := inPort.String()
		if isThroughPort(id) {
			continue
		}
		if dm.filter != nil && !dm.filter(id) {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		kb, err := NewKeyboardController(id, inPorts[i])
		if err != nil {
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = kb
		dm.mu.Unlock()

		dm.events <- DeviceEvent{
			Type:       DeviceConnected,
			Controller: kb,
			ID:         id,
		}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		c := dm.controllers[id]
		c.Close()
		delete(dm.controllers, id)
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			ID:   id,
		}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]*KeyboardController)
}

// isThroughPort filters out ALSA's Midi Through loopback, which would
// otherwise echo our own output back as input.
func isThroughPort(name string) bool {
	return strings.Contains(strings.ToLower(name), "midi through")
}
