package midi

// NoteEvent is a key press or release from a MIDI keyboard. A note-on
// with velocity zero arrives as On=false, matching how most keyboards
// signal release.
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Channel  uint8
	On       bool
}
