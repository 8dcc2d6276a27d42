package pipeline

// Command is a user request polled once per frame.
type Command int

const (
	CommandNone Command = iota
	CommandToggleMode
	CommandQuit
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandToggleMode:
		return "toggle_mode"
	case CommandQuit:
		return "quit"
	default:
		return "none"
	}
}

// Keys bound to commands.
const (
	KeyToggle = 'e'
	KeyQuit   = 'q'
)

// KeyCommand maps a key code, as returned by an OpenCV window, to a command.
func KeyCommand(key int) Command {
	if key < 0 {
		return CommandNone
	}
	switch key & 0xFF {
	case KeyToggle:
		return CommandToggleMode
	case KeyQuit:
		return CommandQuit
	default:
		return CommandNone
	}
}

// CommandSource yields at most one pending command. Poll must not block beyond
// the source's own polling interval.
type CommandSource interface {
	Poll() Command
}

// KeySource adapts a key reader such as (*gocv.Window).WaitKey.
type KeySource func() int

// Poll reads one key.
func (f KeySource) Poll() Command {
	return KeyCommand(f())
}

// Queue carries commands from other goroutines to the frame loop.
type Queue struct {
	ch chan Command
}

// DefaultQueueSize is the number of commands buffered before Send drops.
const DefaultQueueSize = 16

// NewQueue creates a queue buffering size commands (DefaultQueueSize if size <= 0).
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Command, size)}
}

// Send enqueues cmd without blocking. It returns false if the queue is full.
func (q *Queue) Send(cmd Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

// Poll returns the oldest queued command, or CommandNone.
func (q *Queue) Poll() Command {
	select {
	case cmd := <-q.ch:
		return cmd
	default:
		return CommandNone
	}
}

type merged struct {
	sources []CommandSource
	pending []Command
}

// Merge combines sources. Every source is polled on each call so key readers
// keep pumping their event loop; when several report a command in the same
// poll, the extras are returned by the following polls in source order.
func Merge(sources ...CommandSource) CommandSource {
	return &merged{sources: sources}
}

func (m *merged) Poll() Command {
	for _, s := range m.sources {
		if s == nil {
			continue
		}
		if cmd := s.Poll(); cmd != CommandNone {
			m.pending = append(m.pending, cmd)
		}
	}
	if len(m.pending) == 0 {
		return CommandNone
	}
	cmd := m.pending[0]
	m.pending = m.pending[1:]
	return cmd
}
