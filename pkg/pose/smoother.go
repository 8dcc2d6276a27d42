package pose

// HistorySize is the number of raw poses averaged by a Smoother.
// Five frames is roughly 150-200ms at webcam rates.
const HistorySize = 5

// Smoother averages the most recent raw poses to damp landmark jitter.
// It is owned by the frame loop and is not safe for concurrent use.
type Smoother struct {
	history []Pose
	size    int
}

// NewSmoother creates a smoother holding size poses. size <= 0 means HistorySize.
func NewSmoother(size int) *Smoother {
	if size <= 0 {
		size = HistorySize
	}
	return &Smoother{
		history: make([]Pose, 0, size),
		size:    size,
	}
}

// Push records p, evicting the oldest pose once full, and returns the per-axis
// mean of the poses now held. The first push returns p itself.
func (s *Smoother) Push(p Pose) Pose {
	if len(s.history) == s.size {
		copy(s.history, s.history[1:])
		s.history = s.history[:s.size-1]
	}
	s.history = append(s.history, p)

	var sum Pose
	for _, h := range s.history {
		sum.Pitch += h.Pitch
		sum.Yaw += h.Yaw
		sum.Roll += h.Roll
	}
	n := float64(len(s.history))
	return Pose{Pitch: sum.Pitch / n, Yaw: sum.Yaw / n, Roll: sum.Roll / n}
}

// Len returns how many poses are held.
func (s *Smoother) Len() int {
	return len(s.history)
}

// Reset drops the history.
func (s *Smoother) Reset() {
	s.history = s.history[:0]
}
