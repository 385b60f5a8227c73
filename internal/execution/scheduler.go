package execution

// Scheduler distributes selection entries across sessions
type Scheduler interface {
	Schedule(entries []string, sessions int) [][]string
}

// RoundRobinScheduler distributes entries evenly across sessions
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule deals entries out round-robin, keeping their relative order
// within each session. Sessions that would receive nothing are dropped: an
// empty selection means "run everything" to pytest.
func (s *RoundRobinScheduler) Schedule(entries []string, sessions int) [][]string {
	if sessions <= 0 {
		sessions = 1
	}
	if sessions > len(entries) {
		sessions = len(entries)
	}

	distribution := make([][]string, sessions)
	for i, entry := range entries {
		distribution[i%sessions] = append(distribution[i%sessions], entry)
	}

	return distribution
}
