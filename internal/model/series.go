package model

const defaultSeriesCap = 60

// Series is a fixed-capacity rolling window of samples.
// When the window is full, a push overwrites the oldest sample.
type Series struct {
	buf  []float64
	head int // index of the next write position
	size int // number of valid samples
}

// NewSeries creates an empty Series with the given capacity.
// If capacity <= 0, defaultSeriesCap (60) is used.
func NewSeries(capacity int) *Series {
	if capacity <= 0 {
		capacity = defaultSeriesCap
	}
	return &Series{
		buf: make([]float64, capacity),
	}
}

// NewSeriesFrom creates a Series pre-seeded with values. When values is
// longer than capacity only the most recent capacity values are kept.
func NewSeriesFrom(capacity int, values []float64) *Series {
	s := NewSeries(capacity)
	for _, v := range values {
		s.Push(v)
	}
	return s
}

// Push appends v, evicting the oldest sample when the window is full.
// NaN and ±Inf are stored as-is.
func (s *Series) Push(v float64) {
	s.buf[s.head] = v
	s.head = (s.head + 1) % len(s.buf)
	if s.size < len(s.buf) {
		s.size++
	}
}

// Clear empties the window.
func (s *Series) Clear() {
	s.head = 0
	s.size = 0
}

// Len returns the number of buffered samples.
func (s *Series) Len() int {
	return s.size
}

// Cap returns the configured capacity.
func (s *Series) Cap() int {
	return len(s.buf)
}

// Last returns the most recent sample.
func (s *Series) Last() (float64, bool) {
	if s.size == 0 {
		return 0, false
	}
	return s.buf[(s.head-1+len(s.buf))%len(s.buf)], true
}

// Values returns a copy of the buffered samples, oldest first.
func (s *Series) Values() []float64 {
	out := make([]float64, s.size)
	// oldest sample sits at (head - size + cap) % cap
	start := (s.head - s.size + len(s.buf)) % len(s.buf)
	for i := 0; i < s.size; i++ {
		out[i] = s.buf[(start+i)%len(s.buf)]
	}
	return out
}
