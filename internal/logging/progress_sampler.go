package logging

// ProgressSampler suppresses repetitive progress logs, emitting only when the
// completion fraction crosses a bucket boundary.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler constructs a sampler with the given bucket size in
// percent (default 10).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress fraction (0 to 1) should be logged.
// Negative fractions mean unknown and are never logged.
func (s *ProgressSampler) ShouldLog(fraction float64) bool {
	if s == nil {
		return true
	}
	if fraction < 0 {
		return false
	}
	percent := fraction * 100
	if percent > 100 {
		percent = 100
	}
	bucket := int(percent / s.bucketSize)
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state when a new job starts.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
