package logging

import "testing"

func TestNewProgressSamplerDefaults(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 10},
		{"default bucket size for negative", -1, 10},
		{"custom bucket size", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSamplerNilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(0.5) {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(25)

	steps := []struct {
		fraction float64
		want     bool
	}{
		{0, true},
		{0.1, false},
		{0.25, true},
		{0.3, false},
		{0.2, false},
		{0.75, true},
		{1.5, true},
		{1, false},
		{-1, false},
	}
	for _, step := range steps {
		if got := s.ShouldLog(step.fraction); got != step.want {
			t.Fatalf("ShouldLog(%v) = %v, want %v", step.fraction, got, step.want)
		}
	}

	s.Reset()
	if !s.ShouldLog(0.1) {
		t.Fatal("expected log after reset")
	}
}
