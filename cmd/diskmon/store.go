package main

// A SampleStore retains the counter samples of the last completed
// cycle, and only those: Replace swaps the whole generation, so a
// device missing from the newest collection simply has no baseline on
// the next cycle. The poll loop is its single reader and writer, one
// cycle at a time, hence no locking.
type SampleStore struct {
	previous map[string]IOCounterSample
}

func NewSampleStore() *SampleStore {
	return &SampleStore{
		previous: make(map[string]IOCounterSample),
	}
}

// Previous returns the samples of the last completed cycle. It is
// empty before the first one.
func (s *SampleStore) Previous() map[string]IOCounterSample {
	return s.previous
}

// Replace discards the retained generation in favor of samples. There
// is no merging whatsoever.
func (s *SampleStore) Replace(samples map[string]IOCounterSample) {
	s.previous = samples
}
