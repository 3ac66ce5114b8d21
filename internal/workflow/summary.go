package workflow

// CollectionSummary counts outcomes for one collection.
type CollectionSummary struct {
	Name      string
	Completed int
	Failed    int
	Skipped   int
}

// Summary aggregates the outcome of a whole run.
type Summary struct {
	Collections []CollectionSummary
	Completed   int
	Failed      int
	Skipped     int
	Interrupted bool
}

// Total returns the number of files the run looked at.
func (s Summary) Total() int {
	return s.Completed + s.Failed + s.Skipped
}

func (s *Summary) add(cs CollectionSummary) {
	s.Collections = append(s.Collections, cs)
	s.Completed += cs.Completed
	s.Failed += cs.Failed
	s.Skipped += cs.Skipped
}
