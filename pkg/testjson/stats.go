package testjson

// Stats holds bucket sizes for a classified run.
type Stats struct {
	Passed      int
	Failed      int
	Ignored     int
	Errors      int
	RawLines    int
	SuiteFailed bool    // suite summary reported "failed"
	ExecTime    float64 // from the suite summary, 0 if absent
}

// Total returns the number of tests with a terminal outcome.
func (s Stats) Total() int {
	return s.Passed + s.Failed + s.Ignored
}

// Status returns "fail" when any test failed, the suite summary reported
// failure, or malformed events were seen; otherwise "pass".
func (s Stats) Status() string {
	if s.Failed > 0 || s.SuiteFailed || s.Errors > 0 {
		return "fail"
	}
	return "pass"
}

// ComputeStats counts the buckets of r.
func ComputeStats(r *Results) Stats {
	s := Stats{
		Passed:   len(r.Passed),
		Failed:   len(r.Failed),
		Ignored:  len(r.Ignored),
		Errors:   len(r.Errors),
		RawLines: len(r.RawLines),
	}
	if r.SuiteInfo != nil {
		s.SuiteFailed = r.SuiteInfo.Event == StatusFailed
		if r.SuiteInfo.ExecTime != nil {
			s.ExecTime = *r.SuiteInfo.ExecTime
		}
	}
	return s
}
