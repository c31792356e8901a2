package check

// Summary counts results per verdict.
type Summary struct {
	Pass int `json:"pass"`
	Warn int `json:"warn"`
	Fail int `json:"fail"`
	Skip int `json:"skip"`
}

// Report is the ordered collection of check results for one run. It is
// assembled by the runner and never mutated after rendering.
type Report struct {
	Checks  []Result `json:"checks"`
	Summary Summary  `json:"summary"`
	Overall Verdict  `json:"overall"`
}

// NewReport builds a report from results, computing the summary and the
// worst-wins overall verdict.
func NewReport(results []Result) *Report {
	r := &Report{
		Checks: results,
	}

	verdicts := make([]Verdict, 0, len(results))
	for _, res := range results {
		verdicts = append(verdicts, res.Verdict)

		switch res.Verdict {
		case VerdictPass:
			r.Summary.Pass++
		case VerdictWarn:
			r.Summary.Warn++
		case VerdictFail:
			r.Summary.Fail++
		case VerdictSkip:
			r.Summary.Skip++
		}
	}

	r.Overall = Worst(verdicts...)

	return r
}

// ExitCode derives the process exit status: 1 when any check failed,
// 0 otherwise. Warn and Skip do not affect the exit status.
func (r *Report) ExitCode() int {
	if r.Overall == VerdictFail {
		return 1
	}

	return 0
}
