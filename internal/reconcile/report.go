package reconcile

// Outcome is what happened to one tracking record.
type Outcome string

const (
	OutcomeUpdated        Outcome = "updated"
	OutcomeUpToDate       Outcome = "up_to_date"
	OutcomeWouldUpdate    Outcome = "would_update"
	OutcomeSkippedMissing Outcome = "skipped_missing"
	OutcomeNoMatch        Outcome = "skipped_no_match"
	OutcomeFailed         Outcome = "failed"
)

// Result describes the decision taken for one record. From is the status
// read from the record, To the registry status when the record matched.
type Result struct {
	PageID  string
	Name    string
	Type    string
	Outcome Outcome
	From    string
	To      string
	Err     error
}

// Report aggregates the results of a reconciliation in fetch order.
type Report struct {
	Results []Result
	counts  map[Outcome]int
}

func (r *Report) add(res Result) {
	if r.counts == nil {
		r.counts = make(map[Outcome]int)
	}
	r.Results = append(r.Results, res)
	r.counts[res.Outcome]++
}

// Count returns how many records ended with the given outcome.
func (r *Report) Count(o Outcome) int {
	return r.counts[o]
}

// Skipped counts records that were not matched to a resolver.
func (r *Report) Skipped() int {
	return r.counts[OutcomeSkippedMissing] + r.counts[OutcomeNoMatch]
}
