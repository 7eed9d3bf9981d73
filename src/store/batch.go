package store

// BatchResult records the per-request outcome of a concurrent create or
// delete batch. The store applies each sub-request independently, so a
// batch can partially succeed; the slice indexes match the input order.
type BatchResult struct {
	Op   string
	errs []error
}

// NewBatchResult builds a result from per-request outcomes, in input
// order. Exists for fakes standing in for the client in tests.
func NewBatchResult(op string, errs []error) *BatchResult {
	return &BatchResult{Op: op, errs: errs}
}

// Len is the number of sub-requests issued.
func (r *BatchResult) Len() int { return len(r.errs) }

// Failed returns the input indexes whose requests failed.
func (r *BatchResult) Failed() []int {
	var failed []int
	for i, err := range r.errs {
		if err != nil {
			failed = append(failed, i)
		}
	}
	return failed
}

// Succeeded returns the input indexes whose requests were applied.
func (r *BatchResult) Succeeded() []int {
	var ok []int
	for i, err := range r.errs {
		if err == nil {
			ok = append(ok, i)
		}
	}
	return ok
}

// FirstErr reports the first failure in input order, or nil when the
// whole batch was applied.
func (r *BatchResult) FirstErr() error {
	for _, err := range r.errs {
		if err != nil {
			return err
		}
	}
	return nil
}
