package colsync

import (
	"fmt"
)

// ItemError records a single failed item during a best-effort pass.
type ItemError struct {
	Op   string // "list", "read", "write", "mkcol", "mkdir"
	Path string
	Err  error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// SyncResult is the structured outcome of a crawl or mirror pass. A pass
// never aborts on a per-item failure, so "returned without error" does not
// mean "fully synced"; callers inspect Ok() to tell the two apart.
type SyncResult struct {
	Succeeded int
	Failures  []ItemError
}

func (r *SyncResult) Ok() bool {
	return len(r.Failures) == 0
}

func (r *SyncResult) Failed() int {
	return len(r.Failures)
}

func (r *SyncResult) addSuccess() {
	r.Succeeded++
}

func (r *SyncResult) addFailure(op, path string, err error) {
	r.Failures = append(r.Failures, ItemError{Op: op, Path: path, Err: err})
}

// Merge folds another result into this one.
func (r *SyncResult) Merge(other SyncResult) {
	r.Succeeded += other.Succeeded
	r.Failures = append(r.Failures, other.Failures...)
}

func (r *SyncResult) Summary() string {
	if r.Ok() {
		return fmt.Sprintf("%d items synced", r.Succeeded)
	}
	return fmt.Sprintf("%d items synced, %d failed", r.Succeeded, r.Failed())
}
