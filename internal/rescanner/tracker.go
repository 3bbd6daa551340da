package rescanner

import "sync"

// JobTracker holds the per-URL transient scan state: a URL id either has a
// rescan in flight (Scanning) or it does not (Idle). Entries for distinct
// URL ids are fully independent; two concurrent rescans of different URLs
// are both representable and never interfere.
//
// The tracker is deliberately separate from the read-model cache: it exists
// only between trigger invocation and response arrival and is destroyed
// unconditionally when the call settles.
type JobTracker struct {
	mu       sync.RWMutex
	scanning map[int64]struct{}
}

// NewJobTracker creates an empty tracker.
func NewJobTracker() *JobTracker {
	return &JobTracker{scanning: make(map[int64]struct{})}
}

// SetScanning transitions the URL id to Scanning. It returns false when a
// rescan is already in flight for that id, in which case the caller must
// treat the trigger as a no-op.
func (jt *JobTracker) SetScanning(urlID int64) bool {
	jt.mu.Lock()
	defer jt.mu.Unlock()
	if _, exists := jt.scanning[urlID]; exists {
		return false
	}
	jt.scanning[urlID] = struct{}{}
	return true
}

// ClearScanning transitions the URL id back to Idle. Clearing an id that is
// already Idle is a no-op.
func (jt *JobTracker) ClearScanning(urlID int64) {
	jt.mu.Lock()
	defer jt.mu.Unlock()
	delete(jt.scanning, urlID)
}

// IsScanning reports whether a rescan is in flight for the URL id.
func (jt *JobTracker) IsScanning(urlID int64) bool {
	jt.mu.RLock()
	defer jt.mu.RUnlock()
	_, exists := jt.scanning[urlID]
	return exists
}

// ScanningCount returns the number of URLs currently in the Scanning state.
func (jt *JobTracker) ScanningCount() int {
	jt.mu.RLock()
	defer jt.mu.RUnlock()
	return len(jt.scanning)
}
