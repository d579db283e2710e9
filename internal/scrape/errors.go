package scrape

import "fmt"

// Phase names the pipeline stage a run is in. Each run walks
// fetching → extracting → recording → done; failed is terminal from the
// first two stages.
type Phase string

const (
	PhaseFetching   Phase = "fetching"
	PhaseExtracting Phase = "extracting"
	PhaseRecording  Phase = "recording"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// FetchError reports a failed page fetch: network error, timeout, or a
// non-2xx response. StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports a selector mismatch: the document was fetched but
// the configured strategy found no headline in it.
type ExtractionError struct {
	Target string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Target, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.Target, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
