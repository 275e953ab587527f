package returns

import "time"

// Recorder receives lifecycle and refund measurements.
type Recorder interface {
	RecordReturnCreated()
	RecordReturnTransition(from, to string)
	RecordRefund(provider, outcome, kind string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordReturnCreated()                               {}
func (nopRecorder) RecordReturnTransition(string, string)              {}
func (nopRecorder) RecordRefund(string, string, string, time.Duration) {}
