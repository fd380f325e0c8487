package gripper

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Metrics counts the exchanges of a Gripper session.
// Counters can be used as the value of a prometheus CounterFunc.
type Metrics struct {
	// RequestCount indicates the number of requests written to the transport.
	RequestCount *xsync.Counter
	// AckCount indicates the number of preset requests acknowledged.
	AckCount *xsync.Counter
	// TimeoutCount indicates the number of responses that did not arrive in time.
	TimeoutCount *xsync.Counter
	// MismatchCount indicates the number of unexpected acknowledgements.
	MismatchCount *xsync.Counter
	// FeedbackCount indicates the number of feedback queries decoded.
	FeedbackCount *xsync.Counter
	// FeedbackErrCount indicates the number of failed feedback queries.
	FeedbackErrCount *xsync.Counter
	// PollCount indicates the number of feedback polls made by blocking waits.
	PollCount *xsync.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestCount:     xsync.NewCounter(),
		AckCount:         xsync.NewCounter(),
		TimeoutCount:     xsync.NewCounter(),
		MismatchCount:    xsync.NewCounter(),
		FeedbackCount:    xsync.NewCounter(),
		FeedbackErrCount: xsync.NewCounter(),
		PollCount:        xsync.NewCounter(),
	}
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	for _, c := range []*xsync.Counter{
		m.RequestCount, m.AckCount, m.TimeoutCount, m.MismatchCount,
		m.FeedbackCount, m.FeedbackErrCount, m.PollCount,
	} {
		c.Reset()
	}
}
