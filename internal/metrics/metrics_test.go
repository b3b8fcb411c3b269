package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetIsSingleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}

func TestRecordOTPEvent(t *testing.T) {
	before := testutil.ToFloat64(Get().OTPEventsTotal.WithLabelValues("verified"))

	RecordOTPEvent("verified")
	RecordOTPEvent("verified")

	after := testutil.ToFloat64(Get().OTPEventsTotal.WithLabelValues("verified"))
	assert.Equal(t, before+2, after)
}

func TestRecordIDAllocation(t *testing.T) {
	before := testutil.ToFloat64(Get().IDAllocationsTotal.WithLabelValues("blogs"))

	RecordIDAllocation("blogs")

	assert.Equal(t, before+1, testutil.ToFloat64(Get().IDAllocationsTotal.WithLabelValues("blogs")))
}
