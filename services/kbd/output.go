package kbd

import (
	"keymatrix-go/types"
	"keymatrix-go/x/mathx"
	"keymatrix-go/x/ring"
)

// ReportQueue hands every report snapshot from the keyboard service to the
// host transport. Push never blocks the pipeline; on overflow the oldest
// snapshot is discarded and counted in Drops.
type ReportQueue = ring.Ring[types.Report]

// NewReportQueue returns a queue of the given capacity (0 = default).
func NewReportQueue(capacity int) *ReportQueue {
	return ring.New[types.Report](mathx.Clamp(mathx.OrDefault(capacity, types.DefaultReportQueue), 1, 4096))
}
