package connector

import (
	"sync/atomic"
	"time"
)

// statusBool is a flag that can be waited on with a timeout
type statusBool struct {
	b uint32
}

func (sb *statusBool) WaitForTrue(timeout time.Duration) bool {
	expires := time.Now().Add(timeout)
	for atomic.LoadUint32(&sb.b) == 0 {
		time.Sleep(100 * time.Millisecond)
		if time.Now().After(expires) {
			return false
		}
	}
	return true
}

func (sb *statusBool) SetTrue() {
	atomic.StoreUint32(&sb.b, 1)
}
func (sb *statusBool) SetFalse() {
	atomic.StoreUint32(&sb.b, 0)
}
func (sb *statusBool) IsTrue() bool {
	return atomic.LoadUint32(&sb.b) != 0
}
