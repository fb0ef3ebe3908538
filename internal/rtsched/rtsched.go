// Package rtsched gives the DSP consumer task a best-effort real-time
// scheduling priority, so the host scheduler doesn't starve it behind
// bursty control-surface or logging work.
package rtsched

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// DefaultPriority is a conservative SCHED_FIFO priority: high enough to
// preempt normal tasks, low enough to leave headroom for kernel threads.
const DefaultPriority = 10

// TryElevate attempts to switch the calling OS thread to SCHED_FIFO at the
// given priority. It never returns an error the caller must treat as
// fatal: on a platform other than Linux it returns nil and changes
// nothing; on Linux a refused request (most commonly for insufficient
// privilege) leaves scheduling unchanged and is returned as an error. The
// DSP pipeline runs correctly (just without a scheduling guarantee) either
// way.
func TryElevate(priority int) error {
	if runtime.GOOS != "linux" {
		return nil
	}

	runtime.LockOSThread()
	param := &unix.Sched_param{Priority: int32(priority)}
	if err := unix.SchedSetscheduler(0, unix.SCHED_FIFO, param); err != nil {
		// Most commonly EPERM outside of CAP_SYS_NICE; not fatal.
		return fmt.Errorf("rtsched: SCHED_FIFO unavailable, continuing at default priority: %w", err)
	}
	return nil
}
