package util

import (
	"runtime"
)

// HeapAllocMB reports the live heap size in megabytes, used by the scan
// loop's memory pressure check.
func HeapAllocMB() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc / 1024 / 1024
}
