package rslimiter

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceUsage is a point-in-time snapshot logged between cycles.
type ResourceUsage struct {
	AllocMB              int64   // Currently allocated memory by the agent
	SysMB                int64   // Memory obtained from the OS by the Go runtime
	Goroutines           int     // Number of goroutines
	GCCount              int64   // Number of GC cycles
	SystemMemUsedMB      int64   // System memory used (MB)
	SystemMemTotalMB     int64   // Total system memory (MB)
	SystemMemUsedPercent float64 // System memory used percentage
}

// GetResourceUsage returns current resource usage statistics.
func GetResourceUsage() ResourceUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := ResourceUsage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		SysMB:      int64(m.Sys / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
		GCCount:    int64(m.NumGC),
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemUsedMB = int64(vmStat.Used / 1024 / 1024)
		usage.SystemMemTotalMB = int64(vmStat.Total / 1024 / 1024)
		usage.SystemMemUsedPercent = vmStat.UsedPercent
	}

	return usage
}
