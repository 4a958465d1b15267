package system

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of resource usage for the performance report
type Stats struct {
	CPUPercent    float64
	ProcessRSS    uint64
	SystemUsedPct float64
	LogicalCPUs   int
}

// CollectStats samples CPU over interval and reads memory usage
func CollectStats(interval time.Duration) (Stats, error) {
	var s Stats

	percents, err := cpu.Percent(interval, false)
	if err != nil {
		return s, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) > 0 {
		s.CPUPercent = percents[0]
	}

	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCPUs = n
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, fmt.Errorf("virtual memory: %w", err)
	}
	s.SystemUsedPct = vm.UsedPercent

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, fmt.Errorf("process: %w", err)
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return s, fmt.Errorf("process memory: %w", err)
	}
	s.ProcessRSS = info.RSS

	return s, nil
}

func (s Stats) String() string {
	return fmt.Sprintf("CPU: %.1f%% of %d cores | RSS: %.1f MB | System memory: %.1f%%",
		s.CPUPercent, s.LogicalCPUs, float64(s.ProcessRSS)/(1<<20), s.SystemUsedPct)
}
