package services

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type SystemSnapshot struct {
	MemoryTotalBytes int64   `json:"memoryTotalBytes"`
	MemoryUsedBytes  int64   `json:"memoryUsedBytes"`
	DiskTotalBytes   int64   `json:"diskTotalBytes"`
	DiskUsedBytes    int64   `json:"diskUsedBytes"`
	CpuLoad          float64 `json:"cpuLoad"`
}

// CaptureSystem samples host memory, CPU, and disk usage of the uploads
// volume for the liveness endpoint. Sampling errors leave zero values rather
// than failing the probe.
func CaptureSystem(diskPath string) SystemSnapshot {
	snapshot := SystemSnapshot{}
	if memStat, err := mem.VirtualMemory(); err == nil {
		snapshot.MemoryTotalBytes = int64(memStat.Total)
		snapshot.MemoryUsedBytes = int64(memStat.Total - memStat.Available)
	}
	diskStat, err := disk.Usage(diskPath)
	if err != nil {
		diskStat, err = disk.Usage("/")
	}
	if err == nil {
		snapshot.DiskTotalBytes = int64(diskStat.Total)
		snapshot.DiskUsedBytes = int64(diskStat.Used)
	}
	if sysCPU, err := cpu.Percent(0, false); err == nil && len(sysCPU) > 0 {
		snapshot.CpuLoad = sysCPU[0] / 100.0
	}
	return snapshot
}

var startedAt = time.Now()

func Uptime() time.Duration {
	return time.Since(startedAt).Round(time.Second)
}
