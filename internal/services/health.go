package services

import (
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type HealthSnapshot struct {
	Status            string    `json:"status"`
	CapturedAt        time.Time `json:"capturedAt"`
	DatabaseOK        bool      `json:"databaseOk"`
	ProcessRSSBytes   int64     `json:"processRssBytes"`
	SystemMemoryTotal int64     `json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64     `json:"systemMemoryUsedBytes"`
	DiskTotalBytes    int64     `json:"diskTotalBytes"`
	DiskUsedBytes     int64     `json:"diskUsedBytes"`
	ProcessCPULoad    float64   `json:"processCpuLoad"`
	SystemCPULoad     float64   `json:"systemCpuLoad"`
}

// CaptureHealth samples process and host resources and pings the database.
// Sampling errors leave zeroes in place of a failed probe; only the database
// check affects the reported status.
func CaptureHealth(db *sqlx.DB, diskPath string) HealthSnapshot {
	proc, _ := process.NewProcess(int32(os.Getpid()))
	memStat, _ := mem.VirtualMemory()
	diskStat, err := disk.Usage(diskPath)
	if err != nil {
		diskStat, _ = disk.Usage("/")
	}

	snapshot := HealthSnapshot{
		Status:     "ok",
		CapturedAt: time.Now().UTC(),
	}
	if proc != nil {
		if rss, _ := proc.MemoryInfo(); rss != nil {
			snapshot.ProcessRSSBytes = int64(rss.RSS)
		}
		cpuPct, _ := proc.CPUPercent()
		snapshot.ProcessCPULoad = cpuPct / 100.0
	}
	if memStat != nil {
		snapshot.SystemMemoryTotal = int64(memStat.Total)
		snapshot.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	if diskStat != nil {
		snapshot.DiskTotalBytes = int64(diskStat.Total)
		snapshot.DiskUsedBytes = int64(diskStat.Used)
	}
	if sysCPU, _ := cpu.Percent(0, false); len(sysCPU) > 0 {
		snapshot.SystemCPULoad = sysCPU[0] / 100.0
	}

	if db != nil {
		if err := db.Ping(); err == nil {
			snapshot.DatabaseOK = true
		} else {
			snapshot.Status = "degraded"
		}
	}
	return snapshot
}
