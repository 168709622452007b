package api

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessMetrics – метрики процесса симуляции для /api/stats
type ProcessMetrics struct {
	StartTime time.Time
}

// NewProcessMetrics создаёт метрики с текущим временем старта
func NewProcessMetrics() *ProcessMetrics {
	return &ProcessMetrics{StartTime: time.Now()}
}

// GetUptime возвращает время работы в человекочитаемом виде
func (pm *ProcessMetrics) GetUptime() string {
	uptime := time.Since(pm.StartTime)

	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}

// GetMemoryUsage возвращает занятую кучу в MB
func (pm *ProcessMetrics) GetMemoryUsage() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / 1024 / 1024
}

// GetCPUUsage возвращает загрузку CPU процессом в процентах.
// Если метрика процесса недоступна, возвращается системная.
func (pm *ProcessMetrics) GetCPUUsage() (float64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if percent, err := proc.CPUPercent(); err == nil {
			return percent, nil
		}
	}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, fmt.Errorf("cpu.Percent вернул пустой результат")
	}
	return percents[0], nil
}

// Report собирает сводку для ответа API
func (pm *ProcessMetrics) Report() map[string]interface{} {
	cpuPercent, err := pm.GetCPUUsage()
	report := map[string]interface{}{
		"uptime":      pm.GetUptime(),
		"memory_mb":   fmt.Sprintf("%.2f", pm.GetMemoryUsage()),
		"goroutines":  runtime.NumGoroutine(),
		"server_time": time.Now().Unix(),
	}
	if err == nil {
		report["cpu_percent"] = fmt.Sprintf("%.2f", cpuPercent)
	}
	return report
}
