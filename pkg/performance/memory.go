package performance

import (
	"log"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

// MemorySnapshot represents memory state at a point in time
type MemorySnapshot struct {
	Timestamp   time.Time
	TotalMB     uint64
	AvailableMB uint64
	UsedMB      uint64
	FreeMB      uint64
}

// GetSystemMemory reads system-wide memory figures. On failure only the
// timestamp is set.
func GetSystemMemory() MemorySnapshot {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Printf("GetSystemMemory: failed to read virtual memory: %v", err)
		return MemorySnapshot{Timestamp: time.Now()}
	}
	return MemorySnapshot{
		Timestamp:   time.Now(),
		TotalMB:     vm.Total >> 20,
		AvailableMB: vm.Available >> 20,
		UsedMB:      vm.Used >> 20,
		FreeMB:      vm.Free >> 20,
	}
}

// MemoryPressureLevel represents how much memory pressure the system is under
type MemoryPressureLevel int

const (
	MemoryPressureNone     MemoryPressureLevel = iota // >800MB available
	MemoryPressureLow                                 // 400-800MB available
	MemoryPressureMedium                              // 200-400MB available
	MemoryPressureHigh                                // 100-200MB available
	MemoryPressureCritical                            // <100MB available
)

// PressureFor classifies an available-memory figure
func PressureFor(availableMB uint64) MemoryPressureLevel {
	switch {
	case availableMB < 100:
		return MemoryPressureCritical
	case availableMB < 200:
		return MemoryPressureHigh
	case availableMB < 400:
		return MemoryPressureMedium
	case availableMB < 800:
		return MemoryPressureLow
	default:
		return MemoryPressureNone
	}
}

// String returns a human-readable description of memory pressure
func (m MemoryPressureLevel) String() string {
	switch m {
	case MemoryPressureNone:
		return "None"
	case MemoryPressureLow:
		return "Low"
	case MemoryPressureMedium:
		return "Medium"
	case MemoryPressureHigh:
		return "High"
	case MemoryPressureCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// LogMemorySnapshot logs system and Go runtime memory. Every page keeps a
// decoder and a streaming texture alive, so this is watched on small boards.
func LogMemorySnapshot() {
	sys := GetSystemMemory()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	log.Printf("Memory: System[Total=%dMB, Avail=%dMB, Used=%dMB] Go[Alloc=%dMB, Sys=%dMB, GC=%d] Pressure=%s",
		sys.TotalMB, sys.AvailableMB, sys.UsedMB,
		m.Alloc>>20, m.Sys>>20, m.NumGC,
		PressureFor(sys.AvailableMB))
}
