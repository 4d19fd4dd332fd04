package renderer

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// LogHostInfo logs the CPU model and memory of the machine. Failures to
// query the host are logged and otherwise ignored.
func LogHostInfo(logger core.Logger) {
	cpuInfo, err := cpu.Info()
	if err != nil || len(cpuInfo) == 0 {
		logger.Warningf("could not query cpu info: %v", err)
	} else {
		cores, _ := cpu.Counts(true)
		logger.Infof("cpu: %s (%d logical cores, %.2f GHz)", cpuInfo[0].ModelName, cores, cpuInfo[0].Mhz/1000)
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warningf("could not query memory info: %v", err)
		return
	}
	logger.Infof("memory: %d MiB total, %d MiB available", memInfo.Total>>20, memInfo.Available>>20)
}
