package gpu

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Info holds what a probe found about the first usable GPU.
type Info struct {
	Device    string `json:"device"`     // e.g. "NVIDIA GPU (1eb8)"
	Driver    string `json:"driver"`     // e.g. "nvidia", "amdgpu"
	VRAMTotal int64  `json:"vram_total"` // bytes, 0 if unknown
	VRAMFree  int64  `json:"vram_free"`  // bytes, 0 if unknown
	Accel     string `json:"accel"`      // "cuda" or "cpu"
}

var vendorNames = map[string]string{
	"10de": "NVIDIA",
	"8086": "Intel",
	"1002": "AMD",
}

// Probe scans sysfs for a discrete GPU and reports the compute device the
// diarization sidecar should use. It runs fresh on every call: a card can
// be claimed or released between jobs, so the result is never cached.
func Probe() *Info {
	return probe("/sys/class/drm")
}

func probe(root string) *Info {
	info := &Info{Accel: "cpu"}

	cards, err := filepath.Glob(filepath.Join(root, "card[0-9]*"))
	if err != nil {
		return info
	}

	for _, card := range cards {
		// Skip render nodes (cardN-XXX).
		if strings.Contains(filepath.Base(card), "-") {
			continue
		}

		deviceDir := filepath.Join(card, "device")
		vendorID, deviceID, driver := readUevent(filepath.Join(deviceDir, "uevent"))
		vendor, known := vendorNames[vendorID]
		if !known {
			continue
		}

		info.Device = vendor + " GPU (" + deviceID + ")"
		info.Driver = driver
		if vendorID == "10de" {
			info.Accel = "cuda"
		}

		// VRAM counters are exposed by amdgpu only; absent files just
		// leave the totals at zero.
		if total, err := readSysfsInt(filepath.Join(deviceDir, "mem_info_vram_total")); err == nil && total > 0 {
			info.VRAMTotal = total
			if used, err := readSysfsInt(filepath.Join(deviceDir, "mem_info_vram_used")); err == nil && used > 0 {
				info.VRAMFree = total - used
			}
		}
		break
	}

	return info
}

func readUevent(path string) (vendorID, deviceID, driver string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "DRIVER="):
			driver = strings.TrimPrefix(line, "DRIVER=")
		case strings.HasPrefix(line, "PCI_ID="):
			parts := strings.Split(strings.TrimPrefix(line, "PCI_ID="), ":")
			if len(parts) == 2 {
				vendorID = strings.ToLower(parts[0])
				deviceID = strings.ToLower(parts[1])
			}
		}
	}
	return vendorID, deviceID, driver
}

func readSysfsInt(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
}
