package utils

import (
	"fmt"
	"strings"
)

const sizeUnitStep = 1024

// FormatFileSize renders a byte count with a lower-case unit suffix, keeping
// one decimal place for scaled values below ten ("1.5kb") and none above
// ("512kb"). Negative counts clamp to zero.
func FormatFileSize(byteCount int64) string {
	if byteCount < 0 {
		byteCount = 0
	}
	scaledValue := float64(byteCount)
	selectedUnit := "b"
	for _, largerUnit := range []string{"kb", "mb", "gb", "tb"} {
		if scaledValue < sizeUnitStep {
			break
		}
		scaledValue /= sizeUnitStep
		selectedUnit = largerUnit
	}
	if selectedUnit == "b" {
		return fmt.Sprintf("%db", byteCount)
	}
	if scaledValue < 10 {
		return strings.TrimSuffix(fmt.Sprintf("%.1f", scaledValue), ".0") + selectedUnit
	}
	return fmt.Sprintf("%.0f%s", scaledValue, selectedUnit)
}
