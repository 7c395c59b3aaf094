// Package export renders recorded orbits to standalone SVG files.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gyrosim/internal/sim"
)

var strokeColors = []string{"#00ff88", "#ffaa00", "#66aaff", "#ff5577", "#ccccff"}

// CrossSectionSVG draws per-lane poloidal traces plus the magnetic axis
// marker into an SVG document.
func CrossSectionSVG(history [][]sim.OrbitPoint, axisR, axisZ float64, width, height int) string {
	minR, maxR := axisR, axisR
	minZ, maxZ := axisZ, axisZ
	for _, hist := range history {
		for _, pt := range hist {
			if pt.R < minR {
				minR = pt.R
			}
			if pt.R > maxR {
				maxR = pt.R
			}
			if pt.Z < minZ {
				minZ = pt.Z
			}
			if pt.Z > maxZ {
				maxZ = pt.Z
			}
		}
	}

	rangeR := maxR - minR
	rangeZ := maxZ - minZ
	if rangeR == 0 {
		rangeR = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}
	minR -= rangeR * 0.1
	maxR += rangeR * 0.1
	minZ -= rangeZ * 0.1
	maxZ += rangeZ * 0.1
	rangeR = maxR - minR
	rangeZ = maxZ - minZ

	px := func(r float64) float64 { return (r - minR) / rangeR * float64(width) }
	// z grows upward, SVG y grows downward
	py := func(z float64) float64 { return float64(height) - (z-minZ)/rangeZ*float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for lane, hist := range history {
		if len(hist) < 2 {
			continue
		}
		color := strokeColors[lane%len(strokeColors)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.2" d="M`, color))
		for i, pt := range hist {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(pt.R), py(pt.Z)))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(pt.R), py(pt.Z)))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ffffff"/>
</svg>`, px(axisR), py(axisZ)))
	return sb.String()
}
