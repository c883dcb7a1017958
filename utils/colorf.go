package utils

// ColorRGB holds linear color components. Values are expected in [0,1]
// but are never clamped: catalogs may carry oversaturated components and
// those reach the renderer as-is.
type ColorRGB [3]float32

func (c ColorRGB) RGBA(opacity float32) [4]float32 {
	return [4]float32{c[0], c[1], c[2], opacity}
}

// Oversaturated reports whether any component is outside [0,1].
func (c ColorRGB) Oversaturated() bool {
	for _, v := range c {
		if v < 0 || v > 1 {
			return true
		}
	}
	return false
}

func NewColorRGB(c []float32) ColorRGB {
	var rgb ColorRGB
	copy(rgb[:], c)
	return rgb
}
