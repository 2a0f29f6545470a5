package geom

// Clamp limits v to [lo, hi]. The caller guarantees lo <= hi.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
