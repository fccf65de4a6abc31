package chart

// Entry is one reduced chart point: X is a formatter coordinate, Y the value.
type Entry struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Values returns the Y values of entries as float64, the form asciigraph plots.
func Values(entries []Entry) []float64 {
	if len(entries) == 0 {
		return nil
	}
	values := make([]float64, len(entries))
	for i, e := range entries {
		values[i] = float64(e.Y)
	}
	return values
}

func newEntry(x, y float64) Entry {
	return Entry{X: float32(x), Y: float32(y)}
}
