package layout

// Region locates a ring or broadcast buffer inside a mapped file.
type Region struct {
	Offset        int
	Capacity      int
	TrailerLength int
}

// Length returns the size of the region including its trailer.
func (r Region) Length() int {
	return r.Capacity + r.TrailerLength
}

// End returns the offset of the first byte after the region.
func (r Region) End() int {
	return r.Offset + r.Length()
}

func (r Region) slice(data []byte) []byte {
	return data[r.Offset:r.End():r.End()]
}
