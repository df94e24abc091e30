package d3

import "github.com/soypat/glgl/math/ms3"

// Extend returns a box enclosing two 3d boxes.
func Extend(a, b ms3.Box) ms3.Box {
	return ms3.Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Translate translates a 3d box.
func Translate(a ms3.Box, v ms3.Vec) ms3.Box {
	return ms3.Box{Min: ms3.Add(a.Min, v), Max: ms3.Add(a.Max, v)}
}
