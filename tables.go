package surfnets

import "github.com/soypat/glgl/math/ms3"

// axisMask selects the 5 corner bits AxisFlags is indexed with.
const axisMask = 0x1F

// CornerOffset is the offset of each cube corner relative to the cell's
// minimum corner. Corner c sits at (c&1, c>>1&1, c>>2&1).
var CornerOffset = [8]V3i{
	{0, 0, 0}, {1, 0, 0},
	{0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1},
	{0, 1, 1}, {1, 1, 1},
}

// CornerPosition is CornerOffset in unit cube floating point coordinates.
// Surface positions are interpolated between these.
var CornerPosition = [8]ms3.Vec{
	{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1},
	{X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1},
}

// EdgeEndpoints holds corner pairs for the 12 cube edges (0..11) followed by
// the 4 space diagonals (12..15) joining opposite corners.
var EdgeEndpoints = [16][2]uint8{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {3, 7}, {2, 6},
	{0, 7}, {1, 6}, {2, 5}, {3, 4},
}

// diagonalEdges is the index of the first space diagonal in EdgeEndpoints.
const diagonalEdges = 12

// AxisFlags maps the low 5 bits of a corner mask to the axes a quad must be
// emitted across. Bit a is set when corner 0 and corner 1<<a lie on
// opposite sides of the surface.
var AxisFlags = [32]uint8{
	0, 7, 1, 6, 2, 5, 3, 4, 0, 7, 1, 6, 2, 5, 3, 4,
	4, 3, 5, 2, 6, 1, 7, 0, 4, 3, 5, 2, 6, 1, 7, 0,
}
