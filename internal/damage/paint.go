package damage

// Vertex is a point of a vehicle mesh. X runs front to rear, Y left to
// right and Z bottom to top.
type Vertex [3]float64

// Color is an RGB triple with channels in [0, 1].
type Color [3]float64

var (
	ColorHeavy   = Color{1.0, 0.0, 0.0}
	ColorMedium  = Color{1.0, 0.5, 0.0}
	ColorLight   = Color{1.0, 1.0, 0.0}
	ColorDefault = Color{0.8, 0.8, 0.8}
)

// BandFraction is the share of each axis extent treated as a boundary region.
const BandFraction = 0.2

// ColorOf returns the display color of a severity.
func ColorOf(s Severity) Color {
	switch s {
	case Heavy:
		return ColorHeavy
	case Medium:
		return ColorMedium
	case Light:
		return ColorLight
	default:
		return ColorDefault
	}
}

// RegionOf returns the region a vertex falls in, given the mesh bounds.
// ok is false for vertices in the interior of every axis.
func RegionOf(v Vertex, min, max Vertex) (Region, bool) {
	var band Vertex
	for i := range band {
		band[i] = BandFraction * (max[i] - min[i])
	}
	switch {
	case v[0] < min[0]+band[0]:
		return Front, true
	case v[0] > max[0]-band[0]:
		return Rear, true
	case v[1] < min[1]+band[1]:
		return Left, true
	case v[1] > max[1]-band[1]:
		return Right, true
	case v[2] < min[2]+band[2]:
		return Bottom, true
	case v[2] > max[2]-band[2]:
		return Top, true
	default:
		return "", false
	}
}

// Bounds returns the per-axis minimum and maximum of vertices.
func Bounds(vertices []Vertex) (min, max Vertex) {
	if len(vertices) == 0 {
		return min, max
	}
	min, max = vertices[0], vertices[0]
	for _, v := range vertices[1:] {
		for i := range v {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max
}

// Paint assigns a color to every vertex from the assessment of its region.
func Paint(vertices []Vertex, a Assessment) []Color {
	colors := make([]Color, len(vertices))
	min, max := Bounds(vertices)
	for i, v := range vertices {
		colors[i] = ColorDefault
		if region, ok := RegionOf(v, min, max); ok {
			colors[i] = ColorOf(a[region])
		}
	}
	return colors
}
