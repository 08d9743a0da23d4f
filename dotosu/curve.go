package dotosu

import "math"

// Polyline approximation of slider paths. Tolerances follow the game
// client's path approximator so lengths line up with what players see.
const (
	bezierToleranceSq = 0.25 * 0.25
	arcTolerance      = 0.1
	catmullDetail     = 50
	// Bounds the sample count of huge-radius arcs, where the tolerance step
	// underflows.
	maxArcSteps = 1000
)

// Point is a playfield position in osu!pixels.
type Point struct{ X, Y float64 }

func (p Point) sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) dist(q Point) float64  { return math.Hypot(p.X-q.X, p.Y-q.Y) }
func (p Point) near(q Point) bool     { return math.Abs(p.X-q.X) < 1e-9 && math.Abs(p.Y-q.Y) < 1e-9 }
func (p Point) lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

func toPoints(v []Vec2) []Point {
	out := make([]Point, len(v))
	for i, p := range v {
		out[i] = Point{float64(p.X), float64(p.Y)}
	}
	return out
}

// Polyline returns the path as connected points starting at the slider
// head. Consecutive duplicates are dropped.
func (p SliderPath) Polyline() []Point {
	var poly []Point
	add := func(pts []Point) {
		for _, v := range pts {
			if n := len(poly); n == 0 || !poly[n-1].near(v) {
				poly = append(poly, v)
			}
		}
	}
	for _, seg := range p.Segments {
		pts := toPoints(seg.Points)
		switch p.Type {
		case PathLinear:
			add(pts)
		case PathCatmull:
			add(catmull(pts))
		case PathPerfect:
			if arc, ok := circularArc(pts); ok {
				add(arc)
			} else {
				add(bezier(pts))
			}
		default:
			add(bezier(pts))
		}
	}
	return poly
}

// PointAt walks distance along poly. Past the end it extends the last
// segment; an empty polyline yields the zero point.
func PointAt(poly []Point, distance float64) Point {
	switch len(poly) {
	case 0:
		return Point{}
	case 1:
		return poly[0]
	}
	for i := 1; i < len(poly); i++ {
		l := poly[i-1].dist(poly[i])
		if l == 0 {
			continue
		}
		if distance <= l || i == len(poly)-1 {
			return poly[i-1].lerp(poly[i], distance/l)
		}
		distance -= l
	}
	return poly[len(poly)-1]
}

// Length sums the segment lengths of poly.
func Length(poly []Point) float64 {
	var total float64
	for i := 1; i < len(poly); i++ {
		total += poly[i-1].dist(poly[i])
	}
	return total
}

// EndPoint is where the first slide ends: Length osu!pixels along the path.
func (s SliderParams) EndPoint() Point {
	return PointAt(s.Path.Polyline(), s.Length)
}

// bezier flattens a curve by de Casteljau subdivision until every piece is
// within tolerance.
func bezier(cp []Point) []Point {
	if len(cp) == 0 {
		return nil
	}
	var out []Point
	stack := [][]Point{cp}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if flatEnough(cur) {
			out = append(out, cur[0])
			continue
		}
		l, r := subdivide(cur)
		stack = append(stack, r, l)
	}
	return append(out, cp[len(cp)-1])
}

func flatEnough(cp []Point) bool {
	for i := 1; i < len(cp)-1; i++ {
		dx := cp[i-1].X - 2*cp[i].X + cp[i+1].X
		dy := cp[i-1].Y - 2*cp[i].Y + cp[i+1].Y
		if dx*dx+dy*dy > bezierToleranceSq {
			return false
		}
	}
	return true
}

func subdivide(cp []Point) (left, right []Point) {
	n := len(cp)
	left = make([]Point, n)
	right = make([]Point, n)
	row := append([]Point(nil), cp...)
	for i := 0; i < n; i++ {
		left[i] = row[0]
		right[n-1-i] = row[len(row)-1]
		for j := 0; j+1 < len(row); j++ {
			row[j] = row[j].lerp(row[j+1], 0.5)
		}
		row = row[:len(row)-1]
	}
	return left, right
}

func catmull(pts []Point) []Point {
	n := len(pts)
	if n < 2 {
		return pts
	}
	out := make([]Point, 0, (n-1)*catmullDetail+1)
	out = append(out, pts[0])
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := pts[max(i-1, 0)], pts[i], pts[i+1], pts[min(i+2, n-1)]
		for s := 1; s <= catmullDetail; s++ {
			t := float64(s) / catmullDetail
			out = append(out, catmullAt(p0, p1, p2, p3, t))
		}
	}
	return out
}

func catmullAt(p0, p1, p2, p3 Point, t float64) Point {
	t2, t3 := t*t, t*t*t
	f := func(a, b, c, d float64) float64 {
		return 0.5 * (2*b + (c-a)*t + (2*a-5*b+4*c-d)*t2 + (3*b-a-3*c+d)*t3)
	}
	return Point{f(p0.X, p1.X, p2.X, p3.X), f(p0.Y, p1.Y, p2.Y, p3.Y)}
}

// circularArc samples the circle through three points. It reports false
// when the points are not three or are collinear.
func circularArc(pts []Point) ([]Point, bool) {
	if len(pts) != 3 {
		return nil, false
	}
	a, b, c := pts[0], pts[1], pts[2]
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-6 {
		return nil, false
	}
	a2, b2, c2 := a.X*a.X+a.Y*a.Y, b.X*b.X+b.Y*b.Y, c.X*c.X+c.Y*c.Y
	centre := Point{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}
	r := centre.dist(a)

	start := math.Atan2(a.Y-centre.Y, a.X-centre.X)
	sweep := math.Atan2(c.Y-centre.Y, c.X-centre.X) - start
	clockwise := b.sub(a).cross(c.sub(b)) < 0
	for !clockwise && sweep < 0 {
		sweep += 2 * math.Pi
	}
	for clockwise && sweep > 0 {
		sweep -= 2 * math.Pi
	}
	if math.IsNaN(sweep) || math.IsInf(r, 0) {
		return nil, false
	}

	step := 2 * math.Acos(max(-1, min(1, 1-arcTolerance/r)))
	if step <= 0 || math.IsNaN(step) || step > math.Pi {
		step = math.Pi
	}
	steps := max(2, int(min(maxArcSteps, math.Ceil(math.Abs(sweep)/step))))
	out := make([]Point, 0, steps+1)
	for i := 0; i < steps; i++ {
		theta := start + sweep*float64(i)/float64(steps)
		out = append(out, Point{centre.X + r*math.Cos(theta), centre.Y + r*math.Sin(theta)})
	}
	return append(out, c), true
}
