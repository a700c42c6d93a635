package face

import (
	"errors"
	"math"
)

// EmbeddingDim is the fixed dimension of every feature vector this package
// produces. It is part of the versioned matching configuration: changing it,
// or changing any of the pair/triangle lists below, invalidates every
// previously stored embedding.
const EmbeddingDim = 128

// positionDivisor scales absolute pixel positions into a [0,1]-ish range.
const positionDivisor = 1000.0

// landmarkOrder fixes the iteration order for all per-landmark feature
// groups. Versioned: reordering changes the meaning of stored embeddings.
var landmarkOrder = [...]Landmark{
	LeftEye, RightEye, NoseBase,
	MouthLeft, MouthRight, MouthBottom,
	LeftCheek, RightCheek,
	LeftEar, RightEar,
}

// landmarkPairs is the versioned list of landmark pairs used for the
// distance and pairwise-angle feature groups.
var landmarkPairs = [...][2]Landmark{
	{LeftEye, RightEye},
	{LeftEye, NoseBase},
	{RightEye, NoseBase},
	{LeftEye, MouthLeft},
	{RightEye, MouthRight},
	{NoseBase, MouthLeft},
	{NoseBase, MouthRight},
	{NoseBase, MouthBottom},
	{MouthLeft, MouthRight},
	{MouthLeft, MouthBottom},
	{MouthRight, MouthBottom},
	{LeftCheek, RightCheek},
	{LeftEye, LeftCheek},
	{RightEye, RightCheek},
	{LeftEar, LeftEye},
	{RightEar, RightEye},
}

// landmarkTriangles is the versioned list of triangles for the cosine
// feature group. The first landmark is the vertex the cosine is taken at.
var landmarkTriangles = [...][3]Landmark{
	{NoseBase, LeftEye, RightEye},
	{LeftEye, RightEye, NoseBase},
	{RightEye, LeftEye, NoseBase},
	{NoseBase, MouthLeft, MouthRight},
	{MouthBottom, MouthLeft, MouthRight},
	{NoseBase, LeftCheek, RightCheek},
	{LeftEye, NoseBase, MouthLeft},
	{RightEye, NoseBase, MouthRight},
}

// leftSideLandmarks and rightSideLandmarks drive the symmetry features.
var (
	leftSideLandmarks  = [...]Landmark{LeftEye, LeftCheek, LeftEar, MouthLeft}
	rightSideLandmarks = [...]Landmark{RightEye, RightCheek, RightEar, MouthRight}
)

// Feature group offsets into the embedding vector. Computed from the
// enumerations above; the final block is reserved zero padding kept for
// compatibility with stored embeddings.
const (
	offBox         = 0                                            // 6 values
	offAbsolute    = offBox + 6                                   // 2 per landmark
	offRelative    = offAbsolute + 2*len(landmarkOrder)           // 2 per landmark
	offDistance    = offRelative + 2*len(landmarkOrder)           // 1 per pair
	offPairAngle   = offDistance + len(landmarkPairs)             // 1 per pair
	offCenterAngle = offPairAngle + len(landmarkPairs)            // 1 per landmark
	offTriangle    = offCenterAngle + len(landmarkOrder)          // 1 per triangle
	offRatio       = offTriangle + len(landmarkTriangles)         // 5 values
	offRotation    = offRatio + 5                                 // 6 values
	offExpression  = offRotation + 6                              // 6 values
	offReserved    = offExpression + 6                            // zero padding up to EmbeddingDim
)

// ErrInvalidBox is returned when an observation's bounding box has no
// positive extent and extraction is impossible.
var ErrInvalidBox = errors.New("face: observation has invalid bounding box")

// Extract computes the fixed-dimension geometric feature vector for an
// observation. The function is pure and deterministic: the same observation
// always yields a bit-identical vector. Any feature whose landmark inputs
// are missing is written as 0 so the dimension never varies.
func Extract(obs *Observation) ([]float32, error) {
	if !obs.Box.Valid() {
		return nil, ErrInvalidBox
	}

	v := make([]float32, EmbeddingDim)
	writeBoxFeatures(v, obs)
	writeLandmarkPositions(v, obs)
	writePairFeatures(v, obs)
	writeTriangleFeatures(v, obs)
	writeRatioFeatures(v, obs)
	writeRotationFeatures(v, obs)
	writeExpressionFeatures(v, obs)
	// v[offReserved:] stays zero: reserved slots.
	return v, nil
}

// writeBoxFeatures fills the box geometry group.
func writeBoxFeatures(v []float32, obs *Observation) {
	b := obs.Box
	v[offBox+0] = float32(b.Width / positionDivisor)
	v[offBox+1] = float32(b.Height / positionDivisor)
	v[offBox+2] = float32(b.Width / b.Height)
	v[offBox+3] = float32(b.Width * b.Height / (positionDivisor * positionDivisor))
	v[offBox+4] = float32(b.Left / positionDivisor)
	v[offBox+5] = float32(b.Top / positionDivisor)
}

// writeLandmarkPositions fills the absolute and box-relative position groups.
func writeLandmarkPositions(v []float32, obs *Observation) {
	center := obs.Box.Center()
	for i, l := range landmarkOrder {
		p, ok := obs.landmark(l)
		if !ok {
			continue // positions stay 0
		}
		v[offAbsolute+2*i] = float32(p.X / positionDivisor)
		v[offAbsolute+2*i+1] = float32(p.Y / positionDivisor)
		v[offRelative+2*i] = float32((p.X - center.X) / obs.Box.Width)
		v[offRelative+2*i+1] = float32((p.Y - center.Y) / obs.Box.Height)

		angle := math.Atan2(p.Y-center.Y, p.X-center.X)
		v[offCenterAngle+i] = float32(angle / math.Pi)
	}
}

// writePairFeatures fills pairwise distances and signed pairwise angles.
func writePairFeatures(v []float32, obs *Observation) {
	for i, pair := range landmarkPairs {
		a, okA := obs.landmark(pair[0])
		b, okB := obs.landmark(pair[1])
		if !okA || !okB {
			continue // distance and angle stay 0
		}
		dx := b.X - a.X
		dy := b.Y - a.Y
		v[offDistance+i] = float32(math.Hypot(dx, dy) / obs.Box.Width)
		v[offPairAngle+i] = float32(math.Atan2(dy, dx) / math.Pi)
	}
}

// writeTriangleFeatures fills the triangle cosine group. The cosine at the
// vertex is the natural comparable quantity, no inverse trig needed.
func writeTriangleFeatures(v []float32, obs *Observation) {
	for i, tri := range landmarkTriangles {
		vertex, okV := obs.landmark(tri[0])
		a, okA := obs.landmark(tri[1])
		b, okB := obs.landmark(tri[2])
		if !okV || !okA || !okB {
			continue
		}
		v[offTriangle+i] = float32(cosineAtVertex(vertex, a, b))
	}
}

// cosineAtVertex returns the cosine of the angle at vertex in the triangle
// (vertex, a, b), or 0 when either side is degenerate.
func cosineAtVertex(vertex, a, b Point) float64 {
	ax := a.X - vertex.X
	ay := a.Y - vertex.Y
	bx := b.X - vertex.X
	by := b.Y - vertex.Y

	la := math.Hypot(ax, ay)
	lb := math.Hypot(bx, by)
	if la == 0 || lb == 0 {
		return 0
	}
	return (ax*bx + ay*by) / (la * lb)
}

// writeRatioFeatures fills the ratio and symmetry group: eye distance over
// box width, mouth width over eye distance, per-side mean landmark reach
// from the box center, and their absolute difference (symmetry defect).
func writeRatioFeatures(v []float32, obs *Observation) {
	var eyeDist float64
	if le, ok := obs.landmark(LeftEye); ok {
		if re, ok := obs.landmark(RightEye); ok {
			eyeDist = math.Hypot(re.X-le.X, re.Y-le.Y)
		}
	}
	v[offRatio+0] = float32(eyeDist / obs.Box.Width)

	if eyeDist > 0 {
		if ml, ok := obs.landmark(MouthLeft); ok {
			if mr, ok := obs.landmark(MouthRight); ok {
				mouthWidth := math.Hypot(mr.X-ml.X, mr.Y-ml.Y)
				v[offRatio+1] = float32(mouthWidth / eyeDist)
			}
		}
	}

	left := sideReach(obs, leftSideLandmarks[:])
	right := sideReach(obs, rightSideLandmarks[:])
	v[offRatio+2] = float32(left)
	v[offRatio+3] = float32(right)
	v[offRatio+4] = float32(math.Abs(left - right))
}

// sideReach returns the mean distance from the box center to the present
// landmarks of one face side, normalized by box width. Missing landmarks
// are excluded; an entirely absent side yields 0.
func sideReach(obs *Observation, side []Landmark) float64 {
	center := obs.Box.Center()
	var sum float64
	var n int
	for _, l := range side {
		p, ok := obs.landmark(l)
		if !ok {
			continue
		}
		sum += math.Hypot(p.X-center.X, p.Y-center.Y)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / obs.Box.Width
}

// writeRotationFeatures fills the euler angle group: raw angles scaled by
// 180 degrees plus their squares.
func writeRotationFeatures(v []float32, obs *Observation) {
	x := obs.AngleX / 180
	y := obs.AngleY / 180
	z := obs.AngleZ / 180
	v[offRotation+0] = float32(x)
	v[offRotation+1] = float32(y)
	v[offRotation+2] = float32(z)
	v[offRotation+3] = float32(x * x)
	v[offRotation+4] = float32(y * y)
	v[offRotation+5] = float32(z * z)
}

// writeExpressionFeatures fills the expression probability group with the
// three probabilities and simple derived combinations.
func writeExpressionFeatures(v []float32, obs *Observation) {
	smile := obs.smiling()
	left := obs.leftEyeOpen()
	right := obs.rightEyeOpen()
	v[offExpression+0] = float32(smile)
	v[offExpression+1] = float32(left)
	v[offExpression+2] = float32(right)
	v[offExpression+3] = float32((smile + left + right) / 3)
	v[offExpression+4] = float32(math.Abs(left - right))
	v[offExpression+5] = float32(left * right)
}
