// Package face implements the geometric face embedding core: feature
// extraction from detector observations, unit normalization, cosine
// similarity, the binary embedding codec, and threshold-gated matching.
package face

// Landmark identifies a named anatomical reference point reported by
// the external detector. Not every observation carries every landmark.
type Landmark string

const (
	LeftEye     Landmark = "leftEye"
	RightEye    Landmark = "rightEye"
	NoseBase    Landmark = "noseBase"
	MouthLeft   Landmark = "mouthLeft"
	MouthRight  Landmark = "mouthRight"
	MouthBottom Landmark = "mouthBottom"
	LeftCheek   Landmark = "leftCheek"
	RightCheek  Landmark = "rightCheek"
	LeftEar     Landmark = "leftEar"
	RightEar    Landmark = "rightEar"
)

// Point is a 2D position in image pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is a face bounding region in image pixel coordinates.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the box has positive extent. Extraction requires
// a valid box; everything else about an observation may be missing.
func (b Box) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

// Center returns the box center point.
func (b Box) Center() Point {
	return Point{X: b.Left + b.Width/2, Y: b.Top + b.Height/2}
}

// neutralProbability is substituted for any absent expression probability.
const neutralProbability = 0.5

// Observation is the raw geometric description of a single detected face
// as produced by the external detector.
type Observation struct {
	Box       Box                `json:"box"`
	Landmarks map[Landmark]Point `json:"landmarks,omitempty"`

	// Head rotation in degrees: AngleX pitch, AngleY yaw, AngleZ roll.
	AngleX float64 `json:"angle_x"`
	AngleY float64 `json:"angle_y"`
	AngleZ float64 `json:"angle_z"`

	// Expression probabilities in [0,1]; nil when the detector did not
	// compute them.
	SmilingProbability      *float64 `json:"smiling_probability,omitempty"`
	LeftEyeOpenProbability  *float64 `json:"left_eye_open_probability,omitempty"`
	RightEyeOpenProbability *float64 `json:"right_eye_open_probability,omitempty"`
}

// landmark returns the named landmark and whether the observation has it.
func (o *Observation) landmark(l Landmark) (Point, bool) {
	p, ok := o.Landmarks[l]
	return p, ok
}

// smiling returns the smiling probability, neutral when absent.
func (o *Observation) smiling() float64 {
	if o.SmilingProbability == nil {
		return neutralProbability
	}
	return *o.SmilingProbability
}

// leftEyeOpen returns the left-eye-open probability, neutral when absent.
func (o *Observation) leftEyeOpen() float64 {
	if o.LeftEyeOpenProbability == nil {
		return neutralProbability
	}
	return *o.LeftEyeOpenProbability
}

// rightEyeOpen returns the right-eye-open probability, neutral when absent.
func (o *Observation) rightEyeOpen() float64 {
	if o.RightEyeOpenProbability == nil {
		return neutralProbability
	}
	return *o.RightEyeOpenProbability
}
