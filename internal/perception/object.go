package perception

import "fmt"

// ValVar is a per-timestep series of attribute values with their
// variances, tagged with the provenance of the attribute.
type ValVar struct {
	Val    []float64
	Var    []float64
	Source PerceptionType
}

// Len returns the number of timesteps in the series.
func (v *ValVar) Len() int { return len(v.Val) }

// CutToTimespan trims the series to the inclusive local index range
// [birth, death]. Empty series are left untouched: an attribute whose
// source is NOT_PROVIDED carries no samples.
func (v *ValVar) CutToTimespan(birth, death int) error {
	if err := checkSpan(birth, death); err != nil {
		return err
	}
	if len(v.Val) > 0 {
		if death >= len(v.Val) {
			return fmt.Errorf("timespan [%d,%d] exceeds series length %d", birth, death, len(v.Val))
		}
		v.Val = v.Val[birth : death+1]
	}
	if len(v.Var) > 0 {
		if death >= len(v.Var) {
			return fmt.Errorf("timespan [%d,%d] exceeds variance length %d", birth, death, len(v.Var))
		}
		v.Var = v.Var[birth : death+1]
	}
	return nil
}

// ClassificationSeries carries the per-timestep object class labels and
// their confidences.
type ClassificationSeries struct {
	Val        []ObjectClassification
	Confidence []float64
}

// Validate checks the confidence range and series alignment. An empty
// confidence series is allowed (confidence not provided); a non-empty
// one must match the label series sample for sample.
func (c *ClassificationSeries) Validate() error {
	for i, conf := range c.Confidence {
		if conf < 0 || conf > 1 {
			return fmt.Errorf("classification confidence[%d] = %v outside [0,1]", i, conf)
		}
	}
	if len(c.Confidence) > 0 && len(c.Confidence) != len(c.Val) {
		return fmt.Errorf("classification confidence length %d does not match value length %d",
			len(c.Confidence), len(c.Val))
	}
	for i, v := range c.Val {
		if !v.Valid() {
			return fmt.Errorf("classification val[%d]: %w", i,
				&UnknownValueError{Kind: KindObjectClassification, Code: int(v)})
		}
	}
	return nil
}

// CutToTimespan trims both series to the inclusive local index range.
func (c *ClassificationSeries) CutToTimespan(birth, death int) error {
	if err := checkSpan(birth, death); err != nil {
		return err
	}
	if len(c.Val) > 0 {
		if death >= len(c.Val) {
			return fmt.Errorf("timespan [%d,%d] exceeds classification length %d", birth, death, len(c.Val))
		}
		c.Val = c.Val[birth : death+1]
	}
	if len(c.Confidence) > 0 {
		if death >= len(c.Confidence) {
			return fmt.Errorf("timespan [%d,%d] exceeds confidence length %d", birth, death, len(c.Confidence))
		}
		c.Confidence = c.Confidence[birth : death+1]
	}
	return nil
}

// ObjectRecord is one tracked object of a recording: label series plus
// geometry and kinematics, indexed by frame from BirthStamp onward.
type ObjectRecord struct {
	// Identity
	ID         string
	BirthStamp int

	// Geometry
	Heading ValVar
	Width   ValVar
	Height  ValVar
	Length  ValVar

	// Radar cross-section and track age per timestep
	RCS []float64
	Age []int

	// Label series
	TrackingPoint          []TrackingPoint
	MeasState              []MeasState
	MovementClassification []MovementClassification
	ObjectClassification   ClassificationSeries
	ConfidenceOfExistence  []float64

	// Kinematics (host frame)
	DistLongitudinal   ValVar
	DistLateral        ValVar
	DistZ              ValVar
	RelVelLongitudinal ValVar
	RelVelLateral      ValVar
	AbsVelLongitudinal ValVar
	AbsVelLateral      ValVar
	RelAccLongitudinal ValVar
	RelAccLateral      ValVar
	AbsAccLongitudinal ValVar
	AbsAccLateral      ValVar
}

// Len returns the number of timesteps, taken from the lateral distance
// series which every producer fills.
func (o *ObjectRecord) Len() int { return len(o.DistLateral.Val) }

// End returns the recording-frame index one past the object's last
// sample.
func (o *ObjectRecord) End() int { return o.BirthStamp + o.Len() }

// InTimespan reports whether the object overlaps the recording-frame
// range [birth, death].
func (o *ObjectRecord) InTimespan(birth, death int) bool {
	return birth < o.End() && death >= o.BirthStamp
}

// Validate checks label membership and confidence ranges across all
// series. The first violation is returned.
func (o *ObjectRecord) Validate() error {
	for i, tp := range o.TrackingPoint {
		if !tp.Valid() {
			return fmt.Errorf("object %s tracking_point[%d]: %w", o.ID, i,
				&UnknownValueError{Kind: KindTrackingPoint, Code: int(tp)})
		}
	}
	for i, ms := range o.MeasState {
		if !ms.Valid() {
			return fmt.Errorf("object %s meas_state[%d]: %w", o.ID, i,
				&UnknownValueError{Kind: KindMeasState, Code: int(ms)})
		}
	}
	for i, mc := range o.MovementClassification {
		if !mc.Valid() {
			return fmt.Errorf("object %s movement_classification[%d]: %w", o.ID, i,
				&UnknownValueError{Kind: KindMovementClassification, Code: int(mc)})
		}
	}
	for i, conf := range o.ConfidenceOfExistence {
		if conf < 0 || conf > 1 {
			return fmt.Errorf("object %s confidence_of_existence[%d] = %v outside [0,1]", o.ID, i, conf)
		}
	}
	if err := o.ObjectClassification.Validate(); err != nil {
		return fmt.Errorf("object %s: %w", o.ID, err)
	}
	return nil
}

// CutToTimespan trims the record to the inclusive local index range
// [birth, death] and advances BirthStamp accordingly. Indices are local
// to the object, not the recording.
func (o *ObjectRecord) CutToTimespan(birth, death int) error {
	if err := checkSpan(birth, death); err != nil {
		return err
	}
	if death >= o.Len() {
		return fmt.Errorf("timespan [%d,%d] exceeds object length %d", birth, death, o.Len())
	}

	o.BirthStamp += birth

	valvars := []*ValVar{
		&o.Heading, &o.Width, &o.Height, &o.Length,
		&o.DistLongitudinal, &o.DistLateral, &o.DistZ,
		&o.RelVelLongitudinal, &o.RelVelLateral,
		&o.AbsVelLongitudinal, &o.AbsVelLateral,
		&o.RelAccLongitudinal, &o.RelAccLateral,
		&o.AbsAccLongitudinal, &o.AbsAccLateral,
	}
	for _, vv := range valvars {
		if err := vv.CutToTimespan(birth, death); err != nil {
			return err
		}
	}
	if err := o.ObjectClassification.CutToTimespan(birth, death); err != nil {
		return err
	}

	o.RCS = cutSlice(o.RCS, birth, death)
	o.Age = cutSlice(o.Age, birth, death)
	o.TrackingPoint = cutSlice(o.TrackingPoint, birth, death)
	o.MeasState = cutSlice(o.MeasState, birth, death)
	o.MovementClassification = cutSlice(o.MovementClassification, birth, death)
	o.ConfidenceOfExistence = cutSlice(o.ConfidenceOfExistence, birth, death)
	return nil
}

func checkSpan(birth, death int) error {
	if birth < 0 {
		return fmt.Errorf("timespan birth %d is negative", birth)
	}
	if birth > death {
		return fmt.Errorf("timespan birth %d after death %d", birth, death)
	}
	return nil
}

// cutSlice trims a per-timestep slice, leaving empty slices untouched.
func cutSlice[T any](s []T, birth, death int) []T {
	if len(s) == 0 || death >= len(s) {
		return s
	}
	return s[birth : death+1]
}
