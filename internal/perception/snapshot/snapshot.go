// Package snapshot reads and writes JSON snapshots of perception
// recordings. Labels travel as their raw taxonomy codes; the decoder
// gates on the format version and validates every code, so a snapshot
// written against another schema revision or carrying undeclared codes
// never turns into silently mislabelled objects.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/omega-data/perception.report/internal/monitoring"
	"github.com/omega-data/perception.report/internal/perception"
)

// Policy selects how the decoder treats object records with codes the
// taxonomy does not declare.
type Policy int

const (
	// PolicyStrict fails the decode on the first undeclared code.
	PolicyStrict Policy = iota
	// PolicyTolerant drops object records carrying undeclared codes
	// and reports them in DecodeStats.
	PolicyTolerant
)

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return PolicyStrict, nil
	case "tolerant":
		return PolicyTolerant, nil
	default:
		return 0, fmt.Errorf("unknown decode policy %q (want strict or tolerant)", s)
	}
}

// Snapshot is the wire shape of one recording.
type Snapshot struct {
	FormatVersion  string       `json:"format_version"`
	RecordingID    string       `json:"recording_id,omitempty"`
	SensorModality int          `json:"sensor_modality"`
	Objects        []objectJSON `json:"objects"`
}

type valVarJSON struct {
	Val    []float64 `json:"val,omitempty"`
	Var    []float64 `json:"var,omitempty"`
	Source int       `json:"source"`
}

type classificationJSON struct {
	Val        []int     `json:"val"`
	Confidence []float64 `json:"confidence,omitempty"`
}

type objectJSON struct {
	ID         string `json:"id"`
	BirthStamp int    `json:"birth_stamp"`

	Heading valVarJSON `json:"heading"`
	Width   valVarJSON `json:"width"`
	Height  valVarJSON `json:"height"`
	Length  valVarJSON `json:"length"`

	RCS []float64 `json:"rcs,omitempty"`
	Age []int     `json:"age,omitempty"`

	TrackingPoint          []int              `json:"tracking_point"`
	MeasState              []int              `json:"meas_state"`
	MovementClassification []int              `json:"movement_classification"`
	ObjectClassification   classificationJSON `json:"object_classification"`
	ConfidenceOfExistence  []float64          `json:"confidence_of_existence,omitempty"`

	DistLongitudinal   valVarJSON `json:"dist_longitudinal"`
	DistLateral        valVarJSON `json:"dist_lateral"`
	DistZ              valVarJSON `json:"dist_z"`
	RelVelLongitudinal valVarJSON `json:"rel_vel_longitudinal"`
	RelVelLateral      valVarJSON `json:"rel_vel_lateral"`
	AbsVelLongitudinal valVarJSON `json:"abs_vel_longitudinal"`
	AbsVelLateral      valVarJSON `json:"abs_vel_lateral"`
	RelAccLongitudinal valVarJSON `json:"rel_acc_longitudinal"`
	RelAccLateral      valVarJSON `json:"rel_acc_lateral"`
	AbsAccLongitudinal valVarJSON `json:"abs_acc_longitudinal"`
	AbsAccLateral      valVarJSON `json:"abs_acc_lateral"`
}

// DecodeStats reports what a tolerant decode dropped.
type DecodeStats struct {
	DroppedObjects int
	UnknownCodes   int
}

// Decoded is the result of decoding a snapshot.
type Decoded struct {
	RecordingID string
	Modality    perception.SensorModality
	Objects     []*perception.ObjectRecord
	Stats       DecodeStats
}

// Encode writes a snapshot of the given objects. Records are validated
// before anything is written.
func Encode(w io.Writer, recordingID string, modality perception.SensorModality, objs []*perception.ObjectRecord) error {
	if !modality.Valid() {
		return &perception.UnknownValueError{Kind: perception.KindSensorModality, Code: int(modality)}
	}

	snap := Snapshot{
		FormatVersion:  perception.FormatVersion,
		RecordingID:    recordingID,
		SensorModality: int(modality),
		Objects:        make([]objectJSON, 0, len(objs)),
	}
	for _, obj := range objs {
		if err := obj.Validate(); err != nil {
			return err
		}
		snap.Objects = append(snap.Objects, encodeObject(obj))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&snap)
}

// Decode reads a snapshot, gating on the format version and validating
// every label code according to policy.
func Decode(r io.Reader, policy Policy) (*Decoded, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	if snap.FormatVersion != perception.FormatVersion {
		return nil, &perception.VersionError{Got: snap.FormatVersion}
	}

	modality, err := perception.SensorModalityFromCode(snap.SensorModality)
	if err != nil {
		return nil, err
	}

	out := &Decoded{
		RecordingID: snap.RecordingID,
		Modality:    modality,
	}
	for i := range snap.Objects {
		obj, badCodes, err := decodeObject(&snap.Objects[i])
		if err != nil {
			if policy == PolicyTolerant {
				out.Stats.DroppedObjects++
				out.Stats.UnknownCodes += badCodes
				monitoring.Logf("snapshot: dropping object %s: %v", snap.Objects[i].ID, err)
				continue
			}
			return nil, err
		}
		out.Objects = append(out.Objects, obj)
	}

	return out, nil
}

func encodeValVar(v *perception.ValVar) valVarJSON {
	return valVarJSON{Val: v.Val, Var: v.Var, Source: int(v.Source)}
}

func encodeObject(obj *perception.ObjectRecord) objectJSON {
	oj := objectJSON{
		ID:         obj.ID,
		BirthStamp: obj.BirthStamp,

		Heading: encodeValVar(&obj.Heading),
		Width:   encodeValVar(&obj.Width),
		Height:  encodeValVar(&obj.Height),
		Length:  encodeValVar(&obj.Length),

		RCS: obj.RCS,
		Age: obj.Age,

		ConfidenceOfExistence: obj.ConfidenceOfExistence,

		DistLongitudinal:   encodeValVar(&obj.DistLongitudinal),
		DistLateral:        encodeValVar(&obj.DistLateral),
		DistZ:              encodeValVar(&obj.DistZ),
		RelVelLongitudinal: encodeValVar(&obj.RelVelLongitudinal),
		RelVelLateral:      encodeValVar(&obj.RelVelLateral),
		AbsVelLongitudinal: encodeValVar(&obj.AbsVelLongitudinal),
		AbsVelLateral:      encodeValVar(&obj.AbsVelLateral),
		RelAccLongitudinal: encodeValVar(&obj.RelAccLongitudinal),
		RelAccLateral:      encodeValVar(&obj.RelAccLateral),
		AbsAccLongitudinal: encodeValVar(&obj.AbsAccLongitudinal),
		AbsAccLateral:      encodeValVar(&obj.AbsAccLateral),
	}

	oj.TrackingPoint = make([]int, len(obj.TrackingPoint))
	for i, tp := range obj.TrackingPoint {
		oj.TrackingPoint[i] = int(tp)
	}
	oj.MeasState = make([]int, len(obj.MeasState))
	for i, ms := range obj.MeasState {
		oj.MeasState[i] = int(ms)
	}
	oj.MovementClassification = make([]int, len(obj.MovementClassification))
	for i, mc := range obj.MovementClassification {
		oj.MovementClassification[i] = int(mc)
	}
	oj.ObjectClassification.Val = make([]int, len(obj.ObjectClassification.Val))
	for i, oc := range obj.ObjectClassification.Val {
		oj.ObjectClassification.Val[i] = int(oc)
	}
	oj.ObjectClassification.Confidence = obj.ObjectClassification.Confidence

	return oj
}

func decodeValVar(vj *valVarJSON) (perception.ValVar, int, error) {
	source, err := perception.PerceptionTypeFromCode(vj.Source)
	if err != nil {
		return perception.ValVar{}, 1, err
	}
	return perception.ValVar{Val: vj.Val, Var: vj.Var, Source: source}, 0, nil
}

// decodeObject converts one wire object, returning the count of
// undeclared codes found when it fails.
func decodeObject(oj *objectJSON) (*perception.ObjectRecord, int, error) {
	obj := &perception.ObjectRecord{
		ID:         oj.ID,
		BirthStamp: oj.BirthStamp,

		RCS: oj.RCS,
		Age: oj.Age,

		ConfidenceOfExistence: oj.ConfidenceOfExistence,
	}

	badCodes := 0

	valvars := []struct {
		dst *perception.ValVar
		src *valVarJSON
	}{
		{&obj.Heading, &oj.Heading},
		{&obj.Width, &oj.Width},
		{&obj.Height, &oj.Height},
		{&obj.Length, &oj.Length},
		{&obj.DistLongitudinal, &oj.DistLongitudinal},
		{&obj.DistLateral, &oj.DistLateral},
		{&obj.DistZ, &oj.DistZ},
		{&obj.RelVelLongitudinal, &oj.RelVelLongitudinal},
		{&obj.RelVelLateral, &oj.RelVelLateral},
		{&obj.AbsVelLongitudinal, &oj.AbsVelLongitudinal},
		{&obj.AbsVelLateral, &oj.AbsVelLateral},
		{&obj.RelAccLongitudinal, &oj.RelAccLongitudinal},
		{&obj.RelAccLateral, &oj.RelAccLateral},
		{&obj.AbsAccLongitudinal, &oj.AbsAccLongitudinal},
		{&obj.AbsAccLateral, &oj.AbsAccLateral},
	}
	for _, vv := range valvars {
		decoded, bad, err := decodeValVar(vv.src)
		if err != nil {
			return nil, badCodes + bad, fmt.Errorf("object %s: %w", oj.ID, err)
		}
		*vv.dst = decoded
	}

	for _, code := range oj.TrackingPoint {
		tp, err := perception.TrackingPointFromCode(code)
		if err != nil {
			return nil, badCodes + 1, fmt.Errorf("object %s: %w", oj.ID, err)
		}
		obj.TrackingPoint = append(obj.TrackingPoint, tp)
	}
	for _, code := range oj.MeasState {
		ms, err := perception.MeasStateFromCode(code)
		if err != nil {
			return nil, badCodes + 1, fmt.Errorf("object %s: %w", oj.ID, err)
		}
		obj.MeasState = append(obj.MeasState, ms)
	}
	for _, code := range oj.MovementClassification {
		mc, err := perception.MovementClassificationFromCode(code)
		if err != nil {
			return nil, badCodes + 1, fmt.Errorf("object %s: %w", oj.ID, err)
		}
		obj.MovementClassification = append(obj.MovementClassification, mc)
	}
	for _, code := range oj.ObjectClassification.Val {
		oc, err := perception.ObjectClassificationFromCode(code)
		if err != nil {
			return nil, badCodes + 1, fmt.Errorf("object %s: %w", oj.ID, err)
		}
		obj.ObjectClassification.Val = append(obj.ObjectClassification.Val, oc)
	}
	obj.ObjectClassification.Confidence = oj.ObjectClassification.Confidence

	if err := obj.Validate(); err != nil {
		return nil, badCodes, err
	}
	return obj, 0, nil
}
