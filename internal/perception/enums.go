package perception

// FormatVersion identifies the schema revision these tables belong to.
// Recordings and snapshots carry it so a decoder can refuse data written
// against a different revision.
const FormatVersion = "v1.3"

// Version returns the schema format version string.
func Version() string { return FormatVersion }

// MeasState is the lifecycle tag of a tracked object's measurement status.
type MeasState uint8

const (
	MeasStateUnknown          MeasState = 0
	MeasStateDeleted          MeasState = 1
	MeasStateNewObject        MeasState = 2
	MeasStateMeasured         MeasState = 3
	MeasStatePredicted        MeasState = 4
	MeasStateDeletedFromMerge MeasState = 5
	MeasStateNewFromMerge     MeasState = 6
)

// MovementClassification labels the motion state of a tracked object.
type MovementClassification uint8

const (
	MovementNoInfo             MovementClassification = 0
	MovementUnknown            MovementClassification = 1
	MovementMoving             MovementClassification = 2
	MovementStationary         MovementClassification = 3
	MovementOncoming           MovementClassification = 4
	MovementCrossingMoving     MovementClassification = 5
	MovementCrossingStationary MovementClassification = 6
	MovementStopped            MovementClassification = 7
)

// ObjectClassification labels the category of a tracked object. Codes
// 6-10 are reserved in the schema and are not valid members.
type ObjectClassification uint8

const (
	ObjectNoInfo         ObjectClassification = 0
	ObjectCar            ObjectClassification = 1
	ObjectTruck          ObjectClassification = 2
	ObjectMotorcycle     ObjectClassification = 3
	ObjectPedestrian     ObjectClassification = 4
	ObjectBicycle        ObjectClassification = 5
	ObjectBiggerThanCar  ObjectClassification = 11
	ObjectSmallerThanCar ObjectClassification = 12
	ObjectUnknownSmall   ObjectClassification = 13
	ObjectUnknownBig     ObjectClassification = 14
	ObjectUnknown        ObjectClassification = 15
)

// PerceptionType records the provenance of an attribute value.
type PerceptionType uint8

const (
	PerceptionNotProvided PerceptionType = 0
	PerceptionMeasured    PerceptionType = 1
	PerceptionDetermined  PerceptionType = 2
)

// SensorModality identifies the sensing source of a recording. The
// schema deliberately declares no zero member: a modality is always
// stated explicitly.
type SensorModality uint8

const (
	ModalityLidar   SensorModality = 1
	ModalityCamera  SensorModality = 2
	ModalityRadarSR SensorModality = 3
	ModalityRadarMR SensorModality = 4
	ModalityRadarLR SensorModality = 5
	ModalityFusion  SensorModality = 6
)

// TrackingPoint is the reference point on an object's bounding geometry
// that position measurements refer to.
type TrackingPoint uint8

const (
	TrackingPointUnknown          TrackingPoint = 0
	TrackingPointFrontRightCorner TrackingPoint = 1
	TrackingPointCenterFrontEdge  TrackingPoint = 2
	TrackingPointFrontLeftCorner  TrackingPoint = 3
	TrackingPointCenterLeftEdge   TrackingPoint = 4
	TrackingPointCenterOfVehicle  TrackingPoint = 5
	TrackingPointCenterRightEdge  TrackingPoint = 6
	TrackingPointRearLeftCorner   TrackingPoint = 7
	TrackingPointCenterRearEdge   TrackingPoint = 8
	TrackingPointRearRightCorner  TrackingPoint = 9
)

// String returns the declared schema name, e.g. "NEW_OBJECT".
func (m MeasState) String() string { return memberName(KindMeasState, int(m)) }

// Valid reports whether m is a declared member.
func (m MeasState) Valid() bool { return memberValid(KindMeasState, int(m)) }

// MeasStateFromCode converts a raw integer code to a MeasState, failing
// with UnknownValueError for codes outside the declared set.
func MeasStateFromCode(code int) (MeasState, error) {
	if !memberValid(KindMeasState, code) {
		return 0, &UnknownValueError{Kind: KindMeasState, Code: code}
	}
	return MeasState(code), nil
}

func (m MovementClassification) String() string {
	return memberName(KindMovementClassification, int(m))
}

func (m MovementClassification) Valid() bool {
	return memberValid(KindMovementClassification, int(m))
}

// MovementClassificationFromCode converts a raw integer code, failing
// with UnknownValueError for codes outside the declared set.
func MovementClassificationFromCode(code int) (MovementClassification, error) {
	if !memberValid(KindMovementClassification, code) {
		return 0, &UnknownValueError{Kind: KindMovementClassification, Code: code}
	}
	return MovementClassification(code), nil
}

func (o ObjectClassification) String() string {
	return memberName(KindObjectClassification, int(o))
}

func (o ObjectClassification) Valid() bool {
	return memberValid(KindObjectClassification, int(o))
}

// ObjectClassificationFromCode converts a raw integer code. The reserved
// gap 6-10 fails with UnknownValueError like any other undeclared code.
func ObjectClassificationFromCode(code int) (ObjectClassification, error) {
	if !memberValid(KindObjectClassification, code) {
		return 0, &UnknownValueError{Kind: KindObjectClassification, Code: code}
	}
	return ObjectClassification(code), nil
}

func (p PerceptionType) String() string { return memberName(KindPerceptionType, int(p)) }

func (p PerceptionType) Valid() bool { return memberValid(KindPerceptionType, int(p)) }

// PerceptionTypeFromCode converts a raw integer code, failing with
// UnknownValueError for codes outside the declared set.
func PerceptionTypeFromCode(code int) (PerceptionType, error) {
	if !memberValid(KindPerceptionType, code) {
		return 0, &UnknownValueError{Kind: KindPerceptionType, Code: code}
	}
	return PerceptionType(code), nil
}

func (s SensorModality) String() string { return memberName(KindSensorModality, int(s)) }

func (s SensorModality) Valid() bool { return memberValid(KindSensorModality, int(s)) }

// SensorModalityFromCode converts a raw integer code. Code 0 is not a
// member and fails like any other undeclared code.
func SensorModalityFromCode(code int) (SensorModality, error) {
	if !memberValid(KindSensorModality, code) {
		return 0, &UnknownValueError{Kind: KindSensorModality, Code: code}
	}
	return SensorModality(code), nil
}

func (t TrackingPoint) String() string { return memberName(KindTrackingPoint, int(t)) }

func (t TrackingPoint) Valid() bool { return memberValid(KindTrackingPoint, int(t)) }

// TrackingPointFromCode converts a raw integer code, failing with
// UnknownValueError for codes outside the declared set.
func TrackingPointFromCode(code int) (TrackingPoint, error) {
	if !memberValid(KindTrackingPoint, code) {
		return 0, &UnknownValueError{Kind: KindTrackingPoint, Code: code}
	}
	return TrackingPoint(code), nil
}
