package perception

// Kind identifies one of the six enumerations. Lookups are always
// scoped by kind: code 0 means UNKNOWN for a measurement state and
// nothing at all for a sensor modality.
type Kind string

const (
	KindMeasState              Kind = "meas_state"
	KindMovementClassification Kind = "movement_classification"
	KindObjectClassification   Kind = "object_classification"
	KindPerceptionType         Kind = "perception_type"
	KindSensorModality         Kind = "sensor_modality"
	KindTrackingPoint          Kind = "tracking_point"
)

// Member is one declared (name, code) pair of an enumeration.
type Member struct {
	Name string `json:"name"`
	Code int    `json:"code"`
}

// members lists every declared pair per kind, in declaration order.
// This is the single source of truth; the lookup maps below are derived
// from it at init.
var members = map[Kind][]Member{
	KindMeasState: {
		{"UNKNOWN", 0},
		{"DELETED", 1},
		{"NEW_OBJECT", 2},
		{"MEASURED", 3},
		{"PREDICTED", 4},
		{"DELETED_FROM_MERGE", 5},
		{"NEW_FROM_MERGE", 6},
	},
	KindMovementClassification: {
		{"NO_INFO", 0},
		{"UNKNOWN", 1},
		{"MOVING", 2},
		{"STATIONARY", 3},
		{"ONCOMING", 4},
		{"CROSSING_MOVING", 5},
		{"CROSSING_STATIONARY", 6},
		{"STOPPED", 7},
	},
	// Codes 6-10 are reserved and intentionally absent.
	KindObjectClassification: {
		{"NO_INFO", 0},
		{"CAR", 1},
		{"TRUCK", 2},
		{"MOTORCYCLE", 3},
		{"PEDESTRIAN", 4},
		{"BICYCLE", 5},
		{"BIGGER_THAN_CAR", 11},
		{"SMALLER_THAN_CAR", 12},
		{"UNKNOWN_SMALL", 13},
		{"UNKNOWN_BIG", 14},
		{"UNKNOWN", 15},
	},
	KindPerceptionType: {
		{"NOT_PROVIDED", 0},
		{"MEASURED", 1},
		{"DETERMINED", 2},
	},
	// No zero member: a modality is always explicit.
	KindSensorModality: {
		{"LIDAR", 1},
		{"CAMERA", 2},
		{"RADAR_SR", 3},
		{"RADAR_MR", 4},
		{"RADAR_LR", 5},
		{"FUSION", 6},
	},
	KindTrackingPoint: {
		{"UNKNOWN", 0},
		{"FRONT_RIGHT_CORNER", 1},
		{"CENTER_OF_FRONT_EDGE", 2},
		{"FRONT_LEFT_CORNER", 3},
		{"CENTER_OF_LEFT_EDGE", 4},
		{"CENTER_OF_VEHICLE", 5},
		{"CENTER_OF_RIGHT_EDGE", 6},
		{"REAR_LEFT_CORNER", 7},
		{"CENTER_OF_REAR_EDGE", 8},
		{"REAR_RIGHT_CORNER", 9},
	},
}

// kindOrder fixes the iteration order for dumps and the API.
var kindOrder = []Kind{
	KindMeasState,
	KindMovementClassification,
	KindObjectClassification,
	KindPerceptionType,
	KindSensorModality,
	KindTrackingPoint,
}

var (
	nameByCode = map[Kind]map[int]string{}
	codeByName = map[Kind]map[string]int{}
)

func init() {
	for kind, list := range members {
		byCode := make(map[int]string, len(list))
		byName := make(map[string]int, len(list))
		for _, m := range list {
			byCode[m.Code] = m.Name
			byName[m.Name] = m.Code
		}
		nameByCode[kind] = byCode
		codeByName[kind] = byName
	}
}

// Kinds returns all enumeration kinds in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// KnownKind reports whether k names one of the six enumerations.
func KnownKind(k Kind) bool {
	_, ok := members[k]
	return ok
}

// Members returns the declared (name, code) pairs of a kind in
// declaration order. The returned slice is a copy.
func Members(kind Kind) ([]Member, error) {
	list, ok := members[kind]
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	out := make([]Member, len(list))
	copy(out, list)
	return out, nil
}

// NameOf returns the declared member name for a code. Undeclared codes
// (including reserved gaps) fail with UnknownValueError.
func NameOf(kind Kind, code int) (string, error) {
	byCode, ok := nameByCode[kind]
	if !ok {
		return "", &UnknownKindError{Kind: kind}
	}
	name, ok := byCode[code]
	if !ok {
		return "", &UnknownValueError{Kind: kind, Code: code}
	}
	return name, nil
}

// CodeOf returns the integer code for a declared member name, failing
// with UnknownNameError for names not in the table.
func CodeOf(kind Kind, name string) (int, error) {
	byName, ok := codeByName[kind]
	if !ok {
		return 0, &UnknownKindError{Kind: kind}
	}
	code, ok := byName[name]
	if !ok {
		return 0, &UnknownNameError{Kind: kind, Name: name}
	}
	return code, nil
}

func memberName(kind Kind, code int) string {
	if name, ok := nameByCode[kind][code]; ok {
		return name
	}
	return "INVALID"
}

func memberValid(kind Kind, code int) bool {
	_, ok := nameByCode[kind][code]
	return ok
}
