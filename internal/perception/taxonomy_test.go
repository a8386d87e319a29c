package perception

import (
	"errors"
	"testing"
)

func TestRoundTripAllMembers(t *testing.T) {
	for _, kind := range Kinds() {
		list, err := Members(kind)
		if err != nil {
			t.Fatalf("Members(%s): %v", kind, err)
		}
		if len(list) == 0 {
			t.Fatalf("Members(%s): empty table", kind)
		}
		for _, m := range list {
			name, err := NameOf(kind, m.Code)
			if err != nil {
				t.Errorf("NameOf(%s, %d): %v", kind, m.Code, err)
				continue
			}
			if name != m.Name {
				t.Errorf("NameOf(%s, %d) = %q, want %q", kind, m.Code, name, m.Name)
			}
			code, err := CodeOf(kind, m.Name)
			if err != nil {
				t.Errorf("CodeOf(%s, %q): %v", kind, m.Name, err)
				continue
			}
			if code != m.Code {
				t.Errorf("CodeOf(%s, %q) = %d, want %d", kind, m.Name, code, m.Code)
			}
		}
	}
}

func TestObjectClassificationReservedGap(t *testing.T) {
	for code := 6; code <= 10; code++ {
		if _, err := NameOf(KindObjectClassification, code); err == nil {
			t.Errorf("NameOf(object_classification, %d) succeeded for reserved code", code)
		} else {
			var uv *UnknownValueError
			if !errors.As(err, &uv) {
				t.Errorf("NameOf(object_classification, %d): got %T, want UnknownValueError", code, err)
			}
		}
		if _, err := ObjectClassificationFromCode(code); err == nil {
			t.Errorf("ObjectClassificationFromCode(%d) succeeded for reserved code", code)
		}
	}
}

func TestSensorModalityHasNoZero(t *testing.T) {
	_, err := NameOf(KindSensorModality, 0)
	var uv *UnknownValueError
	if !errors.As(err, &uv) {
		t.Fatalf("NameOf(sensor_modality, 0): got %v, want UnknownValueError", err)
	}
	if uv.Kind != KindSensorModality || uv.Code != 0 {
		t.Fatalf("UnknownValueError = %+v, want kind sensor_modality code 0", uv)
	}
	if _, err := SensorModalityFromCode(0); err == nil {
		t.Fatal("SensorModalityFromCode(0) succeeded")
	}
}

func TestKindsAreDisjointNamespaces(t *testing.T) {
	// Code 0 resolves differently per kind and must never cross over.
	cases := []struct {
		kind Kind
		want string
	}{
		{KindMeasState, "UNKNOWN"},
		{KindMovementClassification, "NO_INFO"},
		{KindObjectClassification, "NO_INFO"},
		{KindPerceptionType, "NOT_PROVIDED"},
		{KindTrackingPoint, "UNKNOWN"},
	}
	for _, c := range cases {
		name, err := NameOf(c.kind, 0)
		if err != nil {
			t.Errorf("NameOf(%s, 0): %v", c.kind, err)
			continue
		}
		if name != c.want {
			t.Errorf("NameOf(%s, 0) = %q, want %q", c.kind, name, c.want)
		}
	}

	// "MEASURED" is a member of two kinds with different codes.
	msCode, err := CodeOf(KindMeasState, "MEASURED")
	if err != nil {
		t.Fatalf("CodeOf(meas_state, MEASURED): %v", err)
	}
	ptCode, err := CodeOf(KindPerceptionType, "MEASURED")
	if err != nil {
		t.Fatalf("CodeOf(perception_type, MEASURED): %v", err)
	}
	if msCode != 3 || ptCode != 1 {
		t.Fatalf("MEASURED codes = (%d, %d), want (3, 1)", msCode, ptCode)
	}
}

func TestKnownLookups(t *testing.T) {
	code, err := CodeOf(KindObjectClassification, "PEDESTRIAN")
	if err != nil || code != 4 {
		t.Fatalf("CodeOf(object_classification, PEDESTRIAN) = %d, %v, want 4", code, err)
	}
	name, err := NameOf(KindObjectClassification, 11)
	if err != nil || name != "BIGGER_THAN_CAR" {
		t.Fatalf("NameOf(object_classification, 11) = %q, %v, want BIGGER_THAN_CAR", name, err)
	}
}

func TestUnknownNameAndKind(t *testing.T) {
	_, err := CodeOf(KindTrackingPoint, "CENTER_OF_MASS")
	var un *UnknownNameError
	if !errors.As(err, &un) {
		t.Fatalf("CodeOf(tracking_point, CENTER_OF_MASS): got %v, want UnknownNameError", err)
	}

	_, err = NameOf(Kind("weather"), 1)
	var uk *UnknownKindError
	if !errors.As(err, &uk) {
		t.Fatalf("NameOf(weather, 1): got %v, want UnknownKindError", err)
	}
	if KnownKind(Kind("weather")) {
		t.Fatal("KnownKind(weather) = true")
	}
}

func TestFormatVersion(t *testing.T) {
	if Version() != "v1.3" {
		t.Fatalf("Version() = %q, want v1.3", Version())
	}
}

func TestStringAndValid(t *testing.T) {
	if got := MeasStateNewObject.String(); got != "NEW_OBJECT" {
		t.Errorf("MeasStateNewObject.String() = %q", got)
	}
	if got := ObjectBiggerThanCar.String(); got != "BIGGER_THAN_CAR" {
		t.Errorf("ObjectBiggerThanCar.String() = %q", got)
	}
	if got := TrackingPointCenterOfVehicle.String(); got != "CENTER_OF_VEHICLE" {
		t.Errorf("TrackingPointCenterOfVehicle.String() = %q", got)
	}
	if ObjectClassification(7).Valid() {
		t.Error("ObjectClassification(7).Valid() = true for reserved code")
	}
	if got := ObjectClassification(7).String(); got != "INVALID" {
		t.Errorf("ObjectClassification(7).String() = %q, want INVALID", got)
	}
	if SensorModality(0).Valid() {
		t.Error("SensorModality(0).Valid() = true")
	}
	if !ModalityFusion.Valid() {
		t.Error("ModalityFusion.Valid() = false")
	}
}
