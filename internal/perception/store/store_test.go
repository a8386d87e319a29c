package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omega-data/perception.report/internal/monitoring"
	"github.com/omega-data/perception.report/internal/perception"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	monitoring.SetLogger(nil)

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func testObject(id string) *perception.ObjectRecord {
	return &perception.ObjectRecord{
		ID:         id,
		BirthStamp: 4,
		DistLateral: perception.ValVar{
			Val:    []float64{0.5, 0.6, 0.7},
			Source: perception.PerceptionMeasured,
		},
		DistLongitudinal: perception.ValVar{
			Val:    []float64{30, 29, 28},
			Source: perception.PerceptionMeasured,
		},
		Heading: perception.ValVar{
			Val:    []float64{0.1, 0.1, 0.2},
			Var:    []float64{0.01, 0.01, 0.01},
			Source: perception.PerceptionMeasured,
		},
		Width: perception.ValVar{
			Val:    []float64{2.4, 2.5, 2.5},
			Source: perception.PerceptionDetermined,
		},
		Length: perception.ValVar{
			Val:    []float64{11.9, 12.0, 12.1},
			Source: perception.PerceptionDetermined,
		},
		RCS: []float64{5.1, 5.0, 5.2},
		Age: []int{1, 2, 3},
		TrackingPoint: []perception.TrackingPoint{
			perception.TrackingPointCenterRearEdge,
			perception.TrackingPointCenterRearEdge,
			perception.TrackingPointCenterRearEdge,
		},
		MeasState: []perception.MeasState{
			perception.MeasStateNewObject,
			perception.MeasStateMeasured,
			perception.MeasStateMeasured,
		},
		MovementClassification: []perception.MovementClassification{
			perception.MovementOncoming,
			perception.MovementOncoming,
			perception.MovementOncoming,
		},
		ConfidenceOfExistence: []float64{0.6, 0.8, 0.9},
		ObjectClassification: perception.ClassificationSeries{
			Val: []perception.ObjectClassification{
				perception.ObjectUnknownBig,
				perception.ObjectTruck,
				perception.ObjectTruck,
			},
			Confidence: []float64{0.3, 0.7, 0.9},
		},
	}
}

func TestRecordingRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	rec, err := s.CreateRecording(perception.ModalityRadarLR, "motorway approach")
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	assert.Equal(t, perception.FormatVersion, rec.FormatVersion)

	got, err := s.GetRecording(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, perception.ModalityRadarLR, got.Modality)
	assert.Equal(t, "motorway approach", got.Notes)
	assert.Equal(t, rec.CreatedUnixNanos, got.CreatedUnixNanos)
}

func TestCreateRecordingRejectsInvalidModality(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreateRecording(perception.SensorModality(0), "")
	var uv *perception.UnknownValueError
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, perception.KindSensorModality, uv.Kind)
	assert.Equal(t, 0, uv.Code)
}

func TestObjectRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	rec, err := s.CreateRecording(perception.ModalityFusion, "")
	require.NoError(t, err)

	require.NoError(t, s.InsertObject(rec.ID, testObject("RU-1")))
	require.NoError(t, s.InsertObject(rec.ID, testObject("RU-2")))

	objs, err := s.GetObjects(rec.ID)
	require.NoError(t, err)
	require.Len(t, objs, 2)

	obj := objs[0]
	assert.Equal(t, "RU-1", obj.ID)
	assert.Equal(t, 4, obj.BirthStamp)
	assert.Equal(t, 3, obj.Len())
	assert.Equal(t, perception.MeasStateNewObject, obj.MeasState[0])
	assert.Equal(t, perception.ObjectTruck, obj.ObjectClassification.Val[2])
	assert.Equal(t, perception.MovementOncoming, obj.MovementClassification[1])
	assert.InDelta(t, 0.7, obj.DistLateral.Val[2], 1e-9)
	assert.Equal(t, []int{1, 2, 3}, obj.Age)
	require.NoError(t, obj.Validate())
}

func TestObjectRoundTripKeepsProvenanceAndGeometry(t *testing.T) {
	s := setupTestStore(t)

	rec, err := s.CreateRecording(perception.ModalityFusion, "")
	require.NoError(t, err)
	require.NoError(t, s.InsertObject(rec.ID, testObject("RU-1")))

	objs, err := s.GetObjects(rec.ID)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	obj := objs[0]

	// Provenance survives the round trip series by series.
	assert.Equal(t, perception.PerceptionMeasured, obj.DistLateral.Source)
	assert.Equal(t, perception.PerceptionMeasured, obj.Heading.Source)
	assert.Equal(t, perception.PerceptionDetermined, obj.Width.Source)
	assert.Equal(t, perception.PerceptionDetermined, obj.Length.Source)

	// Geometry series come back sample for sample.
	assert.Equal(t, []float64{2.4, 2.5, 2.5}, obj.Width.Val)
	assert.Equal(t, []float64{11.9, 12.0, 12.1}, obj.Length.Val)
	assert.Equal(t, []float64{0.1, 0.1, 0.2}, obj.Heading.Val)

	// Series the producer left empty stay empty, with NOT_PROVIDED
	// provenance, rather than filling with zeros.
	assert.Empty(t, obj.Height.Val)
	assert.Equal(t, perception.PerceptionNotProvided, obj.Height.Source)
	assert.Empty(t, obj.DistZ.Val)

	// Variances are snapshot-only.
	assert.Empty(t, obj.Heading.Var)

	var widthAvg float64
	row := s.QueryRow(`SELECT width_avg FROM objects WHERE object_id = 'RU-1'`)
	require.NoError(t, row.Scan(&widthAvg))
	assert.InDelta(t, (2.4+2.5+2.5)/3, widthAvg, 1e-9)
}

func TestGetObjectsSurfacesCorruptSourceCode(t *testing.T) {
	s := setupTestStore(t)

	rec, err := s.CreateRecording(perception.ModalityFusion, "")
	require.NoError(t, err)
	require.NoError(t, s.InsertObject(rec.ID, testObject("RU-1")))

	_, err = s.Exec(`UPDATE objects SET dist_lateral_source = 9 WHERE object_id = 'RU-1'`)
	require.NoError(t, err)

	_, err = s.GetObjects(rec.ID)
	var uv *perception.UnknownValueError
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, perception.KindPerceptionType, uv.Kind)
	assert.Equal(t, 9, uv.Code)
}

func TestInsertObjectRejectsInvalidRecord(t *testing.T) {
	s := setupTestStore(t)

	rec, err := s.CreateRecording(perception.ModalityLidar, "")
	require.NoError(t, err)

	obj := testObject("RU-1")
	obj.ObjectClassification.Val[1] = perception.ObjectClassification(9) // reserved gap
	err = s.InsertObject(rec.ID, obj)
	var uv *perception.UnknownValueError
	require.ErrorAs(t, err, &uv)

	// Nothing may have been written.
	objs, err := s.GetObjects(rec.ID)
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestGetObjectsSurfacesCorruptCode(t *testing.T) {
	s := setupTestStore(t)

	rec, err := s.CreateRecording(perception.ModalityCamera, "")
	require.NoError(t, err)
	require.NoError(t, s.InsertObject(rec.ID, testObject("RU-1")))

	// Corrupt one sample behind the store's back with a reserved code.
	_, err = s.Exec(`UPDATE object_samples SET object_class = 7 WHERE object_id = 'RU-1' AND sample_idx = 1`)
	require.NoError(t, err)

	_, err = s.GetObjects(rec.ID)
	var uv *perception.UnknownValueError
	require.ErrorAs(t, err, &uv, "reserved code must not decode to a member")
	assert.Equal(t, perception.KindObjectClassification, uv.Kind)
	assert.Equal(t, 7, uv.Code)
}

func TestGetRecordingVersionMismatch(t *testing.T) {
	s := setupTestStore(t)

	rec, err := s.CreateRecording(perception.ModalityRadarSR, "")
	require.NoError(t, err)

	_, err = s.Exec(`UPDATE recordings SET format_version = 'v1.2' WHERE recording_id = ?`, rec.ID)
	require.NoError(t, err)

	_, err = s.GetRecording(rec.ID)
	var ve *perception.VersionError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "v1.2", ve.Got)

	// Listing skips the stale row instead of failing.
	recs, err := s.ListRecordings()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestObjectSummaries(t *testing.T) {
	s := setupTestStore(t)

	rec, err := s.CreateRecording(perception.ModalityFusion, "")
	require.NoError(t, err)
	require.NoError(t, s.InsertObject(rec.ID, testObject("RU-1")))

	ped := testObject("RU-2")
	for i := range ped.ObjectClassification.Val {
		ped.ObjectClassification.Val[i] = perception.ObjectPedestrian
	}
	require.NoError(t, s.InsertObject(rec.ID, ped))

	sums, err := s.ObjectSummaries(rec.ID)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, perception.ObjectTruck, sums[0].Class)
	assert.Equal(t, perception.ObjectPedestrian, sums[1].Class)
	assert.Equal(t, 3, sums[0].SampleCount)
	assert.InDelta(t, 0.9, sums[0].Confidence, 1e-9)

	all, err := s.ObjectSummaries("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
