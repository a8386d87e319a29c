// Package store persists perception recordings in sqlite. Enum-valued
// columns carry raw taxonomy codes; every read decodes through the
// taxonomy so an undeclared code surfaces as an error instead of
// leaking into consumers as a bogus label.
//
// An object round-trips with its label series, confidences, geometry
// (heading, width, height, length), core kinematics (longitudinal and
// lateral distance and relative velocity, z distance), RCS, age, and
// the perception-type provenance of each of those series. Absolute
// velocity, acceleration and variance series travel in snapshots only.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
	_ "modernc.org/sqlite"

	"github.com/omega-data/perception.report/internal/monitoring"
	"github.com/omega-data/perception.report/internal/perception"
)

// Store wraps the recording database.
type Store struct {
	*sql.DB
}

//go:embed schema.sql
var schemaSQL string

// Open opens (creating if needed) a recording database at path and
// applies the embedded schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply recording schema: %w", err)
	}

	monitoring.Logf("opened recording database %s (format %s)", path, perception.FormatVersion)

	return &Store{db}, nil
}

// Recording is one stored perception recording.
type Recording struct {
	ID               string
	FormatVersion    string
	Modality         perception.SensorModality
	CreatedUnixNanos int64
	Notes            string
}

// CreateRecording inserts a new recording stamped with the current
// format version and returns it.
func (s *Store) CreateRecording(modality perception.SensorModality, notes string) (*Recording, error) {
	if !modality.Valid() {
		return nil, &perception.UnknownValueError{Kind: perception.KindSensorModality, Code: int(modality)}
	}

	rec := &Recording{
		ID:               uuid.New().String(),
		FormatVersion:    perception.FormatVersion,
		Modality:         modality,
		CreatedUnixNanos: time.Now().UnixNano(),
		Notes:            notes,
	}

	_, err := s.Exec(`
		INSERT INTO recordings (recording_id, format_version, sensor_modality, created_unix_nanos, notes)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.FormatVersion, int(rec.Modality), rec.CreatedUnixNanos, rec.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recording: %w", err)
	}

	return rec, nil
}

// GetRecording loads one recording. A stored format version other than
// the current one fails with VersionError; a modality code the taxonomy
// does not declare fails with UnknownValueError.
func (s *Store) GetRecording(id string) (*Recording, error) {
	row := s.QueryRow(`
		SELECT recording_id, format_version, sensor_modality, created_unix_nanos, COALESCE(notes, '')
		FROM recordings WHERE recording_id = ?`, id)

	var rec Recording
	var modalityCode int
	if err := row.Scan(&rec.ID, &rec.FormatVersion, &modalityCode, &rec.CreatedUnixNanos, &rec.Notes); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("recording %s not found", id)
		}
		return nil, fmt.Errorf("scan recording: %w", err)
	}

	if rec.FormatVersion != perception.FormatVersion {
		return nil, &perception.VersionError{Got: rec.FormatVersion}
	}

	modality, err := perception.SensorModalityFromCode(modalityCode)
	if err != nil {
		return nil, fmt.Errorf("recording %s: %w", id, err)
	}
	rec.Modality = modality

	return &rec, nil
}

// ListRecordings returns all recordings, newest first. Rows written
// against another format version are skipped with a log line rather
// than failing the whole listing.
func (s *Store) ListRecordings() ([]*Recording, error) {
	rows, err := s.Query(`
		SELECT recording_id, format_version, sensor_modality, created_unix_nanos, COALESCE(notes, '')
		FROM recordings ORDER BY created_unix_nanos DESC`)
	if err != nil {
		return nil, fmt.Errorf("query recordings: %w", err)
	}
	defer rows.Close()

	var out []*Recording
	for rows.Next() {
		var rec Recording
		var modalityCode int
		if err := rows.Scan(&rec.ID, &rec.FormatVersion, &modalityCode, &rec.CreatedUnixNanos, &rec.Notes); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		if rec.FormatVersion != perception.FormatVersion {
			monitoring.Logf("skipping recording %s: format %s", rec.ID, rec.FormatVersion)
			continue
		}
		modality, err := perception.SensorModalityFromCode(modalityCode)
		if err != nil {
			return nil, fmt.Errorf("recording %s: %w", rec.ID, err)
		}
		rec.Modality = modality
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// InsertObject stores an object record's label and kinematic series
// under a recording. The record is validated first; nothing is written
// for an invalid record.
func (s *Store) InsertObject(recordingID string, obj *perception.ObjectRecord) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	n := obj.Len()
	if n == 0 {
		return fmt.Errorf("object %s has no samples", obj.ID)
	}

	tx, err := s.Begin()
	if err != nil {
		return fmt.Errorf("begin insert object: %w", err)
	}
	defer tx.Rollback()

	last := n - 1
	_, err = tx.Exec(`
		INSERT INTO objects (
			recording_id, object_id, birth_stamp, sample_count,
			final_object_class, final_class_confidence,
			final_meas_state, final_movement_class, final_tracking_point,
			heading_source, width_source, height_source, length_source,
			dist_longitudinal_source, dist_lateral_source, dist_z_source,
			rel_vel_longitudinal_source, rel_vel_lateral_source,
			heading_avg, width_avg, height_avg, length_avg
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(recording_id, object_id) DO UPDATE SET
			birth_stamp = excluded.birth_stamp,
			sample_count = excluded.sample_count,
			final_object_class = excluded.final_object_class,
			final_class_confidence = excluded.final_class_confidence,
			final_meas_state = excluded.final_meas_state,
			final_movement_class = excluded.final_movement_class,
			final_tracking_point = excluded.final_tracking_point,
			heading_source = excluded.heading_source,
			width_source = excluded.width_source,
			height_source = excluded.height_source,
			length_source = excluded.length_source,
			dist_longitudinal_source = excluded.dist_longitudinal_source,
			dist_lateral_source = excluded.dist_lateral_source,
			dist_z_source = excluded.dist_z_source,
			rel_vel_longitudinal_source = excluded.rel_vel_longitudinal_source,
			rel_vel_lateral_source = excluded.rel_vel_lateral_source,
			heading_avg = excluded.heading_avg,
			width_avg = excluded.width_avg,
			height_avg = excluded.height_avg,
			length_avg = excluded.length_avg`,
		recordingID, obj.ID, obj.BirthStamp, n,
		labelAt(obj.ObjectClassification.Val, last, int(perception.ObjectNoInfo)),
		confidenceAt(obj.ObjectClassification.Confidence, last),
		labelAt(obj.MeasState, last, int(perception.MeasStateUnknown)),
		labelAt(obj.MovementClassification, last, int(perception.MovementNoInfo)),
		labelAt(obj.TrackingPoint, last, int(perception.TrackingPointUnknown)),
		int(obj.Heading.Source), int(obj.Width.Source),
		int(obj.Height.Source), int(obj.Length.Source),
		int(obj.DistLongitudinal.Source), int(obj.DistLateral.Source),
		int(obj.DistZ.Source),
		int(obj.RelVelLongitudinal.Source), int(obj.RelVelLateral.Source),
		meanOf(obj.Heading.Val), meanOf(obj.Width.Val),
		meanOf(obj.Height.Val), meanOf(obj.Length.Val),
	)
	if err != nil {
		return fmt.Errorf("insert object %s: %w", obj.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM object_samples WHERE recording_id = ? AND object_id = ?`,
		recordingID, obj.ID); err != nil {
		return fmt.Errorf("clear samples for %s: %w", obj.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO object_samples (
			recording_id, object_id, sample_idx,
			meas_state, movement_class, object_class, class_confidence,
			tracking_point, confidence_of_existence,
			dist_longitudinal, dist_lateral, dist_z,
			rel_vel_longitudinal, rel_vel_lateral,
			rcs, age,
			heading, width, height, length
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		_, err := stmt.Exec(
			recordingID, obj.ID, i,
			labelAt(obj.MeasState, i, int(perception.MeasStateUnknown)),
			labelAt(obj.MovementClassification, i, int(perception.MovementNoInfo)),
			labelAt(obj.ObjectClassification.Val, i, int(perception.ObjectNoInfo)),
			confidenceAt(obj.ObjectClassification.Confidence, i),
			labelAt(obj.TrackingPoint, i, int(perception.TrackingPointUnknown)),
			confidenceAt(obj.ConfidenceOfExistence, i),
			seriesAt(obj.DistLongitudinal.Val, i),
			seriesAt(obj.DistLateral.Val, i),
			seriesAt(obj.DistZ.Val, i),
			seriesAt(obj.RelVelLongitudinal.Val, i),
			seriesAt(obj.RelVelLateral.Val, i),
			seriesAt(obj.RCS, i),
			intAt(obj.Age, i),
			seriesAt(obj.Heading.Val, i),
			seriesAt(obj.Width.Val, i),
			seriesAt(obj.Height.Val, i),
			seriesAt(obj.Length.Val, i),
		)
		if err != nil {
			return fmt.Errorf("insert sample %d of %s: %w", i, obj.ID, err)
		}
	}

	return tx.Commit()
}

// GetObjects rebuilds the stored object records of a recording from
// their sample rows. Every enum column is decoded through the taxonomy;
// a row with an undeclared code fails the read.
func (s *Store) GetObjects(recordingID string) ([]*perception.ObjectRecord, error) {
	rows, err := s.Query(`
		SELECT object_id, birth_stamp,
		       heading_source, width_source, height_source, length_source,
		       dist_longitudinal_source, dist_lateral_source, dist_z_source,
		       rel_vel_longitudinal_source, rel_vel_lateral_source
		FROM objects
		WHERE recording_id = ? ORDER BY object_id`, recordingID)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	var objs []*perception.ObjectRecord
	for rows.Next() {
		obj := &perception.ObjectRecord{}
		srcCodes := make([]int, 9)
		if err := rows.Scan(&obj.ID, &obj.BirthStamp,
			&srcCodes[0], &srcCodes[1], &srcCodes[2], &srcCodes[3],
			&srcCodes[4], &srcCodes[5], &srcCodes[6], &srcCodes[7], &srcCodes[8]); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		sources := []*perception.PerceptionType{
			&obj.Heading.Source, &obj.Width.Source, &obj.Height.Source, &obj.Length.Source,
			&obj.DistLongitudinal.Source, &obj.DistLateral.Source, &obj.DistZ.Source,
			&obj.RelVelLongitudinal.Source, &obj.RelVelLateral.Source,
		}
		for j, code := range srcCodes {
			src, err := perception.PerceptionTypeFromCode(code)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", obj.ID, err)
			}
			*sources[j] = src
		}
		objs = append(objs, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, obj := range objs {
		if err := s.loadSamples(recordingID, obj); err != nil {
			return nil, err
		}
	}
	return objs, nil
}

func (s *Store) loadSamples(recordingID string, obj *perception.ObjectRecord) error {
	rows, err := s.Query(`
		SELECT meas_state, movement_class, object_class, class_confidence,
		       tracking_point, confidence_of_existence,
		       dist_longitudinal, dist_lateral, dist_z,
		       rel_vel_longitudinal, rel_vel_lateral,
		       rcs, age,
		       heading, width, height, length
		FROM object_samples
		WHERE recording_id = ? AND object_id = ?
		ORDER BY sample_idx`, recordingID, obj.ID)
	if err != nil {
		return fmt.Errorf("query samples for %s: %w", obj.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var msCode, mcCode, ocCode, tpCode int
		var classConf, existConf sql.NullFloat64
		var distLon, distLat, distZ, velLon, velLat, rcs sql.NullFloat64
		var heading, width, height, length sql.NullFloat64
		var age sql.NullInt64
		if err := rows.Scan(&msCode, &mcCode, &ocCode, &classConf, &tpCode, &existConf,
			&distLon, &distLat, &distZ, &velLon, &velLat, &rcs, &age,
			&heading, &width, &height, &length); err != nil {
			return fmt.Errorf("scan sample for %s: %w", obj.ID, err)
		}

		ms, err := perception.MeasStateFromCode(msCode)
		if err != nil {
			return fmt.Errorf("object %s: %w", obj.ID, err)
		}
		mc, err := perception.MovementClassificationFromCode(mcCode)
		if err != nil {
			return fmt.Errorf("object %s: %w", obj.ID, err)
		}
		oc, err := perception.ObjectClassificationFromCode(ocCode)
		if err != nil {
			return fmt.Errorf("object %s: %w", obj.ID, err)
		}
		tp, err := perception.TrackingPointFromCode(tpCode)
		if err != nil {
			return fmt.Errorf("object %s: %w", obj.ID, err)
		}

		obj.MeasState = append(obj.MeasState, ms)
		obj.MovementClassification = append(obj.MovementClassification, mc)
		obj.ObjectClassification.Val = append(obj.ObjectClassification.Val, oc)
		obj.TrackingPoint = append(obj.TrackingPoint, tp)

		// NULL columns mark series the producer left empty; they stay
		// empty on the way out rather than filling with zeros.
		appendFloat(&obj.ObjectClassification.Confidence, classConf)
		appendFloat(&obj.ConfidenceOfExistence, existConf)
		appendFloat(&obj.DistLongitudinal.Val, distLon)
		appendFloat(&obj.DistLateral.Val, distLat)
		appendFloat(&obj.DistZ.Val, distZ)
		appendFloat(&obj.RelVelLongitudinal.Val, velLon)
		appendFloat(&obj.RelVelLateral.Val, velLat)
		appendFloat(&obj.RCS, rcs)
		appendFloat(&obj.Heading.Val, heading)
		appendFloat(&obj.Width.Val, width)
		appendFloat(&obj.Height.Val, height)
		appendFloat(&obj.Length.Val, length)
		if age.Valid {
			obj.Age = append(obj.Age, int(age.Int64))
		}
	}
	return rows.Err()
}

// ObjectSummary is the per-object roll-up used by reports.
type ObjectSummary struct {
	RecordingID string
	ObjectID    string
	SampleCount int
	Class       perception.ObjectClassification
	Confidence  float64
}

// ObjectSummaries returns the final classification of every stored
// object. recordingID may be empty to aggregate across recordings.
func (s *Store) ObjectSummaries(recordingID string) ([]ObjectSummary, error) {
	query := `
		SELECT recording_id, object_id, sample_count, final_object_class, COALESCE(final_class_confidence, 0)
		FROM objects`
	args := []any{}
	if recordingID != "" {
		query += ` WHERE recording_id = ?`
		args = append(args, recordingID)
	}
	query += ` ORDER BY recording_id, object_id`

	rows, err := s.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query object summaries: %w", err)
	}
	defer rows.Close()

	var out []ObjectSummary
	for rows.Next() {
		var sum ObjectSummary
		var classCode int
		if err := rows.Scan(&sum.RecordingID, &sum.ObjectID, &sum.SampleCount, &classCode, &sum.Confidence); err != nil {
			return nil, fmt.Errorf("scan object summary: %w", err)
		}
		class, err := perception.ObjectClassificationFromCode(classCode)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", sum.ObjectID, err)
		}
		sum.Class = class
		out = append(out, sum)
	}
	return out, rows.Err()
}

// labelAt returns the code at index i, or def for series the producer
// left empty.
func labelAt[T ~uint8](s []T, i int, def int) int {
	if i >= len(s) {
		return def
	}
	return int(s[i])
}

func confidenceAt(s []float64, i int) any {
	if i >= len(s) {
		return nil
	}
	return s[i]
}

func seriesAt(s []float64, i int) any {
	if i >= len(s) {
		return nil
	}
	return s[i]
}

func intAt(s []int, i int) any {
	if i >= len(s) {
		return nil
	}
	return s[i]
}

// meanOf returns the mean of a series, or nil when the producer
// supplied no samples.
func meanOf(s []float64) any {
	if len(s) == 0 {
		return nil
	}
	return stat.Mean(s, nil)
}

func appendFloat(dst *[]float64, v sql.NullFloat64) {
	if v.Valid {
		*dst = append(*dst, v.Float64)
	}
}
