// Package perception defines the closed label vocabulary used by the
// perception recording format: measurement state, movement and object
// classification, attribute provenance, sensor modality, and tracking
// point, each backed by a fixed integer code.
//
// The tables are defined at init and never mutated, so lookups are safe
// from any number of goroutines. Decoding an integer that is not a
// declared member is an error, never a coercion to some default member;
// see UnknownValueError.
//
// Transition logic between members (e.g. when a MEASURED object becomes
// DELETED) belongs to the tracker that produces recordings, not here.
package perception
