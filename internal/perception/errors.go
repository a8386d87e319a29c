package perception

import "fmt"

// UnknownKindError reports a lookup against an enumeration that does
// not exist in this schema revision.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("perception: unknown enumeration kind %q", string(e.Kind))
}

// UnknownValueError reports an integer code outside an enumeration's
// declared set. Callers must surface it; mapping the code to a default
// member would corrupt downstream classification decisions.
type UnknownValueError struct {
	Kind Kind
	Code int
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("perception: %s has no member with code %d", string(e.Kind), e.Code)
}

// UnknownNameError reports a member name not present in an
// enumeration's table.
type UnknownNameError struct {
	Kind Kind
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("perception: %s has no member named %q", string(e.Kind), e.Name)
}

// VersionError reports data written against a different schema revision
// than FormatVersion. The taxonomy only publishes the version; decoders
// decide compatibility and return this when they refuse.
type VersionError struct {
	Got string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("perception: format version %q does not match %q", e.Got, FormatVersion)
}
