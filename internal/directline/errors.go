package directline

import "fmt"

// UnsupportedActivityError is returned by DecomposeActivity when the
// activity's top-level type is neither "message" nor "event". There is no
// safe textual fallback for an activity kind the system does not understand.
type UnsupportedActivityError struct {
	Type ActivityType
}

func (e *UnsupportedActivityError) Error() string {
	return fmt.Sprintf("unsupported activity type %q", string(e.Type))
}

// UnsupportedEventError is returned by DecomposeActivity for an event
// activity whose name is outside the supported allow-list.
type UnsupportedEventError struct {
	Name string
}

func (e *UnsupportedEventError) Error() string {
	return fmt.Sprintf("unsupported event %q", e.Name)
}
