package ptr

import "time"

func Of[T any](v T) *T {
	return &v
}

// TimeOrNil maps the zero time to nil.
func TimeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
