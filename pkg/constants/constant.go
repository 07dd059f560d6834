package constants

const (
	// TimeLayout is the canonical comment timestamp layout. Fixed-width
	// millisecond precision, so lexicographic order equals chronological
	// order and children can be sorted by plain string comparison.
	TimeLayout = "2006-01-02 15:04:05.000"

	// TempIdPrefix namespaces optimistic comment ids so they can never
	// collide with a store-assigned id.
	TempIdPrefix = "tmp-"

	MaxContentLength = 500 // maximum comment length in characters
	MinContentLength = 1

	// DefaultStoreTimeout bounds a single record store round trip, in
	// milliseconds. A timed-out call is treated as a failed mutation and
	// rolled back.
	DefaultStoreTimeout = 5000

	ThreadServiceName = "thread"
)
