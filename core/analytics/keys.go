package analytics

// SessionPageLimit is the fixed page size for session list fetches.
const SessionPageLimit = 20

// SessionListKey is the composite fetch key of one session list request.
// Changing any field yields a distinct key; in-flight responses for a key
// that is no longer current are discarded on arrival.
type SessionListKey struct {
	CourseID  int
	Page      int
	StartDate string // YYYY-MM-DD, optional
	EndDate   string // YYYY-MM-DD, optional
	Search    string
}
