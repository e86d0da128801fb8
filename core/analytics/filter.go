package analytics

import "strings"

// Roll-call status filters.
const (
	FilterAll     = "all"
	FilterPresent = "present"
	FilterAbsent  = "absent"
)

// FilterStudents narrows a fetched roll call locally: case-insensitive
// substring match on name/email/phone plus a status filter. Purely local,
// never re-fetches.
func FilterStudents(students []StudentAttendance, query, status string) []StudentAttendance {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]StudentAttendance, 0, len(students))
	for _, s := range students {
		switch status {
		case FilterPresent:
			if s.Status != StatusPresent {
				continue
			}
		case FilterAbsent:
			if s.Status != StatusAbsent {
				continue
			}
		}
		if query != "" && !matchesQuery(s, query) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesQuery(s StudentAttendance, query string) bool {
	return strings.Contains(strings.ToLower(s.Name), query) ||
		strings.Contains(strings.ToLower(s.Email), query) ||
		strings.Contains(strings.ToLower(s.Phone), query)
}
