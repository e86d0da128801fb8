package analytics

import "time"

// Grades selectable in the attendance view.
var Grades = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

type (
	Course struct {
		ID         int    `json:"id"`
		Name       string `json:"name"`
		IsLongTerm bool   `json:"isLongTerm"`
		IsFree     bool   `json:"isFree"`
	}

	Teacher struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	Subject struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	// ClassSession is one scheduled class occurrence of a course. Actual*
	// fields are only set once the session has taken place.
	ClassSession struct {
		ID                 int        `json:"id"`
		Detail             string     `json:"detail"`
		ScheduledStartTime time.Time  `json:"scheduledStartTime"`
		ScheduledEndTime   time.Time  `json:"scheduledEndTime"`
		ScheduledDuration  int        `json:"scheduledDuration"` // minutes
		ScheduledTeacher   Teacher    `json:"scheduledTeacher"`
		Subject            Subject    `json:"subject"`
		IsHomeworkUploaded bool       `json:"isHomeworkUploaded"`
		ActualStartTime    *time.Time `json:"actualStartTime,omitempty"`
		ActualEndTime      *time.Time `json:"actualEndTime,omitempty"`
		ActualDuration     *int       `json:"actualDuration,omitempty"`
		ActualTeacher      *Teacher   `json:"actualTeacher,omitempty"`
	}

	AttendanceInterval struct {
		JoinTime    time.Time `json:"joinTime"`
		LeaveTime   time.Time `json:"leaveTime"`
		DurationMin int       `json:"durationMin"`
	}

	StudentAttendance struct {
		StudentID        int                  `json:"studentId"`
		Name             string               `json:"name"`
		Email            string               `json:"email"`
		Phone            string               `json:"phone"`
		Status           string               `json:"status"` // PRESENT | ABSENT
		TotalDurationMin int                  `json:"totalDurationMin"`
		IsEarlyLeave     bool                 `json:"isEarlyLeave"`
		IsLateJoin       bool                 `json:"isLateJoin"`
		Intervals        []AttendanceInterval `json:"intervals"`
	}

	// AttendanceRecord is the roll call of one class session.
	// presentCount + absentCount == totalEnrolled is expected but
	// server-trusted, never enforced here.
	AttendanceRecord struct {
		SessionID     int                 `json:"sessionId"`
		TotalEnrolled int                 `json:"totalEnrolled"`
		PresentCount  int                 `json:"presentCount"`
		AbsentCount   int                 `json:"absentCount"`
		Students      []StudentAttendance `json:"students"`
	}

	Pagination struct {
		Page    int  `json:"page"`
		Limit   int  `json:"limit"`
		Total   int  `json:"total"`
		HasNext bool `json:"hasNext"`
	}
)

// Attendance statuses
const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
)

// Completed reports whether the session actually took place.
func (s ClassSession) Completed() bool {
	return s.ActualEndTime != nil
}

// HomeworkTeacher is the teacher accountable for the session's homework:
// whoever actually taught it, falling back to the scheduled teacher.
func (s ClassSession) HomeworkTeacher() Teacher {
	if s.ActualTeacher != nil {
		return *s.ActualTeacher
	}
	return s.ScheduledTeacher
}
