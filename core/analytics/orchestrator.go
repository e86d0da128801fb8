package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sisyaclass/analytics-console/core"
)

// Backend executes the attendance data fetches. services/sisya implements it
// against the upstream API.
type Backend interface {
	CoursesByGrade(ctx context.Context, grade string) ([]Course, error)
	CompletedSessions(ctx context.Context, key SessionListKey) ([]ClassSession, Pagination, error)
	SessionAttendance(ctx context.Context, sessionID int) (AttendanceRecord, error)
	MarkAsStaff(ctx context.Context, userID int) error
}

// Staleness windows per data set.
const (
	coursesTTL     = 10 * time.Minute
	sessionListTTL = 5 * time.Minute
	attendanceTTL  = 2 * time.Minute
)

type (
	coursesEntry struct {
		courses []Course
		exp     time.Time
	}
	sessionsEntry struct {
		sessions   []ClassSession
		pagination Pagination
		exp        time.Time
	}
	attendanceEntry struct {
		record AttendanceRecord
		exp    time.Time
	}

	// View is a snapshot of the orchestrator's current selections and data,
	// ready for rendering.
	View struct {
		Grade      string            `json:"grade,omitempty"`
		CourseID   int               `json:"courseId,omitempty"`
		SessionID  int               `json:"sessionId,omitempty"`
		Page       int               `json:"page"`
		Search     string            `json:"search,omitempty"`
		StartDate  string            `json:"startDate,omitempty"`
		EndDate    string            `json:"endDate,omitempty"`
		Courses    []Course          `json:"courses,omitempty"`
		Sessions   []ClassSession    `json:"sessions,omitempty"`
		Pagination Pagination        `json:"pagination"`
		Attendance *AttendanceRecord `json:"attendance,omitempty"`
	}
)

// Orchestrator coordinates the dependent attendance selections
// (grade, course, session) and their fetches. Selections may change while a
// fetch is in flight; each fetch is keyed by its full parameter tuple plus a
// monotonic sequence, and a response that no longer matches the current key
// is discarded on arrival rather than overwriting newer state.
type Orchestrator struct {
	mu      sync.Mutex
	backend Backend
	clock   func() time.Time

	// selections
	grade     string
	courseID  int
	sessionID int
	page      int
	search    string
	startDate string
	endDate   string

	// fetched data
	courses    []Course
	sessions   []ClassSession
	pagination Pagination
	attendance *AttendanceRecord

	// per-kind fetch sequences; a completed fetch only lands if its
	// sequence is still current
	coursesSeq    uint64
	sessionsSeq   uint64
	attendanceSeq uint64

	coursesCache    map[string]coursesEntry
	sessionsCache   map[SessionListKey]sessionsEntry
	attendanceCache map[int]attendanceEntry
}

func NewOrchestrator(backend Backend) *Orchestrator {
	return &Orchestrator{
		backend:         backend,
		clock:           time.Now,
		page:            1,
		coursesCache:    make(map[string]coursesEntry),
		sessionsCache:   make(map[SessionListKey]sessionsEntry),
		attendanceCache: make(map[int]attendanceEntry),
	}
}

// SelectGrade clears the course and session selections, resets pagination and
// fetches the grade's course list.
func (o *Orchestrator) SelectGrade(ctx context.Context, grade string) error {
	o.mu.Lock()
	o.grade = grade
	o.courseID = 0
	o.sessionID = 0
	o.page = 1
	o.courses = nil
	o.sessions = nil
	o.pagination = Pagination{}
	o.attendance = nil
	o.coursesSeq++
	seq := o.coursesSeq
	if e, ok := o.coursesCache[grade]; ok && o.clock().Before(e.exp) {
		o.courses = e.courses
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()

	courses, err := o.backend.CoursesByGrade(ctx, grade)

	o.mu.Lock()
	defer o.mu.Unlock()
	if seq != o.coursesSeq || grade != o.grade {
		return nil // superseded
	}
	if err != nil {
		return errors.Wrap(err, "fetching courses by grade")
	}
	o.coursesCache[grade] = coursesEntry{courses: courses, exp: o.clock().Add(coursesTTL)}
	o.courses = courses
	return nil
}

// SelectCourse clears the session selection, resets pagination and fetches
// the course's first session page.
func (o *Orchestrator) SelectCourse(ctx context.Context, courseID int) error {
	o.mu.Lock()
	o.courseID = courseID
	o.sessionID = 0
	o.attendance = nil
	o.page = 1
	return o.refreshSessions(ctx)
}

// SetSearch resets pagination and redrives the session fetch under the new
// composite key.
func (o *Orchestrator) SetSearch(ctx context.Context, search string) error {
	o.mu.Lock()
	o.search = core.CleanString(search)
	o.page = 1
	return o.refreshSessions(ctx)
}

// SetDateRange resets pagination and redrives the session fetch. Dates are
// YYYY-MM-DD; either may be empty.
func (o *Orchestrator) SetDateRange(ctx context.Context, startDate, endDate string) error {
	o.mu.Lock()
	o.startDate = startDate
	o.endDate = endDate
	o.page = 1
	return o.refreshSessions(ctx)
}

// SetPage moves to the given page of the current session list.
func (o *Orchestrator) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	o.mu.Lock()
	o.page = page
	return o.refreshSessions(ctx)
}

// refreshSessions fetches the session list for the current composite key.
// Callers must hold o.mu; it is released on return.
func (o *Orchestrator) refreshSessions(ctx context.Context) error {
	if o.courseID == 0 {
		o.sessions = nil
		o.pagination = Pagination{}
		o.mu.Unlock()
		return nil
	}
	key := o.sessionKey()
	o.sessionsSeq++
	seq := o.sessionsSeq
	if e, ok := o.sessionsCache[key]; ok && o.clock().Before(e.exp) {
		o.sessions = e.sessions
		o.pagination = e.pagination
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()

	sessions, pagination, err := o.backend.CompletedSessions(ctx, key)

	o.mu.Lock()
	defer o.mu.Unlock()
	if seq != o.sessionsSeq || key != o.sessionKey() {
		return nil // superseded
	}
	if err != nil {
		return errors.Wrap(err, "fetching completed sessions")
	}
	o.sessionsCache[key] = sessionsEntry{sessions: sessions, pagination: pagination, exp: o.clock().Add(sessionListTTL)}
	o.sessions = sessions
	o.pagination = pagination
	return nil
}

func (o *Orchestrator) sessionKey() SessionListKey {
	return SessionListKey{
		CourseID:  o.courseID,
		Page:      o.page,
		StartDate: o.startDate,
		EndDate:   o.endDate,
		Search:    o.search,
	}
}

// SelectSession fetches the roll call of one session; independent of
// pagination and the session list key.
func (o *Orchestrator) SelectSession(ctx context.Context, sessionID int) error {
	o.mu.Lock()
	o.sessionID = sessionID
	return o.refreshAttendance(ctx)
}

// refreshAttendance fetches the active session's roll call.
// Callers must hold o.mu; it is released on return.
func (o *Orchestrator) refreshAttendance(ctx context.Context) error {
	sessionID := o.sessionID
	if sessionID == 0 {
		o.attendance = nil
		o.mu.Unlock()
		return nil
	}
	o.attendanceSeq++
	seq := o.attendanceSeq
	if e, ok := o.attendanceCache[sessionID]; ok && o.clock().Before(e.exp) {
		record := e.record
		o.attendance = &record
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()

	record, err := o.backend.SessionAttendance(ctx, sessionID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if seq != o.attendanceSeq || sessionID != o.sessionID {
		return nil // superseded
	}
	if err != nil {
		return errors.Wrap(err, "fetching session attendance")
	}
	o.attendanceCache[sessionID] = attendanceEntry{record: record, exp: o.clock().Add(attendanceTTL)}
	o.attendance = &record
	return nil
}

// Back leaves the session detail, preserving grade, course, pagination and
// search state.
func (o *Orchestrator) Back() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessionID = 0
	o.attendance = nil
}

// MarkStaff exempts a student from future roll calls. On success the active
// session's cached roll call is invalidated and fetched anew.
func (o *Orchestrator) MarkStaff(ctx context.Context, userID int) error {
	if err := o.backend.MarkAsStaff(ctx, userID); err != nil {
		return errors.Wrap(err, "marking student as staff")
	}

	o.mu.Lock()
	if o.sessionID == 0 {
		o.mu.Unlock()
		return nil
	}
	delete(o.attendanceCache, o.sessionID)
	return o.refreshAttendance(ctx)
}

// View returns a snapshot of the current selections and data.
func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	v := View{
		Grade:      o.grade,
		CourseID:   o.courseID,
		SessionID:  o.sessionID,
		Page:       o.page,
		Search:     o.search,
		StartDate:  o.startDate,
		EndDate:    o.endDate,
		Courses:    o.courses,
		Sessions:   o.sessions,
		Pagination: o.pagination,
	}
	if o.attendance != nil {
		record := *o.attendance
		v.Attendance = &record
	}
	return v
}
