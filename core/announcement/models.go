package announcement

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sisyaclass/analytics-console/core"
	"github.com/sisyaclass/analytics-console/core/analytics"
)

// Types
const (
	TypeGeneral   = "GENERAL"
	TypeImportant = "IMPORTANT"
	TypeAlert     = "ALERT"
	TypeReminder  = "REMINDER"
)

// Audiences
const (
	AudienceAllUsers = "ALL_USERS"
	AudienceStudents = "STUDENTS"
	AudienceTeachers = "TEACHERS"
)

// Scopes
const (
	ScopeGlobal     = "GLOBAL"
	ScopeCourse     = "COURSE"
	ScopeClass      = "CLASS"
	ScopeIndividual = "INDIVIDUAL"
)

var errDraftInvalid = errors.New("invalid announcement")

// Draft is one announcement in the making. It is built transiently, submitted
// and then discarded; on submission failure it stays intact for a manual
// resubmit.
type Draft struct {
	Title    string `json:"title" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=GENERAL IMPORTANT ALERT REMINDER"`
	Audience string `json:"audience" validate:"required,oneof=ALL_USERS STUDENTS TEACHERS"`
	Scope    string `json:"scope" validate:"required,oneof=GLOBAL COURSE CLASS INDIVIDUAL"`
	MentorID *int   `json:"mentorId,omitempty"` // required iff Audience == TEACHERS
	UserID   *int   `json:"userId,omitempty"`   // required iff Audience == STUDENTS
}

func (d *Draft) Validate() error {
	d.Title = core.CleanString(d.Title)
	d.Message = core.CleanString(d.Message)

	if err := core.Validate.Struct(d); err != nil {
		return err
	}

	switch d.Audience {
	case AudienceStudents:
		if d.UserID == nil {
			return core.NewValidationError(errDraftInvalid,
				core.FieldError{Field: "userId", Error: "a student must be targeted"})
		}
		if d.MentorID != nil {
			return core.NewValidationError(errDraftInvalid,
				core.FieldError{Field: "mentorId", Error: "not allowed for a student audience"})
		}
	case AudienceTeachers:
		if d.MentorID == nil {
			return core.NewValidationError(errDraftInvalid,
				core.FieldError{Field: "mentorId", Error: "a teacher must be targeted"})
		}
		if d.UserID != nil {
			return core.NewValidationError(errDraftInvalid,
				core.FieldError{Field: "userId", Error: "not allowed for a teacher audience"})
		}
	default: // ALL_USERS
		if d.UserID != nil || d.MentorID != nil {
			return core.NewValidationError(errDraftInvalid,
				core.FieldError{Field: "audience", Error: "individual targets need a student or teacher audience"})
		}
	}
	return nil
}

// MissedSessionDraft pre-populates a reminder to a student who missed a session.
func MissedSessionDraft(student analytics.StudentAttendance, sess analytics.ClassSession) Draft {
	id := student.StudentID
	return Draft{
		Title: "Missed Class Notification",
		Message: fmt.Sprintf(
			"Hi %s, you missed the class %q. Please watch the recording and do the homework. Join the next class on time!",
			student.Name, sess.Detail),
		Type:     TypeReminder,
		Audience: AudienceStudents,
		Scope:    ScopeIndividual,
		UserID:   &id,
	}
}

// PendingHomeworkDraft pre-populates an alert to the teacher who still owes a
// session's homework upload.
func PendingHomeworkDraft(sess analytics.ClassSession) Draft {
	teacher := sess.HomeworkTeacher()
	return Draft{
		Title: "Homework Pending Warning",
		Message: fmt.Sprintf(
			"The homework for session %q has not been uploaded yet. Please upload it as soon as possible.",
			sess.Detail),
		Type:     TypeAlert,
		Audience: AudienceTeachers,
		Scope:    ScopeIndividual,
		MentorID: &teacher.ID,
	}
}
