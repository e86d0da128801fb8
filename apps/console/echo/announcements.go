package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sisyaclass/analytics-console/core/analytics"
	"github.com/sisyaclass/analytics-console/core/announcement"
)

func findSession(sessions []analytics.ClassSession, id int) (analytics.ClassSession, bool) {
	for _, sess := range sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return analytics.ClassSession{}, false
}

const (
	prefillMissedSession   = "missed-session"
	prefillPendingHomework = "pending-homework"
)

type prefillInput struct {
	Kind      string `json:"kind" validate:"required,oneof=missed-session pending-homework"`
	SessionID int    `json:"sessionId" validate:"required"`
	StudentID int    `json:"studentId"` // required for missed-session
}

func (s *server) createAnnouncement(ctx echo.Context) error {
	cs := s.contextSession(ctx)

	var draft announcement.Draft
	if err := ctx.Bind(&draft); err != nil {
		return errBadRequest
	}
	if err := draft.Validate(); err != nil {
		return err
	}

	if err := cs.upstream.CreateAnnouncement(ctx.Request().Context(), draft); err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "announcement created"})
}

// prefillAnnouncement builds a ready-to-edit draft from the current
// attendance state without submitting anything.
func (s *server) prefillAnnouncement(ctx echo.Context) error {
	cs := s.contextSession(ctx)

	var in prefillInput
	if err := bindAndValidate(ctx, &in); err != nil {
		return err
	}

	view := cs.orch.View()
	sess, ok := findSession(view.Sessions, in.SessionID)
	if !ok {
		return errNoSelection
	}

	switch in.Kind {
	case prefillMissedSession:
		if view.Attendance == nil || view.Attendance.SessionID != in.SessionID {
			return errNoSelection
		}
		for _, student := range view.Attendance.Students {
			if student.StudentID == in.StudentID {
				return ctx.JSON(http.StatusOK, announcement.MissedSessionDraft(student, sess))
			}
		}
		return errHttpNotFound
	case prefillPendingHomework:
		if sess.IsHomeworkUploaded {
			return echo.NewHTTPError(http.StatusConflict, "homework already uploaded")
		}
		return ctx.JSON(http.StatusOK, announcement.PendingHomeworkDraft(sess))
	}
	return errBadRequest // unreachable, kinds are validated
}
