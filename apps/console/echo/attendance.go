package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sisyaclass/analytics-console/core"
	"github.com/sisyaclass/analytics-console/core/analytics"
)

type (
	attendanceView struct {
		Grades []string       `json:"grades"`
		View   analytics.View `json:"view"`
	}

	gradeInput struct {
		Grade string `json:"grade" validate:"required"`
	}
	courseInput struct {
		CourseID int `json:"courseId" validate:"required"`
	}
	sessionInput struct {
		SessionID int `json:"sessionId" validate:"required"`
	}
	pageInput struct {
		Page int `json:"page" validate:"required,min=1"`
	}
	searchInput struct {
		Search string `json:"search"`
	}
	dateRangeInput struct {
		StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
		EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	}
	markStaffInput struct {
		UserID int `json:"userId" validate:"required"`
	}

	studentsView struct {
		Query    string                        `json:"query,omitempty"`
		Status   string                        `json:"status"`
		Total    int                           `json:"total"`
		Matched  int                           `json:"matched"`
		Students []analytics.StudentAttendance `json:"students"`
	}
)

func (s *server) renderAttendance(ctx echo.Context, cs *consoleSession) error {
	return ctx.JSON(http.StatusOK, attendanceView{Grades: analytics.Grades, View: cs.orch.View()})
}

func (s *server) attendanceView(ctx echo.Context) error {
	return s.renderAttendance(ctx, s.contextSession(ctx))
}

func (s *server) selectGrade(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	var in gradeInput
	if err := bindAndValidate(ctx, &in); err != nil {
		return err
	}
	if err := cs.orch.SelectGrade(ctx.Request().Context(), in.Grade); err != nil {
		return err
	}
	return s.renderAttendance(ctx, cs)
}

func (s *server) selectCourse(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	var in courseInput
	if err := bindAndValidate(ctx, &in); err != nil {
		return err
	}
	if err := cs.orch.SelectCourse(ctx.Request().Context(), in.CourseID); err != nil {
		return err
	}
	return s.renderAttendance(ctx, cs)
}

func (s *server) selectSession(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	var in sessionInput
	if err := bindAndValidate(ctx, &in); err != nil {
		return err
	}
	if err := cs.orch.SelectSession(ctx.Request().Context(), in.SessionID); err != nil {
		return err
	}
	return s.renderAttendance(ctx, cs)
}

func (s *server) attendanceBack(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	cs.orch.Back()
	return s.renderAttendance(ctx, cs)
}

func (s *server) setPage(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	var in pageInput
	if err := bindAndValidate(ctx, &in); err != nil {
		return err
	}
	if err := cs.orch.SetPage(ctx.Request().Context(), in.Page); err != nil {
		return err
	}
	return s.renderAttendance(ctx, cs)
}

func (s *server) setSearch(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	var in searchInput
	if err := ctx.Bind(&in); err != nil {
		return errBadRequest
	}
	if err := cs.orch.SetSearch(ctx.Request().Context(), in.Search); err != nil {
		return err
	}
	return s.renderAttendance(ctx, cs)
}

func (s *server) setDateRange(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	var in dateRangeInput
	if err := bindAndValidate(ctx, &in); err != nil {
		return err
	}
	if err := cs.orch.SetDateRange(ctx.Request().Context(), in.StartDate, in.EndDate); err != nil {
		return err
	}
	return s.renderAttendance(ctx, cs)
}

// attendanceStudents filters the fetched roll call locally; no upstream call.
func (s *server) attendanceStudents(ctx echo.Context) error {
	cs := s.contextSession(ctx)

	view := cs.orch.View()
	if view.Attendance == nil {
		return errNoSelection
	}

	query := ctx.QueryParam("query")
	status := ctx.QueryParam("status")
	switch status {
	case "":
		status = analytics.FilterAll
	case analytics.FilterAll, analytics.FilterPresent, analytics.FilterAbsent:
	default:
		return errBadRequest
	}

	matched := analytics.FilterStudents(view.Attendance.Students, query, status)
	return ctx.JSON(http.StatusOK, studentsView{
		Query:    query,
		Status:   status,
		Total:    view.Attendance.TotalEnrolled,
		Matched:  len(matched),
		Students: matched,
	})
}

func (s *server) markStaff(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	var in markStaffInput
	if err := bindAndValidate(ctx, &in); err != nil {
		return err
	}
	if err := cs.orch.MarkStaff(ctx.Request().Context(), in.UserID); err != nil {
		return errors.Wrap(err, "marking as staff")
	}
	return s.renderAttendance(ctx, cs)
}

func bindAndValidate(ctx echo.Context, in interface{}) error {
	if err := ctx.Bind(in); err != nil {
		return errBadRequest
	}
	if err := core.Validate.Struct(in); err != nil {
		return err
	}
	return nil
}
