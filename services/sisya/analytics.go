package sisya

import (
	"context"

	"github.com/sisyaclass/analytics-console/core/analytics"
)

// Client is the live analytics backend.
var _ analytics.Backend = (*Client)(nil)

type (
	coursesResponse struct {
		Success bool               `json:"success"`
		Courses []analytics.Course `json:"courses"`
	}

	completedSessionsRequest struct {
		ID        int    `json:"id"`
		Page      int    `json:"page"`
		Limit     int    `json:"limit"`
		StartDate string `json:"startDate,omitempty"`
		EndDate   string `json:"endDate,omitempty"`
		Search    string `json:"search,omitempty"`
	}

	completedSessionsResponse struct {
		Success    bool                     `json:"success"`
		Sessions   []analytics.ClassSession `json:"sessions"`
		Pagination analytics.Pagination     `json:"pagination"`
	}

	sessionAttendanceResponse struct {
		Success       bool                          `json:"success"`
		SessionID     int                           `json:"sessionId"`
		TotalEnrolled int                           `json:"totalEnrolled"`
		PresentCount  int                           `json:"presentCount"`
		AbsentCount   int                           `json:"absentCount"`
		Students      []analytics.StudentAttendance `json:"students"`
	}

	successResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
)

func (c *Client) CoursesByGrade(ctx context.Context, grade string) ([]analytics.Course, error) {
	var resp coursesResponse
	if err := c.post(ctx, coursesByGradePath, map[string]string{"grade": grade}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Path: coursesByGradePath, Message: "request rejected"}
	}
	return resp.Courses, nil
}

func (c *Client) CompletedSessions(ctx context.Context, key analytics.SessionListKey) ([]analytics.ClassSession, analytics.Pagination, error) {
	payload := completedSessionsRequest{
		ID:        key.CourseID,
		Page:      key.Page,
		Limit:     analytics.SessionPageLimit,
		StartDate: key.StartDate,
		EndDate:   key.EndDate,
		Search:    key.Search,
	}
	var resp completedSessionsResponse
	if err := c.post(ctx, completedSessionsPath, payload, &resp); err != nil {
		return nil, analytics.Pagination{}, err
	}
	if !resp.Success {
		return nil, analytics.Pagination{}, &APIError{Path: completedSessionsPath, Message: "request rejected"}
	}
	return resp.Sessions, resp.Pagination, nil
}

func (c *Client) SessionAttendance(ctx context.Context, sessionID int) (analytics.AttendanceRecord, error) {
	var resp sessionAttendanceResponse
	if err := c.post(ctx, sessionAttendancePath, map[string]int{"sessionId": sessionID}, &resp); err != nil {
		return analytics.AttendanceRecord{}, err
	}
	if !resp.Success {
		return analytics.AttendanceRecord{}, &APIError{Path: sessionAttendancePath, Message: "request rejected"}
	}
	return analytics.AttendanceRecord{
		SessionID:     resp.SessionID,
		TotalEnrolled: resp.TotalEnrolled,
		PresentCount:  resp.PresentCount,
		AbsentCount:   resp.AbsentCount,
		Students:      resp.Students,
	}, nil
}

func (c *Client) MarkAsStaff(ctx context.Context, userID int) error {
	var resp successResponse
	if err := c.post(ctx, markAsStaffPath, map[string]int{"userId": userID}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{Path: markAsStaffPath, Message: resp.Message}
	}
	return nil
}
