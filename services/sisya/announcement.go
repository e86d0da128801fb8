package sisya

import (
	"context"

	"github.com/sisyaclass/analytics-console/core/announcement"
)

// CreateAnnouncement submits a validated draft. The draft is left untouched
// on failure so the caller can resubmit it as-is.
func (c *Client) CreateAnnouncement(ctx context.Context, draft announcement.Draft) error {
	var resp successResponse
	if err := c.post(ctx, createAnnouncementPath, draft, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{Path: createAnnouncementPath, Message: resp.Message}
	}
	return nil
}
