package feedback

import (
	"time"

	"github.com/google/uuid"
)

var nowFunc = time.Now // mockable

type Session struct {
	Name         string `json:"name"`
	CourseID     string `json:"course_id"`
	CreatorEmail string `json:"creator_email"`
	Instructions string `json:"instructions"`

	StartTime          time.Time  `json:"start_time"`            // UTC
	EndTime            time.Time  `json:"end_time"`              // UTC
	SessionVisibleFrom time.Time  `json:"session_visible_from"`  // UTC
	ResultsVisibleFrom *time.Time `json:"results_visible_from"`  // UTC; nil until published
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`  // soft delete

	Questions []Question `json:"questions"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// IsVisible reports whether the session has opened to its participants.
func (s Session) IsVisible() bool {
	return !s.SessionVisibleFrom.IsZero() && !nowFunc().Before(s.SessionVisibleFrom)
}

// IsPublished reports whether results have been made visible.
func (s Session) IsPublished() bool {
	return s.ResultsVisibleFrom != nil && !nowFunc().Before(*s.ResultsVisibleFrom)
}

func (s Session) IsDeleted() bool { return s.DeletedAt != nil }

// DeadlineExtension grants one user extra time on one session.
type DeadlineExtension struct {
	ID           uuid.UUID `json:"id"`
	CourseID     string    `json:"course_id"`
	SessionName  string    `json:"session_name"`
	UserEmail    string    `json:"user_email"`
	IsInstructor bool      `json:"is_instructor"`
	EndTime      time.Time `json:"end_time"` // UTC

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}
