package feedback

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType discriminates the answer payload carried by responses to a question.
type QuestionType string

const (
	QuestionText           QuestionType = "TEXT"
	QuestionMCQ            QuestionType = "MCQ"
	QuestionNumScale       QuestionType = "NUMSCALE"
	QuestionRankOptions    QuestionType = "RANK_OPTIONS"
	QuestionRankRecipients QuestionType = "RANK_RECIPIENTS"
)

type Question struct {
	ID             uuid.UUID    `json:"id"`
	CourseID       string       `json:"course_id"`
	SessionName    string       `json:"session_name"`
	QuestionNumber int          `json:"question_number"`
	Brief          string       `json:"brief"`
	Description    string       `json:"description"`
	Type           QuestionType `json:"type"`

	GiverType     ParticipantType `json:"giver_type"`
	RecipientType ParticipantType `json:"recipient_type"`

	// ShowResponsesTo lists the audiences responses to this question are shared with.
	ShowResponsesTo []ParticipantType `json:"show_responses_to"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// IsResponseVisibleTo reports whether responses to this question are explicitly
// shared with the given audience.
func (q Question) IsResponseVisibleTo(p ParticipantType) bool {
	for _, t := range q.ShowResponsesTo {
		if t == p {
			return true
		}
	}
	return false
}
