package feedback

import (
	"time"

	"github.com/google/uuid"
)

// GiverKind distinguishes responses given by an individual participant from
// responses given on behalf of a whole team. Team responses carry the team
// name in Giver; matching on the kind avoids treating team names as emails.
type GiverKind string

const (
	GiverUser GiverKind = "USER"
	GiverTeam GiverKind = "TEAM"
)

type Response struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	CourseID   string    `json:"course_id"`

	Giver     string    `json:"giver"` // email, or team name when GiverKind is TEAM
	GiverKind GiverKind `json:"giver_kind"`
	Recipient string    `json:"recipient"` // email, or team name for team-typed recipients

	Details ResponseDetails `json:"details"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// ResponseDetails is the answer payload; its concrete type is keyed by the
// question type so consumers never downcast blindly.
type ResponseDetails interface {
	QuestionType() QuestionType
}

type TextDetails struct {
	Answer string `json:"answer"`
}

func (TextDetails) QuestionType() QuestionType { return QuestionText }

type MCQDetails struct {
	Answer string `json:"answer"`
}

func (MCQDetails) QuestionType() QuestionType { return QuestionMCQ }

type NumScaleDetails struct {
	Answer float64 `json:"answer"`
}

func (NumScaleDetails) QuestionType() QuestionType { return QuestionNumScale }

type RankOptionsDetails struct {
	// Ranks holds one 1-based position per question option, in option order.
	Ranks []int `json:"ranks"`
}

func (RankOptionsDetails) QuestionType() QuestionType { return QuestionRankOptions }

type RankRecipientsDetails struct {
	// Rank is this recipient's position in the giver's ordering, 1-based.
	// Across one giver's responses to a question, ranks form a dense permutation.
	Rank int `json:"rank"`
}

func (RankRecipientsDetails) QuestionType() QuestionType { return QuestionRankRecipients }

// ResponseComment is a comment attached to a response; it lives and dies with it.
type ResponseComment struct {
	ID         uuid.UUID `json:"id"`
	ResponseID uuid.UUID `json:"response_id"`
	GiverEmail string    `json:"giver_email"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}
