package gormrepos

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/user"
)

type studentModel struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	CourseID  string    `gorm:"uniqueIndex:idx_students_course_email"`
	Name      string
	Email     string `gorm:"uniqueIndex:idx_students_course_email"`
	Team      string
	Section   string
	Comments  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (studentModel) TableName() string { return "students" }

func (m studentModel) toDomain() user.Student {
	return user.Student{
		User: user.User{
			ID:        m.ID,
			CourseID:  m.CourseID,
			Name:      m.Name,
			Email:     m.Email,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Team:     m.Team,
		Section:  m.Section,
		Comments: m.Comments,
	}
}

func newStudentModel(s user.Student) studentModel {
	return studentModel{
		ID:        s.ID,
		CourseID:  s.CourseID,
		Name:      s.Name,
		Email:     s.Email,
		Team:      s.Team,
		Section:   s.Section,
		Comments:  s.Comments,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type instructorModel struct {
	ID                    uuid.UUID `gorm:"primaryKey;type:uuid"`
	CourseID              string    `gorm:"uniqueIndex:idx_instructors_course_email"`
	Name                  string
	Email                 string `gorm:"uniqueIndex:idx_instructors_course_email"`
	DisplayName           string
	IsDisplayedToStudents bool
	Role                  string
	PasswordHash          []byte
	LastLogin             time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (instructorModel) TableName() string { return "instructors" }

func (m instructorModel) toDomain() user.Instructor {
	return user.Instructor{
		User: user.User{
			ID:        m.ID,
			CourseID:  m.CourseID,
			Name:      m.Name,
			Email:     m.Email,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		DisplayName:           m.DisplayName,
		IsDisplayedToStudents: m.IsDisplayedToStudents,
		Role:                  m.Role,
		PasswordHash:          m.PasswordHash,
		LastLogin:             m.LastLogin,
	}
}

func newInstructorModel(i user.Instructor) instructorModel {
	return instructorModel{
		ID:                    i.ID,
		CourseID:              i.CourseID,
		Name:                  i.Name,
		Email:                 i.Email,
		DisplayName:           i.DisplayName,
		IsDisplayedToStudents: i.IsDisplayedToStudents,
		Role:                  i.Role,
		PasswordHash:          i.PasswordHash,
		LastLogin:             i.LastLogin,
		CreatedAt:             i.CreatedAt,
		UpdatedAt:             i.UpdatedAt,
	}
}

type sessionModel struct {
	CourseID           string `gorm:"primaryKey"`
	Name               string `gorm:"primaryKey"`
	CreatorEmail       string
	Instructions       string
	StartTime          time.Time
	EndTime            time.Time
	SessionVisibleFrom time.Time
	ResultsVisibleFrom *time.Time
	DeletedAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (sessionModel) TableName() string { return "sessions" }

func (m sessionModel) toDomain() feedback.Session {
	return feedback.Session{
		Name:               m.Name,
		CourseID:           m.CourseID,
		CreatorEmail:       m.CreatorEmail,
		Instructions:       m.Instructions,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		SessionVisibleFrom: m.SessionVisibleFrom,
		ResultsVisibleFrom: m.ResultsVisibleFrom,
		DeletedAt:          m.DeletedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func newSessionModel(s feedback.Session) sessionModel {
	return sessionModel{
		CourseID:           s.CourseID,
		Name:               s.Name,
		CreatorEmail:       s.CreatorEmail,
		Instructions:       s.Instructions,
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
		SessionVisibleFrom: s.SessionVisibleFrom,
		ResultsVisibleFrom: s.ResultsVisibleFrom,
		DeletedAt:          s.DeletedAt,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

type questionModel struct {
	ID              uuid.UUID `gorm:"primaryKey;type:uuid"`
	CourseID        string    `gorm:"index:idx_questions_session"`
	SessionName     string    `gorm:"index:idx_questions_session"`
	QuestionNumber  int
	Brief           string
	Description     string
	Type            string
	GiverType       string
	RecipientType   string
	ShowResponsesTo pq.StringArray `gorm:"type:text[]"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (questionModel) TableName() string { return "questions" }

func (m questionModel) toDomain() feedback.Question {
	showTo := make([]feedback.ParticipantType, 0, len(m.ShowResponsesTo))
	for _, p := range m.ShowResponsesTo {
		showTo = append(showTo, feedback.ParticipantType(p))
	}
	return feedback.Question{
		ID:              m.ID,
		CourseID:        m.CourseID,
		SessionName:     m.SessionName,
		QuestionNumber:  m.QuestionNumber,
		Brief:           m.Brief,
		Description:     m.Description,
		Type:            feedback.QuestionType(m.Type),
		GiverType:       feedback.ParticipantType(m.GiverType),
		RecipientType:   feedback.ParticipantType(m.RecipientType),
		ShowResponsesTo: showTo,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func newQuestionModel(q feedback.Question) questionModel {
	showTo := make(pq.StringArray, 0, len(q.ShowResponsesTo))
	for _, p := range q.ShowResponsesTo {
		showTo = append(showTo, string(p))
	}
	return questionModel{
		ID:              q.ID,
		CourseID:        q.CourseID,
		SessionName:     q.SessionName,
		QuestionNumber:  q.QuestionNumber,
		Brief:           q.Brief,
		Description:     q.Description,
		Type:            string(q.Type),
		GiverType:       string(q.GiverType),
		RecipientType:   string(q.RecipientType),
		ShowResponsesTo: showTo,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

type responseModel struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	QuestionID   uuid.UUID `gorm:"index;type:uuid"`
	CourseID     string    `gorm:"index"`
	Giver        string
	GiverKind    string
	Recipient    string
	QuestionType string
	Details      []byte `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (responseModel) TableName() string { return "responses" }

func (m responseModel) toDomain() (feedback.Response, error) {
	details, err := decodeDetails(feedback.QuestionType(m.QuestionType), m.Details)
	if err != nil {
		return feedback.Response{}, err
	}
	return feedback.Response{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		CourseID:   m.CourseID,
		Giver:      m.Giver,
		GiverKind:  feedback.GiverKind(m.GiverKind),
		Recipient:  m.Recipient,
		Details:    details,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

func newResponseModel(r feedback.Response) (responseModel, error) {
	var (
		details []byte
		qType   string
		err     error
	)
	if r.Details != nil {
		qType = string(r.Details.QuestionType())
		if details, err = json.Marshal(r.Details); err != nil {
			return responseModel{}, errors.Wrap(err, "encoding response details")
		}
	}
	return responseModel{
		ID:           r.ID,
		QuestionID:   r.QuestionID,
		CourseID:     r.CourseID,
		Giver:        r.Giver,
		GiverKind:    string(r.GiverKind),
		Recipient:    r.Recipient,
		QuestionType: qType,
		Details:      details,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func decodeDetails(qType feedback.QuestionType, raw []byte) (feedback.ResponseDetails, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var details feedback.ResponseDetails
	switch qType {
	case feedback.QuestionMCQ:
		var d feedback.MCQDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, errors.Wrap(err, "decoding response details")
		}
		details = d
	case feedback.QuestionNumScale:
		var d feedback.NumScaleDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, errors.Wrap(err, "decoding response details")
		}
		details = d
	case feedback.QuestionRankOptions:
		var d feedback.RankOptionsDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, errors.Wrap(err, "decoding response details")
		}
		details = d
	case feedback.QuestionRankRecipients:
		var d feedback.RankRecipientsDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, errors.Wrap(err, "decoding response details")
		}
		details = d
	default:
		var d feedback.TextDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, errors.Wrap(err, "decoding response details")
		}
		details = d
	}
	return details, nil
}

type responseCommentModel struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid"`
	ResponseID uuid.UUID `gorm:"index;type:uuid"`
	GiverEmail string
	Text       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (responseCommentModel) TableName() string { return "response_comments" }

type deadlineExtensionModel struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	CourseID     string    `gorm:"index:idx_extensions_course_user"`
	SessionName  string
	UserEmail    string `gorm:"index:idx_extensions_course_user"`
	IsInstructor bool
	EndTime      time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (deadlineExtensionModel) TableName() string { return "deadline_extensions" }

func (m deadlineExtensionModel) toDomain() feedback.DeadlineExtension {
	return feedback.DeadlineExtension{
		ID:           m.ID,
		CourseID:     m.CourseID,
		SessionName:  m.SessionName,
		UserEmail:    m.UserEmail,
		IsInstructor: m.IsInstructor,
		EndTime:      m.EndTime,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func newDeadlineExtensionModel(de feedback.DeadlineExtension) deadlineExtensionModel {
	return deadlineExtensionModel{
		ID:           de.ID,
		CourseID:     de.CourseID,
		SessionName:  de.SessionName,
		UserEmail:    de.UserEmail,
		IsInstructor: de.IsInstructor,
		EndTime:      de.EndTime,
		CreatedAt:    de.CreatedAt,
		UpdatedAt:    de.UpdatedAt,
	}
}
