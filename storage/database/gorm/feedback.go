package gormrepos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trezcool/maoni/core/feedback"
)

type feedbackRepository struct {
	db *gorm.DB
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *gorm.DB) feedback.Repository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) CreateSession(ctx context.Context, session feedback.Session) (feedback.Session, error) {
	m := newSessionModel(session)
	if err := repo.db.WithContext(ctx).Create(&m).Error; err != nil {
		return feedback.Session{}, trapUniqueErr(err, feedback.ErrSessionExists)
	}
	return m.toDomain(), nil
}

func (repo *feedbackRepository) GetSession(ctx context.Context, courseID, name string) (feedback.Session, error) {
	var m sessionModel
	err := repo.db.WithContext(ctx).
		Where("course_id = ? AND name = ?", courseID, name).
		First(&m).Error
	if err != nil {
		return feedback.Session{}, trapNotFoundErr(err, feedback.ErrNotFound)
	}
	session := m.toDomain()
	questions, err := repo.queryQuestions(ctx, courseID, name)
	if err != nil {
		return feedback.Session{}, err
	}
	session.Questions = questions
	return session, nil
}

func (repo *feedbackRepository) GetSessionsForCourse(ctx context.Context, courseID string) ([]feedback.Session, error) {
	var ms []sessionModel
	if err := repo.db.WithContext(ctx).Where("course_id = ?", courseID).Find(&ms).Error; err != nil {
		return nil, err
	}
	sessions := make([]feedback.Session, 0, len(ms))
	for _, m := range ms {
		session := m.toDomain()
		questions, err := repo.queryQuestions(ctx, courseID, session.Name)
		if err != nil {
			return nil, err
		}
		session.Questions = questions
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (repo *feedbackRepository) UpdateSession(ctx context.Context, session feedback.Session) (feedback.Session, error) {
	m := newSessionModel(session)
	res := repo.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("course_id = ? AND name = ?", m.CourseID, m.Name).
		Select("*").Omit("course_id", "name", "created_at").
		Updates(m)
	if res.Error != nil {
		return feedback.Session{}, res.Error
	}
	if res.RowsAffected == 0 {
		return feedback.Session{}, feedback.ErrNotFound
	}
	return repo.GetSession(ctx, session.CourseID, session.Name)
}

func (repo *feedbackRepository) CreateQuestion(ctx context.Context, question feedback.Question) (feedback.Question, error) {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	m := newQuestionModel(question)
	if err := repo.db.WithContext(ctx).Create(&m).Error; err != nil {
		return feedback.Question{}, err
	}
	return m.toDomain(), nil
}

func (repo *feedbackRepository) GetQuestionsForCourseWithType(ctx context.Context, courseID string, qType feedback.QuestionType) ([]feedback.Question, error) {
	var ms []questionModel
	err := repo.db.WithContext(ctx).
		Where("course_id = ? AND type = ?", courseID, string(qType)).
		Order("question_number").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	questions := make([]feedback.Question, 0, len(ms))
	for _, m := range ms {
		questions = append(questions, m.toDomain())
	}
	return questions, nil
}

func (repo *feedbackRepository) CreateResponse(ctx context.Context, response feedback.Response) (feedback.Response, error) {
	if response.ID == uuid.Nil {
		response.ID = uuid.New()
	}
	m, err := newResponseModel(response)
	if err != nil {
		return feedback.Response{}, err
	}
	if err = repo.db.WithContext(ctx).Create(&m).Error; err != nil {
		return feedback.Response{}, err
	}
	return m.toDomain()
}

func (repo *feedbackRepository) GetResponse(ctx context.Context, id uuid.UUID) (feedback.Response, error) {
	var m responseModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return feedback.Response{}, trapNotFoundErr(err, feedback.ErrNotFound)
	}
	return m.toDomain()
}

func (repo *feedbackRepository) GetResponsesFromGiverForCourse(ctx context.Context, courseID, giver string) ([]feedback.Response, error) {
	var ms []responseModel
	err := repo.db.WithContext(ctx).
		Where("course_id = ? AND giver = ?", courseID, giver).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainResponses(ms)
}

func (repo *feedbackRepository) GetResponsesForReceiverForCourse(ctx context.Context, courseID, receiver string) ([]feedback.Response, error) {
	var ms []responseModel
	err := repo.db.WithContext(ctx).
		Where("course_id = ? AND recipient = ?", courseID, receiver).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainResponses(ms)
}

func (repo *feedbackRepository) GetResponsesFromGiverForQuestion(ctx context.Context, questionID uuid.UUID, giver string) ([]feedback.Response, error) {
	var ms []responseModel
	err := repo.db.WithContext(ctx).
		Where("question_id = ? AND giver = ? AND giver_kind = ?", questionID, giver, string(feedback.GiverUser)).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainResponses(ms)
}

func (repo *feedbackRepository) GetResponsesFromTeamForQuestion(ctx context.Context, questionID uuid.UUID, team string) ([]feedback.Response, error) {
	var ms []responseModel
	err := repo.db.WithContext(ctx).
		Where("question_id = ? AND giver = ? AND giver_kind = ?", questionID, team, string(feedback.GiverTeam)).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainResponses(ms)
}

func (repo *feedbackRepository) UpdateResponse(ctx context.Context, response feedback.Response) (feedback.Response, error) {
	m, err := newResponseModel(response)
	if err != nil {
		return feedback.Response{}, err
	}
	res := repo.db.WithContext(ctx).
		Model(&responseModel{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "created_at").
		Updates(m)
	if res.Error != nil {
		return feedback.Response{}, res.Error
	}
	if res.RowsAffected == 0 {
		return feedback.Response{}, feedback.ErrNotFound
	}
	return repo.GetResponse(ctx, response.ID)
}

func (repo *feedbackRepository) DeleteResponse(ctx context.Context, id uuid.UUID) error {
	return repo.db.WithContext(ctx).Where("id = ?", id).Delete(&responseModel{}).Error
}

func (repo *feedbackRepository) DeleteCommentsForResponse(ctx context.Context, responseID uuid.UUID) error {
	return repo.db.WithContext(ctx).
		Where("response_id = ?", responseID).
		Delete(&responseCommentModel{}).Error
}

func (repo *feedbackRepository) CreateDeadlineExtension(ctx context.Context, de feedback.DeadlineExtension) (feedback.DeadlineExtension, error) {
	if de.ID == uuid.Nil {
		de.ID = uuid.New()
	}
	m := newDeadlineExtensionModel(de)
	if err := repo.db.WithContext(ctx).Create(&m).Error; err != nil {
		return feedback.DeadlineExtension{}, err
	}
	return m.toDomain(), nil
}

func (repo *feedbackRepository) DeleteDeadlineExtensions(ctx context.Context, courseID, userEmail string) error {
	return repo.db.WithContext(ctx).
		Where("course_id = ? AND user_email = ?", courseID, userEmail).
		Delete(&deadlineExtensionModel{}).Error
}

func (repo *feedbackRepository) queryQuestions(ctx context.Context, courseID, sessionName string) ([]feedback.Question, error) {
	var ms []questionModel
	err := repo.db.WithContext(ctx).
		Where("course_id = ? AND session_name = ?", courseID, sessionName).
		Order("question_number").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	questions := make([]feedback.Question, 0, len(ms))
	for _, m := range ms {
		questions = append(questions, m.toDomain())
	}
	return questions, nil
}

func toDomainResponses(ms []responseModel) ([]feedback.Response, error) {
	responses := make([]feedback.Response, 0, len(ms))
	for _, m := range ms {
		r, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, nil
}
