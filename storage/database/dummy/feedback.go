package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/maoni/core/feedback"
)

type feedbackRepository struct {
	db *feedbackTables
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *DB) feedback.Repository {
	return &feedbackRepository{db: db.feedback}
}

func (repo *feedbackRepository) CreateSession(ctx context.Context, session feedback.Session) (feedback.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	k := key(session.CourseID, session.Name)
	if _, ok := repo.db.sessions[k]; ok {
		return feedback.Session{}, feedback.ErrSessionExists
	}
	repo.db.sessions[k] = &session
	return session, nil
}

func (repo *feedbackRepository) GetSession(ctx context.Context, courseID, name string) (feedback.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	session, ok := repo.db.sessions[key(courseID, name)]
	if !ok {
		return feedback.Session{}, feedback.ErrNotFound
	}
	s := *session
	s.Questions = repo.queryQuestions(courseID, name)
	return s, nil
}

func (repo *feedbackRepository) GetSessionsForCourse(ctx context.Context, courseID string) ([]feedback.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sessions := make([]feedback.Session, 0)
	for _, session := range repo.db.sessions {
		if session.CourseID != courseID {
			continue
		}
		s := *session
		s.Questions = repo.queryQuestions(courseID, s.Name)
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (repo *feedbackRepository) UpdateSession(ctx context.Context, session feedback.Session) (feedback.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	k := key(session.CourseID, session.Name)
	if _, ok := repo.db.sessions[k]; !ok {
		return feedback.Session{}, feedback.ErrNotFound
	}
	repo.db.sessions[k] = &session
	return session, nil
}

func (repo *feedbackRepository) CreateQuestion(ctx context.Context, question feedback.Question) (feedback.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	question.ID = uuid.New()
	repo.db.questions[question.ID] = &question
	return question, nil
}

func (repo *feedbackRepository) GetQuestionsForCourseWithType(ctx context.Context, courseID string, qType feedback.QuestionType) ([]feedback.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	questions := make([]feedback.Question, 0)
	for _, q := range repo.db.questions {
		if q.CourseID == courseID && q.Type == qType {
			questions = append(questions, *q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].QuestionNumber < questions[j].QuestionNumber })
	return questions, nil
}

func (repo *feedbackRepository) CreateResponse(ctx context.Context, response feedback.Response) (feedback.Response, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	response.ID = uuid.New()
	repo.db.responses[response.ID] = &response
	return response, nil
}

func (repo *feedbackRepository) GetResponse(ctx context.Context, id uuid.UUID) (feedback.Response, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if response, ok := repo.db.responses[id]; ok {
		return *response, nil
	}
	return feedback.Response{}, feedback.ErrNotFound
}

func (repo *feedbackRepository) GetResponsesFromGiverForCourse(ctx context.Context, courseID, giver string) ([]feedback.Response, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	responses := make([]feedback.Response, 0)
	for _, r := range repo.db.responses {
		if r.CourseID == courseID && r.Giver == giver {
			responses = append(responses, *r)
		}
	}
	return responses, nil
}

func (repo *feedbackRepository) GetResponsesForReceiverForCourse(ctx context.Context, courseID, receiver string) ([]feedback.Response, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	responses := make([]feedback.Response, 0)
	for _, r := range repo.db.responses {
		if r.CourseID == courseID && r.Recipient == receiver {
			responses = append(responses, *r)
		}
	}
	return responses, nil
}

func (repo *feedbackRepository) GetResponsesFromGiverForQuestion(ctx context.Context, questionID uuid.UUID, giver string) ([]feedback.Response, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	responses := make([]feedback.Response, 0)
	for _, r := range repo.db.responses {
		if r.QuestionID == questionID && r.Giver == giver && r.GiverKind == feedback.GiverUser {
			responses = append(responses, *r)
		}
	}
	return responses, nil
}

func (repo *feedbackRepository) GetResponsesFromTeamForQuestion(ctx context.Context, questionID uuid.UUID, team string) ([]feedback.Response, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	responses := make([]feedback.Response, 0)
	for _, r := range repo.db.responses {
		if r.QuestionID == questionID && r.Giver == team && r.GiverKind == feedback.GiverTeam {
			responses = append(responses, *r)
		}
	}
	return responses, nil
}

func (repo *feedbackRepository) UpdateResponse(ctx context.Context, response feedback.Response) (feedback.Response, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.responses[response.ID]; !ok {
		return feedback.Response{}, feedback.ErrNotFound
	}
	repo.db.responses[response.ID] = &response
	return response, nil
}

func (repo *feedbackRepository) DeleteResponse(ctx context.Context, id uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.responses, id)
	return nil
}

func (repo *feedbackRepository) DeleteCommentsForResponse(ctx context.Context, responseID uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, c := range repo.db.comments {
		if c.ResponseID == responseID {
			delete(repo.db.comments, id)
		}
	}
	return nil
}

func (repo *feedbackRepository) CreateDeadlineExtension(ctx context.Context, de feedback.DeadlineExtension) (feedback.DeadlineExtension, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	de.ID = uuid.New()
	repo.db.extensions[de.ID] = &de
	return de, nil
}

func (repo *feedbackRepository) DeleteDeadlineExtensions(ctx context.Context, courseID, userEmail string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, de := range repo.db.extensions {
		if de.CourseID == courseID && de.UserEmail == userEmail {
			delete(repo.db.extensions, id)
		}
	}
	return nil
}

// queryQuestions expects the caller to hold at least a read lock.
func (repo *feedbackRepository) queryQuestions(courseID, sessionName string) []feedback.Question {
	questions := make([]feedback.Question, 0)
	for _, q := range repo.db.questions {
		if q.CourseID == courseID && q.SessionName == sessionName {
			questions = append(questions, *q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].QuestionNumber < questions[j].QuestionNumber })
	return questions
}
