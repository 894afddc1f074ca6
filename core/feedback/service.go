package feedback

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core"
)

var (
	// errors
	ErrNotFound      = errors.New("feedback entity not found")
	ErrSessionExists = errors.New("a feedback session with this name already exists in this course")
)

type (
	Repository interface {
		CreateSession(ctx context.Context, session Session) (Session, error)
		// GetSession returns the session with its questions loaded.
		GetSession(ctx context.Context, courseID, name string) (Session, error)
		GetSessionsForCourse(ctx context.Context, courseID string) ([]Session, error)
		UpdateSession(ctx context.Context, session Session) (Session, error)

		CreateQuestion(ctx context.Context, question Question) (Question, error)
		GetQuestionsForCourseWithType(ctx context.Context, courseID string, qType QuestionType) ([]Question, error)

		CreateResponse(ctx context.Context, response Response) (Response, error)
		GetResponse(ctx context.Context, id uuid.UUID) (Response, error)
		GetResponsesFromGiverForCourse(ctx context.Context, courseID, giver string) ([]Response, error)
		GetResponsesForReceiverForCourse(ctx context.Context, courseID, receiver string) ([]Response, error)
		GetResponsesFromGiverForQuestion(ctx context.Context, questionID uuid.UUID, giver string) ([]Response, error)
		// GetResponsesFromTeamForQuestion matches on the explicit team giver kind,
		// never on the giver string alone.
		GetResponsesFromTeamForQuestion(ctx context.Context, questionID uuid.UUID, team string) ([]Response, error)
		UpdateResponse(ctx context.Context, response Response) (Response, error)
		DeleteResponse(ctx context.Context, id uuid.UUID) error
		DeleteCommentsForResponse(ctx context.Context, responseID uuid.UUID) error

		CreateDeadlineExtension(ctx context.Context, de DeadlineExtension) (DeadlineExtension, error)
		DeleteDeadlineExtensions(ctx context.Context, courseID, userEmail string) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (svc *Service) GetSession(ctx context.Context, courseID, name string) (Session, error) {
	return svc.repo.GetSession(ctx, courseID, name)
}

// GetSessionsForCourse returns all sessions of a course, except soft-deleted ones.
func (svc *Service) GetSessionsForCourse(ctx context.Context, courseID string) ([]Session, error) {
	sessions, err := svc.repo.GetSessionsForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	kept := sessions[:0]
	for _, s := range sessions {
		if !s.IsDeleted() {
			kept = append(kept, s)
		}
	}
	return kept, nil
}

// PublishSession makes a session's results visible.
func (svc *Service) PublishSession(ctx context.Context, courseID, name string) (Session, error) {
	session, err := svc.repo.GetSession(ctx, courseID, name)
	if err != nil {
		return Session{}, err
	}
	if session.IsPublished() {
		return Session{}, core.NewValidationError(errors.New("session has already been published"))
	}
	now := nowFunc().UTC()
	session.ResultsVisibleFrom = &now
	return svc.repo.UpdateSession(ctx, session)
}

// GetResponsesFromGiverForCourse returns all responses given by a user in a course.
func (svc *Service) GetResponsesFromGiverForCourse(ctx context.Context, courseID, giver string) ([]Response, error) {
	return svc.repo.GetResponsesFromGiverForCourse(ctx, courseID, giver)
}

// GetResponsesForReceiverForCourse returns all responses received by a user in a course.
func (svc *Service) GetResponsesForReceiverForCourse(ctx context.Context, courseID, receiver string) ([]Response, error) {
	return svc.repo.GetResponsesForReceiverForCourse(ctx, courseID, receiver)
}

// DeleteResponseCascade deletes a response together with its comments.
func (svc *Service) DeleteResponseCascade(ctx context.Context, id uuid.UUID) error {
	if err := svc.repo.DeleteCommentsForResponse(ctx, id); err != nil {
		return errors.Wrap(err, "deleting response comments")
	}
	return svc.repo.DeleteResponse(ctx, id)
}

// DeleteResponsesInvolvedEntityCascade deletes all responses given by or addressed
// to the entity (a participant email or a team name) in the course, cascading to
// their comments.
func (svc *Service) DeleteResponsesInvolvedEntityCascade(ctx context.Context, courseID, entity string) error {
	given, err := svc.repo.GetResponsesFromGiverForCourse(ctx, courseID, entity)
	if err != nil {
		return errors.Wrap(err, "fetching given responses")
	}
	for _, response := range given {
		if err = svc.DeleteResponseCascade(ctx, response.ID); err != nil {
			return err
		}
	}

	received, err := svc.repo.GetResponsesForReceiverForCourse(ctx, courseID, entity)
	if err != nil {
		return errors.Wrap(err, "fetching received responses")
	}
	for _, response := range received {
		if err = svc.DeleteResponseCascade(ctx, response.ID); err != nil {
			return err
		}
	}
	return nil
}

func (svc *Service) DeleteDeadlineExtensions(ctx context.Context, courseID, userEmail string) error {
	return svc.repo.DeleteDeadlineExtensions(ctx, courseID, userEmail)
}
