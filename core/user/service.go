package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/trezcool/maoni/core"
)

var (
	// errors
	ErrNotFound   = errors.New("user not found")
	ErrUserExists = errors.New("a user with this email already exists in this course")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, student Student) (Student, error)
		CreateInstructor(ctx context.Context, instructor Instructor) (Instructor, error)
		GetStudent(ctx context.Context, courseID, email string) (Student, error)
		GetStudentsForCourse(ctx context.Context, courseID string) ([]Student, error)
		GetInstructor(ctx context.Context, courseID, email string) (Instructor, error)
		// GetInstructorByEmail returns any course's instructor record for the email;
		// instructor credentials are shared across their courses.
		GetInstructorByEmail(ctx context.Context, email string) (Instructor, error)
		GetInstructorsForCourse(ctx context.Context, courseID string) ([]Instructor, error)
		UpdateInstructor(ctx context.Context, instructor Instructor) (Instructor, error)
		DeleteStudent(ctx context.Context, courseID, email string) error
		DeleteInstructor(ctx context.Context, courseID, email string) error
	}

	// FeedbackCascader is the slice of the feedback service the cascade depends on.
	FeedbackCascader interface {
		// DeleteResponsesInvolvedEntityCascade removes all responses given by or
		// addressed to the entity (email or team name) in the course, comments included.
		DeleteResponsesInvolvedEntityCascade(ctx context.Context, courseID, entity string) error
		DeleteDeadlineExtensions(ctx context.Context, courseID, userEmail string) error
		// RepairRankResponses renumbers rank-recipients answers against the given roster.
		RepairRankResponses(ctx context.Context, courseID string, roster Roster) error
	}

	Service struct {
		repo    Repository
		frSvc   FeedbackCascader
		mailSvc core.EmailService
		logger  core.Logger
		conf    *core.Config
	}
)

func NewService(repo Repository, frSvc FeedbackCascader, mailSvc core.EmailService, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		frSvc:   frSvc,
		mailSvc: mailSvc,
		logger:  logger,
		conf:    conf,
	}
}

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	student := Student{
		User: User{
			CourseID:  ns.CourseID,
			Name:      ns.Name,
			Email:     ns.Email,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Team:     ns.Team,
		Section:  ns.Section,
		Comments: ns.Comments,
	}
	return svc.repo.CreateStudent(ctx, student)
}

func (svc *Service) CreateInstructor(ctx context.Context, ni NewInstructor) (Instructor, error) {
	now := time.Now().UTC()
	instructor := Instructor{
		User: User{
			CourseID:  ni.CourseID,
			Name:      ni.Name,
			Email:     ni.Email,
			CreatedAt: now,
			UpdatedAt: now,
		},
		DisplayName:           ni.DisplayName,
		IsDisplayedToStudents: true,
		Role:                  ni.Role,
	}
	if ni.Password != "" {
		if err := instructor.SetPassword(ni.Password); err != nil {
			return Instructor{}, err
		}
	}
	return svc.repo.CreateInstructor(ctx, instructor)
}

func (svc *Service) GetStudent(ctx context.Context, courseID, email string) (Student, error) {
	return svc.repo.GetStudent(ctx, courseID, core.CleanString(email, true /* lower */))
}

func (svc *Service) GetInstructor(ctx context.Context, courseID, email string) (Instructor, error) {
	return svc.repo.GetInstructor(ctx, courseID, core.CleanString(email, true /* lower */))
}

func (svc *Service) GetInstructorByEmail(ctx context.Context, email string) (Instructor, error) {
	return svc.repo.GetInstructorByEmail(ctx, core.CleanString(email, true /* lower */))
}

// GetStudentsForCourse returns the course's students sorted by name.
func (svc *Service) GetStudentsForCourse(ctx context.Context, courseID string) ([]Student, error) {
	students, err := svc.repo.GetStudentsForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	SortStudentsByName(students)
	return students, nil
}

// GetInstructorsForCourse returns the course's instructors sorted by name.
func (svc *Service) GetInstructorsForCourse(ctx context.Context, courseID string) ([]Instructor, error) {
	instructors, err := svc.repo.GetInstructorsForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	SortInstructorsByName(instructors)
	return instructors, nil
}

// GetCoOwnersForCourse returns the instructors holding co-owner privileges.
func (svc *Service) GetCoOwnersForCourse(ctx context.Context, courseID string) ([]Instructor, error) {
	instructors, err := svc.GetInstructorsForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	var coOwners []Instructor
	for _, instructor := range instructors {
		if !instructor.HasCoOwnerPrivileges() {
			continue
		}
		coOwners = append(coOwners, instructor)
	}
	return coOwners, nil
}

func (svc *Service) SetLastLogin(ctx context.Context, instructor Instructor) (Instructor, error) {
	instructor.LastLogin = time.Now().UTC()
	return svc.repo.UpdateInstructor(ctx, instructor)
}

// Roster builds a fresh snapshot of the course's participants.
func (svc *Service) Roster(ctx context.Context, courseID string) (Roster, error) {
	students, err := svc.GetStudentsForCourse(ctx, courseID)
	if err != nil {
		return Roster{}, err
	}
	instructors, err := svc.GetInstructorsForCourse(ctx, courseID)
	if err != nil {
		return Roster{}, err
	}
	return NewRoster(students, instructors), nil
}

// DeleteStudentCascade removes a student together with every record that depends
// on them: responses they gave or received (comments included), their team's
// aggregate responses when they were its last member, their deadline extensions.
// Remaining rank-recipients answers are then renumbered against the reduced roster.
// Deleting an unknown student is a no-op.
func (svc *Service) DeleteStudentCascade(ctx context.Context, courseID, email string) error {
	email = core.CleanString(email, true /* lower */)
	student, err := svc.repo.GetStudent(ctx, courseID, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil // fail silently
		}
		return err
	}

	if err = svc.frSvc.DeleteResponsesInvolvedEntityCascade(ctx, courseID, student.Email); err != nil {
		return err
	}

	lastOfTeam, err := svc.isSoleTeamMember(ctx, student)
	if err != nil {
		return err
	}
	if lastOfTeam {
		if err = svc.frSvc.DeleteResponsesInvolvedEntityCascade(ctx, courseID, student.Team); err != nil {
			return err
		}
	}

	if err = svc.repo.DeleteStudent(ctx, courseID, student.Email); err != nil {
		return err
	}
	if err = svc.frSvc.DeleteDeadlineExtensions(ctx, courseID, student.Email); err != nil {
		return err
	}

	// the roster must be rebuilt after the student record is gone so recipient
	// counts reflect the reduced course
	roster, err := svc.Roster(ctx, courseID)
	if err != nil {
		return err
	}
	if err = svc.frSvc.RepairRankResponses(ctx, courseID, roster); err != nil {
		return err
	}

	svc.notifyCoOwners(ctx, student)
	return nil
}

func (svc *Service) isSoleTeamMember(ctx context.Context, student Student) (bool, error) {
	students, err := svc.repo.GetStudentsForCourse(ctx, student.CourseID)
	if err != nil {
		return false, err
	}
	for _, s := range students {
		if s.Team == student.Team && s.Email != student.Email {
			return false, nil
		}
	}
	return true, nil
}

func (svc *Service) notifyCoOwners(ctx context.Context, student Student) {
	coOwners, err := svc.GetCoOwnersForCourse(ctx, student.CourseID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching co-owners of course %s: %v", student.CourseID, err), err)
		return
	}
	if len(coOwners) == 0 {
		return
	}

	to := make([]mail.Address, 0, len(coOwners))
	for _, co := range coOwners {
		to = append(to, mail.Address{Name: co.Name, Address: co.Email})
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           to,
		Subject:      fmt.Sprintf("Student removed from %s", student.CourseID),
		TemplateName: "student_removed",
		TemplateData: struct {
			Name     string
			Email    string
			Team     string
			CourseID string
		}{student.Name, student.Email, student.Team, student.CourseID},
	})
}
