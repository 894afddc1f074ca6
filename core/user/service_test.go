package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/user"
	dummydb "github.com/trezcool/maoni/storage/database/dummy"
)

const courseID = "demo.course-101"

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

type capturingMailService struct {
	sent []*core.EmailMessage
}

func (svc *capturingMailService) SendMessages(messages ...*core.EmailMessage) {
	svc.sent = append(svc.sent, messages...)
}

type fixture struct {
	usrSvc   *user.Service
	fbSvc    *feedback.Service
	usrRepo  user.Repository
	fbRepo   feedback.Repository
	mailSvc  *capturingMailService
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)

	fbRepo := dummydb.NewFeedbackRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	mailSvc := &capturingMailService{}
	fbSvc := feedback.NewService(fbRepo, nopLogger{})
	usrSvc := user.NewService(usrRepo, fbSvc, mailSvc, nopLogger{}, &core.Config{AppName: "maoni"})
	return fixture{usrSvc: usrSvc, fbSvc: fbSvc, usrRepo: usrRepo, fbRepo: fbRepo, mailSvc: mailSvc}
}

func (f fixture) createStudent(t *testing.T, name, email, team string) user.Student {
	t.Helper()
	s, err := f.usrSvc.CreateStudent(context.Background(), user.NewStudent{
		CourseID: courseID,
		Name:     name,
		Email:    email,
		Team:     team,
		Section:  "S1",
	})
	require.NoError(t, err)
	return s
}

func (f fixture) createCoOwner(t *testing.T, name, email string) user.Instructor {
	t.Helper()
	i, err := f.usrSvc.CreateInstructor(context.Background(), user.NewInstructor{
		CourseID: courseID,
		Name:     name,
		Email:    email,
		Role:     user.RoleCoOwner,
	})
	require.NoError(t, err)
	return i
}

func (f fixture) createRankQuestion(t *testing.T) feedback.Question {
	t.Helper()
	q, err := f.fbRepo.CreateQuestion(context.Background(), feedback.Question{
		CourseID:      courseID,
		SessionName:   "Peer Review",
		Type:          feedback.QuestionRankRecipients,
		GiverType:     feedback.ParticipantStudents,
		RecipientType: feedback.ParticipantStudentsExcludingSelf,
	})
	require.NoError(t, err)
	return q
}

func (f fixture) createResponse(t *testing.T, q feedback.Question, giver, recipient string, kind feedback.GiverKind, details feedback.ResponseDetails) feedback.Response {
	t.Helper()
	r, err := f.fbRepo.CreateResponse(context.Background(), feedback.Response{
		QuestionID: q.ID,
		CourseID:   courseID,
		Giver:      giver,
		GiverKind:  kind,
		Recipient:  recipient,
		Details:    details,
	})
	require.NoError(t, err)
	return r
}

func TestDeleteStudentCascade(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	alice := f.createStudent(t, "Alice", "alice@test.edu", "Team A")
	bob := f.createStudent(t, "Bob", "bob@test.edu", "Team A")
	carol := f.createStudent(t, "Carol", "carol@test.edu", "Team B") // sole member of Team B
	owner := f.createCoOwner(t, "Prof", "prof@test.edu")

	q := f.createRankQuestion(t)
	// everyone ranks everyone else; Carol sits first for both Alice and Bob
	f.createResponse(t, q, alice.Email, carol.Email, feedback.GiverUser, feedback.RankRecipientsDetails{Rank: 1})
	f.createResponse(t, q, alice.Email, bob.Email, feedback.GiverUser, feedback.RankRecipientsDetails{Rank: 2})
	f.createResponse(t, q, bob.Email, carol.Email, feedback.GiverUser, feedback.RankRecipientsDetails{Rank: 1})
	f.createResponse(t, q, bob.Email, alice.Email, feedback.GiverUser, feedback.RankRecipientsDetails{Rank: 2})
	f.createResponse(t, q, carol.Email, alice.Email, feedback.GiverUser, feedback.RankRecipientsDetails{Rank: 1})
	f.createResponse(t, q, carol.Email, bob.Email, feedback.GiverUser, feedback.RankRecipientsDetails{Rank: 2})

	// Team B gave and received whole-team feedback
	teamQ, err := f.fbRepo.CreateQuestion(ctx, feedback.Question{
		CourseID:      courseID,
		SessionName:   "Peer Review",
		Type:          feedback.QuestionText,
		GiverType:     feedback.ParticipantTeams,
		RecipientType: feedback.ParticipantTeamsExcludingSelf,
	})
	require.NoError(t, err)
	given := f.createResponse(t, teamQ, "Team B", "Team A", feedback.GiverTeam, feedback.TextDetails{Answer: "great sprint"})
	received := f.createResponse(t, teamQ, "Team A", "Team B", feedback.GiverTeam, feedback.TextDetails{Answer: "thanks"})

	_, err = f.fbRepo.CreateDeadlineExtension(ctx, feedback.DeadlineExtension{
		CourseID:    courseID,
		SessionName: "Peer Review",
		UserEmail:   carol.Email,
	})
	require.NoError(t, err)

	require.NoError(t, f.usrSvc.DeleteStudentCascade(ctx, courseID, "  Carol@Test.edu  "))

	// the student record is gone
	_, err = f.usrSvc.GetStudent(ctx, courseID, carol.Email)
	assert.ErrorIs(t, err, user.ErrNotFound)

	// responses Carol gave and received are gone
	gone, err := f.fbSvc.GetResponsesFromGiverForCourse(ctx, courseID, carol.Email)
	require.NoError(t, err)
	assert.Empty(t, gone)
	gone, err = f.fbSvc.GetResponsesForReceiverForCourse(ctx, courseID, carol.Email)
	require.NoError(t, err)
	assert.Empty(t, gone)

	// Team B had no other member, so its team responses went with her
	_, err = f.fbRepo.GetResponse(ctx, given.ID)
	assert.ErrorIs(t, err, feedback.ErrNotFound)
	_, err = f.fbRepo.GetResponse(ctx, received.ID)
	assert.ErrorIs(t, err, feedback.ErrNotFound)

	// remaining ranks were compressed against the reduced roster
	for _, giver := range []string{alice.Email, bob.Email} {
		responses, err := f.fbRepo.GetResponsesFromGiverForQuestion(ctx, q.ID, giver)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, 1, responses[0].Details.(feedback.RankRecipientsDetails).Rank)
	}

	// co-owners were notified
	require.Len(t, f.mailSvc.sent, 1)
	msg := f.mailSvc.sent[0]
	require.Len(t, msg.To, 1)
	assert.Equal(t, owner.Email, msg.To[0].Address)
	assert.Equal(t, "student_removed", msg.TemplateName)
}

func TestDeleteStudentCascade_keepsTeamResponsesWhileMembersRemain(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	alice := f.createStudent(t, "Alice", "alice@test.edu", "Team A")
	f.createStudent(t, "Bob", "bob@test.edu", "Team A")
	f.createStudent(t, "Carol", "carol@test.edu", "Team B")

	teamQ, err := f.fbRepo.CreateQuestion(ctx, feedback.Question{
		CourseID:      courseID,
		SessionName:   "Peer Review",
		Type:          feedback.QuestionText,
		GiverType:     feedback.ParticipantTeams,
		RecipientType: feedback.ParticipantTeamsExcludingSelf,
	})
	require.NoError(t, err)
	teamResponse := f.createResponse(t, teamQ, "Team A", "Team B", feedback.GiverTeam, feedback.TextDetails{Answer: "solid"})

	require.NoError(t, f.usrSvc.DeleteStudentCascade(ctx, courseID, alice.Email))

	// Bob still carries Team A, so the team's response survives
	_, err = f.fbRepo.GetResponse(ctx, teamResponse.ID)
	assert.NoError(t, err)
}

func TestDeleteStudentCascade_unknownStudentIsNoOp(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.createStudent(t, "Alice", "alice@test.edu", "Team A")
	f.createCoOwner(t, "Prof", "prof@test.edu")

	require.NoError(t, f.usrSvc.DeleteStudentCascade(ctx, courseID, "ghost@test.edu"))

	students, err := f.usrSvc.GetStudentsForCourse(ctx, courseID)
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Empty(t, f.mailSvc.sent)
}
