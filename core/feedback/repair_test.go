package feedback_test

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

// countingRepo records how many response updates reach the storage layer.
type countingRepo struct {
	feedback.Repository
	updates int
}

func (repo *countingRepo) UpdateResponse(ctx context.Context, response feedback.Response) (feedback.Response, error) {
	repo.updates++
	return repo.Repository.UpdateResponse(ctx, response)
}

func setupRepair(t *testing.T) (*feedback.Service, *countingRepo) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := &countingRepo{Repository: dummydb.NewFeedbackRepository(db)}
	return feedback.NewService(repo, nopLogger{}), repo
}

func newStudent(name, email, team, section string) user.Student {
	return user.Student{
		User:    user.User{ID: uuid.New(), CourseID: courseID, Name: name, Email: email},
		Team:    team,
		Section: section,
	}
}

func newInstructor(name, email string) user.Instructor {
	return user.Instructor{
		User: user.User{ID: uuid.New(), CourseID: courseID, Name: name, Email: email},
		Role: user.RoleCoOwner,
	}
}

func createRankQuestion(t *testing.T, repo feedback.Repository, giver, recipient feedback.ParticipantType) feedback.Question {
	t.Helper()
	q, err := repo.CreateQuestion(context.Background(), feedback.Question{
		CourseID:      courseID,
		SessionName:   "Midterm Review",
		Type:          feedback.QuestionRankRecipients,
		GiverType:     giver,
		RecipientType: recipient,
	})
	require.NoError(t, err)
	return q
}

func createRankResponse(t *testing.T, repo feedback.Repository, q feedback.Question, giver, recipient string, kind feedback.GiverKind, rank int) feedback.Response {
	t.Helper()
	r, err := repo.CreateResponse(context.Background(), feedback.Response{
		QuestionID: q.ID,
		CourseID:   courseID,
		Giver:      giver,
		GiverKind:  kind,
		Recipient:  recipient,
		Details:    feedback.RankRecipientsDetails{Rank: rank},
	})
	require.NoError(t, err)
	return r
}

func ranksByRecipient(t *testing.T, repo feedback.Repository, q feedback.Question, giver string) map[string]int {
	t.Helper()
	responses, err := repo.GetResponsesFromGiverForQuestion(context.Background(), q.ID, giver)
	require.NoError(t, err)
	ranks := make(map[string]int, len(responses))
	for _, r := range responses {
		ranks[r.Recipient] = r.Details.(feedback.RankRecipientsDetails).Rank
	}
	return ranks
}

func TestRepairRankResponses_compressesStudentRanks(t *testing.T) {
	svc, repo := setupRepair(t)
	ctx := context.Background()

	alice := newStudent("Alice", "alice@test.edu", "Team A", "S1")
	bob := newStudent("Bob", "bob@test.edu", "Team A", "S1")
	carol := newStudent("Carol", "carol@test.edu", "Team B", "S1")
	dan := newStudent("Dan", "dan@test.edu", "Team B", "S1")
	roster := user.NewRoster([]user.Student{alice, bob, carol, dan}, nil)

	q := createRankQuestion(t, repo, feedback.ParticipantStudents, feedback.ParticipantStudentsExcludingSelf)

	// ranks with holes, as left behind by deletions
	createRankResponse(t, repo, q, alice.Email, bob.Email, feedback.GiverUser, 1)
	createRankResponse(t, repo, q, alice.Email, carol.Email, feedback.GiverUser, 3)
	createRankResponse(t, repo, q, alice.Email, dan.Email, feedback.GiverUser, 4)

	require.NoError(t, svc.RepairRankResponses(ctx, courseID, roster))

	want := map[string]int{bob.Email: 1, carol.Email: 2, dan.Email: 3}
	assert.Equal(t, want, ranksByRecipient(t, repo, q, alice.Email))
}

func TestRepairRankResponses_isIdempotent(t *testing.T) {
	svc, repo := setupRepair(t)
	ctx := context.Background()

	alice := newStudent("Alice", "alice@test.edu", "Team A", "S1")
	bob := newStudent("Bob", "bob@test.edu", "Team A", "S1")
	carol := newStudent("Carol", "carol@test.edu", "Team B", "S1")
	roster := user.NewRoster([]user.Student{alice, bob, carol}, nil)

	q := createRankQuestion(t, repo, feedback.ParticipantStudents, feedback.ParticipantStudentsExcludingSelf)
	createRankResponse(t, repo, q, alice.Email, bob.Email, feedback.GiverUser, 2)
	createRankResponse(t, repo, q, alice.Email, carol.Email, feedback.GiverUser, 4)

	require.NoError(t, svc.RepairRankResponses(ctx, courseID, roster))
	firstPass := ranksByRecipient(t, repo, q, alice.Email)
	assert.Equal(t, map[string]int{bob.Email: 1, carol.Email: 2}, firstPass)

	repo.updates = 0
	require.NoError(t, svc.RepairRankResponses(ctx, courseID, roster))
	assert.Equal(t, 0, repo.updates, "a consistent course must yield no updates")
	assert.Equal(t, firstPass, ranksByRecipient(t, repo, q, alice.Email))
}

func TestRepairRankResponses_preservesRelativeOrder(t *testing.T) {
	svc, repo := setupRepair(t)
	ctx := context.Background()

	students := []user.Student{
		newStudent("Alice", "alice@test.edu", "Team A", "S1"),
		newStudent("Bob", "bob@test.edu", "Team A", "S1"),
		newStudent("Carol", "carol@test.edu", "Team B", "S1"),
		newStudent("Dan", "dan@test.edu", "Team B", "S1"),
	}
	roster := user.NewRoster(students, nil)
	giver := students[0]

	q := createRankQuestion(t, repo, feedback.ParticipantStudents, feedback.ParticipantStudentsExcludingSelf)
	createRankResponse(t, repo, q, giver.Email, students[1].Email, feedback.GiverUser, 7)
	createRankResponse(t, repo, q, giver.Email, students[2].Email, feedback.GiverUser, 2)
	createRankResponse(t, repo, q, giver.Email, students[3].Email, feedback.GiverUser, 5)

	require.NoError(t, svc.RepairRankResponses(ctx, courseID, roster))

	ranks := ranksByRecipient(t, repo, q, giver.Email)
	byRank := make([]string, len(ranks))
	for recipient, rank := range ranks {
		byRank[rank-1] = recipient
	}
	assert.Equal(t, []string{students[2].Email, students[3].Email, students[1].Email}, byRank)

	got := make([]int, 0, len(ranks))
	for _, rank := range ranks {
		got = append(got, rank)
	}
	sort.Ints(got)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestRepairRankResponses_teamGivers(t *testing.T) {
	svc, repo := setupRepair(t)
	ctx := context.Background()

	students := []user.Student{
		newStudent("Alice", "alice@test.edu", "Team A", "S1"),
		newStudent("Bob", "bob@test.edu", "Team A", "S1"),
		newStudent("Carol", "carol@test.edu", "Team B", "S1"),
		newStudent("Dan", "dan@test.edu", "Team C", "S1"),
	}
	roster := user.NewRoster(students, nil)

	q := createRankQuestion(t, repo, feedback.ParticipantTeams, feedback.ParticipantTeamsExcludingSelf)
	createRankResponse(t, repo, q, "Team A", "Team B", feedback.GiverTeam, 2)
	createRankResponse(t, repo, q, "Team A", "Team C", feedback.GiverTeam, 5)

	// an individual response from a student named like the team must not be touched
	individual := createRankResponse(t, repo, q, "Team A", "Team B", feedback.GiverUser, 9)

	require.NoError(t, svc.RepairRankResponses(ctx, courseID, roster))

	teamResponses, err := repo.GetResponsesFromTeamForQuestion(ctx, q.ID, "Team A")
	require.NoError(t, err)
	ranks := make(map[string]int, len(teamResponses))
	for _, r := range teamResponses {
		ranks[r.Recipient] = r.Details.(feedback.RankRecipientsDetails).Rank
	}
	assert.Equal(t, map[string]int{"Team B": 1, "Team C": 2}, ranks)

	untouched, err := repo.GetResponse(ctx, individual.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, untouched.Details.(feedback.RankRecipientsDetails).Rank)
}

func TestRepairRankResponses_instructorGivers(t *testing.T) {
	svc, repo := setupRepair(t)
	ctx := context.Background()

	alice := newStudent("Alice", "alice@test.edu", "Team A", "S1")
	bob := newStudent("Bob", "bob@test.edu", "Team A", "S1")
	prof := newInstructor("Prof", "prof@test.edu")
	roster := user.NewRoster([]user.Student{alice, bob}, []user.Instructor{prof})

	q := createRankQuestion(t, repo, feedback.ParticipantInstructors, feedback.ParticipantStudents)
	createRankResponse(t, repo, q, prof.Email, alice.Email, feedback.GiverUser, 4)
	createRankResponse(t, repo, q, prof.Email, bob.Email, feedback.GiverUser, 6)

	require.NoError(t, svc.RepairRankResponses(ctx, courseID, roster))

	want := map[string]int{alice.Email: 1, bob.Email: 2}
	assert.Equal(t, want, ranksByRecipient(t, repo, q, prof.Email))
}

func TestRepairRankResponses_ignoresOtherQuestionTypes(t *testing.T) {
	svc, repo := setupRepair(t)
	ctx := context.Background()

	alice := newStudent("Alice", "alice@test.edu", "Team A", "S1")
	bob := newStudent("Bob", "bob@test.edu", "Team A", "S1")
	roster := user.NewRoster([]user.Student{alice, bob}, nil)

	q, err := repo.CreateQuestion(ctx, feedback.Question{
		CourseID:      courseID,
		SessionName:   "Midterm Review",
		Type:          feedback.QuestionText,
		GiverType:     feedback.ParticipantStudents,
		RecipientType: feedback.ParticipantStudentsExcludingSelf,
	})
	require.NoError(t, err)

	r, err := repo.CreateResponse(ctx, feedback.Response{
		QuestionID: q.ID,
		CourseID:   courseID,
		Giver:      alice.Email,
		GiverKind:  feedback.GiverUser,
		Recipient:  bob.Email,
		Details:    feedback.TextDetails{Answer: "solid work"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.RepairRankResponses(ctx, courseID, roster))
	assert.Equal(t, 0, repo.updates)

	got, err := repo.GetResponse(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, feedback.TextDetails{Answer: "solid work"}, got.Details)
}
