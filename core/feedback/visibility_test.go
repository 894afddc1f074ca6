package feedback

import (
	"testing"
	"time"
)

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

func TestIsResponseVisibleToStudent(t *testing.T) {
	svc := NewService(nil, testLogger{})

	tests := []struct {
		name     string
		question Question
		want     bool
	}{
		{
			name: "explicitly shared with students",
			question: Question{
				GiverType:       ParticipantInstructors,
				RecipientType:   ParticipantInstructors,
				ShowResponsesTo: []ParticipantType{ParticipantStudents},
			},
			want: true,
		},
		{
			name: "student recipient shared with receiver",
			question: Question{
				GiverType:       ParticipantStudents,
				RecipientType:   ParticipantStudentsExcludingSelf,
				ShowResponsesTo: []ParticipantType{ParticipantReceiver},
			},
			want: true,
		},
		{
			name: "team recipient shared with receiver",
			question: Question{
				GiverType:       ParticipantStudents,
				RecipientType:   ParticipantOwnTeam,
				ShowResponsesTo: []ParticipantType{ParticipantReceiver},
			},
			want: true,
		},
		{
			name: "instructor recipient shared with receiver",
			question: Question{
				GiverType:       ParticipantStudents,
				RecipientType:   ParticipantInstructors,
				ShowResponsesTo: []ParticipantType{ParticipantReceiver},
			},
			want: false,
		},
		{
			name: "giver recipient, student givers, shared with receiver",
			question: Question{
				GiverType:       ParticipantStudents,
				RecipientType:   ParticipantGiver,
				ShowResponsesTo: []ParticipantType{ParticipantReceiver},
			},
			want: true,
		},
		{
			name: "giver recipient, instructor givers, shared with receiver",
			question: Question{
				GiverType:       ParticipantInstructors,
				RecipientType:   ParticipantGiver,
				ShowResponsesTo: []ParticipantType{ParticipantReceiver},
			},
			want: false,
		},
		{
			name: "team givers, nothing shared",
			question: Question{
				GiverType:     ParticipantTeams,
				RecipientType: ParticipantInstructors,
			},
			want: true,
		},
		{
			name: "shared with giver's team members",
			question: Question{
				GiverType:       ParticipantStudents,
				RecipientType:   ParticipantInstructors,
				ShowResponsesTo: []ParticipantType{ParticipantOwnTeamMembers},
			},
			want: true,
		},
		{
			name: "shared with receiver's team members",
			question: Question{
				GiverType:       ParticipantInstructors,
				RecipientType:   ParticipantInstructors,
				ShowResponsesTo: []ParticipantType{ParticipantReceiverTeamMembers},
			},
			want: true,
		},
		{
			name: "shared with instructors only",
			question: Question{
				GiverType:       ParticipantStudents,
				RecipientType:   ParticipantStudentsExcludingSelf,
				ShowResponsesTo: []ParticipantType{ParticipantInstructors},
			},
			want: false,
		},
		{
			name: "nothing shared",
			question: Question{
				GiverType:     ParticipantStudents,
				RecipientType: ParticipantStudentsExcludingSelf,
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsResponseVisibleToStudent(tt.question); got != tt.want {
				t.Errorf("IsResponseVisibleToStudent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsResponseVisibleToInstructor(t *testing.T) {
	svc := NewService(nil, testLogger{})

	tests := []struct {
		name     string
		question Question
		want     bool
	}{
		{
			name: "shared with instructors",
			question: Question{
				GiverType:       ParticipantStudents,
				RecipientType:   ParticipantStudentsExcludingSelf,
				ShowResponsesTo: []ParticipantType{ParticipantInstructors},
			},
			want: true,
		},
		{
			name: "shared with everyone but instructors",
			question: Question{
				GiverType:     ParticipantStudents,
				RecipientType: ParticipantStudentsExcludingSelf,
				ShowResponsesTo: []ParticipantType{
					ParticipantStudents, ParticipantReceiver, ParticipantOwnTeamMembers, ParticipantReceiverTeamMembers,
				},
			},
			want: false,
		},
		{name: "nothing shared", question: Question{GiverType: ParticipantInstructors}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsResponseVisibleToInstructor(tt.question); got != tt.want {
				t.Errorf("IsResponseVisibleToInstructor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSessionViewableToUserType(t *testing.T) {
	svc := NewService(nil, testLogger{})

	now := time.Now().UTC()
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = time.Now }()

	visible := Session{SessionVisibleFrom: now.Add(-time.Hour)}
	notVisible := Session{SessionVisibleFrom: now.Add(time.Hour)}

	studentAnswerable := Question{GiverType: ParticipantStudents, RecipientType: ParticipantStudentsExcludingSelf}
	teamAnswerable := Question{GiverType: ParticipantTeams, RecipientType: ParticipantTeamsExcludingSelf}
	instructorAnswerable := Question{GiverType: ParticipantInstructors, RecipientType: ParticipantStudents}
	creatorOnly := Question{GiverType: ParticipantSelf, RecipientType: ParticipantNone}
	sharedWithInstructors := Question{
		GiverType:       ParticipantStudents,
		RecipientType:   ParticipantInstructors,
		ShowResponsesTo: []ParticipantType{ParticipantInstructors},
	}

	withQuestions := func(s Session, qs ...Question) Session {
		s.Questions = qs
		return s
	}

	tests := []struct {
		name         string
		session      Session
		isInstructor bool
		want         bool
	}{
		{name: "not yet visible", session: withQuestions(notVisible, studentAnswerable), want: false},
		{name: "student has question to answer", session: withQuestions(visible, studentAnswerable), want: true},
		{name: "student answers for their team", session: withQuestions(visible, teamAnswerable), want: true},
		{name: "nothing for students to answer or see", session: withQuestions(visible, instructorAnswerable), want: false},
		{
			name:         "instructor has question to answer",
			session:      withQuestions(visible, instructorAnswerable),
			isInstructor: true,
			want:         true,
		},
		{
			name:         "creator-only question does not count for instructors",
			session:      withQuestions(visible, creatorOnly),
			isInstructor: true,
			want:         false,
		},
		{
			name:         "instructor can view shared responses",
			session:      withQuestions(visible, creatorOnly, sharedWithInstructors),
			isInstructor: true,
			want:         true,
		},
		{
			name:         "not visible despite shared responses",
			session:      withQuestions(notVisible, sharedWithInstructors),
			isInstructor: true,
			want:         false,
		},
		{name: "no questions at all", session: visible, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsSessionViewableToUserType(tt.session, tt.isInstructor); got != tt.want {
				t.Errorf("IsSessionViewableToUserType() = %v, want %v", got, tt.want)
			}
		})
	}
}
