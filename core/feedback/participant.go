package feedback

// ParticipantType is an enumerated category describing who may answer (giver)
// or be evaluated about (recipient) for a question, and who responses may be shown to.
type ParticipantType string

const (
	ParticipantSelf                        ParticipantType = "SELF"
	ParticipantStudents                    ParticipantType = "STUDENTS"
	ParticipantStudentsExcludingSelf       ParticipantType = "STUDENTS_EXCLUDING_SELF"
	ParticipantStudentsInSameSection       ParticipantType = "STUDENTS_IN_SAME_SECTION"
	ParticipantInstructors                 ParticipantType = "INSTRUCTORS"
	ParticipantTeams                       ParticipantType = "TEAMS"
	ParticipantTeamsExcludingSelf          ParticipantType = "TEAMS_EXCLUDING_SELF"
	ParticipantTeamsInSameSection          ParticipantType = "TEAMS_IN_SAME_SECTION"
	ParticipantOwnTeam                     ParticipantType = "OWN_TEAM"
	ParticipantOwnTeamMembers              ParticipantType = "OWN_TEAM_MEMBERS"
	ParticipantOwnTeamMembersIncludingSelf ParticipantType = "OWN_TEAM_MEMBERS_INCLUDING_SELF"
	ParticipantReceiver                    ParticipantType = "RECEIVER"
	ParticipantReceiverTeamMembers         ParticipantType = "RECEIVER_TEAM_MEMBERS"
	ParticipantGiver                       ParticipantType = "GIVER"
	ParticipantNone                        ParticipantType = "NONE"
)

// IsTeam reports whether the type denotes a team rather than an individual.
func (p ParticipantType) IsTeam() bool {
	switch p {
	case ParticipantTeams, ParticipantTeamsExcludingSelf, ParticipantTeamsInSameSection, ParticipantOwnTeam:
		return true
	}
	return false
}

// isStudentRecipientType reports whether a question addressed at recipientType
// structurally reaches students. A GIVER recipient only reaches students when
// the givers themselves are students.
func isStudentRecipientType(recipientType, giverType ParticipantType) bool {
	switch recipientType {
	case ParticipantStudents,
		ParticipantStudentsExcludingSelf,
		ParticipantStudentsInSameSection,
		ParticipantOwnTeamMembers,
		ParticipantOwnTeamMembersIncludingSelf:
		return true
	case ParticipantGiver:
		return giverType == ParticipantStudents
	}
	return false
}
