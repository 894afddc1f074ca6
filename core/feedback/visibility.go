package feedback

// IsResponseVisibleToStudent reports whether responses to the question are
// visible to students. Four independent visibility paths are tried in order;
// any one of them is sufficient:
//
//  1. responses are explicitly shared with students;
//  2. the recipient is student-reachable (or a team) and responses are shared
//     with the receiver;
//  3. givers answer as whole teams, or responses are shared with the giver's
//     team members;
//  4. responses are shared with the receiver's team members.
func (svc *Service) IsResponseVisibleToStudent(question Question) bool {
	if question.IsResponseVisibleTo(ParticipantStudents) {
		return true
	}
	if (isStudentRecipientType(question.RecipientType, question.GiverType) || question.RecipientType.IsTeam()) &&
		question.IsResponseVisibleTo(ParticipantReceiver) {
		return true
	}
	if question.GiverType == ParticipantTeams || question.IsResponseVisibleTo(ParticipantOwnTeamMembers) {
		return true
	}
	return question.IsResponseVisibleTo(ParticipantReceiverTeamMembers)
}

// IsResponseVisibleToInstructor reports whether responses to the question are
// visible to instructors. Instructors only see what is explicitly shared with them.
func (svc *Service) IsResponseVisibleToInstructor(question Question) bool {
	return question.IsResponseVisibleTo(ParticipantInstructors)
}

// IsSessionForUserTypeToAnswer reports whether the session has any questions
// the given user type must answer.
func (svc *Service) IsSessionForUserTypeToAnswer(session Session, isInstructor bool) bool {
	if !session.IsVisible() {
		return false
	}
	if isInstructor {
		return hasQuestionsForInstructors(session.Questions)
	}
	return hasQuestionsForStudents(session.Questions)
}

// IsSessionViewableToUserType reports whether the session is viewable by the
// given user type: either they have questions to answer, or the session is
// visible and at least one question has responses visible to them.
func (svc *Service) IsSessionViewableToUserType(session Session, isInstructor bool) bool {
	if svc.IsSessionForUserTypeToAnswer(session, isInstructor) {
		return true
	}
	if !session.IsVisible() {
		return false
	}
	for _, question := range session.Questions {
		// one question with visible responses is enough for the entire session
		if !isInstructor && svc.IsResponseVisibleToStudent(question) ||
			isInstructor && svc.IsResponseVisibleToInstructor(question) {
			return true
		}
	}
	return false
}

// students answer questions given by students or by whole teams
func hasQuestionsForStudents(questions []Question) bool {
	for _, q := range questions {
		if q.GiverType == ParticipantStudents || q.GiverType == ParticipantTeams {
			return true
		}
	}
	return false
}

// instructors answer questions given by instructors; SELF-given questions are
// the session creator's alone and do not count here
func hasQuestionsForInstructors(questions []Question) bool {
	for _, q := range questions {
		if q.GiverType == ParticipantInstructors {
			return true
		}
	}
	return false
}
