package feedback

import (
	"context"
	"fmt"
	"sort"

	"github.com/trezcool/maoni/core/user"
)

// RepairRankResponses makes the rankings recorded for every rank-recipients
// question of the course consistent with the given roster: each giver's ranks
// are renumbered into a dense 1..N permutation, preserving their relative order.
// Running it again with an unchanged roster produces no further updates.
func (svc *Service) RepairRankResponses(ctx context.Context, courseID string, roster user.Roster) error {
	questions, err := svc.repo.GetQuestionsForCourseWithType(ctx, courseID, QuestionRankRecipients)
	if err != nil {
		return err
	}
	for _, question := range questions {
		if err := svc.makeRankResponsesConsistent(ctx, question, roster); err != nil {
			return err
		}
	}
	return nil
}

// makeRankResponsesConsistent renumbers the rankings by each giver of the
// question. Fails silently if the question is not a rank-recipients question.
func (svc *Service) makeRankResponsesConsistent(ctx context.Context, question Question, roster user.Roster) error {
	if question.Type != QuestionRankRecipients {
		return nil
	}

	var updates []Response

	switch question.GiverType {
	case ParticipantInstructors, ParticipantSelf:
		for i := range roster.Instructors() {
			instructor := roster.Instructors()[i]
			numRecipients := countQuestionRecipients(question, &instructor, nil, roster)
			responses, err := svc.repo.GetResponsesFromGiverForQuestion(ctx, question.ID, instructor.Email)
			if err != nil {
				return err
			}
			updates = append(updates, svc.rankRenumberingUpdates(responses, numRecipients)...)
		}

	case ParticipantTeams, ParticipantTeamsInSameSection:
		for team, members := range roster.TeamToMembers() {
			firstMember := members[0]
			numRecipients := countQuestionRecipients(question, nil, &firstMember, roster)
			responses, err := svc.repo.GetResponsesFromTeamForQuestion(ctx, question.ID, team)
			if err != nil {
				return err
			}
			updates = append(updates, svc.rankRenumberingUpdates(responses, numRecipients)...)
		}

	default:
		for i := range roster.Students() {
			student := roster.Students()[i]
			numRecipients := countQuestionRecipients(question, nil, &student, roster)
			responses, err := svc.repo.GetResponsesFromGiverForQuestion(ctx, question.ID, student.Email)
			if err != nil {
				return err
			}
			updates = append(updates, svc.rankRenumberingUpdates(responses, numRecipients)...)
		}
	}

	// A failing update cannot occur if the cascade ran to completion before us;
	// one slipping through is logged and skipped so the rest of the batch still lands.
	for _, update := range updates {
		if _, err := svc.repo.UpdateResponse(ctx, update); err != nil {
			svc.logger.Error(fmt.Sprintf("updating rank response %s after roster change: %v", update.ID, err), err)
		}
	}
	return nil
}

// rankRenumberingUpdates compresses one giver's existing ranks into a dense
// 1..k sequence (k = number of ranked responses), keeping their relative order.
// Responses already holding their target rank yield no update, which is what
// makes the repair idempotent. Responses whose recipient left the roster must
// be gone by the time this runs; more ranked responses than recipients means
// the cascade did not hold up its end, so it is reported and compressed anyway.
func (svc *Service) rankRenumberingUpdates(responses []Response, numRecipients int) []Response {
	ranked := make([]Response, 0, len(responses))
	for _, response := range responses {
		if _, ok := response.Details.(RankRecipientsDetails); ok {
			ranked = append(ranked, response)
		}
	}
	if len(ranked) > numRecipients {
		svc.logger.Warn(fmt.Sprintf("%d ranked responses left for %d recipients; compressing anyway", len(ranked), numRecipients))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Details.(RankRecipientsDetails).Rank < ranked[j].Details.(RankRecipientsDetails).Rank
	})

	var updates []Response
	for i := range ranked {
		newRank := i + 1
		if ranked[i].Details.(RankRecipientsDetails).Rank == newRank {
			continue
		}
		update := ranked[i]
		update.Details = RankRecipientsDetails{Rank: newRank}
		updates = append(updates, update)
	}
	return updates
}

// countQuestionRecipients computes how many recipients the giver can address
// for the question under the current roster. Exactly one of instructorGiver
// and studentGiver is set, matching the question's giver type.
func countQuestionRecipients(question Question, instructorGiver *user.Instructor, studentGiver *user.Student, roster user.Roster) int {
	switch question.RecipientType {
	case ParticipantSelf, ParticipantGiver, ParticipantOwnTeam:
		return 1

	case ParticipantNone:
		return 0

	case ParticipantStudents:
		return len(roster.Students())

	case ParticipantStudentsExcludingSelf:
		n := len(roster.Students())
		if studentGiver != nil {
			n--
		}
		return n

	case ParticipantStudentsInSameSection:
		if studentGiver == nil {
			return len(roster.Students())
		}
		return len(roster.StudentsInSection(studentGiver.Section)) - 1 // excluding the giver

	case ParticipantInstructors:
		n := len(roster.Instructors())
		if instructorGiver != nil {
			n--
		}
		return n

	case ParticipantTeams, ParticipantTeamsExcludingSelf:
		n := len(roster.TeamToMembers())
		if studentGiver != nil {
			n-- // a team never ranks itself
		}
		return n

	case ParticipantTeamsInSameSection:
		if studentGiver == nil {
			return len(roster.TeamToMembers())
		}
		return len(roster.TeamsInSection(studentGiver.Section)) - 1

	case ParticipantOwnTeamMembers:
		if studentGiver == nil {
			return 0
		}
		return len(roster.TeamToMembers()[studentGiver.Team]) - 1

	case ParticipantOwnTeamMembersIncludingSelf:
		if studentGiver == nil {
			return 0
		}
		return len(roster.TeamToMembers()[studentGiver.Team])
	}
	return 0
}
