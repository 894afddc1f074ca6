package user

// Roster is a snapshot of everyone in a course at the time of an operation,
// with a derived team -> members grouping. It is built fresh per operation
// and never persisted.
type Roster struct {
	students    []Student
	instructors []Instructor

	teamToMembers map[string][]Student
}

func NewRoster(students []Student, instructors []Instructor) Roster {
	teams := make(map[string][]Student)
	for _, s := range students {
		teams[s.Team] = append(teams[s.Team], s)
	}
	return Roster{
		students:      students,
		instructors:   instructors,
		teamToMembers: teams,
	}
}

func (r Roster) Students() []Student       { return r.students }
func (r Roster) Instructors() []Instructor { return r.instructors }

// TeamToMembers returns the derived team grouping. Callers must not mutate it.
func (r Roster) TeamToMembers() map[string][]Student { return r.teamToMembers }

// StudentsInSection returns all students enrolled in the given section.
func (r Roster) StudentsInSection(section string) []Student {
	var students []Student
	for _, s := range r.students {
		if s.Section == section {
			students = append(students, s)
		}
	}
	return students
}

// TeamsInSection returns the names of teams whose members sit in the given section.
func (r Roster) TeamsInSection(section string) []string {
	seen := make(map[string]bool)
	var teams []string
	for _, s := range r.students {
		if s.Section == section && !seen[s.Team] {
			seen[s.Team] = true
			teams = append(teams, s.Team)
		}
	}
	return teams
}
