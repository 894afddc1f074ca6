package user

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/maoni/core"
)

// Instructor privilege roles
const (
	RoleCoOwner  = "co-owner"
	RoleManager  = "manager"
	RoleObserver = "observer"
)

var AllRoles = []string{RoleCoOwner, RoleManager, RoleObserver}

// User holds the fields common to students and instructors.
// A user is identified by email within a course.
type User struct {
	ID        uuid.UUID `json:"id"`
	CourseID  string    `json:"course_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Student struct {
	User
	Team     string `json:"team"`
	Section  string `json:"section"`
	Comments string `json:"comments,omitempty"`
}

type Instructor struct {
	User
	DisplayName           string    `json:"display_name"`
	IsDisplayedToStudents bool      `json:"is_displayed_to_students"`
	Role                  string    `json:"role"`
	PasswordHash          []byte    `json:"-"`
	LastLogin             time.Time `json:"last_login"` // UTC
}

func (i *Instructor) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	i.PasswordHash = hash
	return nil
}

func (i *Instructor) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(i.PasswordHash, []byte(pwd))
}

// HasCoOwnerPrivileges reports whether the instructor co-owns the course.
func (i Instructor) HasCoOwnerPrivileges() bool {
	return i.Role == RoleCoOwner
}

// SortStudentsByName sorts students alphabetically by name, case-insensitively.
func SortStudentsByName(students []Student) {
	sort.SliceStable(students, func(i, j int) bool {
		return strings.ToLower(students[i].Name) < strings.ToLower(students[j].Name)
	})
}

// SortInstructorsByName sorts instructors alphabetically by name, case-insensitively.
func SortInstructorsByName(instructors []Instructor) {
	sort.SliceStable(instructors, func(i, j int) bool {
		return strings.ToLower(instructors[i].Name) < strings.ToLower(instructors[j].Name)
	})
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	CourseID string `json:"course_id" validate:"required,courseid"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Team     string `json:"team" validate:"required"`
	Section  string `json:"section"`
	Comments string `json:"comments"`
}

func (ns *NewStudent) Validate(validate Validator) error {
	ns.CourseID = core.CleanString(ns.CourseID)
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Team = core.CleanString(ns.Team)
	ns.Section = core.CleanString(ns.Section)
	return validate.Struct(ns)
}

// NewInstructor contains information needed to register a new Instructor.
type NewInstructor struct {
	CourseID    string `json:"course_id" validate:"required,courseid"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" validate:"required,oneof=co-owner manager observer"`
	Password    string `json:"password" validate:"omitempty,min=8"`
}

func (ni *NewInstructor) Validate(validate Validator) error {
	ni.CourseID = core.CleanString(ni.CourseID)
	ni.Name = core.CleanString(ni.Name)
	ni.Email = core.CleanString(ni.Email, true /* lower */)
	ni.DisplayName = core.CleanString(ni.DisplayName)
	if ni.DisplayName == "" {
		ni.DisplayName = ni.Name
	}
	return validate.Struct(ni)
}

// Validator is the subset of *validator.Validate we need.
type Validator interface {
	Struct(s interface{}) error
}
