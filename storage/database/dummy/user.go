package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/maoni/core/user"
)

type userRepository struct {
	db *userTables
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) CreateStudent(ctx context.Context, student user.Student) (user.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	k := key(student.CourseID, student.Email)
	if _, ok := repo.db.students[k]; ok {
		return user.Student{}, user.ErrUserExists
	}
	student.ID = uuid.New()
	repo.db.students[k] = &student
	return student, nil
}

func (repo *userRepository) CreateInstructor(ctx context.Context, instructor user.Instructor) (user.Instructor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	k := key(instructor.CourseID, instructor.Email)
	if _, ok := repo.db.instructors[k]; ok {
		return user.Instructor{}, user.ErrUserExists
	}
	instructor.ID = uuid.New()
	repo.db.instructors[k] = &instructor
	return instructor, nil
}

func (repo *userRepository) GetStudent(ctx context.Context, courseID, email string) (user.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if student, ok := repo.db.students[key(courseID, email)]; ok {
		return *student, nil
	}
	return user.Student{}, user.ErrNotFound
}

func (repo *userRepository) GetStudentsForCourse(ctx context.Context, courseID string) ([]user.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]user.Student, 0)
	for _, s := range repo.db.students {
		if s.CourseID == courseID {
			students = append(students, *s)
		}
	}
	return students, nil
}

func (repo *userRepository) GetInstructor(ctx context.Context, courseID, email string) (user.Instructor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if instructor, ok := repo.db.instructors[key(courseID, email)]; ok {
		return *instructor, nil
	}
	return user.Instructor{}, user.ErrNotFound
}

func (repo *userRepository) GetInstructorByEmail(ctx context.Context, email string) (user.Instructor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, instructor := range repo.db.instructors {
		if instructor.Email == email {
			return *instructor, nil
		}
	}
	return user.Instructor{}, user.ErrNotFound
}

func (repo *userRepository) GetInstructorsForCourse(ctx context.Context, courseID string) ([]user.Instructor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	instructors := make([]user.Instructor, 0)
	for _, i := range repo.db.instructors {
		if i.CourseID == courseID {
			instructors = append(instructors, *i)
		}
	}
	return instructors, nil
}

func (repo *userRepository) UpdateInstructor(ctx context.Context, instructor user.Instructor) (user.Instructor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	k := key(instructor.CourseID, instructor.Email)
	if _, ok := repo.db.instructors[k]; !ok {
		return user.Instructor{}, user.ErrNotFound
	}
	repo.db.instructors[k] = &instructor
	return instructor, nil
}

func (repo *userRepository) DeleteStudent(ctx context.Context, courseID, email string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.students, key(courseID, email))
	return nil
}

func (repo *userRepository) DeleteInstructor(ctx context.Context, courseID, email string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.instructors, key(courseID, email))
	return nil
}
