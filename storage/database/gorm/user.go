package gormrepos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trezcool/maoni/core/user"
)

type userRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateStudent(ctx context.Context, student user.Student) (user.Student, error) {
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	m := newStudentModel(student)
	if err := repo.db.WithContext(ctx).Create(&m).Error; err != nil {
		return user.Student{}, trapUniqueErr(err, user.ErrUserExists)
	}
	return m.toDomain(), nil
}

func (repo *userRepository) CreateInstructor(ctx context.Context, instructor user.Instructor) (user.Instructor, error) {
	if instructor.ID == uuid.Nil {
		instructor.ID = uuid.New()
	}
	m := newInstructorModel(instructor)
	if err := repo.db.WithContext(ctx).Create(&m).Error; err != nil {
		return user.Instructor{}, trapUniqueErr(err, user.ErrUserExists)
	}
	return m.toDomain(), nil
}

func (repo *userRepository) GetStudent(ctx context.Context, courseID, email string) (user.Student, error) {
	var m studentModel
	err := repo.db.WithContext(ctx).
		Where("course_id = ? AND email = ?", courseID, email).
		First(&m).Error
	if err != nil {
		return user.Student{}, trapNotFoundErr(err, user.ErrNotFound)
	}
	return m.toDomain(), nil
}

func (repo *userRepository) GetStudentsForCourse(ctx context.Context, courseID string) ([]user.Student, error) {
	var ms []studentModel
	if err := repo.db.WithContext(ctx).Where("course_id = ?", courseID).Find(&ms).Error; err != nil {
		return nil, err
	}
	students := make([]user.Student, 0, len(ms))
	for _, m := range ms {
		students = append(students, m.toDomain())
	}
	return students, nil
}

func (repo *userRepository) GetInstructor(ctx context.Context, courseID, email string) (user.Instructor, error) {
	var m instructorModel
	err := repo.db.WithContext(ctx).
		Where("course_id = ? AND email = ?", courseID, email).
		First(&m).Error
	if err != nil {
		return user.Instructor{}, trapNotFoundErr(err, user.ErrNotFound)
	}
	return m.toDomain(), nil
}

func (repo *userRepository) GetInstructorByEmail(ctx context.Context, email string) (user.Instructor, error) {
	var m instructorModel
	err := repo.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if err != nil {
		return user.Instructor{}, trapNotFoundErr(err, user.ErrNotFound)
	}
	return m.toDomain(), nil
}

func (repo *userRepository) GetInstructorsForCourse(ctx context.Context, courseID string) ([]user.Instructor, error) {
	var ms []instructorModel
	if err := repo.db.WithContext(ctx).Where("course_id = ?", courseID).Find(&ms).Error; err != nil {
		return nil, err
	}
	instructors := make([]user.Instructor, 0, len(ms))
	for _, m := range ms {
		instructors = append(instructors, m.toDomain())
	}
	return instructors, nil
}

func (repo *userRepository) UpdateInstructor(ctx context.Context, instructor user.Instructor) (user.Instructor, error) {
	m := newInstructorModel(instructor)
	res := repo.db.WithContext(ctx).
		Model(&instructorModel{}).
		Where("course_id = ? AND email = ?", m.CourseID, m.Email).
		Select("*").Omit("id", "course_id", "email", "created_at").
		Updates(m)
	if res.Error != nil {
		return user.Instructor{}, res.Error
	}
	if res.RowsAffected == 0 {
		return user.Instructor{}, user.ErrNotFound
	}
	return repo.GetInstructor(ctx, instructor.CourseID, instructor.Email)
}

func (repo *userRepository) DeleteStudent(ctx context.Context, courseID, email string) error {
	return repo.db.WithContext(ctx).
		Where("course_id = ? AND email = ?", courseID, email).
		Delete(&studentModel{}).Error
}

func (repo *userRepository) DeleteInstructor(ctx context.Context, courseID, email string) error {
	return repo.db.WithContext(ctx).
		Where("course_id = ? AND email = ?", courseID, email).
		Delete(&instructorModel{}).Error
}
