package dummydb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/user"
)

type (
	DB struct {
		user     *userTables
		feedback *feedbackTables
	}

	userTables struct {
		sync.RWMutex
		students    map[string]*user.Student    // courseID + "/" + email
		instructors map[string]*user.Instructor // courseID + "/" + email
	}

	feedbackTables struct {
		sync.RWMutex
		sessions   map[string]*feedback.Session // courseID + "/" + name
		questions  map[uuid.UUID]*feedback.Question
		responses  map[uuid.UUID]*feedback.Response
		comments   map[uuid.UUID]*feedback.ResponseComment
		extensions map[uuid.UUID]*feedback.DeadlineExtension
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTables{
			students:    make(map[string]*user.Student),
			instructors: make(map[string]*user.Instructor),
		},
		feedback: &feedbackTables{
			sessions:   make(map[string]*feedback.Session),
			questions:  make(map[uuid.UUID]*feedback.Question),
			responses:  make(map[uuid.UUID]*feedback.Response),
			comments:   make(map[uuid.UUID]*feedback.ResponseComment),
			extensions: make(map[uuid.UUID]*feedback.DeadlineExtension),
		},
	}
	return db, nil
}

func key(courseID, name string) string { return courseID + "/" + name }
