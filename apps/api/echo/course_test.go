package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/user"
	emailsvc "github.com/trezcool/maoni/services/email"
	dummydb "github.com/trezcool/maoni/storage/database/dummy"
)

const courseID = "demo.course-101"

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

type testServer struct {
	*Server
	conf    *core.Config
	usrSvc  *user.Service
	fbSvc   *feedback.Service
	fbRepo  feedback.Repository
}

func setup(t *testing.T) testServer {
	t.Helper()

	conf := &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Maoni",
		SecretKey: "secret",
		Server:    core.ServerConfig{JWTExpirationDelta: time.Hour},
	}

	db, err := dummydb.Open()
	require.NoError(t, err)
	fbRepo := dummydb.NewFeedbackRepository(db)
	usrRepo := dummydb.NewUserRepository(db)

	logger := testLogger{}
	fbSvc := feedback.NewService(fbRepo, logger)
	usrSvc := user.NewService(usrRepo, fbSvc, emailsvc.NewConsoleServiceMock(conf), logger, conf)

	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)

	s := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		UserSvc:     usrSvc,
		FeedbackSvc: fbSvc,
		Validate:    validate,
		Translator:  translator,
	})
	return testServer{Server: s, conf: conf, usrSvc: usrSvc, fbSvc: fbSvc, fbRepo: fbRepo}
}

func (ts testServer) createInstructor(t *testing.T, name, email, role, pwd string) user.Instructor {
	t.Helper()
	instructor, err := ts.usrSvc.CreateInstructor(context.Background(), user.NewInstructor{
		CourseID: courseID,
		Name:     name,
		Email:    email,
		Role:     role,
		Password: pwd,
	})
	require.NoError(t, err)
	return instructor
}

func (ts testServer) createStudent(t *testing.T, name, email, team string) user.Student {
	t.Helper()
	student, err := ts.usrSvc.CreateStudent(context.Background(), user.NewStudent{
		CourseID: courseID,
		Name:     name,
		Email:    email,
		Team:     team,
	})
	require.NoError(t, err)
	return student
}

func (ts testServer) token(t *testing.T, instructor user.Instructor) string {
	t.Helper()
	token, err := GenerateToken(ts.conf, GetInstructorClaims(ts.conf, instructor))
	require.NoError(t, err)
	return token
}

func (ts testServer) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	ts := setup(t)
	ts.createInstructor(t, "Prof", "prof@test.edu", user.RoleCoOwner, "s3cr3tpwd")

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "valid credentials", body: `{"email":"prof@test.edu","password":"s3cr3tpwd"}`, wantCode: http.StatusOK},
		{name: "wrong password", body: `{"email":"prof@test.edu","password":"nope"}`, wantCode: http.StatusBadRequest},
		{name: "unknown email", body: `{"email":"ghost@test.edu","password":"s3cr3tpwd"}`, wantCode: http.StatusBadRequest},
		{name: "missing fields", body: `{}`, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.request(t, http.MethodPost, "/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				var res LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
				assert.NotEmpty(t, res.Token)
			}
		})
	}
}

func TestDestroyStudent(t *testing.T) {
	ts := setup(t)
	ctx := context.Background()

	coOwner := ts.createInstructor(t, "Prof", "prof@test.edu", user.RoleCoOwner, "s3cr3tpwd")
	observer := ts.createInstructor(t, "Obs", "obs@test.edu", user.RoleObserver, "s3cr3tpwd")
	student := ts.createStudent(t, "Alice", "alice@test.edu", "Team A")

	t.Run("requires authentication", func(t *testing.T) {
		rec := ts.request(t, http.MethodDelete, "/v1/courses/"+courseID+"/students/"+student.Email, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("observers may not delete", func(t *testing.T) {
		rec := ts.request(t, http.MethodDelete, "/v1/courses/"+courseID+"/students/"+student.Email, ts.token(t, observer), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("co-owner deletes with cascade", func(t *testing.T) {
		rec := ts.request(t, http.MethodDelete, "/v1/courses/"+courseID+"/students/"+student.Email, ts.token(t, coOwner), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := ts.usrSvc.GetStudent(ctx, courseID, student.Email)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("unknown student still succeeds", func(t *testing.T) {
		rec := ts.request(t, http.MethodDelete, "/v1/courses/"+courseID+"/students/ghost@test.edu", ts.token(t, coOwner), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestQuerySessions(t *testing.T) {
	ts := setup(t)
	ctx := context.Background()

	coOwner := ts.createInstructor(t, "Prof", "prof@test.edu", user.RoleCoOwner, "s3cr3tpwd")

	now := time.Now().UTC()
	_, err := ts.fbRepo.CreateSession(ctx, feedback.Session{
		CourseID:           courseID,
		Name:               "Midterm Review",
		CreatorEmail:       coOwner.Email,
		StartTime:          now.Add(-time.Hour),
		EndTime:            now.Add(24 * time.Hour),
		SessionVisibleFrom: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	_, err = ts.fbRepo.CreateQuestion(ctx, feedback.Question{
		CourseID:      courseID,
		SessionName:   "Midterm Review",
		Type:          feedback.QuestionText,
		GiverType:     feedback.ParticipantInstructors,
		RecipientType: feedback.ParticipantStudents,
	})
	require.NoError(t, err)

	token := ts.token(t, coOwner)

	t.Run("viewable to instructors", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/courses/"+courseID+"/sessions", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var sessions []feedback.Session
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
		assert.Len(t, sessions, 1)
	})

	t.Run("not viewable to students", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/courses/"+courseID+"/sessions?as=student", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var sessions []feedback.Session
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
		assert.Empty(t, sessions)
	})
}
