package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/user"
)

type courseApi struct {
	usrSvc   *user.Service
	fbSvc    *feedback.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := courseApi{
		usrSvc:   deps.UserSvc,
		fbSvc:    deps.FeedbackSvc,
		validate: deps.Validate,
	}

	cg := g.Group("/courses/:courseID", jwt)

	cg.GET("/sessions", api.querySessions)
	cg.POST("/sessions/:name/publish", api.publishSession, roleMiddleware(user.RoleCoOwner, user.RoleManager))

	cg.GET("/students", api.queryStudents)
	cg.POST("/students", api.createStudent, roleMiddleware(user.RoleCoOwner, user.RoleManager))
	cg.DELETE("/students/:email", api.destroyStudent, roleMiddleware(user.RoleCoOwner))

	cg.POST("/instructors", api.createInstructor, roleMiddleware(user.RoleCoOwner))

	cg.POST("/repair-ranks", api.repairRanks, roleMiddleware(user.RoleCoOwner, user.RoleManager))
}

// Handlers

// querySessions returns the course's sessions viewable to the requested user
// type ("student" or "instructor"; instructor by default).
func (api *courseApi) querySessions(ctx echo.Context) error {
	courseID := ctx.Param("courseID")
	isInstructor := ctx.QueryParam("as") != "student"

	sessions, err := api.fbSvc.GetSessionsForCourse(ctx.Request().Context(), courseID)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}

	viewable := make([]feedback.Session, 0, len(sessions))
	for _, session := range sessions {
		if api.fbSvc.IsSessionViewableToUserType(session, isInstructor) {
			viewable = append(viewable, session)
		}
	}
	return ctx.JSON(http.StatusOK, viewable)
}

func (api *courseApi) publishSession(ctx echo.Context) error {
	session, err := api.fbSvc.PublishSession(ctx.Request().Context(), ctx.Param("courseID"), ctx.Param("name"))
	if err != nil {
		if errors.Cause(err) == feedback.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "publishing session")
	}
	return ctx.JSON(http.StatusOK, session)
}

func (api *courseApi) queryStudents(ctx echo.Context) error {
	students, err := api.usrSvc.GetStudentsForCourse(ctx.Request().Context(), ctx.Param("courseID"))
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *courseApi) createStudent(ctx echo.Context) error {
	var data user.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	data.CourseID = ctx.Param("courseID")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	student, err := api.usrSvc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == user.ErrUserExists {
			return core.NewValidationError(user.ErrUserExists)
		}
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, student)
}

// destroyStudent removes a student and everything that depends on them, then
// renumbers the remaining rankings. Unknown students yield success as well.
func (api *courseApi) destroyStudent(ctx echo.Context) error {
	err := api.usrSvc.DeleteStudentCascade(ctx.Request().Context(), ctx.Param("courseID"), ctx.Param("email"))
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) createInstructor(ctx echo.Context) error {
	var data user.NewInstructor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInstructor")
	}
	data.CourseID = ctx.Param("courseID")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	instructor, err := api.usrSvc.CreateInstructor(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == user.ErrUserExists {
			return core.NewValidationError(user.ErrUserExists)
		}
		return errors.Wrap(err, "creating instructor")
	}
	return ctx.JSON(http.StatusCreated, instructor)
}

func (api *courseApi) repairRanks(ctx echo.Context) error {
	courseID := ctx.Param("courseID")
	reqCtx := ctx.Request().Context()

	roster, err := api.usrSvc.Roster(reqCtx, courseID)
	if err != nil {
		return errors.Wrap(err, "building course roster")
	}
	if err = api.fbSvc.RepairRankResponses(reqCtx, courseID, roster); err != nil {
		return errors.Wrap(err, "repairing rank responses")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Rankings are consistent with the current roster."})
}
