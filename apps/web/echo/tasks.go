package echoweb

import (
	"context"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/project"
	"github.com/rogerjeasy/letusconnect/core/session"
)

const tasksPath = "/admin/tasks"

// participantSelect feeds the participant_select partial.
type participantSelect struct {
	Name     string
	Users    []project.Participant
	Selected []string
}

type tasksView struct {
	Values   map[string]string
	Errors   map[string]string
	Roles    []string
	Assignee participantSelect
	Drafts   []project.Task
}

type tasksApi struct {
	sessions session.Store
	roles    []string
	logger   core.Logger
}

func registerTasks(g *echo.Group, opts *Options) {
	api := tasksApi{sessions: opts.Sessions, roles: opts.Options.ProjectRoles, logger: opts.Logger}

	g.GET("", api.show)
	g.POST("", api.assign)
}

// members lists the users with a stored session, one entry per user.
func (api *tasksApi) members(ctx context.Context) (project.Project, error) {
	recs, err := api.sessions.List(ctx)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "listing members")
	}
	seen := make(map[string]bool, len(recs))
	var p project.Project
	for _, rec := range recs {
		usr := rec.User
		if usr.ID == "" || seen[usr.ID] {
			continue
		}
		seen[usr.ID] = true
		p.Participants = append(p.Participants, project.Participant{
			UserID:         usr.ID,
			Username:       usr.Username,
			Email:          usr.Email,
			ProfilePicture: usr.ProfilePicture,
		})
	}
	sort.SliceStable(p.Participants, func(i, j int) bool {
		return p.Participants[i].Username < p.Participants[j].Username
	})
	return p, nil
}

func (api *tasksApi) render(ctx echo.Context, code int, p project.Project, view tasksView) error {
	view.Roles = api.roles
	view.Assignee.Name = "assignedTo"
	view.Assignee.Users = p.Participants
	view.Drafts = getWorkspace(ctx).taskDrafts()
	return render(ctx, code, "tasks", "Task Assignment", view)
}

// Handlers

func (api *tasksApi) show(ctx echo.Context) error {
	p, err := api.members(ctx.Request().Context())
	if err != nil {
		return err
	}
	return api.render(ctx, http.StatusOK, p, tasksView{})
}

func (api *tasksApi) assign(ctx echo.Context) error {
	params, err := ctx.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data.").SetInternal(err)
	}
	p, err := api.members(ctx.Request().Context())
	if err != nil {
		return err
	}

	title, role, keys := params.Get("title"), params.Get("role"), params["assignedTo"]
	task, err := p.Assign(title, keys, role, api.roles)
	if err != nil {
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		view := tasksView{
			Values:   map[string]string{"title": title, "role": role},
			Errors:   vErr.FieldMap(),
			Assignee: participantSelect{Selected: keys},
		}
		return api.render(ctx, submitStatus(err), p, view)
	}

	getWorkspace(ctx).addTask(task)
	api.logger.Info("task drafted", map[string]interface{}{"title": task.Title, "assignees": len(task.AssignedTo)})
	return ctx.Redirect(http.StatusSeeOther, tasksPath)
}
