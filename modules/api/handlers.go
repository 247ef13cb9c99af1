package api

import (
	"time"

	"github.com/example/task-tracker/domain/timeentry"
	"github.com/example/task-tracker/modules/account"
	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/task"
	"github.com/example/task-tracker/modules/timetracking"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Ports are the module APIs the HTTP layer drives.
type Ports struct {
	Accounts account.AccountPort
	Tasks    task.TaskPort
	Timers   timetracking.TimerPort
	Activity activity.ActivityPort
}

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	ports  Ports
	tokens *TokenManager
	logger types.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ports Ports, tokens *TokenManager, logger types.Logger) *Handlers {
	return &Handlers{
		ports:  ports,
		tokens: tokens,
		logger: logger,
	}
}

// Health reports that the HTTP layer is serving.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

// Register creates an account with its Inbox and returns an access token.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.ports.Accounts.RegisterUser(c.UserContext(), &account.RegisterUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.fail(c, err)
	}

	token, err := h.tokens.Issue(resp.User.ID, resp.User.Email)
	if err != nil {
		return h.fail(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.tokens.TTLSeconds()) * time.Second),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		User:        resp.User,
		Inbox:       resp.Inbox,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.tokens.TTLSeconds(),
	})
}

// Me returns the authenticated user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	u, err := h.ports.Accounts.GetUser(c.UserContext(), principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(u)
}

// ListLists returns the principal's lists.
func (h *Handlers) ListLists(c *fiber.Ctx) error {
	lists, err := h.ports.Accounts.ListLists(c.UserContext(), principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"lists": lists})
}

// CreateList adds a list.
func (h *Handlers) CreateList(c *fiber.Ctx) error {
	var req CreateListRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	l, err := h.ports.Accounts.CreateList(c.UserContext(), &account.CreateListRequest{
		UserID:    principal(c),
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(l)
}

// DeleteList removes a list with its tasks and their time entries.
func (h *Handlers) DeleteList(c *fiber.Ctx) error {
	deleted, err := h.ports.Accounts.DeleteList(c.UserContext(), principal(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true, "deleted_task_ids": deleted})
}

// ListTasks returns the principal's tasks, filtered by list_id, status and
// priority query parameters.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.ports.Tasks.ListTasks(c.UserContext(), &task.ListTasksRequest{
		UserID:   principal(c),
		ListID:   c.Query("list_id"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

// CreateTask adds a task to one of the principal's lists.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var in task.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	t, err := h.ports.Tasks.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		UserID:      principal(c),
		CreateInput: in,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// GetTask returns one task.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	t, err := h.ports.Tasks.GetTask(c.UserContext(), principal(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

// UpdateTask applies a partial update. Fields absent from the body are kept.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var ch task.Changes
	if err := c.BodyParser(&ch); err != nil {
		return badRequest(c, "Invalid request body")
	}
	t, err := h.ports.Tasks.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		UserID:  principal(c),
		TaskID:  c.Params("id"),
		Changes: ch,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

// SetTaskStatus moves a task to another status.
func (h *Handlers) SetTaskStatus(c *fiber.Ctx) error {
	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	t, err := h.ports.Tasks.SetStatus(c.UserContext(), &task.SetStatusRequest{
		UserID: principal(c),
		TaskID: c.Params("id"),
		Status: req.Status,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

// DeleteTask removes a task and its time entries.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	if err := h.ports.Tasks.DeleteTask(c.UserContext(), principal(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// TaskTimeSummary returns the tracked total of a task.
func (h *Handlers) TaskTimeSummary(c *fiber.Ctx) error {
	summary, err := h.ports.Timers.TaskSummary(c.UserContext(), principal(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(summary)
}

// ListTimeEntries returns time entries, optionally for one task or only the
// running one.
func (h *Handlers) ListTimeEntries(c *fiber.Ctx) error {
	entries, err := h.ports.Timers.ListEntries(c.UserContext(), &timetracking.ListEntriesRequest{
		UserID:     principal(c),
		TaskID:     c.Query("task_id"),
		OnlyActive: c.QueryBool("active"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}

// ActiveTimer returns the running entry with its live elapsed time.
func (h *Handlers) ActiveTimer(c *fiber.Ctx) error {
	resp, err := h.ports.Timers.ActiveTimer(c.UserContext(), principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ActiveTimerResponse{
		Entry:          resp.Entry,
		ElapsedSeconds: resp.ElapsedSeconds,
		FormattedTime:  timeentry.FormatDuration(resp.ElapsedSeconds),
	})
}

// StartTimer starts tracking time on a task.
func (h *Handlers) StartTimer(c *fiber.Ctx) error {
	var req StartTimerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.TaskID == "" {
		return badRequest(c, "task_id is required")
	}
	e, err := h.ports.Timers.StartTimer(c.UserContext(), &timetracking.StartTimerRequest{
		UserID:      principal(c),
		TaskID:      req.TaskID,
		Description: req.Description,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

// StopTimer stops a running entry.
func (h *Handlers) StopTimer(c *fiber.Ctx) error {
	e, err := h.ports.Timers.StopTimer(c.UserContext(), principal(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(e)
}

// DescribeTimeEntry edits an entry's description.
func (h *Handlers) DescribeTimeEntry(c *fiber.Ctx) error {
	var req DescribeEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	e, err := h.ports.Timers.DescribeEntry(c.UserContext(), &timetracking.DescribeEntryRequest{
		UserID:      principal(c),
		EntryID:     c.Params("id"),
		Description: req.Description,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(e)
}

// Activity returns the principal's recent activity.
func (h *Handlers) Activity(c *fiber.Ctx) error {
	entries, err := h.ports.Activity.RecentActivity(c.UserContext(), principal(c), c.QueryInt("limit", activity.DefaultLimit))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"activity": entries})
}
