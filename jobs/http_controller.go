package jobs

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/jobhub/auth"
)

// ErrRecruiterOnly gates posting on the recruiter role.
var ErrRecruiterOnly = errors.New("only recruiters can post jobs", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode("RECRUITER_ONLY")

// Controller exposes the listing routes. Browsing is public; posting
// requires an authenticated recruiter and runs behind the auth middleware.
type Controller struct {
	Logger auth.Logger
	Repo   Repository
}

// NewController builds the listing controller.
func NewController(repo Repository, logger auth.Logger) *Controller {
	if logger == nil {
		panic("Missing logger in jobs controller...")
	}

	if repo == nil {
		panic("Missing repository in jobs controller...")
	}

	return &Controller{Logger: logger, Repo: repo}
}

// RegisterRoutes mounts the listing routes on the given group.
func RegisterRoutes(r fiber.Router, controller *Controller, protected fiber.Handler) {
	r.Get("/", controller.ListGet)
	r.Post("/", protected, controller.CreatePost)
}

// CreateJobRequest is the listing creation payload.
type CreateJobRequest struct {
	Title       string `form:"title" json:"title"`
	Company     string `form:"company" json:"company"`
	Location    string `form:"location" json:"location"`
	Description string `form:"description" json:"description"`
}

// Validate will run validation rules.
func (r CreateJobRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Company, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
	)
}

func (ctl *Controller) ListGet(c *fiber.Ctx) error {
	records, err := ctl.Repo.ListRecent(c.UserContext(), 50)
	if err != nil {
		ctl.Logger.Error("jobs list error", "error", err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to list jobs")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"jobs": records,
	})
}

func (ctl *Controller) CreatePost(c *fiber.Ctx) error {
	user, ok := auth.UserFromLocals(c)
	if !ok {
		return auth.ErrUnauthorized
	}

	if user.Role != auth.RoleRecruiter {
		return ErrRecruiterOnly
	}

	payload := new(CreateJobRequest)
	if err := c.BodyParser(payload); err != nil {
		ctl.Logger.Error("job create parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	job := &Job{
		Title:       payload.Title,
		Company:     payload.Company,
		Location:    payload.Location,
		Description: payload.Description,
		PostedBy:    user.ID,
	}

	record, err := ctl.Repo.Post(c.UserContext(), job)
	if err != nil {
		ctl.Logger.Error("job create error", "error", err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to create job")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Job posted",
		"job":     record,
	})
}
