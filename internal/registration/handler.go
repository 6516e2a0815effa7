package registration

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/wichananm65/user-registration/internal/user"
)

const sessionCookie = "registration_session"

type Handler struct {
	store   *Store
	creator UserCreator
}

// draftView is the string form of a draft used by the templates.
type draftView struct {
	Name        string
	DateOfBirth string
	Gender      string
	PhoneNumber string
}

func NewHandler(store *Store, creator UserCreator) *Handler {
	return &Handler{store: store, creator: creator}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/", h.showEntry)
	app.Post("/", h.submitEntry)
	app.Get("/confirmation", h.showConfirmation)
	app.Post("/confirmation", h.submitConfirmation)
	app.Get("/complete", h.showComplete)
}

// lookup returns the caller's flow without starting a new one.
func (h *Handler) lookup(c *fiber.Ctx) (*Flow, bool) {
	id := c.Cookies(sessionCookie)
	if id == "" {
		return nil, false
	}
	return h.store.Get(id)
}

// flow returns the caller's flow, starting one when the cookie is missing or
// unknown.
func (h *Handler) flow(c *fiber.Ctx) (string, *Flow) {
	if id := c.Cookies(sessionCookie); id != "" {
		if f, ok := h.store.Get(id); ok {
			return id, f
		}
	}

	id, f := h.store.Start()
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id, f
}

func (h *Handler) showEntry(c *fiber.Ctx) error {
	id, f := h.flow(c)
	st := f.State()
	switch st.Step {
	case StepComplete:
		// a finished registration seeds the next one
		st = h.store.Restart(id, st.Draft).State()
	case StepConfirm:
		return c.Redirect(st.Step.Path(), fiber.StatusSeeOther)
	}
	return renderEntry(c, fiber.StatusOK, viewOf(st.Draft), "")
}

func (h *Handler) submitEntry(c *fiber.Ctx) error {
	_, f := h.flow(c)

	form := draftView{
		Name:        c.FormValue("name"),
		DateOfBirth: c.FormValue("dateOfBirth"),
		Gender:      c.FormValue("gender"),
		PhoneNumber: c.FormValue("phoneNumber"),
	}

	dob, err := user.ParseBirthDate(form.DateOfBirth)
	if err != nil {
		return renderEntry(c, fiber.StatusUnprocessableEntity, form, ErrInvalidDateOfBirth.Error())
	}

	err = f.Enter(Draft{
		Name:        form.Name,
		DateOfBirth: dob,
		Gender:      user.Gender(form.Gender),
		PhoneNumber: form.PhoneNumber,
	})
	switch {
	case errors.Is(err, ErrInvalidPhoneNumber):
		return renderEntry(c, fiber.StatusUnprocessableEntity, form, err.Error())
	case errors.Is(err, ErrOutOfOrder):
		return c.Redirect(f.State().Step.Path(), fiber.StatusSeeOther)
	case err != nil:
		return err
	}
	return c.Redirect(StepConfirm.Path(), fiber.StatusSeeOther)
}

func (h *Handler) showConfirmation(c *fiber.Ctx) error {
	f, ok := h.lookup(c)
	if !ok {
		return c.Redirect(StepEntry.Path(), fiber.StatusSeeOther)
	}
	st := f.State()
	if st.Step != StepConfirm {
		return c.Redirect(st.Step.Path(), fiber.StatusSeeOther)
	}
	return c.Render("confirmation", fiber.Map{
		"Draft":      viewOf(st.Draft),
		"Submitting": st.Submitting,
	})
}

func (h *Handler) submitConfirmation(c *fiber.Ctx) error {
	f, ok := h.lookup(c)
	if !ok {
		return c.Redirect(StepEntry.Path(), fiber.StatusSeeOther)
	}

	err := f.Confirm(c.UserContext(), h.creator)
	switch {
	case errors.Is(err, ErrOutOfOrder):
		return c.Redirect(f.State().Step.Path(), fiber.StatusSeeOther)
	case errors.Is(err, ErrSubmissionInFlight):
		return c.Status(fiber.StatusConflict).SendString(err.Error())
	case err != nil:
		log.Errorf("registration submit failed: %v", err)
	}
	return c.Redirect(StepComplete.Path(), fiber.StatusSeeOther)
}

func (h *Handler) showComplete(c *fiber.Ctx) error {
	f, ok := h.lookup(c)
	if !ok {
		return c.Redirect(StepEntry.Path(), fiber.StatusSeeOther)
	}
	st := f.State()
	if st.Step != StepComplete {
		return c.Redirect(st.Step.Path(), fiber.StatusSeeOther)
	}
	return c.Render("complete", fiber.Map{
		"Draft":   viewOf(st.Draft),
		"Message": st.Message,
	})
}

func renderEntry(c *fiber.Ctx, status int, form draftView, message string) error {
	genders := make([]string, 0, len(user.Genders))
	for _, g := range user.Genders {
		genders = append(genders, g.String())
	}
	return c.Status(status).Render("entry", fiber.Map{
		"Draft":   form,
		"Genders": genders,
		"Error":   message,
	})
}

func viewOf(d Draft) draftView {
	return draftView{
		Name:        d.Name,
		DateOfBirth: d.BirthDate(),
		Gender:      d.Gender.String(),
		PhoneNumber: d.PhoneNumber,
	}
}
