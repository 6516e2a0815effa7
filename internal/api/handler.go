package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/wichananm65/user-registration/internal/user"
)

type Handler struct {
	schema graphql.Schema
}

// Request is the standard GraphQL-over-HTTP body.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

func NewHandler(svc *user.Service) (*Handler, error) {
	schema, err := NewSchema(svc)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema}, nil
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/graphql", h.post)
	app.Get("/graphql", h.get)
}

func (h *Handler) post(c *fiber.Ctx) error {
	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return h.execute(c, *req)
}

func (h *Handler) get(c *fiber.Ctx) error {
	req := Request{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if v := c.Query("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid variables"})
		}
	}
	return h.execute(c, req)
}

func (h *Handler) execute(c *fiber.Ctx, req Request) error {
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "query is required"})
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.UserContext(),
	})
	return c.JSON(result)
}
