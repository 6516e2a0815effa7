package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const createUserMutation = `mutation CreateUser(
	$name: String!
	$birthDate: String!
	$gender: String!
	$phoneNumber: String!
) {
	createUser(
		name: $name
		birthDate: $birthDate
		gender: $gender
		phoneNumber: $phoneNumber
	) {
		id
		name
		birthDate
		gender
		phoneNumber
	}
}`

// User is a user record as returned over the wire.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BirthDate   string `json:"birthDate"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phoneNumber"`
}

type CreateUserVariables struct {
	Name        string `json:"name"`
	BirthDate   string `json:"birthDate"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phoneNumber"`
}

// ResponseError carries the messages of a GraphQL errors array.
type ResponseError struct {
	Messages []string
}

func (e *ResponseError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// Client calls the GraphQL endpoint with fiber's HTTP agent.
type Client struct {
	endpoint string
	timeout  time.Duration
}

// DefaultTimeout bounds every request when NewClient is given none.
const DefaultTimeout = 15 * time.Second

// NewClient posts to endpoint. A non-positive timeout falls back to
// DefaultTimeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{endpoint: endpoint, timeout: timeout}
}

func (c *Client) CreateUser(ctx context.Context, vars CreateUserVariables) (User, error) {
	var resp struct {
		Data struct {
			CreateUser *User `json:"createUser"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	err := c.do(ctx, Request{
		Query:         createUserMutation,
		OperationName: "CreateUser",
		Variables: map[string]interface{}{
			"name":        vars.Name,
			"birthDate":   vars.BirthDate,
			"gender":      vars.Gender,
			"phoneNumber": vars.PhoneNumber,
		},
	}, &resp)
	if err != nil {
		return User{}, err
	}

	if len(resp.Errors) > 0 {
		respErr := &ResponseError{Messages: make([]string, 0, len(resp.Errors))}
		for _, e := range resp.Errors {
			respErr.Messages = append(respErr.Messages, e.Message)
		}
		return User{}, respErr
	}
	if resp.Data.CreateUser == nil {
		return User{}, errors.New("graphql: empty createUser result")
	}
	return *resp.Data.CreateUser, nil
}

type agentResult struct {
	code int
	body []byte
	errs []error
}

func (c *Client) do(ctx context.Context, req Request, out interface{}) error {
	done := make(chan agentResult, 1)
	go func() {
		a := fiber.Post(c.endpoint)
		a.Timeout(c.timeout)
		a.JSON(req)
		code, body, errs := a.Bytes()
		done <- agentResult{code: code, body: body, errs: errs}
	}()

	var res agentResult
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-done:
	}

	if len(res.errs) > 0 {
		return errors.Join(res.errs...)
	}
	if res.code != fiber.StatusOK {
		return fmt.Errorf("graphql: unexpected status %d", res.code)
	}
	return json.Unmarshal(res.body, out)
}
