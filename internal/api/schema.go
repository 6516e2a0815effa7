package api

import (
	"errors"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/wichananm65/user-registration/internal/user"
)

// NewSchema builds the Query/Mutation surface over the user service.
func NewSchema(svc *user.Service) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"birthDate":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"gender":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"phoneNumber": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["id"].(string)
					id, err := strconv.ParseInt(raw, 10, 64)
					if err != nil {
						return nil, nil
					}
					u, err := svc.GetUser(p.Context, id)
					if errors.Is(err, user.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return toPayload(u), nil
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					users, err := svc.ListUsers(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]interface{}, 0, len(users))
					for _, u := range users {
						out = append(out, toPayload(u))
					}
					return out, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"birthDate":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"gender":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phoneNumber": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input := user.CreateUserInput{}
					input.Name, _ = p.Args["name"].(string)
					input.BirthDate, _ = p.Args["birthDate"].(string)
					input.Gender, _ = p.Args["gender"].(string)
					input.PhoneNumber, _ = p.Args["phoneNumber"].(string)

					created, err := svc.CreateUser(p.Context, input)
					if err != nil {
						return nil, err
					}
					return toPayload(created), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func toPayload(u user.User) map[string]interface{} {
	return map[string]interface{}{
		"id":          strconv.FormatInt(u.ID, 10),
		"name":        u.Name,
		"birthDate":   u.BirthDate.Format(user.DateLayout),
		"gender":      u.Gender.String(),
		"phoneNumber": u.PhoneNumber,
	}
}
