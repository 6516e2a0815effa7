package user

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/wichananm65/user-registration/internal/user")

type Service struct {
	repo    Repository
	genders GenderSet
}

type Option func(*Service)

// WithAllowedGenders replaces the default allow-list.
func WithAllowedGenders(set GenderSet) Option {
	return func(s *Service) {
		s.genders = set
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, genders: DefaultAllowedGenders()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// CreateUser validates the input and inserts exactly one row. Validation
// failures never reach the repository; repository errors are returned as is.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (User, error) {
	ctx, span := tracer.Start(ctx, "user.CreateUser")
	defer span.End()

	user, err := s.validate(input)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return User{}, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		log.Errorf("create user: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage")
		return User{}, err
	}

	span.SetAttributes(attribute.Int64("user.id", created.ID))
	return created, nil
}

func (s *Service) validate(input CreateUserInput) (User, error) {
	gender, ok := ParseGender(input.Gender)
	if !ok || !s.genders.Contains(gender) {
		return User{}, invalidArgument("gender")
	}

	if strings.TrimSpace(input.Name) == "" {
		return User{}, invalidArgument("name")
	}
	if !IsValidPhoneNumber(input.PhoneNumber) {
		return User{}, invalidArgument("phoneNumber")
	}
	birthDate, err := ParseBirthDate(input.BirthDate)
	if err != nil {
		return User{}, invalidArgument("birthDate")
	}

	return User{
		Name:        input.Name,
		BirthDate:   birthDate,
		Gender:      gender,
		PhoneNumber: input.PhoneNumber,
	}, nil
}
