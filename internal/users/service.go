package users

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/userdir/userdir/internal/telemetry"
)

// DefaultDeleteGracePeriod is how long a new record is protected from deletion
const DefaultDeleteGracePeriod = time.Minute

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	store       UserStore
	now         func() time.Time
	gracePeriod time.Duration
	logger      *zap.Logger
	tracer      trace.Tracer
	metrics     *telemetry.Metrics
}

// ServiceOption configures a UserServiceImpl
type ServiceOption func(*UserServiceImpl)

// WithClock replaces time.Now
func WithClock(now func() time.Time) ServiceOption {
	return func(s *UserServiceImpl) {
		s.now = now
	}
}

// WithDeleteGracePeriod sets the minimum record age for deletion
func WithDeleteGracePeriod(d time.Duration) ServiceOption {
	return func(s *UserServiceImpl) {
		s.gracePeriod = d
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *UserServiceImpl) {
		s.logger = logger
	}
}

// WithMetrics sets the metric instruments for the service
func WithMetrics(m *telemetry.Metrics) ServiceOption {
	return func(s *UserServiceImpl) {
		s.metrics = m
	}
}

// NewUserService creates a new user service instance
func NewUserService(store UserStore, opts ...ServiceOption) *UserServiceImpl {
	s := &UserServiceImpl{
		store:       store,
		now:         time.Now,
		gracePeriod: DefaultDeleteGracePeriod,
		logger:      zap.NewNop(),
		tracer:      telemetry.Tracer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser validates req and inserts a new record stamped with the current time
func (s *UserServiceImpl) CreateUser(ctx context.Context, req *CreateUserRequest) (user *User, err error) {
	ctx, span := s.tracer.Start(ctx, "users.CreateUser")
	defer func() { s.finish(ctx, span, "create", err) }()

	if err := ValidateCreateUserRequest(req); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.name", req.Name))

	user, err = s.store.CreateUser(ctx, &User{
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: s.now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("id", user.ID),
		zap.String("name", user.Name))
	return user, nil
}

// GetUser returns the record with the given name
func (s *UserServiceImpl) GetUser(ctx context.Context, name string) (user *User, err error) {
	ctx, span := s.tracer.Start(ctx, "users.GetUser", trace.WithAttributes(attribute.String("user.name", name)))
	defer func() { s.finish(ctx, span, "get", err) }()

	if name == "" {
		return nil, NewMissingFieldsError(MessageMissingName)
	}
	return s.store.GetUserByName(ctx, name)
}

// UpdateEmail overwrites the email of the record with the given name
func (s *UserServiceImpl) UpdateEmail(ctx context.Context, req *UpdateEmailRequest) (err error) {
	ctx, span := s.tracer.Start(ctx, "users.UpdateEmail")
	defer func() { s.finish(ctx, span, "update_email", err) }()

	if err := ValidateUpdateEmailRequest(req); err != nil {
		return err
	}
	span.SetAttributes(attribute.String("user.name", req.Name))

	user, err := s.store.GetUserByName(ctx, req.Name)
	if err != nil {
		return err
	}

	if err := s.store.UpdateUserEmail(ctx, user.ID, req.Email); err != nil {
		return err
	}

	s.logger.Info("User email updated", zap.String("id", user.ID), zap.String("name", user.Name))
	return nil
}

// DeleteUser removes the record with the given name once it is older than the grace period
func (s *UserServiceImpl) DeleteUser(ctx context.Context, name string) (err error) {
	ctx, span := s.tracer.Start(ctx, "users.DeleteUser", trace.WithAttributes(attribute.String("user.name", name)))
	defer func() { s.finish(ctx, span, "delete", err) }()

	if name == "" {
		return NewMissingFieldsError(MessageMissingName)
	}

	user, err := s.store.GetUserByName(ctx, name)
	if err != nil {
		return err
	}

	diffMs := s.now().UnixMilli() - user.CreatedAt
	if diffMs < s.gracePeriod.Milliseconds() {
		s.logger.Info("User deletion refused inside grace period",
			zap.String("id", user.ID),
			zap.Int64("age_ms", diffMs))
		return NewDeleteTooSoonError(name, s.gracePeriod)
	}

	if err := s.store.DeleteUser(ctx, user.ID); err != nil {
		return err
	}

	s.logger.Info("User deleted", zap.String("id", user.ID), zap.String("name", user.Name))
	return nil
}

func (s *UserServiceImpl) finish(ctx context.Context, span trace.Span, operation string, err error) {
	defer span.End()

	outcome := "ok"
	if errType := ErrorType(err); errType != "" {
		outcome = errType
	} else if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(fmt.Sprintf("User %s failed", operation), zap.Error(err))
	}
	s.metrics.RecordOperation(ctx, operation, outcome)
}
