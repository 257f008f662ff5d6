package collection

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

type UseCase struct {
	collections repository.CollectionRepository
	identity    usecase.IdentityProvider
	logger      *zap.Logger
	now         func() time.Time
}

// Option customizes a UseCase.
type Option func(*UseCase)

// WithClock overrides the clock used to flag expired tasks.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

func New(collections repository.CollectionRepository, identity usecase.IdentityProvider, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if identity == nil {
		identity = usecase.ContextIdentity{}
	}
	uc := &UseCase{
		collections: collections,
		identity:    identity,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// CreateCollection validates the input and stores a collection owned by the caller.
func (uc *UseCase) CreateCollection(ctx context.Context, name, color string) (*domain.Collection, error) {
	user, err := usecase.RequireUser(ctx, uc.identity)
	if err != nil {
		return nil, err
	}

	input := usecase.CollectionInput{
		Name:  strings.TrimSpace(name),
		Color: color,
	}
	if err := usecase.Validate(input); err != nil {
		return nil, err
	}
	parsed, _ := domain.ParseColor(input.Color)

	created, err := uc.collections.Create(ctx, &domain.Collection{
		UserID: user.ID,
		Name:   input.Name,
		Color:  parsed,
	})
	if err != nil {
		logger.FromContext(ctx, uc.logger).Error("create collection failed", zap.Error(err))
		return nil, usecase.StoreError("create collection", err)
	}

	logger.FromContext(ctx, uc.logger).Debug("collection created", zap.String("collection_id", created.ID))
	return created, nil
}

// ListCollections returns the caller's collections with their tasks, oldest first.
func (uc *UseCase) ListCollections(ctx context.Context) ([]domain.CollectionWithTasks, error) {
	user, err := usecase.RequireUser(ctx, uc.identity)
	if err != nil {
		return nil, err
	}

	collections, err := uc.collections.ListWithTasks(ctx, user.ID)
	if err != nil {
		logger.FromContext(ctx, uc.logger).Error("list collections failed", zap.Error(err))
		return nil, usecase.StoreError("list collections", err)
	}
	if collections == nil {
		collections = []domain.CollectionWithTasks{}
	}
	now := uc.now()
	for i := range collections {
		domain.MarkExpired(collections[i].Tasks, now)
	}
	return collections, nil
}

// DeleteCollection removes the caller's collection together with its tasks.
func (uc *UseCase) DeleteCollection(ctx context.Context, id string) error {
	user, err := usecase.RequireUser(ctx, uc.identity)
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return domain.ErrCollectionNotFound
	}

	if err := uc.collections.Delete(ctx, id, user.ID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.ErrCollectionNotFound
		}
		logger.FromContext(ctx, uc.logger).Error("delete collection failed", zap.String("collection_id", id), zap.Error(err))
		return usecase.StoreError("delete collection", err)
	}
	return nil
}
