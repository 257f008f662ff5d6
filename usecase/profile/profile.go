package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/usecase"
)

// CollectionLister is the slice of the collection use case the overview needs.
type CollectionLister interface {
	ListCollections(ctx context.Context) ([]domain.CollectionWithTasks, error)
}

type UseCase struct {
	collections CollectionLister
	identity    usecase.IdentityProvider
	logger      *zap.Logger
}

func New(collections CollectionLister, identity usecase.IdentityProvider, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if identity == nil {
		identity = usecase.ContextIdentity{}
	}
	return &UseCase{
		collections: collections,
		identity:    identity,
		logger:      logger,
	}
}

// Overview greets the caller and sums up progress across all collections.
func (uc *UseCase) Overview(ctx context.Context) (*domain.Overview, error) {
	user, err := usecase.RequireUser(ctx, uc.identity)
	if err != nil {
		return nil, err
	}

	collections, err := uc.collections.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	var all []domain.Task
	for _, c := range collections {
		all = append(all, c.Tasks...)
	}

	return &domain.Overview{
		User:        user,
		Collections: len(collections),
		Progress:    domain.NewProgress(all),
	}, nil
}
