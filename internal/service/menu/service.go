package menu

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/adapter/cache"
	"github.com/seu-repo/comanda/internal/adapter/queue"
	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

type Service struct {
	repo  ports.MenuRepository
	cache ports.Cache
	mq    queue.MessageQueue
	log   *zap.Logger
}

func NewService(repo ports.MenuRepository, c ports.Cache, mq queue.MessageQueue, log *zap.Logger) ports.MenuService {
	return &Service{
		repo:  repo,
		cache: c,
		mq:    mq,
		log:   log,
	}
}

func (s *Service) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	key := cache.MenuItemKey(id)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var item domain.MenuItem
		if err := json.Unmarshal([]byte(cached), &item); err == nil {
			return &item, nil
		}
		s.cache.Delete(ctx, key)
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if data, err := json.Marshal(item); err == nil {
		if err := s.cache.Set(ctx, key, data, cache.CatalogTTL); err != nil {
			s.log.Warn("Failed to cache menu item", zap.String("item_id", id), zap.Error(err))
		}
	}
	return item, nil
}

func (s *Service) ListItems(ctx context.Context, filter map[string]interface{}) ([]domain.MenuItem, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *Service) CreateItem(ctx context.Context, item *domain.MenuItem) error {
	if item.Name == "" {
		return errors.New("menu item name is required")
	}
	if item.Price < 0 {
		return errors.New("menu item price cannot be negative")
	}

	existing, err := s.repo.FindByName(ctx, item.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("menu item with this name already exists")
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Currency == "" {
		item.Currency = "BRL"
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.repo.Save(ctx, item); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.log.Info("Menu item created",
		zap.String("item_id", item.ID),
		zap.String("name", item.Name),
		zap.String("category", string(item.Category)),
	)
	return nil
}

func (s *Service) UpdateItem(ctx context.Context, item *domain.MenuItem) error {
	existing, err := s.repo.FindByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, item); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.invalidateItem(ctx, item.ID)
	return nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.invalidateItem(ctx, id)
	s.log.Info("Menu item deleted", zap.String("item_id", id), zap.String("name", existing.Name))
	return nil
}

// SetAvailability flips the 86 state of an item. The kitchen and the
// voice pipeline see the change on the next catalog read.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool) error {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.invalidateItem(ctx, id)
	s.publishAvailability(id, available)
	s.log.Info("Menu item availability changed",
		zap.String("item_id", id),
		zap.Bool("available", available),
	)
	return nil
}

// Catalog serves the available items from cache. Extraction runs on
// every voice submit, so this is the hottest read in the system.
func (s *Service) Catalog(ctx context.Context) ([]domain.MenuItem, error) {
	if cached, err := s.cache.Get(ctx, cache.CatalogKey); err == nil && cached != "" {
		var items []domain.MenuItem
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
		// Corrupt entry, fall through to the repository.
		s.cache.Delete(ctx, cache.CatalogKey)
	}

	items, err := s.repo.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, cache.CatalogKey, data, cache.CatalogTTL); err != nil {
			s.log.Warn("Failed to cache menu catalog", zap.Error(err))
		}
	}

	return items, nil
}

func (s *Service) invalidateCatalog(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.CatalogKey); err != nil {
		s.log.Warn("Failed to invalidate menu catalog cache", zap.Error(err))
	}
}

func (s *Service) invalidateItem(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, cache.MenuItemKey(id)); err != nil {
		s.log.Warn("Failed to invalidate menu item cache", zap.String("item_id", id), zap.Error(err))
	}
}

func (s *Service) publishAvailability(id string, available bool) {
	if s.mq == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"item_id":    id,
		"available":  available,
		"changed_at": time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := s.mq.Publish(queue.SubjectMenuAvailability, payload); err != nil {
		s.log.Error("Failed to publish availability event", zap.String("item_id", id), zap.Error(err))
	}
}
