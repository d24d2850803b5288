package menu

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/adapter/cache"
	"github.com/seu-repo/comanda/internal/adapter/queue"
	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestGetItem_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	itemID := "item-123"

	expectedItem := &domain.MenuItem{
		ID:       itemID,
		Name:     "feijoada",
		Category: domain.MenuCategoryMain,
		Price:    48.90,
	}

	mockRepo := &mocks.MockMenuRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.MenuItem, error) {
			if id == itemID {
				return expectedItem, nil
			}
			return nil, nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), mocks.NewMockMessageQueue(), newTestLogger())

	// Act
	item, err := service.GetItem(ctx, itemID)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item == nil {
		t.Fatal("expected item, got nil")
	}
	if item.Name != "feijoada" {
		t.Errorf("expected name 'feijoada', got '%s'", item.Name)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockRepo := &mocks.MockMenuRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.MenuItem, error) {
			return nil, nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), mocks.NewMockMessageQueue(), newTestLogger())

	// Act
	_, err := service.GetItem(ctx, "nonexistent")

	// Assert
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetItem_SecondReadServedFromCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	itemID := "item-123"

	finds := 0
	mockRepo := &mocks.MockMenuRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.MenuItem, error) {
			finds++
			return &domain.MenuItem{ID: itemID, Name: "feijoada", Price: 48.90}, nil
		},
	}

	mockCache := mocks.NewMockCache()
	service := NewService(mockRepo, mockCache, mocks.NewMockMessageQueue(), newTestLogger())

	// Act
	first, err := service.GetItem(ctx, itemID)
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	second, err := service.GetItem(ctx, itemID)

	// Assert
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if finds != 1 {
		t.Errorf("expected 1 repository read, got %d", finds)
	}
	if first.Name != second.Name || first.Price != second.Price {
		t.Errorf("cached item differs: %+v vs %+v", first, second)
	}

	cached, _ := mockCache.Get(ctx, cache.MenuItemKey(itemID))
	if cached == "" {
		t.Error("expected item in cache after first read")
	}
}

func TestSetAvailability_InvalidatesItemCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	itemID := "item-123"

	mockRepo := &mocks.MockMenuRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.MenuItem, error) {
			return &domain.MenuItem{ID: itemID, Name: "feijoada", Available: true}, nil
		},
	}

	mockCache := mocks.NewMockCache()
	service := NewService(mockRepo, mockCache, mocks.NewMockMessageQueue(), newTestLogger())

	if _, err := service.GetItem(ctx, itemID); err != nil {
		t.Fatalf("priming read failed: %v", err)
	}

	// Act
	if err := service.SetAvailability(ctx, itemID, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	cached, _ := mockCache.Get(ctx, cache.MenuItemKey(itemID))
	if cached != "" {
		t.Error("expected item cache entry to be invalidated")
	}
}

func TestCreateItem_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()

	var savedItem *domain.MenuItem
	mockRepo := &mocks.MockMenuRepository{
		FindByNameFunc: func(ctx context.Context, name string) (*domain.MenuItem, error) {
			return nil, nil
		},
		SaveFunc: func(ctx context.Context, item *domain.MenuItem) error {
			savedItem = item
			return nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), mocks.NewMockMessageQueue(), newTestLogger())

	item := &domain.MenuItem{
		Name:     "pastel de queijo",
		Category: domain.MenuCategoryStarter,
		Price:    12.50,
	}

	// Act
	err := service.CreateItem(ctx, item)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if savedItem == nil {
		t.Fatal("expected item to be saved")
	}
	if savedItem.ID == "" {
		t.Error("expected generated id")
	}
	if savedItem.Currency != "BRL" {
		t.Errorf("expected default currency BRL, got '%s'", savedItem.Currency)
	}
}

func TestCreateItem_DuplicateName(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockRepo := &mocks.MockMenuRepository{
		FindByNameFunc: func(ctx context.Context, name string) (*domain.MenuItem, error) {
			return &domain.MenuItem{ID: "existing", Name: name}, nil
		},
		SaveFunc: func(ctx context.Context, item *domain.MenuItem) error {
			t.Error("save should not be called for duplicate name")
			return nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), mocks.NewMockMessageQueue(), newTestLogger())

	// Act
	err := service.CreateItem(ctx, &domain.MenuItem{Name: "feijoada", Price: 48.90})

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestCreateItem_MissingName(t *testing.T) {
	// Arrange
	service := NewService(&mocks.MockMenuRepository{}, mocks.NewMockCache(), mocks.NewMockMessageQueue(), newTestLogger())

	// Act
	err := service.CreateItem(context.Background(), &domain.MenuItem{Price: 10})

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSetAvailability_InvalidatesCacheAndPublishes(t *testing.T) {
	// Arrange
	ctx := context.Background()
	itemID := "item-123"

	var toggledID string
	var toggledValue bool
	mockRepo := &mocks.MockMenuRepository{
		SetAvailabilityFunc: func(ctx context.Context, id string, available bool) error {
			toggledID = id
			toggledValue = available
			return nil
		},
	}

	mockCache := mocks.NewMockCache()
	mockCache.Set(ctx, cache.CatalogKey, "[]", time.Minute)
	mockQueue := mocks.NewMockMessageQueue()

	service := NewService(mockRepo, mockCache, mockQueue, newTestLogger())

	// Act
	err := service.SetAvailability(ctx, itemID, false)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if toggledID != itemID || toggledValue != false {
		t.Errorf("expected repo toggle for '%s' false, got '%s' %v", itemID, toggledID, toggledValue)
	}

	// Check cache was invalidated
	cached, _ := mockCache.Get(ctx, cache.CatalogKey)
	if cached != "" {
		t.Error("expected catalog cache to be invalidated")
	}

	// Check event was published
	messages := mockQueue.GetPublishedMessages(queue.SubjectMenuAvailability)
	if len(messages) != 1 {
		t.Errorf("expected 1 message published, got %d", len(messages))
	}
}

func TestSetAvailability_NotFound(t *testing.T) {
	// Arrange
	mockRepo := &mocks.MockMenuRepository{
		SetAvailabilityFunc: func(ctx context.Context, id string, available bool) error {
			return domain.ErrNotFound
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), mocks.NewMockMessageQueue(), newTestLogger())

	// Act
	err := service.SetAvailability(context.Background(), "nonexistent", true)

	// Assert
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalog_CacheMiss(t *testing.T) {
	// Arrange
	ctx := context.Background()

	available := []domain.MenuItem{
		{ID: "item-1", Name: "feijoada", Available: true},
		{ID: "item-2", Name: "caipirinha", Available: true},
	}

	mockRepo := &mocks.MockMenuRepository{
		FindAvailableFunc: func(ctx context.Context) ([]domain.MenuItem, error) {
			return available, nil
		},
	}

	mockCache := mocks.NewMockCache()
	service := NewService(mockRepo, mockCache, mocks.NewMockMessageQueue(), newTestLogger())

	// Act
	items, err := service.Catalog(ctx)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}

	// Check the snapshot was written back to the cache
	cached, _ := mockCache.Get(ctx, cache.CatalogKey)
	if cached == "" {
		t.Error("expected catalog snapshot in cache")
	}
}

func TestCatalog_CacheHit(t *testing.T) {
	// Arrange
	ctx := context.Background()

	cachedItems := []domain.MenuItem{
		{ID: "item-1", Name: "feijoada", Available: true},
	}
	cachedJSON, _ := json.Marshal(cachedItems)

	mockRepo := &mocks.MockMenuRepository{
		FindAvailableFunc: func(ctx context.Context) ([]domain.MenuItem, error) {
			t.Error("repository should not be called on cache hit")
			return nil, nil
		},
	}

	mockCache := mocks.NewMockCache()
	mockCache.Set(ctx, cache.CatalogKey, string(cachedJSON), time.Minute)

	service := NewService(mockRepo, mockCache, mocks.NewMockMessageQueue(), newTestLogger())

	// Act
	items, err := service.Catalog(ctx)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 || items[0].Name != "feijoada" {
		t.Errorf("expected cached catalog, got %+v", items)
	}
}

func TestCatalog_CorruptCacheFallsBack(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockRepo := &mocks.MockMenuRepository{
		FindAvailableFunc: func(ctx context.Context) ([]domain.MenuItem, error) {
			return []domain.MenuItem{{ID: "item-1", Name: "feijoada"}}, nil
		},
	}

	mockCache := mocks.NewMockCache()
	mockCache.Set(ctx, cache.CatalogKey, "{not json", time.Minute)

	service := NewService(mockRepo, mockCache, mocks.NewMockMessageQueue(), newTestLogger())

	// Act
	items, err := service.Catalog(ctx)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected repository fallback, got %+v", items)
	}
}
