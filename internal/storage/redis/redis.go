package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"restaurante/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	itemKeyPrefix     = "cardapio:item:"
	allItemsKey       = "cardapio:items"
	categoryKeyPrefix = "cardapio:categoria:"
)

// MenuRepo хранит позиции меню как JSON-документы с индексами по категориям.
type MenuRepo struct {
	client *redis.Client
}

func New(ctx context.Context, address string, password string, db int) (*MenuRepo, error) {
	const op = "storage.redis.New"

	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &MenuRepo{client: rdb}, nil
}

// SaveItem assigns a new id to the item and stores it with its indexes atomically.
func (r *MenuRepo) SaveItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	const op = "storage.redis.SaveItem"

	item.ID = uuid.NewString()
	if item.Ingredients == nil {
		item.Ingredients = []string{}
	}

	data, err := json.Marshal(item)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, itemKey(item.ID), data, 0)
		pipe.SAdd(ctx, allItemsKey, item.ID)
		pipe.SAdd(ctx, categoryKey(item.Category), item.ID)
		return nil
	})
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

func (r *MenuRepo) Items(ctx context.Context) ([]models.MenuItem, error) {
	const op = "storage.redis.Items"

	items, err := r.itemsFromSet(ctx, allItemsKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (r *MenuRepo) ItemsByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	const op = "storage.redis.ItemsByCategory"

	items, err := r.itemsFromSet(ctx, categoryKey(category))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (r *MenuRepo) itemsFromSet(ctx context.Context, setKey string) ([]models.MenuItem, error) {
	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, err
	}

	items := make([]models.MenuItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, itemKey(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// индекс ссылается на удалённый документ
			continue
		}

		var item models.MenuItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	sortItems(items)

	return items, nil
}

// Close закрывает соединение с Redis.
func (r *MenuRepo) Close() {
	r.client.Close()
}

// sortItems orders items by name, then id, since set members come back unordered.
func sortItems(items []models.MenuItem) {
	slices.SortFunc(items, func(a, b models.MenuItem) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func itemKey(id string) string {
	return itemKeyPrefix + id
}

// categoryKey normalizes the category so lookups are case-insensitive.
func categoryKey(category string) string {
	return categoryKeyPrefix + strings.ToLower(strings.TrimSpace(category))
}
