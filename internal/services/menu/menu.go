package menu

import (
	"context"
	"fmt"
	"log/slog"

	"restaurante/internal/models"
)

type ItemStore interface {
	SaveItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	Items(ctx context.Context) ([]models.MenuItem, error)
	ItemsByCategory(ctx context.Context, category string) ([]models.MenuItem, error)
}

type Menu struct {
	log   *slog.Logger
	store ItemStore
}

func New(log *slog.Logger, store ItemStore) *Menu {
	return &Menu{
		log:   log,
		store: store,
	}
}

func (m *Menu) Add(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	const op = "Menu.Add"

	saved, err := m.store.SaveItem(ctx, item)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}

	m.log.Info("menu item added",
		slog.String("op", op),
		slog.String("item_id", saved.ID),
		slog.String("category", saved.Category),
	)

	return saved, nil
}

func (m *Menu) List(ctx context.Context) ([]models.MenuItem, error) {
	const op = "Menu.List"

	items, err := m.store.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// ByCategory matches the category case-insensitively.
func (m *Menu) ByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	const op = "Menu.ByCategory"

	items, err := m.store.ItemsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}
