package tables

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"restaurante/internal/models"
	"restaurante/internal/storage"
)

var ErrTableExists = errors.New("table number already exists")

type TableStore interface {
	SaveTable(ctx context.Context, table models.Table) (models.Table, error)
	Tables(ctx context.Context) ([]models.Table, error)
}

type Tables struct {
	log   *slog.Logger
	store TableStore
}

func New(log *slog.Logger, store TableStore) *Tables {
	return &Tables{
		log:   log,
		store: store,
	}
}

func (t *Tables) Create(ctx context.Context, req models.CreateTableRequest) (models.Table, error) {
	const op = "Tables.Create"

	log := t.log.With(
		slog.String("op", op),
		slog.Int("number", req.Number),
	)

	table, err := t.store.SaveTable(ctx, models.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
	})
	if err != nil {
		if errors.Is(err, storage.ErrTableExists) {
			log.Warn("table already exists")

			return models.Table{}, fmt.Errorf("%s: %w", op, ErrTableExists)
		}

		return models.Table{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("table created", slog.Int64("table_id", table.ID))

	return table, nil
}

func (t *Tables) List(ctx context.Context) ([]models.Table, error) {
	const op = "Tables.List"

	list, err := t.store.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}
