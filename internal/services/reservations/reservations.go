package reservations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"restaurante/internal/lib/logger/sl"
	"restaurante/internal/models"
	"restaurante/internal/storage"
)

// Duration is the fixed length of every reservation.
const Duration = 2 * time.Hour

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrTableNotFound    = errors.New("table not found")
	ErrCapacityExceeded = errors.New("party size exceeds table capacity")
	ErrConflict         = errors.New("table already reserved for this period")
)

// CapacityError reports the numbers behind ErrCapacityExceeded.
type CapacityError struct {
	PartySize int
	Capacity  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("party size %d exceeds table capacity %d", e.PartySize, e.Capacity)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// PublicMessage is shown to API clients.
func (e *CapacityError) PublicMessage() string {
	return fmt.Sprintf("Número de pessoas (%d) excede a capacidade da mesa (%d).", e.PartySize, e.Capacity)
}

type UserProvider interface {
	User(ctx context.Context, id int64) (models.User, error)
}

type TableProvider interface {
	Table(ctx context.Context, id int64) (models.Table, error)
}

type ReservationStore interface {
	SaveReservation(ctx context.Context, res models.Reservation) (models.Reservation, error)
	TableReservations(ctx context.Context, tableID int64) ([]models.Reservation, error)
}

type EventPublisher interface {
	PublishReservation(ctx context.Context, event models.ReservationEvent) error
}

type Service struct {
	log          *slog.Logger
	users        UserProvider
	tables       TableProvider
	reservations ReservationStore
	events       EventPublisher
}

func New(
	log *slog.Logger,
	users UserProvider,
	tables TableProvider,
	reservations ReservationStore,
	events EventPublisher,
) *Service {
	return &Service{
		log:          log,
		users:        users,
		tables:       tables,
		reservations: reservations,
		events:       events,
	}
}

// Create resolves user and table, checks capacity, derives the end time and persists the reservation.
// Overlap detection happens atomically in the store.
func (s *Service) Create(ctx context.Context, req models.CreateReservationRequest) (models.Reservation, error) {
	const op = "reservations.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("user_id", req.UserID),
		slog.Int64("table_id", req.TableID),
	)

	user, err := s.users.User(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")

			return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return models.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	table, err := s.tables.Table(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, storage.ErrTableNotFound) {
			log.Warn("table not found")

			return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrTableNotFound)
		}

		return models.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	if req.PartySize > table.Capacity {
		log.Warn("party size exceeds capacity",
			slog.Int("party_size", req.PartySize),
			slog.Int("capacity", table.Capacity),
		)

		return models.Reservation{}, fmt.Errorf("%s: %w", op, &CapacityError{PartySize: req.PartySize, Capacity: table.Capacity})
	}

	res, err := s.reservations.SaveReservation(ctx, models.Reservation{
		User:      user,
		Table:     table,
		Start:     req.Start,
		End:       req.Start.Add(Duration),
		PartySize: req.PartySize,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrReservationConflict):
			log.Warn("reservation conflict", slog.String("start", req.Start.String()))

			return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrConflict)
		case errors.Is(err, storage.ErrTableNotFound):
			return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrTableNotFound)
		}

		return models.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	// бронь уже сохранена, ошибка уведомления не отменяет её
	if err := s.events.PublishReservation(ctx, models.NewReservationEvent(res)); err != nil {
		log.Error("failed to publish reservation event", sl.Err(err))
	}

	log.Info("reservation created", slog.Int64("reservation_id", res.ID))

	return res, nil
}

// TableReservations lists the reservations of an existing table ordered by start time.
func (s *Service) TableReservations(ctx context.Context, tableID int64) ([]models.Reservation, error) {
	const op = "reservations.TableReservations"

	if _, err := s.tables.Table(ctx, tableID); err != nil {
		if errors.Is(err, storage.ErrTableNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTableNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	list, err := s.reservations.TableReservations(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}
