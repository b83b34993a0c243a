package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// LocalDateTimeLayout is the zone-less wire format used for reservation timestamps.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

const localDateTimeShortLayout = "2006-01-02T15:04"

// LocalDateTime is a wall-clock date and time without zone information.
type LocalDateTime struct {
	time.Time
}

func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

// ParseLocalDateTime accepts "YYYY-MM-DDTHH:MM:SS" (fraction allowed) and "YYYY-MM-DDTHH:MM".
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	for _, layout := range []string{LocalDateTimeLayout, localDateTimeShortLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewLocalDateTime(t), nil
		}
	}

	return LocalDateTime{}, fmt.Errorf("invalid local date-time %q", s)
}

func (t LocalDateTime) String() string {
	return t.Format(LocalDateTimeLayout)
}

// Clock returns the HH:MM part.
func (t LocalDateTime) Clock() string {
	return t.Format("15:04")
}

func (t LocalDateTime) Add(d time.Duration) LocalDateTime {
	return LocalDateTime{Time: t.Time.Add(d)}
}

func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return []byte(strconv.Quote(t.String())), nil
}

func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = LocalDateTime{}
		return nil
	}

	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("local date-time must be a string: %w", err)
	}

	parsed, err := ParseLocalDateTime(raw)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// Table is a restaurant table (mesa).
type Table struct {
	ID       int64 `json:"id"`
	Number   int   `json:"numeroMesa"`
	Capacity int   `json:"capacidade"`
}

// UserGroup controls which permissions a user has (e.g. CLIENTE, ADMIN).
type UserGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

type User struct {
	ID       int64     `json:"id"`
	Name     string    `json:"nome"`
	Email    string    `json:"email"`
	PassHash []byte    `json:"-"`
	Group    UserGroup `json:"grupo"`
}

// Reservation (reserva) books a table for a user for a fixed period.
type Reservation struct {
	ID        int64         `json:"id"`
	User      User          `json:"usuario"`
	Table     Table         `json:"mesa"`
	Start     LocalDateTime `json:"dataHoraInicio"`
	End       LocalDateTime `json:"dataHoraFim"`
	PartySize int           `json:"numeroPessoas"`
}

// MenuItem is a document in the menu (cardapio). Price keeps the decimal text it was created with.
type MenuItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"nome"`
	Description string      `json:"descricao"`
	Category    string      `json:"categoria"`
	Price       json.Number `json:"preco"`
	Ingredients []string    `json:"ingredientes"`
}

type CreateUserRequest struct {
	Name     string `json:"nome" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

type CreateTableRequest struct {
	Number   int `json:"numeroMesa" validate:"required,gt=0"`
	Capacity int `json:"capacidade" validate:"required,gt=0"`
}

// CreateReservationRequest carries ids only; the server resolves user and table.
type CreateReservationRequest struct {
	UserID    int64         `json:"usuarioId" validate:"required,gt=0"`
	TableID   int64         `json:"mesaId" validate:"required,gt=0"`
	Start     LocalDateTime `json:"dataHoraInicio"`
	PartySize int           `json:"numeroPessoas" validate:"required,gt=0"`
}

// ReservationEvent is published after a reservation is persisted.
type ReservationEvent struct {
	ReservationID int64         `json:"reservationId"`
	TableNumber   int           `json:"tableNumber"`
	UserName      string        `json:"userName"`
	UserEmail     string        `json:"userEmail"`
	Start         LocalDateTime `json:"start"`
	End           LocalDateTime `json:"end"`
	PartySize     int           `json:"partySize"`
}

func NewReservationEvent(r Reservation) ReservationEvent {
	return ReservationEvent{
		ReservationID: r.ID,
		TableNumber:   r.Table.Number,
		UserName:      r.User.Name,
		UserEmail:     r.User.Email,
		Start:         r.Start,
		End:           r.End,
		PartySize:     r.PartySize,
	}
}
