package handlers

import (
	"net/http"

	"restaurante/internal/lib/api/errmap"
	"restaurante/internal/services/reservations"
	"restaurante/internal/services/tables"
	"restaurante/internal/services/users"
)

// Error codes returned by the booking API.
const (
	CodeUserExists          = "user_exists"
	CodeTableExists         = "table_exists"
	CodeUserNotFound        = "user_not_found"
	CodeTableNotFound       = "table_not_found"
	CodeCapacityExceeded    = "capacity_exceeded"
	CodeReservationConflict = "reservation_conflict"
)

// Errors maps service errors to API error bodies.
var Errors = errmap.New().
	With(users.ErrUserExists, http.StatusConflict, CodeUserExists, "Email já cadastrado.").
	With(tables.ErrTableExists, http.StatusConflict, CodeTableExists, "Já existe uma mesa com este número.").
	With(reservations.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound, "Usuário não encontrado!").
	With(reservations.ErrTableNotFound, http.StatusNotFound, CodeTableNotFound, "Mesa não encontrada!").
	With(reservations.ErrCapacityExceeded, http.StatusUnprocessableEntity, CodeCapacityExceeded, "").
	With(reservations.ErrConflict, http.StatusConflict, CodeReservationConflict,
		"Horário indisponível. Já existe uma reserva para esta mesa neste período.")
