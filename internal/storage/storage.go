package storage

import "errors"

var (
	ErrTableNotFound       = errors.New("table not found")
	ErrTableExists         = errors.New("table number already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("email already registered")
	ErrReservationConflict = errors.New("table already reserved for this period")
)
