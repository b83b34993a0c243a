package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurante/internal/config"
	"restaurante/internal/models"
	"restaurante/internal/storage"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

// Connect создает подключение к базе данных, применяет схему и возвращает репозиторий.
func Connect(ctx context.Context, cfg config.Postgres) (*PostgresRepo, error) {
	const op = "storage.postgres.Connect"

	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	r := &PostgresRepo{pool: pool}
	if err := r.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping: %w", op, err)
	}

	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}

func (r *PostgresRepo) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS mesas (
			id BIGSERIAL PRIMARY KEY,
			numero_mesa INTEGER NOT NULL UNIQUE,
			capacidade INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS grupos_usuarios (
			id BIGSERIAL PRIMARY KEY,
			nome TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS usuarios (
			id BIGSERIAL PRIMARY KEY,
			nome TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			senha_hash BYTEA NOT NULL,
			grupo_id BIGINT NOT NULL REFERENCES grupos_usuarios(id)
		);`,
		`CREATE TABLE IF NOT EXISTS reservas (
			id BIGSERIAL PRIMARY KEY,
			usuario_id BIGINT NOT NULL REFERENCES usuarios(id),
			mesa_id BIGINT NOT NULL REFERENCES mesas(id),
			data_hora_inicio TIMESTAMP NOT NULL,
			data_hora_fim TIMESTAMP NOT NULL,
			numero_pessoas INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS reservas_mesa_inicio_idx ON reservas (mesa_id, data_hora_inicio);`,
	}

	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	return nil
}

func (r *PostgresRepo) SaveTable(ctx context.Context, table models.Table) (models.Table, error) {
	const op = "storage.postgres.SaveTable"

	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO mesas (numero_mesa, capacidade) VALUES ($1, $2) RETURNING id;`,
		table.Number,
		table.Capacity,
	).Scan(&table.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Table{}, fmt.Errorf("%s: %w", op, storage.ErrTableExists)
		}

		return models.Table{}, fmt.Errorf("%s: %w", op, err)
	}

	return table, nil
}

func (r *PostgresRepo) Tables(ctx context.Context) ([]models.Table, error) {
	const op = "storage.postgres.Tables"

	rows, err := r.pool.Query(ctx, `SELECT id, numero_mesa, capacidade FROM mesas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	tables := make([]models.Table, 0)
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tables, nil
}

func (r *PostgresRepo) Table(ctx context.Context, id int64) (models.Table, error) {
	const op = "storage.postgres.Table"

	t := models.Table{ID: id}
	err := r.pool.QueryRow(
		ctx,
		`SELECT numero_mesa, capacidade FROM mesas WHERE id = $1`,
		id,
	).Scan(&t.Number, &t.Capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Table{}, fmt.Errorf("%s: %w", op, storage.ErrTableNotFound)
		}

		return models.Table{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// EnsureGroup возвращает группу с указанным именем, создавая её при первом обращении.
func (r *PostgresRepo) EnsureGroup(ctx context.Context, name string) (models.UserGroup, error) {
	const op = "storage.postgres.EnsureGroup"

	g := models.UserGroup{Name: name}
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO grupos_usuarios (nome) VALUES ($1)
		ON CONFLICT (nome) DO UPDATE SET nome = EXCLUDED.nome
		RETURNING id;`,
		name,
	).Scan(&g.ID)
	if err != nil {
		return models.UserGroup{}, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

func (r *PostgresRepo) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "storage.postgres.SaveUser"

	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO usuarios (nome, email, senha_hash, grupo_id) VALUES ($1, $2, $3, $4) RETURNING id;`,
		user.Name,
		user.Email,
		user.PassHash,
		user.Group.ID,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

const selectUser = `SELECT u.id, u.nome, u.email, u.senha_hash, g.id, g.nome
	FROM usuarios u
	JOIN grupos_usuarios g ON g.id = u.grupo_id`

func (r *PostgresRepo) User(ctx context.Context, id int64) (models.User, error) {
	const op = "storage.postgres.User"

	usr, err := scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE u.id = $1`, id))
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return usr, nil
}

func (r *PostgresRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.UserByEmail"

	usr, err := scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE u.email = $1`, email))
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return usr, nil
}

// SaveReservation блокирует строку стола, проверяет пересечение интервалов и сохраняет бронь
// в одной транзакции.
func (r *PostgresRepo) SaveReservation(ctx context.Context, res models.Reservation) (models.Reservation, error) {
	const op = "storage.postgres.SaveReservation"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM mesas WHERE id = $1 FOR UPDATE`, res.Table.ID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrTableNotFound)
		}

		return models.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	var conflict bool
	err = tx.QueryRow(
		ctx,
		`SELECT EXISTS(
			SELECT 1
			FROM reservas
			WHERE mesa_id = $1 AND data_hora_inicio < $3 AND data_hora_fim > $2
		)`,
		res.Table.ID,
		res.Start.Time,
		res.End.Time,
	).Scan(&conflict)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	if conflict {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrReservationConflict)
	}

	err = tx.QueryRow(
		ctx,
		`INSERT INTO reservas (usuario_id, mesa_id, data_hora_inicio, data_hora_fim, numero_pessoas)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		res.User.ID,
		res.Table.ID,
		res.Start.Time,
		res.End.Time,
		res.PartySize,
	).Scan(&res.ID)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// TableReservations возвращает брони стола по возрастанию времени начала.
func (r *PostgresRepo) TableReservations(ctx context.Context, tableID int64) ([]models.Reservation, error) {
	const op = "storage.postgres.TableReservations"

	rows, err := r.pool.Query(
		ctx,
		`SELECT r.id, r.data_hora_inicio, r.data_hora_fim, r.numero_pessoas,
			m.id, m.numero_mesa, m.capacidade,
			u.id, u.nome, u.email, g.id, g.nome
		FROM reservas r
		JOIN mesas m ON m.id = r.mesa_id
		JOIN usuarios u ON u.id = r.usuario_id
		JOIN grupos_usuarios g ON g.id = u.grupo_id
		WHERE r.mesa_id = $1
		ORDER BY r.data_hora_inicio ASC`,
		tableID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	reservations := make([]models.Reservation, 0)
	for rows.Next() {
		var (
			res        models.Reservation
			start, end time.Time
		)
		if err := rows.Scan(
			&res.ID, &start, &end, &res.PartySize,
			&res.Table.ID, &res.Table.Number, &res.Table.Capacity,
			&res.User.ID, &res.User.Name, &res.User.Email, &res.User.Group.ID, &res.User.Group.Name,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res.Start = models.NewLocalDateTime(start)
		res.End = models.NewLocalDateTime(end)
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return reservations, nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close закрывает соединение с базой данных.
func (r *PostgresRepo) Close() {
	r.pool.Close()
}

func scanUser(row pgx.Row) (models.User, error) {
	var usr models.User
	if err := row.Scan(&usr.ID, &usr.Name, &usr.Email, &usr.PassHash, &usr.Group.ID, &usr.Group.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, err
	}

	return usr, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// dsn формирует конфигурацию базы данных.
func dsn(cfg config.Postgres) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}
