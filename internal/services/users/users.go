package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"restaurante/internal/lib/logger/sl"
	"restaurante/internal/models"
	"restaurante/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// DefaultGroup is attached to every newly registered user.
const DefaultGroup = "CLIENTE"

var ErrUserExists = errors.New("user already exists")

type Users struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	groups      GroupProvider
	hashCost    int
}

type UserSaver interface {
	SaveUser(ctx context.Context, user models.User) (models.User, error)
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
}

type GroupProvider interface {
	EnsureGroup(ctx context.Context, name string) (models.UserGroup, error)
}

// * New returns a new instance of the Users service
func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	groups GroupProvider,
) *Users {
	return &Users{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		groups:      groups,
		hashCost:    bcrypt.DefaultCost,
	}
}

// * Register creates a user in the default group.
// * If the email is already taken, returns ErrUserExists.
func (u *Users) Register(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	const op = "Users.Register"

	log := u.log.With(
		slog.String("op", op),
		slog.String("email", req.Email),
	)

	log.Info("registering user")

	_, err := u.usrProvider.UserByEmail(ctx, req.Email)
	if err == nil {
		log.Warn("user already exists")

		return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		log.Error("failed to get user", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	group, err := u.groups.EnsureGroup(ctx, DefaultGroup)
	if err != nil {
		log.Error("failed to ensure default group", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.hashCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := u.usrSaver.SaveUser(ctx, models.User{
		Name:     req.Name,
		Email:    req.Email,
		PassHash: passHash,
		Group:    group,
	})
	if err != nil {
		// гонка двух регистраций с одним email
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")

			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}

		log.Error("failed to save user", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))

	return user, nil
}
