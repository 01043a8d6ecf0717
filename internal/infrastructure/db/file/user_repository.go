package file

import (
	"context"
	"time"

	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

const usersCollection = "users"

// userRecord is the on-disk shape of a user. Unlike domain.User it keeps
// the password hash.
type userRecord struct {
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toUserRecord(u *domain.User) userRecord {
	return userRecord{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func (r userRecord) toDomain() *domain.User {
	role := domain.Role(r.Role)
	if r.Role == "" {
		role = domain.RoleUser
	}
	return &domain.User{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         role,
		CreatedAt:    r.CreatedAt,
	}
}

type UserRepository struct {
	users *Collection[userRecord]
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{users: Open[userRecord](store, usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.users.Mutate(ctx, func(records []userRecord) ([]userRecord, error) {
		for _, rec := range records {
			if rec.Username == user.Username {
				return nil, domain.ErrUserExists
			}
		}
		return append(records, toUserRecord(user)), nil
	})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	rec, ok, err := r.users.FindOne(ctx, func(u userRecord) bool { return u.Username == username })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	records, err := r.users.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *UserRepository) SetRole(ctx context.Context, username string, role domain.Role) error {
	return r.users.Mutate(ctx, func(records []userRecord) ([]userRecord, error) {
		for i := range records {
			if records[i].Username == username {
				records[i].Role = string(role)
				return records, nil
			}
		}
		return nil, domain.ErrUserNotFound
	})
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	return r.users.Mutate(ctx, func(records []userRecord) ([]userRecord, error) {
		for i := range records {
			if records[i].Username == username {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, domain.ErrUserNotFound
	})
}
