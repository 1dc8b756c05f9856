package repositories

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, changes models.UserChanges) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, username, email, full_name, user_type, hashed_password, created_by, created_at`

func scanUser(row interface{ Scan(dest ...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.UserType, &user.HashedPassword, &user.CreatedBy, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts the user and fills in the generated id and created_at
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, full_name, user_type, hashed_password, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, user.Username, user.Email, user.FullName, user.UserType, user.HashedPassword, user.CreatedBy).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return translateUserError(err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateUserError(err)
	}
	return user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, translateUserError(err)
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, translateUserError(err)
	}
	return user, nil
}

func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update writes only the columns present in changes and returns the stored row.
// With no changes it behaves like GetByID.
func (r *userRepo) Update(ctx context.Context, id int64, changes models.UserChanges) (*models.User, error) {
	if changes.Empty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if changes.Username.Set {
		add("username", changes.Username.Value)
	}
	if changes.Email.Set {
		add("email", changes.Email.Value)
	}
	if changes.FullName.Set {
		add("full_name", changes.FullName.Value)
	}
	if changes.UserType.Set {
		add("user_type", changes.UserType.Value)
	}
	if changes.HashedPassword.Set {
		add("hashed_password", changes.HashedPassword.Value)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), userColumns)
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateUserError(err)
	}
	return user, nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
