package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

func (r *Repo) CreateArtisan(ctx context.Context, a NewArtisan) (int64, error) {
	if a.Language == "" {
		a.Language = "en"
	}
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO artisans (username, email, password, name, location, language)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		a.Username, a.Email, a.PasswordHash, a.Name, a.Location, a.Language,
	).Scan(&id)
	return id, insertErr("artisan", err)
}

func (r *Repo) CreateBuyer(ctx context.Context, b NewBuyer) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO buyers (username, email, password, name, preferences)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		b.Username, b.Email, b.PasswordHash, b.Name, b.Preferences,
	).Scan(&id)
	return id, insertErr("buyer", err)
}

func (r *Repo) CreateAdmin(ctx context.Context, a NewAdmin) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO admins (username, email, password, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		a.Username, a.Email, a.PasswordHash, a.Name,
	).Scan(&id)
	return id, insertErr("admin", err)
}

func insertErr(what string, err error) error {
	if err == nil {
		return nil
	}
	if pgCode(err) == pgUniqueViolation {
		return fmt.Errorf("create %s: %w", what, ErrAlreadyExists)
	}
	return fmt.Errorf("create %s: %w", what, err)
}

// FindCredentials looks up a login by username within one role's table.
func (r *Repo) FindCredentials(ctx context.Context, role Role, username string) (Credentials, error) {
	table, err := role.table()
	if err != nil {
		return Credentials{}, err
	}
	var c Credentials
	err = r.DB.QueryRow(ctx,
		`SELECT id, username, name, password FROM `+table+` WHERE username = $1`, username,
	).Scan(&c.ID, &c.Username, &c.Name, &c.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("find %s credentials: %w", role, err)
	}
	return c, nil
}

func (r *Repo) ArtisanName(ctx context.Context, artisanID int64) (string, error) {
	var name string
	err := r.DB.QueryRow(ctx, `SELECT name FROM artisans WHERE id = $1`, artisanID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}

func (r *Repo) BuyerPreferences(ctx context.Context, buyerID int64) (string, error) {
	var prefs string
	err := r.DB.QueryRow(ctx, `SELECT preferences FROM buyers WHERE id = $1`, buyerID).Scan(&prefs)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return prefs, err
}

func (r *Repo) ListAccounts(ctx context.Context, role Role) ([]Account, error) {
	var q string
	switch role {
	case RoleArtisan:
		q = `SELECT id, username, email, name, location, language, '', created_at FROM artisans ORDER BY created_at DESC, id DESC`
	case RoleBuyer:
		q = `SELECT id, username, email, name, '', '', preferences, created_at FROM buyers ORDER BY created_at DESC, id DESC`
	case RoleAdmin:
		q = `SELECT id, username, email, name, '', '', '', created_at FROM admins ORDER BY created_at DESC, id DESC`
	default:
		return nil, fmt.Errorf("unknown role %q", string(role))
	}
	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Account{}
	for rows.Next() {
		a := Account{Role: role}
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.Name, &a.Location, &a.Language, &a.Preferences, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAccount applies the non-nil fields allowed for the role.
// Location and Language only exist on artisans, Preferences only on buyers.
func (r *Repo) UpdateAccount(ctx context.Context, role Role, id int64, u AccountUpdate) error {
	table, err := role.table()
	if err != nil {
		return err
	}
	var (
		sets []string
		args []any
	)
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("name", u.Name)
	add("email", u.Email)
	if role == RoleArtisan {
		add("location", u.Location)
		add("language", u.Language)
	}
	if role == RoleBuyer {
		add("preferences", u.Preferences)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	ct, err := r.DB.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`, table, strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return fmt.Errorf("update %s %d: %w", role, id, ErrAlreadyExists)
		}
		return fmt.Errorf("update %s %d: %w", role, id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAccount removes the row; dependent products, cart lines and interactions cascade.
func (r *Repo) DeleteAccount(ctx context.Context, role Role, id int64) error {
	table, err := role.table()
	if err != nil {
		return err
	}
	ct, err := r.DB.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", role, id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) UpdatePassword(ctx context.Context, role Role, username, hash string) error {
	table, err := role.table()
	if err != nil {
		return err
	}
	ct, err := r.DB.Exec(ctx, `UPDATE `+table+` SET password = $2 WHERE username = $1`, username, hash)
	if err != nil {
		return fmt.Errorf("update %s password: %w", role, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
