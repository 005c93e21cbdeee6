package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/triviaz/internal/state"
)

const activeProfileID = 1

// profileRepo implements ProfileRepo with one JSON document per identity.
type profileRepo struct {
	db *sql.DB
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *profileRepo) Load(ctx context.Context, identity string) (*state.SessionState, error) {
	query, args := builder().
		Select("data").
		From(entsql.Table(profilesTable)).
		Where(entsql.EQ("name", identity)).
		Query()

	var data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", identity, err)
	}

	st, err := state.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", identity, err)
	}
	st.Identity = identity
	return &st, nil
}

func (r *profileRepo) Save(ctx context.Context, identity string, s state.SessionState) error {
	s.Identity = identity
	data, err := state.Encode(s)
	if err != nil {
		return err
	}

	query, args := builder().
		Insert(profilesTable).
		Columns("name", "data", "updated_at").
		Values(identity, string(data), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save profile %q: %w", identity, err)
	}
	return nil
}

func (r *profileRepo) LoadActiveIdentity(ctx context.Context) (string, error) {
	query, args := builder().
		Select("name").
		From(entsql.Table(activeProfileTable)).
		Where(entsql.EQ("id", activeProfileID)).
		Query()

	var name string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load active profile: %w", err)
	}
	return name, nil
}

func (r *profileRepo) SaveActiveIdentity(ctx context.Context, identity string) error {
	var query string
	var args []any
	if identity == "" {
		query, args = builder().
			Delete(activeProfileTable).
			Where(entsql.EQ("id", activeProfileID)).
			Query()
	} else {
		query, args = builder().
			Insert(activeProfileTable).
			Columns("id", "name").
			Values(activeProfileID, identity).
			OnConflict(
				entsql.ConflictColumns("id"),
				entsql.ResolveWithNewValues(),
			).
			Query()
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save active profile: %w", err)
	}
	return nil
}

func (r *profileRepo) List(ctx context.Context) ([]ProfileSummary, error) {
	active, err := r.LoadActiveIdentity(ctx)
	if err != nil {
		return nil, err
	}

	query, args := builder().
		Select("name", "updated_at").
		From(entsql.Table(profilesTable)).
		OrderBy(entsql.Desc("updated_at"), "name").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []ProfileSummary
	for rows.Next() {
		var p ProfileSummary
		if err := rows.Scan(&p.Name, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p.Active = p.Name == active
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profileRepo) Delete(ctx context.Context, identity string) (bool, error) {
	query, args := builder().
		Delete(profilesTable).
		Where(entsql.EQ("name", identity)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete profile %q: %w", identity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete profile %q: %w", identity, err)
	}

	active, err := r.LoadActiveIdentity(ctx)
	if err != nil {
		return n > 0, err
	}
	if active == identity {
		if err := r.SaveActiveIdentity(ctx, ""); err != nil {
			return n > 0, err
		}
	}
	return n > 0, nil
}
