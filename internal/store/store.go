package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/section"
)

const uniqueViolation = "23505"

const campaignCols = `id, name, slug, sections, is_active, background_color, created_by, created_at, updated_at`

const (
	qInsertCampaign = `
		INSERT INTO campaigns (name, slug, sections, is_active, background_color, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`
	qGetCampaign    = `SELECT ` + campaignCols + ` FROM campaigns WHERE slug = $1`
	qDeleteCampaign = `DELETE FROM campaigns WHERE slug = $1`
	qInsertUser     = `
		INSERT INTO users (username, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`
	qGetUser = `
		SELECT id, username, password_hash, role, is_active, created_at, updated_at
		FROM users WHERE username = $1`
)

var sortColumns = map[string]string{
	campaign.SortName:      "name",
	campaign.SortSlug:      "slug",
	campaign.SortCreatedAt: "created_at",
	campaign.SortUpdatedAt: "updated_at",
}

// Postgres stores campaigns with their sections as one JSONB column.
type Postgres struct {
	DB *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{DB: db} }

func (s *Postgres) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func encodeSections(ss []section.Section) ([]byte, error) {
	if ss == nil {
		ss = []section.Section{}
	}
	return json.Marshal(ss)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(r rowScanner) (campaign.Campaign, error) {
	var (
		c   campaign.Campaign
		id  int64
		raw []byte
	)
	if err := r.Scan(&id, &c.Name, &c.Slug, &raw, &c.IsActive, &c.BackgroundColor, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return campaign.Campaign{}, err
	}
	c.ID = strconv.FormatInt(id, 10)
	if err := json.Unmarshal(raw, &c.Sections); err != nil {
		return campaign.Campaign{}, apperr.Wrap(apperr.KindIntegrity, apperr.CodeContentMismatch, err, "decode sections of %q", c.Slug)
	}
	return c, nil
}

func (s *Postgres) CreateCampaign(ctx context.Context, c *campaign.Campaign) error {
	raw, err := encodeSections(c.Sections)
	if err != nil {
		return err
	}
	var id int64
	err = s.DB.QueryRowContext(ctx, qInsertCampaign,
		c.Name, c.Slug, raw, c.IsActive, c.BackgroundColor, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return slugTaken(c.Slug)
		}
		return apperr.Transport(err, "insert campaign")
	}
	c.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Postgres) GetCampaign(ctx context.Context, slug string) (campaign.Campaign, error) {
	c, err := scanCampaign(s.DB.QueryRowContext(ctx, qGetCampaign, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return campaign.Campaign{}, notFound(slug)
		}
		if _, ok := apperr.As(err); ok {
			return campaign.Campaign{}, err
		}
		return campaign.Campaign{}, apperr.Transport(err, "get campaign")
	}
	return c, nil
}

// updateQuery builds the UPDATE statement for the fields set in p.
func updateQuery(slug string, p campaign.Patch) (string, []any, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Sections != nil {
		raw, err := encodeSections(*p.Sections)
		if err != nil {
			return "", nil, err
		}
		add("sections", raw)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	if p.BackgroundColor != nil {
		add("background_color", *p.BackgroundColor)
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	add("updated_at", updatedAt)

	args = append(args, slug)
	q := fmt.Sprintf(`UPDATE campaigns SET %s WHERE slug = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), campaignCols)
	return q, args, nil
}

func (s *Postgres) UpdateCampaign(ctx context.Context, slug string, p campaign.Patch) (campaign.Campaign, error) {
	q, args, err := updateQuery(slug, p)
	if err != nil {
		return campaign.Campaign{}, err
	}
	c, err := scanCampaign(s.DB.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return campaign.Campaign{}, notFound(slug)
		}
		if _, ok := apperr.As(err); ok {
			return campaign.Campaign{}, err
		}
		return campaign.Campaign{}, apperr.Transport(err, "update campaign")
	}
	return c, nil
}

func (s *Postgres) DeleteCampaign(ctx context.Context, slug string) error {
	res, err := s.DB.ExecContext(ctx, qDeleteCampaign, slug)
	if err != nil {
		return apperr.Transport(err, "delete campaign")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Transport(err, "delete campaign")
	}
	if n == 0 {
		return notFound(slug)
	}
	return nil
}

func listQueries(q campaign.ListQuery) (count, page string, args []any) {
	where := ""
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		where = ` WHERE (name ILIKE $1 OR slug ILIKE $1)`
	}
	dir := "ASC"
	if q.Desc() {
		dir = "DESC"
	}
	count = `SELECT COUNT(*) FROM campaigns` + where
	page = fmt.Sprintf(`SELECT %s FROM campaigns%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		campaignCols, where, sortColumns[q.Sort], dir, dir, len(args)+1, len(args)+2)
	return count, page, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListCampaigns counts and reads the page in one transaction.
func (s *Postgres) ListCampaigns(ctx context.Context, q campaign.ListQuery) (campaign.ListResult, error) {
	q = q.Normalize()
	countQ, pageQ, args := listQueries(q)

	var (
		total int64
		items []campaign.Campaign
	)
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
			return apperr.Transport(err, "count campaigns")
		}
		rows, err := tx.QueryContext(ctx, pageQ, append(args, q.Limit, q.Offset())...)
		if err != nil {
			return apperr.Transport(err, "list campaigns")
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCampaign(rows)
			if err != nil {
				if _, ok := apperr.As(err); ok {
					return err
				}
				return apperr.Transport(err, "scan campaign")
			}
			items = append(items, c)
		}
		if err := rows.Err(); err != nil {
			return apperr.Transport(err, "list campaigns")
		}
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return campaign.ListResult{}, err
		}
		return campaign.ListResult{}, apperr.Transport(err, "list campaigns")
	}
	return q.Result(items, total), nil
}

func (s *Postgres) CreateUser(ctx context.Context, u *auth.User) error {
	var id int64
	err := s.DB.QueryRowContext(ctx, qInsertUser,
		u.Username, u.PasswordHash, string(u.Role), u.IsActive, u.CreatedAt, u.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return usernameTaken(u.Username)
		}
		return apperr.Transport(err, "insert user")
	}
	u.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Postgres) GetUserByUsername(ctx context.Context, username string) (auth.User, error) {
	var (
		u    auth.User
		id   int64
		role string
	)
	err := s.DB.QueryRowContext(ctx, qGetUser, username).
		Scan(&id, &u.Username, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, apperr.ErrUserNotFound
		}
		return auth.User{}, apperr.Transport(err, "get user")
	}
	u.ID = strconv.FormatInt(id, 10)
	u.Role = auth.Role(role)
	return u, nil
}
