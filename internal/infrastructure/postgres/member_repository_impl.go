package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/internal/domain/repository"
)

const uniqueViolation = "23505"

const selectMembers = `SELECT id, name, email, phone_number FROM members`

type MemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*entity.Member, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, selectMembers+` WHERE id = $1`, key)
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*entity.Member, error) {
	return r.findOne(ctx, selectMembers+` WHERE email = $1`, email)
}

func (r *MemberRepository) FindByNameContainingIgnoreCase(ctx context.Context, fragment string) ([]entity.Member, error) {
	return r.findMany(ctx, selectMembers+` WHERE name ILIKE $1 ORDER BY id`, "%"+escapeLike(fragment)+"%")
}

// FindByEmailDomain matches emails ending with domain, ignoring case.
func (r *MemberRepository) FindByEmailDomain(ctx context.Context, domain string) ([]entity.Member, error) {
	return r.findMany(ctx, selectMembers+` WHERE email ILIKE $1 ORDER BY id`, "%"+escapeLike(domain))
}

func (r *MemberRepository) FindAll(ctx context.Context) ([]entity.Member, error) {
	return r.findMany(ctx, selectMembers+` ORDER BY id`)
}

func (r *MemberRepository) FindAllSorted(ctx context.Context, sort repository.Sort) ([]entity.Member, error) {
	return r.findMany(ctx, selectMembers+` ORDER BY `+orderBy(sort))
}

func (r *MemberRepository) FindPage(ctx context.Context, req repository.PageRequest) (repository.Page, error) {
	return r.FindPageByExample(ctx, repository.Example{}, req)
}

func (r *MemberRepository) FindByExample(ctx context.Context, ex repository.Example) ([]entity.Member, error) {
	where, args := exampleWhere(ex)
	return r.findMany(ctx, selectMembers+where+` ORDER BY id`, args...)
}

func (r *MemberRepository) FindPageByExample(ctx context.Context, ex repository.Example, req repository.PageRequest) (repository.Page, error) {
	req = req.Normalize()
	total, err := r.CountByExample(ctx, ex)
	if err != nil {
		return repository.Page{}, err
	}
	where, args := exampleWhere(ex)
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT %d OFFSET %d", selectMembers, where, orderBy(req.Sort), req.Size, req.Offset())
	items, err := r.findMany(ctx, query, args...)
	if err != nil {
		return repository.Page{}, err
	}
	return repository.Page{Items: items, Total: total, Page: req.Page, Size: req.Size}, nil
}

func (r *MemberRepository) CountByExample(ctx context.Context, ex repository.Example) (int64, error) {
	where, args := exampleWhere(ex)
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM members`+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *MemberRepository) ExistsByExample(ctx context.Context, ex repository.Example) (bool, error) {
	n, err := r.CountByExample(ctx, ex)
	return n > 0, err
}

func (r *MemberRepository) Save(ctx context.Context, m *entity.Member) error {
	if m.IsNew() {
		var id int64
		err := r.pool.QueryRow(ctx, `
			INSERT INTO members (name, email, phone_number)
			VALUES ($1, $2, $3)
			RETURNING id
		`, m.Name, m.Email, m.PhoneNumber).Scan(&id)
		if err != nil {
			return translate(err)
		}
		m.ID = strconv.FormatInt(id, 10)
		return nil
	}

	key, ok := parseID(m.ID)
	if !ok {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE members
		SET name = $1, email = $2, phone_number = $3
		WHERE id = $4
	`, m.Name, m.Email, m.PhoneNumber, key)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MemberRepository) DeleteByID(ctx context.Context, id string) error {
	key, ok := parseID(id)
	if !ok {
		return repository.ErrNotFound
	}
	return r.exec(ctx, `DELETE FROM members WHERE id = $1`, key)
}

func (r *MemberRepository) Delete(ctx context.Context, m *entity.Member) error {
	return r.exec(ctx, `DELETE FROM members WHERE email = $1`, m.Email)
}

func (r *MemberRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM members`)
	return err
}

func (r *MemberRepository) Count(ctx context.Context) (int64, error) {
	return r.CountByExample(ctx, repository.Example{})
}

func (r *MemberRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	key, ok := parseID(id)
	if !ok {
		return false, nil
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE id = $1)`, key).Scan(&exists)
	return exists, err
}

func (r *MemberRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Member, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	m, err := pgx.CollectExactlyOneRow(rows, scanMember)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) findMany(ctx context.Context, query string, args ...any) ([]entity.Member, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanMember)
}

// exec runs a delete and reports ErrNotFound when nothing matched.
func (r *MemberRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanMember(row pgx.CollectableRow) (entity.Member, error) {
	var (
		m  entity.Member
		id int64
	)
	if err := row.Scan(&id, &m.Name, &m.Email, &m.PhoneNumber); err != nil {
		return m, err
	}
	m.ID = strconv.FormatInt(id, 10)
	return m, nil
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicateEmail
	}
	return err
}

// parseID accepts only positive decimal keys; anything else cannot exist.
func parseID(id string) (int64, bool) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil || key <= 0 {
		return 0, false
	}
	return key, true
}

// orderBy compares lowercased text bytewise, independent of the database
// collation. This matches repository.SortMembers.
func orderBy(s repository.Sort) string {
	col := "id"
	switch s.Field {
	case repository.SortByName:
		col = `lower(name) COLLATE "C"`
	case repository.SortByEmail:
		col = `lower(email) COLLATE "C"`
	case repository.SortByPhoneNumber:
		col = "phone_number"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	if col == "id" {
		return "id " + dir
	}
	return col + " " + dir + ", id ASC"
}

func exampleWhere(ex repository.Example) (string, []any) {
	var (
		conds []string
		args  []any
	)
	like := "LIKE"
	if ex.IgnoreCase {
		like = "ILIKE"
	}
	add := func(col, op, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+escapeLike(value)+"%")
		conds = append(conds, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}
	add("name", like, ex.Sample.Name)
	add("email", like, ex.Sample.Email)
	add("phone_number", "LIKE", ex.Sample.PhoneNumber)
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ repository.MemberRepository = (*MemberRepository)(nil)
