package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

// conds arma cláusulas WHERE con placeholders posicionales.
// Cada "?" de la expresión se reemplaza por el mismo $n.
type conds struct {
	parts []string
	args  []any
}

func (c *conds) add(expr string, arg any) {
	c.args = append(c.args, arg)
	c.parts = append(c.parts, strings.ReplaceAll(expr, "?", fmt.Sprintf("$%d", len(c.args))))
}

func (c *conds) raw(expr string) { c.parts = append(c.parts, expr) }

func (c *conds) where() string {
	if len(c.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.parts, " AND ")
}

// next retorna el siguiente placeholder libre.
func (c *conds) next(arg any) string {
	c.args = append(c.args, arg)
	return fmt.Sprintf("$%d", len(c.args))
}

// ─── Profiles ───

type profileRepo struct{ q querier }

const profileCols = `id, email, password_hash, full_name, phone, role, email_verified, created_at, updated_at`

func scanProfile(row pgx.Row) (*repository.Profile, error) {
	var p repository.Profile
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Phone, &p.Role,
		&p.EmailVerified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*repository.Profile, error) {
	return scanProfile(r.q.QueryRow(ctx, `SELECT `+profileCols+` FROM profiles WHERE id = $1`, id))
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*repository.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanProfile(r.q.QueryRow(ctx, `SELECT `+profileCols+` FROM profiles WHERE email = $1`, email))
}

func (r *profileRepo) Create(ctx context.Context, in repository.CreateProfileInput) (*repository.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !in.Role.Valid() {
		return nil, repository.ErrInvalidInput
	}
	const q = `
		INSERT INTO profiles (id, email, password_hash, full_name, phone, role, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + profileCols
	return scanProfile(r.q.QueryRow(ctx, q, newID(), email, in.PasswordHash, in.FullName, in.Phone,
		in.Role, in.EmailVerified))
}

func (r *profileRepo) Update(ctx context.Context, id string, in repository.UpdateProfileInput) error {
	const q = `
		UPDATE profiles
		SET full_name = COALESCE($2, full_name),
		    phone = COALESCE($3, phone),
		    updated_at = NOW()
		WHERE id = $1`
	return expectOne(r.q.Exec(ctx, q, id, in.FullName, in.Phone))
}

func (r *profileRepo) SetRole(ctx context.Context, id string, role repository.Role) error {
	if !role.Valid() {
		return repository.ErrInvalidInput
	}
	return expectOne(r.q.Exec(ctx, `UPDATE profiles SET role = $2, updated_at = NOW() WHERE id = $1`, id, role))
}

func (r *profileRepo) SetEmailVerified(ctx context.Context, id string, verified bool) error {
	return expectOne(r.q.Exec(ctx,
		`UPDATE profiles SET email_verified = $2, updated_at = NOW() WHERE id = $1`, id, verified))
}

func (r *profileRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return expectOne(r.q.Exec(ctx,
		`UPDATE profiles SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash))
}

func (r *profileRepo) List(ctx context.Context, f repository.ListProfilesFilter) ([]repository.Profile, error) {
	var c conds
	if f.Role != "" {
		c.add("role = ?", f.Role)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		c.add("(email ILIKE ? OR full_name ILIKE ?)", "%"+s+"%")
	}
	limit, offset := limitOffset(f.Limit, f.Offset)
	q := `SELECT ` + profileCols + ` FROM profiles` + c.where() +
		` ORDER BY created_at DESC LIMIT ` + c.next(limit) + ` OFFSET ` + c.next(offset)

	rows, err := r.q.Query(ctx, q, c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *profileRepo) CountByRole(ctx context.Context) (map[repository.Role]int, error) {
	rows, err := r.q.Query(ctx, `SELECT role, COUNT(*) FROM profiles GROUP BY role`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := map[repository.Role]int{}
	for rows.Next() {
		var (
			role repository.Role
			n    int
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		out[role] = n
	}
	return out, rows.Err()
}

// ─── Residences ───

type residenceRepo struct{ q querier }

const residenceCols = `id, name, address, city, syndic_id, created_at, updated_at`

func scanResidence(row pgx.Row) (*repository.Residence, error) {
	var res repository.Residence
	if err := row.Scan(&res.ID, &res.Name, &res.Address, &res.City, &res.SyndicID,
		&res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &res, nil
}

func (r *residenceRepo) GetByID(ctx context.Context, id string) (*repository.Residence, error) {
	return scanResidence(r.q.QueryRow(ctx, `SELECT `+residenceCols+` FROM residences WHERE id = $1`, id))
}

func (r *residenceRepo) GetBySyndic(ctx context.Context, profileID string) (*repository.Residence, error) {
	return scanResidence(r.q.QueryRow(ctx, `SELECT `+residenceCols+` FROM residences WHERE syndic_id = $1`, profileID))
}

func (r *residenceRepo) List(ctx context.Context, f repository.ListResidencesFilter) ([]repository.Residence, error) {
	var c conds
	if s := strings.TrimSpace(f.Search); s != "" {
		c.add("(name ILIKE ? OR city ILIKE ?)", "%"+s+"%")
	}
	limit, offset := limitOffset(f.Limit, f.Offset)
	q := `SELECT ` + residenceCols + ` FROM residences` + c.where() +
		` ORDER BY name LIMIT ` + c.next(limit) + ` OFFSET ` + c.next(offset)

	rows, err := r.q.Query(ctx, q, c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.Residence{}
	for rows.Next() {
		res, err := scanResidence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *residenceRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM residences`).Scan(&n); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (r *residenceRepo) Create(ctx context.Context, in repository.CreateResidenceInput) (*repository.Residence, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, repository.ErrInvalidInput
	}
	const q = `
		INSERT INTO residences (id, name, address, city, syndic_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + residenceCols
	return scanResidence(r.q.QueryRow(ctx, q, newID(), in.Name, in.Address, in.City, in.SyndicID))
}

func (r *residenceRepo) Update(ctx context.Context, id string, in repository.UpdateResidenceInput) error {
	const q = `
		UPDATE residences
		SET name = COALESCE($2, name),
		    address = COALESCE($3, address),
		    city = COALESCE($4, city),
		    updated_at = NOW()
		WHERE id = $1`
	return expectOne(r.q.Exec(ctx, q, id, in.Name, in.Address, in.City))
}

// SetSyndic depende del índice único sobre syndic_id para el conflicto.
func (r *residenceRepo) SetSyndic(ctx context.Context, residenceID, profileID string) error {
	return expectOne(r.q.Exec(ctx,
		`UPDATE residences SET syndic_id = $2, updated_at = NOW() WHERE id = $1`, residenceID, profileID))
}

// ─── Profile/Residence links ───

type linkRepo struct {
	q    querier
	lock bool
}

const linkCols = `id, profile_id, residence_id, apartment, verified, credit_balance, created_at, updated_at`

func scanLink(row pgx.Row) (*repository.ProfileResidence, error) {
	var l repository.ProfileResidence
	if err := row.Scan(&l.ID, &l.ProfileID, &l.ResidenceID, &l.Apartment, &l.Verified,
		&l.CreditBalance, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &l, nil
}

func (r *linkRepo) GetByID(ctx context.Context, id string) (*repository.ProfileResidence, error) {
	return scanLink(r.q.QueryRow(ctx, `SELECT `+linkCols+` FROM profile_residences WHERE id = $1`, id))
}

func (r *linkRepo) Get(ctx context.Context, profileID, residenceID string) (*repository.ProfileResidence, error) {
	q := `SELECT ` + linkCols + ` FROM profile_residences WHERE profile_id = $1 AND residence_id = $2`
	if r.lock {
		q += ` FOR UPDATE`
	}
	return scanLink(r.q.QueryRow(ctx, q, profileID, residenceID))
}

func (r *linkRepo) ListByProfile(ctx context.Context, profileID string) ([]repository.ProfileResidence, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+linkCols+` FROM profile_residences WHERE profile_id = $1 ORDER BY created_at`, profileID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.ProfileResidence{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *linkRepo) ListByResidence(ctx context.Context, residenceID string, f repository.RosterFilter) ([]repository.ResidentRow, error) {
	var c conds
	c.add("pr.residence_id = ?", residenceID)
	if f.Verified != nil {
		c.add("pr.verified = ?", *f.Verified)
	}
	if f.Role != "" {
		c.add("p.role = ?", f.Role)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		c.add("(p.full_name ILIKE ? OR p.email ILIKE ? OR pr.apartment ILIKE ?)", "%"+s+"%")
	}
	q := `
		SELECT pr.id, pr.profile_id, pr.residence_id, pr.apartment, pr.verified, pr.credit_balance,
		       pr.created_at, pr.updated_at, p.full_name, p.email, p.phone, p.role
		FROM profile_residences pr
		JOIN profiles p ON p.id = pr.profile_id` + c.where() + `
		ORDER BY pr.apartment, p.full_name`

	rows, err := r.q.Query(ctx, q, c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []repository.ResidentRow{}
	for rows.Next() {
		var row repository.ResidentRow
		if err := rows.Scan(&row.ID, &row.ProfileID, &row.ResidenceID, &row.Apartment, &row.Verified,
			&row.CreditBalance, &row.CreatedAt, &row.UpdatedAt,
			&row.FullName, &row.Email, &row.Phone, &row.Role); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *linkRepo) Create(ctx context.Context, in repository.CreateLinkInput) (*repository.ProfileResidence, error) {
	const q = `
		INSERT INTO profile_residences (id, profile_id, residence_id, apartment, verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + linkCols
	return scanLink(r.q.QueryRow(ctx, q, newID(), in.ProfileID, in.ResidenceID, in.Apartment, in.Verified))
}

func (r *linkRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	return expectOne(r.q.Exec(ctx,
		`UPDATE profile_residences SET verified = $2, updated_at = NOW() WHERE id = $1`, id, verified))
}

func (r *linkRepo) UpdateApartment(ctx context.Context, id, apartment string) error {
	return expectOne(r.q.Exec(ctx,
		`UPDATE profile_residences SET apartment = $2, updated_at = NOW() WHERE id = $1`, id, apartment))
}

func (r *linkRepo) SetCredit(ctx context.Context, id string, credit money.Amount) error {
	if credit.IsNegative() {
		return repository.ErrInvalidInput
	}
	return expectOne(r.q.Exec(ctx,
		`UPDATE profile_residences SET credit_balance = $2, updated_at = NOW() WHERE id = $1`, id, int64(credit)))
}

func (r *linkRepo) Delete(ctx context.Context, id string) error {
	return expectOne(r.q.Exec(ctx, `DELETE FROM profile_residences WHERE id = $1`, id))
}
