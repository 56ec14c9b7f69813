package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

type profileRepo struct{ s *Store }

func (r profileRepo) GetByID(ctx context.Context, id string) (*repository.Profile, error) {
	var (
		p  repository.Profile
		ok bool
	)
	r.s.read(func(d *data) { p, ok = d.profiles[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r profileRepo) GetByEmail(ctx context.Context, email string) (*repository.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var found *repository.Profile
	r.s.read(func(d *data) {
		for _, p := range d.profiles {
			if p.Email == email {
				p := p
				found = &p
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r profileRepo) Create(ctx context.Context, in repository.CreateProfileInput) (*repository.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !in.Role.Valid() {
		return nil, repository.ErrInvalidInput
	}
	now := r.s.now()
	p := repository.Profile{
		ID:            newID(),
		Email:         email,
		PasswordHash:  in.PasswordHash,
		FullName:      in.FullName,
		Phone:         in.Phone,
		Role:          in.Role,
		EmailVerified: in.EmailVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := r.s.write(func(d *data) error {
		for _, other := range d.profiles {
			if other.Email == email {
				return repository.ErrConflict
			}
		}
		d.profiles[p.ID] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r profileRepo) mutate(id string, fn func(p *repository.Profile)) error {
	return r.s.write(func(d *data) error {
		p, ok := d.profiles[id]
		if !ok {
			return repository.ErrNotFound
		}
		fn(&p)
		p.UpdatedAt = r.s.now()
		d.profiles[id] = p
		return nil
	})
}

func (r profileRepo) Update(ctx context.Context, id string, in repository.UpdateProfileInput) error {
	return r.mutate(id, func(p *repository.Profile) {
		if in.FullName != nil {
			p.FullName = *in.FullName
		}
		if in.Phone != nil {
			p.Phone = *in.Phone
		}
	})
}

func (r profileRepo) SetRole(ctx context.Context, id string, role repository.Role) error {
	if !role.Valid() {
		return repository.ErrInvalidInput
	}
	return r.mutate(id, func(p *repository.Profile) { p.Role = role })
}

func (r profileRepo) SetEmailVerified(ctx context.Context, id string, verified bool) error {
	return r.mutate(id, func(p *repository.Profile) { p.EmailVerified = verified })
}

func (r profileRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.mutate(id, func(p *repository.Profile) { p.PasswordHash = hash })
}

func (r profileRepo) List(ctx context.Context, f repository.ListProfilesFilter) ([]repository.Profile, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []repository.Profile
	r.s.read(func(d *data) {
		for _, p := range d.profiles {
			if f.Role != "" && p.Role != f.Role {
				continue
			}
			if search != "" && !strings.Contains(p.Email, search) &&
				!strings.Contains(strings.ToLower(p.FullName), search) {
				continue
			}
			out = append(out, p)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Limit, f.Offset, 50, 200), nil
}

func (r profileRepo) CountByRole(ctx context.Context) (map[repository.Role]int, error) {
	out := map[repository.Role]int{}
	r.s.read(func(d *data) {
		for _, p := range d.profiles {
			out[p.Role]++
		}
	})
	return out, nil
}

// ─── Residences ───

type residenceRepo struct{ s *Store }

func (r residenceRepo) GetByID(ctx context.Context, id string) (*repository.Residence, error) {
	var (
		res repository.Residence
		ok  bool
	)
	r.s.read(func(d *data) { res, ok = d.residences[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &res, nil
}

func (r residenceRepo) GetBySyndic(ctx context.Context, profileID string) (*repository.Residence, error) {
	var found *repository.Residence
	r.s.read(func(d *data) {
		for _, res := range d.residences {
			if res.SyndicID != nil && *res.SyndicID == profileID {
				res := res
				found = &res
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r residenceRepo) List(ctx context.Context, f repository.ListResidencesFilter) ([]repository.Residence, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []repository.Residence
	r.s.read(func(d *data) {
		for _, res := range d.residences {
			if search != "" && !strings.Contains(strings.ToLower(res.Name), search) &&
				!strings.Contains(strings.ToLower(res.City), search) {
				continue
			}
			out = append(out, res)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.Limit, f.Offset, 50, 200), nil
}

func (r residenceRepo) Count(ctx context.Context) (int, error) {
	var n int
	r.s.read(func(d *data) { n = len(d.residences) })
	return n, nil
}

func syndicTaken(d *data, profileID, exceptResidence string) bool {
	for _, res := range d.residences {
		if res.ID != exceptResidence && res.SyndicID != nil && *res.SyndicID == profileID {
			return true
		}
	}
	return false
}

func (r residenceRepo) Create(ctx context.Context, in repository.CreateResidenceInput) (*repository.Residence, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, repository.ErrInvalidInput
	}
	now := r.s.now()
	res := repository.Residence{
		ID:        newID(),
		Name:      in.Name,
		Address:   in.Address,
		City:      in.City,
		SyndicID:  in.SyndicID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.s.write(func(d *data) error {
		if in.SyndicID != nil && syndicTaken(d, *in.SyndicID, "") {
			return repository.ErrConflict
		}
		d.residences[res.ID] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r residenceRepo) Update(ctx context.Context, id string, in repository.UpdateResidenceInput) error {
	return r.s.write(func(d *data) error {
		res, ok := d.residences[id]
		if !ok {
			return repository.ErrNotFound
		}
		if in.Name != nil {
			res.Name = *in.Name
		}
		if in.Address != nil {
			res.Address = *in.Address
		}
		if in.City != nil {
			res.City = *in.City
		}
		res.UpdatedAt = r.s.now()
		d.residences[id] = res
		return nil
	})
}

func (r residenceRepo) SetSyndic(ctx context.Context, residenceID, profileID string) error {
	return r.s.write(func(d *data) error {
		res, ok := d.residences[residenceID]
		if !ok {
			return repository.ErrNotFound
		}
		if syndicTaken(d, profileID, residenceID) {
			return repository.ErrConflict
		}
		id := profileID
		res.SyndicID = &id
		res.UpdatedAt = r.s.now()
		d.residences[residenceID] = res
		return nil
	})
}

// ─── Profile/Residence links ───

type linkRepo struct{ s *Store }

func (r linkRepo) GetByID(ctx context.Context, id string) (*repository.ProfileResidence, error) {
	var (
		l  repository.ProfileResidence
		ok bool
	)
	r.s.read(func(d *data) { l, ok = d.links[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r linkRepo) Get(ctx context.Context, profileID, residenceID string) (*repository.ProfileResidence, error) {
	var found *repository.ProfileResidence
	r.s.read(func(d *data) {
		for _, l := range d.links {
			if l.ProfileID == profileID && l.ResidenceID == residenceID {
				l := l
				found = &l
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r linkRepo) ListByProfile(ctx context.Context, profileID string) ([]repository.ProfileResidence, error) {
	var out []repository.ProfileResidence
	r.s.read(func(d *data) {
		for _, l := range d.links {
			if l.ProfileID == profileID {
				out = append(out, l)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r linkRepo) ListByResidence(ctx context.Context, residenceID string, f repository.RosterFilter) ([]repository.ResidentRow, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []repository.ResidentRow
	r.s.read(func(d *data) {
		for _, l := range d.links {
			if l.ResidenceID != residenceID {
				continue
			}
			if f.Verified != nil && l.Verified != *f.Verified {
				continue
			}
			p := d.profiles[l.ProfileID]
			if f.Role != "" && p.Role != f.Role {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.FullName), search) &&
				!strings.Contains(p.Email, search) &&
				!strings.Contains(strings.ToLower(l.Apartment), search) {
				continue
			}
			out = append(out, repository.ResidentRow{
				ProfileResidence: l,
				FullName:         p.FullName,
				Email:            p.Email,
				Phone:            p.Phone,
				Role:             p.Role,
			})
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Apartment != out[j].Apartment {
			return out[i].Apartment < out[j].Apartment
		}
		return out[i].FullName < out[j].FullName
	})
	return out, nil
}

func (r linkRepo) Create(ctx context.Context, in repository.CreateLinkInput) (*repository.ProfileResidence, error) {
	now := r.s.now()
	l := repository.ProfileResidence{
		ID:          newID(),
		ProfileID:   in.ProfileID,
		ResidenceID: in.ResidenceID,
		Apartment:   in.Apartment,
		Verified:    in.Verified,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.s.write(func(d *data) error {
		if _, ok := d.profiles[in.ProfileID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := d.residences[in.ResidenceID]; !ok {
			return repository.ErrNotFound
		}
		for _, other := range d.links {
			if other.ProfileID == in.ProfileID && other.ResidenceID == in.ResidenceID {
				return repository.ErrConflict
			}
		}
		d.links[l.ID] = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r linkRepo) mutate(id string, fn func(l *repository.ProfileResidence)) error {
	return r.s.write(func(d *data) error {
		l, ok := d.links[id]
		if !ok {
			return repository.ErrNotFound
		}
		fn(&l)
		l.UpdatedAt = r.s.now()
		d.links[id] = l
		return nil
	})
}

func (r linkRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.mutate(id, func(l *repository.ProfileResidence) { l.Verified = verified })
}

func (r linkRepo) UpdateApartment(ctx context.Context, id, apartment string) error {
	return r.mutate(id, func(l *repository.ProfileResidence) { l.Apartment = apartment })
}

func (r linkRepo) SetCredit(ctx context.Context, id string, credit money.Amount) error {
	if credit.IsNegative() {
		return repository.ErrInvalidInput
	}
	return r.mutate(id, func(l *repository.ProfileResidence) { l.CreditBalance = credit })
}

func (r linkRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.links[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.links, id)
		return nil
	})
}
