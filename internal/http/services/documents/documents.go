// Package documents gestiona las solicitudes para administrar una residencia.
// Un usuario sube el acta que lo designa syndic; un admin la revisa y, al
// aprobarla, se crea la residencia con el solicitante como syndic.
package documents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/syndik/internal/audit"
	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/email"
	"github.com/dropDatabas3/syndik/internal/http/dto"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/storage"
	"github.com/dropDatabas3/syndik/internal/store"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrPendingExists   = errors.New("a pending submission already exists")
	ErrAlreadyReviewed = errors.New("document already reviewed")
	ErrAlreadySyndic   = errors.New("profile already manages a residence")
	ErrFilesDisabled   = errors.New("file storage not configured")
)

type Service interface {
	Submit(ctx context.Context, scope access.Scope, in dto.SubmitDocumentRequest) (*dto.DocumentResponse, error)
	List(ctx context.Context, scope access.Scope, status string) ([]dto.DocumentResponse, error)
	Get(ctx context.Context, scope access.Scope, id string) (*dto.DocumentResponse, error)
	FileURL(ctx context.Context, scope access.Scope, id string) (*dto.FileURLResponse, error)
	Approve(ctx context.Context, scope access.Scope, id string) (*dto.DocumentResponse, error)
	Reject(ctx context.Context, scope access.Scope, id, note string) (*dto.DocumentResponse, error)
}

type Deps struct {
	Store      store.Store
	Files      storage.Files
	Mailer     email.Mailer
	Metrics    *metrics.Metrics // nil = sin métricas
	PresignTTL time.Duration
	Roles      access.RoleLookup // nil = sin cache de roles que invalidar
	Now        func() time.Time
}

type service struct {
	deps Deps
}

func New(d Deps) Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Files == nil {
		d.Files = storage.Noop{}
	}
	if d.PresignTTL <= 0 {
		d.PresignTTL = 15 * time.Minute
	}
	return &service{deps: d}
}

func isAdmin(scope access.Scope) bool { return scope.Role == repository.RoleAdmin }

func (s *service) Submit(ctx context.Context, scope access.Scope, in dto.SubmitDocumentRequest) (*dto.DocumentResponse, error) {
	in.ResidenceName = strings.TrimSpace(in.ResidenceName)
	in.FileKey = strings.TrimSpace(in.FileKey)
	if in.ResidenceName == "" || in.FileKey == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.deps.Store.Residences().GetBySyndic(ctx, scope.UserID); err == nil {
		return nil, ErrAlreadySyndic
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	d, err := s.deps.Store.Documents().Create(ctx, repository.CreateDocumentInput{
		ProfileID:     scope.UserID,
		ResidenceName: in.ResidenceName,
		Address:       strings.TrimSpace(in.Address),
		City:          strings.TrimSpace(in.City),
		FileKey:       in.FileKey,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrPendingExists
		}
		return nil, err
	}
	logger.From(ctx).Info("document submitted", logger.Layer("service"), logger.UserID(scope.UserID), logger.DocumentID(d.ID))
	out := dto.Document(*d)
	return &out, nil
}

// List: el admin ve todas (filtrables por estado), el resto sólo las propias.
func (s *service) List(ctx context.Context, scope access.Scope, status string) ([]dto.DocumentResponse, error) {
	st := repository.DocumentStatus(status)
	switch st {
	case "", repository.DocumentPending, repository.DocumentApproved, repository.DocumentRejected:
	default:
		return nil, ErrInvalidStatus
	}
	f := repository.DocumentFilter{Status: st}
	if !isAdmin(scope) {
		f.ProfileID = scope.UserID
	}
	rows, err := s.deps.Store.Documents().List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, dto.Document(d))
	}
	return out, nil
}

func (s *service) visible(ctx context.Context, scope access.Scope, id string) (*repository.DocumentSubmission, error) {
	d, err := s.deps.Store.Documents().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin(scope) && d.ProfileID != scope.UserID {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (s *service) Get(ctx context.Context, scope access.Scope, id string) (*dto.DocumentResponse, error) {
	d, err := s.visible(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	out := dto.Document(*d)
	return &out, nil
}

func (s *service) FileURL(ctx context.Context, scope access.Scope, id string) (*dto.FileURLResponse, error) {
	d, err := s.visible(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	url, err := s.deps.Files.PresignGet(ctx, d.FileKey, s.deps.PresignTTL)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, ErrFilesDisabled
		}
		return nil, err
	}
	return &dto.FileURLResponse{URL: url, ExpiresAt: s.deps.Now().UTC().Add(s.deps.PresignTTL)}, nil
}

// Approve crea la residencia y promueve al solicitante en una sola transacción.
func (s *service) Approve(ctx context.Context, scope access.Scope, id string) (*dto.DocumentResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Documents.Approve"), logger.DocumentID(id))

	now := s.deps.Now().UTC()
	var doc *repository.DocumentSubmission
	var residence *repository.Residence
	err := s.deps.Store.InTx(ctx, func(tx store.Repositories) error {
		d, err := tx.Documents().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if d.Status != repository.DocumentPending {
			return ErrAlreadyReviewed
		}
		prof, err := tx.Profiles().GetByID(ctx, d.ProfileID)
		if err != nil {
			return err
		}
		syndic := d.ProfileID
		res, err := tx.Residences().Create(ctx, repository.CreateResidenceInput{
			Name:     d.ResidenceName,
			Address:  d.Address,
			City:     d.City,
			SyndicID: &syndic,
		})
		if err != nil {
			if repository.IsConflict(err) {
				return ErrAlreadySyndic
			}
			return err
		}
		if prof.Role != repository.RoleAdmin && prof.Role != repository.RoleSyndic {
			if err := tx.Profiles().SetRole(ctx, prof.ID, repository.RoleSyndic); err != nil {
				return err
			}
		}
		review := repository.DocumentReview{
			Status:      repository.DocumentApproved,
			ReviewerID:  scope.UserID,
			At:          now,
			ResidenceID: &res.ID,
		}
		if err := tx.Documents().Review(ctx, d.ID, review); err != nil {
			if repository.IsConflict(err) {
				return ErrAlreadyReviewed
			}
			return err
		}
		doc, residence = d, res
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.deps.Roles != nil {
		s.deps.Roles.Forget(ctx, doc.ProfileID)
	}
	log.Info("document approved", logger.ResidenceID(residence.ID), logger.UserID(doc.ProfileID))
	audit.Log(ctx, audit.DocumentApproved, scope.UserID,
		logger.DocumentID(doc.ID), logger.UserID(doc.ProfileID), logger.ResidenceID(residence.ID))
	s.reviewed(repository.DocumentApproved)

	if prof, err := s.deps.Store.Profiles().GetByID(ctx, doc.ProfileID); err == nil {
		to := email.Recipient{Email: prof.Email, Name: prof.FullName}
		if err := s.deps.Mailer.SendDocumentApproved(ctx, to, residence.Name); err != nil {
			log.Warn("approval email failed", logger.Err(err))
		}
	}

	reviewer := scope.UserID
	doc.Status = repository.DocumentApproved
	doc.ReviewedBy = &reviewer
	doc.ReviewedAt = &now
	doc.ResidenceID = &residence.ID
	out := dto.Document(*doc)
	return &out, nil
}

// Reject marca la solicitud como rechazada y borra el archivo subido.
func (s *service) Reject(ctx context.Context, scope access.Scope, id, note string) (*dto.DocumentResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Documents.Reject"), logger.DocumentID(id))

	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrMissingFields
	}
	d, err := s.deps.Store.Documents().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != repository.DocumentPending {
		return nil, ErrAlreadyReviewed
	}
	now := s.deps.Now().UTC()
	err = s.deps.Store.Documents().Review(ctx, d.ID, repository.DocumentReview{
		Status:     repository.DocumentRejected,
		Note:       note,
		ReviewerID: scope.UserID,
		At:         now,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	log.Info("document rejected")
	audit.Log(ctx, audit.DocumentRejected, scope.UserID, logger.DocumentID(d.ID), logger.UserID(d.ProfileID))
	s.reviewed(repository.DocumentRejected)

	if err := s.deps.Files.Delete(ctx, d.FileKey); err != nil {
		log.Warn("file cleanup failed", logger.String("key", d.FileKey), logger.Err(err))
	}
	if prof, err := s.deps.Store.Profiles().GetByID(ctx, d.ProfileID); err == nil {
		to := email.Recipient{Email: prof.Email, Name: prof.FullName}
		if err := s.deps.Mailer.SendDocumentRejected(ctx, to, d.ResidenceName, note); err != nil {
			log.Warn("rejection email failed", logger.Err(err))
		}
	}

	reviewer := scope.UserID
	d.Status = repository.DocumentRejected
	d.ReviewNote = note
	d.ReviewedBy = &reviewer
	d.ReviewedAt = &now
	out := dto.Document(*d)
	return &out, nil
}

func (s *service) reviewed(status repository.DocumentStatus) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.DocumentsReviewed.WithLabelValues(string(status)).Inc()
	}
}
