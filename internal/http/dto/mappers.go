package dto

import (
	"time"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
)

func Profile(p repository.Profile) ProfileResponse {
	return ProfileResponse{
		ID:            p.ID,
		Email:         p.Email,
		FullName:      p.FullName,
		Phone:         p.Phone,
		Role:          string(p.Role),
		EmailVerified: p.EmailVerified,
		CreatedAt:     p.CreatedAt,
	}
}

func Residence(r repository.Residence) ResidenceResponse {
	return ResidenceResponse{ID: r.ID, Name: r.Name, Address: r.Address, City: r.City, SyndicID: r.SyndicID, CreatedAt: r.CreatedAt}
}

func Link(l repository.ProfileResidence) LinkResponse {
	return LinkResponse{
		ID:          l.ID,
		ProfileID:   l.ProfileID,
		ResidenceID: l.ResidenceID,
		Apartment:   l.Apartment,
		Verified:    l.Verified,
		CreatedAt:   l.CreatedAt,
	}
}

// displayStatus agrega "overdue" a las obligaciones vencidas no saldadas.
func displayStatus(status repository.ObligationStatus, due, now time.Time) string {
	if repository.IsOverdue(status, due, now) {
		return string(repository.ObligationOverdue)
	}
	return string(status)
}

func Fee(f repository.Fee, now time.Time) FeeResponse {
	return FeeResponse{
		ID:          f.ID,
		ResidenceID: f.ResidenceID,
		ProfileID:   f.ProfileID,
		Title:       f.Title,
		Description: f.Description,
		Amount:      f.Amount,
		AmountPaid:  f.AmountPaid,
		Outstanding: f.Outstanding(),
		DueDate:     f.DueDate,
		Status:      displayStatus(f.Status, f.DueDate, now),
		PaidAt:      f.PaidAt,
		CreatedAt:   f.CreatedAt,
	}
}

func Contribution(c repository.Contribution, now time.Time) ContributionResponse {
	return ContributionResponse{
		ID:          c.ID,
		ResidenceID: c.ResidenceID,
		ProfileID:   c.ProfileID,
		Period:      c.Period,
		Amount:      c.Amount,
		AmountPaid:  c.AmountPaid,
		Outstanding: c.Outstanding(),
		DueDate:     c.DueDate,
		Status:      displayStatus(c.Status, c.DueDate, now),
		PaidAt:      c.PaidAt,
		CreatedAt:   c.CreatedAt,
	}
}

func Payment(p repository.Payment, allocs []repository.PaymentAllocation) PaymentResponse {
	out := PaymentResponse{
		ID:              p.ID,
		ResidenceID:     p.ResidenceID,
		ProfileID:       p.ProfileID,
		Amount:          p.Amount,
		Method:          string(p.Method),
		Reference:       p.Reference,
		ProofURL:        p.ProofURL,
		Status:          string(p.Status),
		RejectionReason: p.RejectionReason,
		VerifiedBy:      p.VerifiedBy,
		VerifiedAt:      p.VerifiedAt,
		CreditAfter:     p.CreditAfter,
		CreatedAt:       p.CreatedAt,
	}
	for _, a := range allocs {
		out.Allocations = append(out.Allocations, AllocationResponse{Kind: string(a.Kind), ObligationID: a.ObligationID, Amount: a.Amount})
	}
	return out
}

func Expense(e repository.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		ResidenceID: e.ResidenceID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		SpentAt:     e.SpentAt,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func Incident(i repository.Incident) IncidentResponse {
	return IncidentResponse{
		ID:          i.ID,
		ResidenceID: i.ResidenceID,
		ReporterID:  i.ReporterID,
		Title:       i.Title,
		Description: i.Description,
		Location:    i.Location,
		Priority:    string(i.Priority),
		Status:      string(i.Status),
		ResolvedAt:  i.ResolvedAt,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func Complaint(c repository.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          c.ID,
		ResidenceID: c.ResidenceID,
		ProfileID:   c.ProfileID,
		Subject:     c.Subject,
		Message:     c.Message,
		Status:      string(c.Status),
		Response:    c.Response,
		RespondedAt: c.RespondedAt,
		CreatedAt:   c.CreatedAt,
	}
}

func Document(d repository.DocumentSubmission) DocumentResponse {
	return DocumentResponse{
		ID:            d.ID,
		ProfileID:     d.ProfileID,
		ResidenceName: d.ResidenceName,
		Address:       d.Address,
		City:          d.City,
		FileKey:       d.FileKey,
		Status:        string(d.Status),
		ReviewNote:    d.ReviewNote,
		ReviewedBy:    d.ReviewedBy,
		ReviewedAt:    d.ReviewedAt,
		ResidenceID:   d.ResidenceID,
		CreatedAt:     d.CreatedAt,
	}
}
