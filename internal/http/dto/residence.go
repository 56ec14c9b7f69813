package dto

import "time"

type ResidenceRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type ResidencePatch struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
}

type AssignSyndicRequest struct {
	ProfileID string `json:"profileId"`
}

type JoinRequest struct {
	Apartment string `json:"apartment"`
}

type ResidenceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	SyndicID  *string   `json:"syndicId"`
	CreatedAt time.Time `json:"createdAt"`
}

type LinkResponse struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profileId"`
	ResidenceID string    `json:"residenceId"`
	Apartment   string    `json:"apartment"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
}
