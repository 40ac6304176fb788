package models

import "time"

type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
	TournamentCanceled  TournamentStatus = "canceled"
)

type Tournament struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	OrganizerID int              `json:"organizer_id"`
	Status      TournamentStatus `json:"status"`
	StartDate   *time.Time       `json:"start_date,omitempty"`
	EndDate     *time.Time       `json:"end_date,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
