package models

import "time"

// PlayerRef identifies either a registered player or a custom (guest) roster
// entry. Keeping the flag next to a single id makes the two-ids-set and
// no-id-set states unrepresentable.
type PlayerRef struct {
	ID     int  `json:"id"`
	Custom bool `json:"is_custom"`
}

func RegularPlayerRef(id int) PlayerRef { return PlayerRef{ID: id} }

func CustomPlayerRef(id int) PlayerRef { return PlayerRef{ID: id, Custom: true} }

// Player is a rostered player backed by a platform user account.
type Player struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	TeamID    *int      `json:"team_id,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Number    *int      `json:"number,omitempty"`
	PhotoKey  *string   `json:"-"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// CustomPlayer is a roster entry without a user account, added by a coach for
// guests and unregistered players.
type CustomPlayer struct {
	ID        int       `json:"id"`
	TeamID    int       `json:"team_id"`
	Name      string    `json:"name"`
	Number    *int      `json:"number,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RosterEntry is the flattened identity shape used when resolving aggregated
// stat lines back to displayable players.
type RosterEntry struct {
	Ref      PlayerRef `json:"ref"`
	Name     string    `json:"name"`
	TeamID   int       `json:"team_id"`
	PhotoKey *string   `json:"-"`
	PhotoURL *string   `json:"photo_url,omitempty"`
}
