package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hooplab/courtside/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, organizer_id, status, start_date, end_date, created_at`

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	var t models.Tournament
	err := r.db.QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.OrganizerID, &t.Status, &t.StartDate, &t.EndDate, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTournamentRepository) ListByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE status = $1 ORDER BY id`, status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.OrganizerID, &t.Status, &t.StartDate, &t.EndDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}
