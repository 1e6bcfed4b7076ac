package postgres

import (
	"fmt"
	"time"

	"github.com/julianstephens/tachoplan/internal/models"
)

func (s *Store) AddReducedRest(rest models.ReducedRest) error {
	_, err := s.db.Exec(
		"INSERT INTO reduced_rests (id, rest_index, used_at, note) VALUES ($1, $2, $3, $4)",
		rest.ID, rest.RestIndex, rest.UsedAt.UTC(), rest.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to record reduced rest: %w", err)
	}
	return nil
}

func (s *Store) GetReducedRestsSince(since time.Time) ([]models.ReducedRest, error) {
	rows, err := s.db.Query(
		"SELECT id, rest_index, used_at, note FROM reduced_rests WHERE used_at >= $1 ORDER BY used_at ASC",
		since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reduced rests: %w", err)
	}
	defer rows.Close()

	rests := []models.ReducedRest{}
	for rows.Next() {
		var rest models.ReducedRest
		if err := rows.Scan(&rest.ID, &rest.RestIndex, &rest.UsedAt, &rest.Note); err != nil {
			return nil, err
		}
		rests = append(rests, rest)
	}
	return rests, rows.Err()
}

func (s *Store) ResetReducedRests() (int, error) {
	res, err := s.db.Exec("DELETE FROM reduced_rests")
	if err != nil {
		return 0, fmt.Errorf("failed to reset reduced rests: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
