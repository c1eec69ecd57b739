package models

import (
	"context"
	"errors"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ViewerModel reads per sub user state: like/dislike/mark records and playback progress.
// Uniqueness per (sub_user, movie) isn't enforced by the schema, readers take the lowest id.
type ViewerModel struct {
	DB *pgxpool.Pool
}

const markColumns = `id, sub_user_id, movie_id, marked, like_or_dislike`

func (m *ViewerModel) SubUserExists(ctx context.Context, subUserID int) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sub_users WHERE id = $1)`, subUserID).Scan(&exists)
	return exists, err
}

func (m *ViewerModel) GetMark(ctx context.Context, subUserID, movieID int) (*models.LikeDislikeMark, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT `+markColumns+` FROM like_dislike_marks
		WHERE sub_user_id = $1 AND movie_id = $2
		ORDER BY id LIMIT 1`,
		subUserID,
		movieID,
	)
	mark, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.LikeDislikeMark])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &mark, nil
}

func (m *ViewerModel) ListMarked(ctx context.Context, subUserID int) ([]models.LikeDislikeMark, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT `+markColumns+` FROM like_dislike_marks
		WHERE sub_user_id = $1 AND marked
		ORDER BY id`,
		subUserID,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.LikeDislikeMark])
}

// MarkedMovies reports the marked flag of the sub user for each of movieIDs having a record.
func (m *ViewerModel) MarkedMovies(ctx context.Context, subUserID int, movieIDs []int) (map[int]bool, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT DISTINCT ON (movie_id) movie_id, marked FROM like_dislike_marks
		WHERE sub_user_id = $1 AND movie_id = ANY($2)
		ORDER BY movie_id, id`,
		subUserID,
		movieIDs,
	)
	marked := make(map[int]bool, len(movieIDs))
	var (
		movieID int
		flag    bool
	)
	_, err := pgx.ForEachRow(rows, []any{&movieID, &flag}, func() error {
		marked[movieID] = flag
		return nil
	})
	if err != nil {
		return nil, err
	}
	return marked, nil
}

func (m *ViewerModel) GetProgress(ctx context.Context, subUserID, movieID int) (*models.PlaybackProgress, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT id, sub_user_id, movie_id, to_be_continue FROM movie_continues
		WHERE sub_user_id = $1 AND movie_id = $2
		ORDER BY id LIMIT 1`,
		subUserID,
		movieID,
	)
	progress, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.PlaybackProgress])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}
