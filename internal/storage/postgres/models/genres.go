package models

import (
	"context"
	"moviecatalog/proj/internal/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GenreModel struct {
	DB *pgxpool.Pool
}

func (m *GenreModel) List(ctx context.Context) ([]models.Genre, error) {
	rows, _ := m.DB.Query(ctx, `SELECT id, name FROM genres ORDER BY id`)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
}
