package models

import "moviecatalog/proj/internal/storage/postgres"

type Models struct {
	Movie  *MovieModel
	Genre  *GenreModel
	Viewer *ViewerModel
}

func New(db *postgres.PostgresDB) *Models {
	return &Models{
		Movie:  &MovieModel{db.Conn},
		Genre:  &GenreModel{db.Conn},
		Viewer: &ViewerModel{db.Conn},
	}
}
