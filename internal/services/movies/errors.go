package movies

import "errors"

var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrMovieAlreadyExists = errors.New("movie already exists")
	ErrSubUserNotFound    = errors.New("sub user not found")
	ErrGenreNotFound      = errors.New("genre not found")
)
