package main

import (
	"errors"
	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/lib/validator"
	"moviecatalog/proj/internal/services/movies"
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, struct {
		Status  string `json:"status"`
		Debug   bool   `json:"debug"`
		Version string `json:"version"`
	}{
		Status:  "available",
		Debug:   app.cfg.Debug,
		Version: version,
	})
}

func (app *Application) listMovies(w http.ResponseWriter, r *http.Request) {
	f, ok := app.readFilters(w, r, filters.MovieSortSafelist)
	if !ok {
		return
	}
	movies, metadata, err := app.services.Movies.List(r.Context(), f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": movies, "metadata": metadata}, "")
}

func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	home, err := app.services.Movies.Home(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieNotFound):
			app.Http.NotFound(w, r, "There are no movies yet")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"home": home}, "")
}

func (app *Application) listMoviesByGenre(w http.ResponseWriter, r *http.Request) {
	kind := strings.TrimSpace(pathParam(r, "kind"))
	if kind == "" {
		app.Http.BadRequest(w, r, "genre kind must not be empty")
		return
	}
	f, ok := app.readFilters(w, r, filters.MovieSortSafelist)
	if !ok {
		return
	}
	// results are always ordered by id
	f.Sort = ""
	movies, metadata, err := app.services.Movies.ListByGenre(r.Context(), kind, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": movies, "metadata": metadata}, "")
}

// listMarked serves /movies/{id}/list where id is a sub user id.
func (app *Application) listMarked(w http.ResponseWriter, r *http.Request) {
	subUserID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	marked, err := app.services.Movies.ListMarked(r.Context(), subUserID)
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrSubUserNotFound):
			app.Http.NotFound(w, r, "Sub user not found")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"marked": marked}, "")
}

func (app *Application) movieDetail(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	subUserID, ok := app.readViewerID(w, r)
	if !ok {
		return
	}
	detail, err := app.services.Movies.Detail(r.Context(), movieID, subUserID)
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieNotFound):
			app.Http.NotFound(w, r, "Movie not found")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"movie": detail}, "")
}

type createMovieRequest struct {
	Name                string `json:"name" validate:"required,max=255"`
	VideoFile           string `json:"video_file" validate:"required,max=500"`
	SampleVideoFile     string `json:"sample_video_file" validate:"max=500"`
	ProductionDate      string `json:"production_date" validate:"required,numeric,len=4"`
	Synopsis            string `json:"synopsis"`
	RunningTime         string `json:"running_time" validate:"required,runningtime"`
	LogoImagePath       string `json:"logo_image_path" validate:"max=500"`
	HorizontalImagePath string `json:"horizontal_image_path" validate:"max=500"`
	VerticalImage       string `json:"vertical_image" validate:"max=500"`
	CircleImage         string `json:"circle_image" validate:"max=500"`
	Degree              string `json:"degree" validate:"max=20"`
	Directors           string `json:"directors" validate:"max=255"`
	Actors              string `json:"actors"`
	Feature             string `json:"feature" validate:"max=255"`
	Author              string `json:"author" validate:"max=255"`
	Genres              []int  `json:"genre" validate:"dive,gte=1"`
}

func (req *createMovieRequest) toModel() *models.Movie {
	return &models.Movie{
		Name:                req.Name,
		VideoFile:           req.VideoFile,
		SampleVideoFile:     req.SampleVideoFile,
		ProductionDate:      req.ProductionDate,
		Synopsis:            req.Synopsis,
		RunningTime:         fields.RunningTime(req.RunningTime),
		LogoImagePath:       req.LogoImagePath,
		HorizontalImagePath: req.HorizontalImagePath,
		VerticalImage:       req.VerticalImage,
		CircleImage:         req.CircleImage,
		Degree:              req.Degree,
		Directors:           req.Directors,
		Actors:              req.Actors,
		Feature:             req.Feature,
		Author:              req.Author,
		Genres:              req.Genres,
	}
}

func (app *Application) createMovie(w http.ResponseWriter, r *http.Request) {
	var req createMovieRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	movie, err := app.services.Movies.Create(r.Context(), req.toModel())
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrGenreNotFound):
			app.Http.UnprocessableEntity(w, r, map[string]string{"genre": "Unknown genre id"})
		case errors.Is(err, movies.ErrMovieAlreadyExists):
			app.Http.Conflict(w, r, "Movie already exists")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"movie": movie}, "Movie successfully created")
}

func (app *Application) listGenres(w http.ResponseWriter, r *http.Request) {
	f, ok := app.readFilters(w, r, nil)
	if !ok {
		return
	}
	genres, metadata, err := app.services.Genres.List(r.Context(), f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"genres": genres, "metadata": metadata}, "")
}
