package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/lib/decoder"
	"moviecatalog/proj/internal/lib/validator"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, param string) (id int, extracted bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		app.Http.BadRequest(w, r, fmt.Sprintf("invalid %s", param))
		return 0, false
	}
	if id < 1 {
		app.Http.BadRequest(w, r, fmt.Sprintf("%s must be greater than zero", param))
		return 0, false
	}
	return id, true
}

// pathParam returns the decoded value of a path parameter.
// chi matches against the raw path when it carries escapes that can't be restored, e.g. "%2F".
func pathParam(r *http.Request, param string) string {
	value := chi.URLParam(r, param)
	if r.URL.RawPath == "" {
		return value
	}
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}

// readViewerID resolves the sub user the request is made for: the sub_user_id query
// parameter first, then the claim of the bearer token.
func (app *Application) readViewerID(w http.ResponseWriter, r *http.Request) (id int, ok bool) {
	if raw := r.URL.Query().Get("sub_user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			app.Http.BadRequest(w, r, "sub_user_id must be a positive integer")
			return 0, false
		}
		return id, true
	}
	if id, ok := viewerFromContext(r.Context()); ok {
		return id, true
	}
	app.Http.BadRequest(w, r, "sub_user_id is required")
	return 0, false
}

type paginationQuery struct {
	Page     int    `query:"page" json:"page" validate:"gte=1,lte=10000000"`
	PageSize int    `query:"page_size" json:"page_size" validate:"gte=1"`
	Sort     string `query:"sort" json:"sort" validate:"omitempty,sortbymoviefield"`
}

// readFilters parses pagination from the query string. Sorting is honored only when sortSafelist is given.
func (app *Application) readFilters(w http.ResponseWriter, r *http.Request, sortSafelist []string) (filters.Filters, bool) {
	q := paginationQuery{Page: 1, PageSize: app.cfg.Pagination.PageSize}
	if err := app.decoder.Decode(&q, r.URL.Query()); err != nil {
		var fieldErrs decoder.Errors
		if errors.As(err, &fieldErrs) {
			app.Http.UnprocessableEntity(w, r, fieldErrs)
			return filters.Filters{}, false
		}
		app.Http.ServerError(w, r, err, "")
		return filters.Filters{}, false
	}
	if sortSafelist == nil {
		q.Sort = ""
	}
	errs := validator.ValidateStruct(app.validator, q)
	if q.PageSize > app.cfg.Pagination.MaxPageSize {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs["page_size"] = fmt.Sprintf("Value should be less than or equal to %d", app.cfg.Pagination.MaxPageSize)
	}
	if errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return filters.Filters{}, false
	}
	return filters.Filters{
		Page:         q.Page,
		PageSize:     q.PageSize,
		Sort:         q.Sort,
		SortSafelist: sortSafelist,
	}, true
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
