package handler

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	deliverycontext "ministry/internal/delivery/context"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// bind decodes the request into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed request body.").SetInternal(err)
	}

	return c.Validate(req)
}

// currentUser returns the authenticated caller or ErrUnauthorized.
func currentUser(c echo.Context) (uuid.UUID, error) {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return uuid.Nil, domainerrors.ErrUnauthorized
	}

	return userID, nil
}

// optionalUser returns nil for anonymous callers.
func optionalUser(c echo.Context) *uuid.UUID {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return nil
	}

	return &userID
}

// paramID parses the named path parameter. Malformed IDs never match a record.
func paramID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrNotFound.WithDetails("invalid " + name)
	}

	return id, nil
}

func pagination(c echo.Context) (repository.Pagination, error) {
	var p repository.Pagination
	err := echo.QueryParamsBinder(c).
		Int("page", &p.Page).
		Int("per_page", &p.PerPage).
		BindError()
	if err != nil {
		return p, domainerrors.NewFieldError("page", "The page and per_page parameters must be integers.")
	}

	return p.Normalize(), nil
}

// queryUUID parses an optional UUID query parameter.
func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domainerrors.NewFieldError(name, "The "+name+" must be a valid UUID.")
	}

	return &id, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(c echo.Context, name string) (*bool, error) {
	if c.QueryParam(name) == "" {
		return nil, nil
	}

	var v bool
	if err := echo.QueryParamsBinder(c).Bool(name, &v).BindError(); err != nil {
		return nil, domainerrors.NewFieldError(name, "The "+name+" must be true or false.")
	}

	return &v, nil
}

// queryDate accepts YYYY-MM-DD or RFC 3339. endOfDay moves a bare date to its last instant.
func queryDate(c echo.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, domainerrors.NewFieldError(name, "The "+name+" must be a date (YYYY-MM-DD).")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}

	return &t, nil
}

// parseDate parses an optional YYYY-MM-DD body field.
func parseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, domainerrors.NewFieldError(field, "The "+field+" must be a date (YYYY-MM-DD).")
	}

	return &t, nil
}

// formFile opens a required multipart file. The caller closes it.
func formFile(c echo.Context, field string) (usecase.Upload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		return usecase.Upload{}, nil, domainerrors.NewFieldError(field, "The "+field+" file is required.")
	}

	return openUpload(header)
}

// formFiles opens every file sent under field. The caller runs the returned closer.
func formFiles(c echo.Context, field string) ([]usecase.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File[field]) == 0 {
		return nil, nil, domainerrors.NewFieldError(field, "At least one file is required.")
	}

	uploads := make([]usecase.Upload, 0, len(form.File[field]))
	closers := make([]func(), 0, len(form.File[field]))
	closeAll := func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}

	for _, header := range form.File[field] {
		upload, closeFn, err := openUpload(header)
		if err != nil {
			closeAll()

			return nil, nil, err
		}
		uploads = append(uploads, upload)
		closers = append(closers, closeFn)
	}

	return uploads, closeAll, nil
}

func openUpload(header *multipart.FileHeader) (usecase.Upload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return usecase.Upload{}, nil, errors.Wrap(err, "open upload")
	}

	return usecase.Upload{
		Filename:    filepath.Base(header.Filename),
		ContentType: header.Header.Get(echo.HeaderContentType),
		Body:        file,
	}, func() { _ = file.Close() }, nil
}
