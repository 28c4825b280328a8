package handler

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"shop-service/internal/service"
	"shop-service/internal/validation"
	"shop-service/pkg/apperr"
	"shop-service/pkg/storage"
)

func isForm(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEMultipartForm) || strings.HasPrefix(ct, echo.MIMEApplicationForm)
}

// bindFields reads the request body as JSON or as a form.
func bindFields(c echo.Context) (validation.Fields, error) {
	if isForm(c) {
		values, err := c.FormParams()
		if err != nil {
			return nil, apperr.Invalid("Invalid form body")
		}
		return validation.FromForm(values), nil
	}
	in, err := validation.FromJSON(c.Request().Body)
	if err != nil {
		return nil, apperr.Invalid("Invalid JSON body")
	}
	return in, nil
}

// formFiles opens the uploaded files of field. The returned func closes them.
func formFiles(c echo.Context, field string) ([]storage.Object, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, noop, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, apperr.Invalid("Invalid multipart body")
	}

	var (
		objects []storage.Object
		opened  []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, fh := range form.File[field] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, noop, apperr.Internal("handler.formFiles", err)
		}
		opened = append(opened, f)
		objects = append(objects, storage.Object{
			Name:        fh.Filename,
			Body:        f,
			Size:        fh.Size,
			ContentType: fh.Header.Get(echo.HeaderContentType),
		})
	}
	return objects, closeAll, nil
}

// formFile opens the first uploaded file of field, if any.
func formFile(c echo.Context, field string) (*storage.Object, func(), error) {
	objects, done, err := formFiles(c, field)
	if err != nil || len(objects) == 0 {
		return nil, done, err
	}
	return &objects[0], done, nil
}

func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.ValidationFailed([]apperr.Violation{{Field: name, Message: "Id must be a positive number"}})
	}
	return uint(id), nil
}

// pageRequest reads page/pageSize, accepting offset/limit as aliases.
func pageRequest(c echo.Context) service.PageRequest {
	page := c.QueryParam("page")
	if page == "" {
		page = c.QueryParam("offset")
	}
	size := c.QueryParam("pageSize")
	if size == "" {
		size = c.QueryParam("limit")
	}
	return service.NewPageRequest(page, size)
}
