package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/service"
	"shop-service/pkg/apperr"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

// Result is the response envelope of every API call
type Result struct {
	Code   int `json:"code"`
	Values any `json:"values"`
}

// PageResult is the envelope of paged listings
type PageResult struct {
	Code        int   `json:"code"`
	Values      any   `json:"values"`
	CurrentPage int   `json:"currentPage"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

var statusByCode = map[string]int{
	apperr.EUnauthorized: http.StatusUnauthorized,
	apperr.EForbidden:    http.StatusForbidden,
	apperr.EInvalid:      http.StatusBadRequest,
	apperr.EConflict:     http.StatusConflict,
	apperr.ENotFound:     http.StatusNotFound,
	apperr.EInternal:     http.StatusInternalServerError,
}

func statusOf(err error) int {
	if s, ok := statusByCode[apperr.ErrorCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func ok(c echo.Context, values any) error {
	return c.JSON(http.StatusOK, Result{Code: http.StatusOK, Values: values})
}

// fail writes err as a Result. Validation failures carry the violation list,
// every other kind its client-safe message.
func fail(c echo.Context, entity string, err error) error {
	status := statusOf(err)
	log := logger.FromEcho(c)

	var values any = apperr.ErrorMessage(err)
	if violations := apperr.ViolationsOf(err); len(violations) > 0 {
		values = violations
		prometheus.RecordValidationFailure(entity)
	}

	if status == http.StatusInternalServerError {
		log.Error("Request failed",
			zap.String("entity", entity),
			zap.String("op", apperr.ErrorOp(err)),
			zap.Error(err))
	} else {
		log.Info("Request rejected",
			zap.String("entity", entity),
			zap.Int("status", status),
			zap.String("reason", apperr.ErrorMessage(err)))
	}
	return c.JSON(status, Result{Code: status, Values: values})
}

// respondPage writes a paged listing. An empty page is written with the
// not-found status and zeroed counters.
func respondPage[T any](c echo.Context, entity string, page service.Page[T], err error) error {
	if err != nil && apperr.ErrorCode(err) != apperr.ENotFound {
		return fail(c, entity, err)
	}
	status := http.StatusOK
	var values any = page.Items
	if err != nil {
		status = http.StatusNotFound
		values = apperr.ErrorMessage(err)
	}
	return c.JSON(status, PageResult{
		Code:        status,
		Values:      values,
		CurrentPage: page.CurrentPage,
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
	})
}

// ErrorHandler renders router and middleware errors in the Result envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, isString := he.Message.(string)
		if !isString {
			msg = http.StatusText(he.Code)
		}
		_ = c.JSON(he.Code, Result{Code: he.Code, Values: msg})
		return
	}
	_ = fail(c, "http", err)
}
