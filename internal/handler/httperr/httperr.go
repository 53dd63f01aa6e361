package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"rental-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errors.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

var notFound = []error{
	errs.ErrVehicleNotFound,
	errs.ErrBookingNotFound,
	errs.ErrInspectionNotFound,
	errs.ErrLicenseNotFound,
	errs.ErrSessionNotFound,
}

// Classify maps an error from the usecase layer onto a response. Validation
// errors carry their field details; fatal errors never leak their message.
func Classify(err error) Response {
	resp := Response{}
	for _, target := range notFound {
		if errs.Is(err, target) {
			resp.Status = http.StatusNotFound
			resp.Error.Message = target.Error()
			return resp
		}
	}

	switch errs.KindOf(err) {
	case errs.KindValidation:
		resp.Status = http.StatusUnprocessableEntity
		resp.Error.Message = "Validation failed"
		if fields := errs.FieldsOf(err); len(fields) > 0 {
			resp.Detail = fields
		} else {
			resp.Error.Message = rootMessage(err)
		}
	case errs.KindConflict:
		resp.Status = http.StatusConflict
		resp.Error.Message = rootMessage(err)
	case errs.KindDependency:
		resp.Status = http.StatusBadGateway
		resp.Error.Message = "Upstream service unavailable, please retry"
	default:
		resp.Status = http.StatusInternalServerError
		resp.Error.Message = "Internal server error"
	}
	return resp
}

// AbortWithClassified is the common path for usecase errors.
func AbortWithClassified(c *gin.Context, err error) {
	resp := Classify(err)
	if resp.Status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "error", err.Error(), "stack", errs.ExtractStackLines(err, 12))
	}
	AbortWithError(c, resp.Status, err, resp.Error.Message, resp.Detail)
}

func rootMessage(err error) string {
	var kinded *errs.Error
	if errors.As(err, &kinded) {
		if inner := errors.Unwrap(kinded); inner != nil {
			return inner.Error()
		}
	}
	return err.Error()
}
