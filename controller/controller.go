package controller

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"disasterprep/domain"
	"disasterprep/model"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Binding errors report json field names rather than Go field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUpstream:
		return http.StatusBadGateway
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// RespondError writes err as a JSON error body. Errors that are not
// *domain.Error are attached to the context for the request logger and
// answered with a generic 500.
func RespondError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		body := gin.H{"error": de.Message}
		if len(de.Details) > 0 {
			body["details"] = de.Details
		}
		if de.Err != nil {
			_ = c.Error(err)
		}
		c.AbortWithStatusJSON(statusFor(de.Kind), body)
		return
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]string, len(ve))
		for _, fe := range ve {
			details[fieldPath(fe)] = describe(fe)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": details})
		return
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// fieldPath drops the top-level struct name from the validator namespace,
// so "CreateReportRequest.location.latitude" becomes "location.latitude".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// BindJSON binds the request body into obj and writes a 400 on failure.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			RespondError(c, err)
			return false
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return false
	}
	return true
}

// QueryInt parses an optional integer query parameter.
func QueryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.Validation("%s must be a non-negative integer", key)
	}
	return n, nil
}

// QueryCoords reads a required latitude/longitude pair from the query string.
func QueryCoords(c *gin.Context, latKey, lonKey string) (model.Location, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(c.Query(latKey)), 64)
	if err != nil {
		return model.Location{}, domain.Validation("%s is required and must be a number", latKey)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(c.Query(lonKey)), 64)
	if err != nil {
		return model.Location{}, domain.Validation("%s is required and must be a number", lonKey)
	}
	loc := model.Location{Latitude: lat, Longitude: lon}
	if err := domain.ValidateLocation(loc); err != nil {
		return model.Location{}, err
	}
	return loc, nil
}
