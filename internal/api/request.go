package api

import (
	"errors"
	"io"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// bindJSON decodes the request body into obj. On failure it attaches a
// validation error to the context and returns false.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	verr := &service.ValidationError{}
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			msg := "Invalid value."
			if fe.Tag() == "required" {
				msg = "This field is required."
			}
			verr.Add(snakeCase(fe.Field()), msg)
		}
	case errors.Is(err, io.EOF):
		verr.Add("non_field_errors", "Request body is empty.")
	default:
		verr.Add("non_field_errors", "Malformed JSON: "+err.Error())
	}
	_ = c.Error(verr)
	return false
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// uuidParam parses a path parameter, reporting notFound when it is not a
// valid id.
func uuidParam(c *gin.Context, name string, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		_ = c.Error(notFound)
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user id; routes using it sit behind
// AuthMiddleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		_ = c.Error(service.ErrInvalidToken)
	}
	return id, ok
}
