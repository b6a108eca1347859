package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gsagg03-cmyk/erpx/internal/apierror"
	"github.com/gsagg03-cmyk/erpx/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	return runValidation(c, filter)
}

func runValidation(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		resp := apierror.NewValidation(fields)
		resp.Input = echo(req)
		c.JSON(http.StatusUnprocessableEntity, resp)
		return false
	}
	return true
}

// echo strips secrets from a request before it is sent back to the client.
func echo(req interface{}) interface{} {
	if r, ok := req.(interface{ Redacted() interface{} }); ok {
		return r.Redacted()
	}
	return req
}

// parseID reads a UUID path parameter, writing 400 when it is malformed.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps domain errors to their HTTP status. Validation and
// conflict responses echo input back. Anything else goes to the ErrorHandler
// middleware as a 500.
func respondError(c *gin.Context, err error, input interface{}) {
	var de *service.Error
	if !errors.As(err, &de) {
		if service.KindOf(err) == service.KindForbidden {
			c.JSON(http.StatusForbidden, apierror.WithCode("forbidden", err.Error()))
			return
		}
		_ = c.Error(err)
		return
	}

	switch de.Kind {
	case service.KindValidation:
		c.JSON(http.StatusUnprocessableEntity, apierror.NewDomainValidation(de.Code, de.Message, de.Fields, echo(input)))
	case service.KindConflict:
		c.JSON(http.StatusConflict, apierror.NewDomainValidation(de.Code, de.Message, de.Fields, echo(input)))
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, apierror.WithCode(de.Code, de.Message))
	case service.KindForbidden:
		c.JSON(http.StatusForbidden, apierror.WithCode(de.Code, de.Message))
	case service.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, apierror.WithCode(de.Code, de.Message))
	default:
		_ = c.Error(err)
	}
}
