package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"orderflow/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/labstack/echo/v4"
)

// validateRequests checks every request against the operation the matched
// echo route maps to in doc. Routes missing from doc pass through unchecked.
func (s *Server) validateRequests(doc *openapi3.T) echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		MultiError:         true,
		AuthenticationFunc: authenticate,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			route, ok := findRoute(doc, ctx)
			if !ok {
				return next(ctx)
			}

			pathParams := make(map[string]string, len(ctx.ParamNames()))
			for i, name := range ctx.ParamNames() {
				pathParams[name] = ctx.ParamValues()[i]
			}

			err := openapi3filter.ValidateRequest(ctx.Request().Context(), &openapi3filter.RequestValidationInput{
				Request:     ctx.Request(),
				PathParams:  pathParams,
				QueryParams: ctx.QueryParams(),
				Route:       route,
				Options:     options,
			})
			if err != nil {
				return s.fail(ctx, requestError(err))
			}
			return next(ctx)
		}
	}
}

// findRoute resolves the operation of the echo route that matched ctx.
// Echo writes path parameters as :name where OpenAPI uses {name}.
func findRoute(doc *openapi3.T, ctx echo.Context) (*routers.Route, bool) {
	path := openAPIPath(ctx.Path())
	item := doc.Paths.Find(path)
	if item == nil {
		return nil, false
	}
	method := ctx.Request().Method
	op := item.GetOperation(method)
	if op == nil {
		return nil, false
	}

	return &routers.Route{
		Spec:      doc,
		Path:      path,
		PathItem:  item,
		Method:    method,
		Operation: op,
	}, true
}

func openAPIPath(echoPath string) string {
	segments := strings.Split(echoPath, "/")
	for i, segment := range segments {
		if name, ok := strings.CutPrefix(segment, ":"); ok {
			segments[i] = "{" + name + "}"
		}
	}
	return strings.Join(segments, "/")
}

// authenticate checks the X-User-ID api key. Identity is established in front
// of this service, so only the shape of the header is verified.
func authenticate(_ context.Context, input *openapi3filter.AuthenticationInput) error {
	_, err := parseActor(input.RequestValidationInput.Request.Header.Get(input.SecurityScheme.Name))
	return err
}

// requestError converts validation failures into the errs taxonomy. Security
// failures become 401 and undecodable bodies 400. Everything else is joined
// into one validation error carrying a cause per field.
func requestError(err error) error {
	failures := flatten(err)
	for _, e := range failures {
		var security *openapi3filter.SecurityRequirementsError
		if errors.As(e, &security) {
			message := "invalid " + HeaderUserID + " header"
			if len(security.Errors) > 0 {
				message = security.Errors[0].Error()
			}
			return echo.NewHTTPError(http.StatusUnauthorized, message)
		}
	}

	var result []error
	for _, e := range failures {
		var reqErr *openapi3filter.RequestError
		if !errors.As(e, &reqErr) {
			result = append(result, schemaErrors("request", e)...)
			continue
		}

		switch {
		case reqErr.Parameter != nil:
			result = append(result, parameterError(reqErr))
		case reqErr.RequestBody != nil && errors.Is(reqErr.Err, openapi3filter.ErrInvalidRequired):
			result = append(result, errs.NewValueIsRequiredError("body"))
		case reqErr.RequestBody != nil:
			fields := schemaErrors("body", reqErr.Err)
			if len(fields) == 0 {
				return echo.NewHTTPError(http.StatusBadRequest, reqErr.Error())
			}
			result = append(result, fields...)
		default:
			result = append(result, errs.NewValueIsInvalidErrorWithCause("request", reqErr))
		}
	}
	return errors.Join(result...)
}

func parameterError(reqErr *openapi3filter.RequestError) error {
	name := reqErr.Parameter.Name
	if errors.Is(reqErr.Err, openapi3filter.ErrInvalidRequired) {
		return errs.NewValueIsRequiredError(name)
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(reqErr.Err, &schemaErr) {
		return errs.NewValueIsInvalidErrorWithCause(name, errors.New(schemaErr.Reason))
	}
	if reqErr.Err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, reqErr.Err)
	}
	return errs.NewValueIsInvalidErrorWithCause(name, errors.New(reqErr.Reason))
}

// schemaErrors maps each schema violation in err to an error naming the
// offending field. It returns nil when err holds no schema violation.
func schemaErrors(fallback string, err error) []error {
	var result []error
	for _, e := range flatten(err) {
		var schemaErr *openapi3.SchemaError
		if !errors.As(e, &schemaErr) {
			continue
		}

		field := strings.Join(schemaErr.JSONPointer(), ".")
		if field == "" {
			field = fallback
		}
		if schemaErr.SchemaField == "required" {
			result = append(result, errs.NewValueIsRequiredErrorWithCause(field, errors.New(schemaErr.Reason)))
			continue
		}
		result = append(result, errs.NewValueIsInvalidErrorWithCause(field, errors.New(schemaErr.Reason)))
	}
	return result
}

// flatten expands nested MultiErrors. It does not look through wrappers, so
// a RequestError keeps the parameter or body it belongs to.
func flatten(err error) []error {
	multi, ok := err.(openapi3.MultiError) //nolint:errorlint // wrapped MultiErrors belong to their wrapper
	if !ok {
		return []error{err}
	}
	var result []error
	for _, e := range multi {
		result = append(result, flatten(e)...)
	}
	return result
}
