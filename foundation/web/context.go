package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context carries the request scope: the gin context, the request context
// (with auth claims attached by middleware) and any param/query parse errors
// collected before the handler validates them.
type Context struct {
	*gin.Context
	Ctx context.Context

	paramErrs []error
	queryErrs []error
}

func NewContext(c *gin.Context) *Context {
	return &Context{
		Context: c,
		Ctx:     c.Request.Context(),
	}
}

// BindFunc binds the request body (json or form) into dst and checks that the
// named struct fields are set. Field lists may be passed either variadically
// or comma-joined.
func (c *Context) BindFunc(dst interface{}, requiredFields ...string) error {
	if err := c.ShouldBind(dst); err != nil {
		return NewRequestError(errors.Wrap(err, "binding request"), http.StatusBadRequest)
	}

	fields := map[string]string{}
	v := reflect.ValueOf(dst).Elem()

	for _, group := range requiredFields {
		for _, name := range strings.Split(group, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			f := v.FieldByName(name)
			if !f.IsValid() {
				continue
			}
			if f.IsZero() {
				fields[name] = "required field"
			}
		}
	}

	if len(fields) > 0 {
		return &Error{
			Err:    errors.New("required fields are missing"),
			Status: http.StatusBadRequest,
			Fields: fields,
		}
	}

	return nil
}

// GetParam parses a path parameter into the requested kind. Parse failures
// are collected and surfaced by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	value := c.Param(name)

	switch kind {
	case reflect.Int:
		number, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrs = append(c.paramErrs, errors.Wrapf(err, "parsing param %q", name))
			return 0
		}
		return number
	default:
		return value
	}
}

// GetQueryFunc parses an optional query parameter into a pointer of the
// requested kind. Absent parameters return a typed nil.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	value, ok := c.GetQuery(name)

	switch kind {
	case reflect.Int:
		if !ok {
			return (*int)(nil)
		}
		number, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, errors.Wrapf(err, "parsing query %q", name))
			return (*int)(nil)
		}
		return &number
	case reflect.Bool:
		if !ok {
			return (*bool)(nil)
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, errors.Wrapf(err, "parsing query %q", name))
			return (*bool)(nil)
		}
		return &b
	default:
		if !ok {
			return (*string)(nil)
		}
		return &value
	}
}

func (c *Context) ValidParam() error {
	if len(c.paramErrs) > 0 {
		return NewRequestError(c.paramErrs[0], http.StatusBadRequest)
	}
	return nil
}

func (c *Context) ValidQuery() error {
	if len(c.queryErrs) > 0 {
		return NewRequestError(c.queryErrs[0], http.StatusBadRequest)
	}
	return nil
}

// Respond sends data back to the client with the given status code.
func (c *Context) Respond(data interface{}, status int) error {
	c.JSON(status, data)
	return nil
}

// RespondError inspects the error for web context and sends the appropriate
// response envelope. Unknown errors become 500s without leaking internals.
func (c *Context) RespondError(err error) error {
	if webErr, ok := IsRequestError(err); ok {
		body := map[string]interface{}{
			"error":  webErr.Err.Error(),
			"status": false,
		}
		if len(webErr.Fields) > 0 {
			body["fields"] = webErr.Fields
		}
		if len(webErr.Data) > 0 {
			body["data"] = webErr.Data
		}
		c.JSON(webErr.Status, body)
		return nil
	}

	c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error":  fmt.Sprintf("internal error: %v", err),
		"status": false,
	})
	return nil
}
