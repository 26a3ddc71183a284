// Package web is a small framework on top of gin: handlers return errors,
// middleware wraps handlers, and responses share one envelope.
package web

import (
	"github.com/gin-gonic/gin"
)

// Handler is the signature every application handler implements.
type Handler func(c *Context) error

// Middleware is a function designed to run some code before and/or after
// another Handler.
type Middleware func(Handler) Handler

// App is the entrypoint for the application and wraps the gin engine.
type App struct {
	*gin.Engine
}

func NewApp() *App {
	return &App{gin.New()}
}

// wrapMiddleware creates a new handler by wrapping middleware around a final
// handler. The middlewares' Handlers will be executed by requests in the order
// they are provided.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h := mw[i]
		if h != nil {
			handler = h(handler)
		}
	}

	return handler
}

func (a *App) handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrapMiddleware(mw, handler)

	h := func(c *gin.Context) {
		ctx := NewContext(c)
		if err := handler(ctx); err != nil {
			// Handlers respond themselves; an error here means the
			// error responder itself failed.
			_ = ctx.RespondError(err)
		}
	}

	a.Engine.Handle(method, path, h)
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.handle("GET", path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.handle("POST", path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.handle("PUT", path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.handle("PATCH", path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.handle("DELETE", path, handler, mw...)
}
