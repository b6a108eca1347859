package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/apierror"
	"github.com/gsagg03-cmyk/erpx/internal/authz"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// requestLog starts an event tagged with the request id and, once JWTAuth
// has run, the acting user and business.
func requestLog(c *gin.Context, ev *zerolog.Event) *zerolog.Event {
	ev = ev.Str("request_id", c.GetString(RequestIDKey))
	if v, ok := c.Get(ActorKey); ok {
		if a, ok := v.(authz.Actor); ok {
			ev = ev.Str("business_id", a.BusinessID.String()).Str("user_id", a.UserID.String())
		}
	}
	return ev
}

// ErrorHandler turns errors that handlers attached with c.Error into a
// generic 500. Details go to the log only.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			requestLog(c, log.Error()).
				Str("method", c.Request.Method).
				Str("route", c.FullPath()).
				Err(e.Err).
				Msg("unhandled error")
		}
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("internal server error"))
		}
	}
}

// Recovery converts panics into 500 responses and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestLog(c, log.Error()).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("internal server error"))
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request. 5xx log at error level, 4xx at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		requestLog(c, ev).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
