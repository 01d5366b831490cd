// Auth adapter.
//
// The identity subsystem (internal/auth) speaks a transport-neutral
// request/response contract rather than Gin's types. This file is the
// adapter between the two: it flattens the Gin request into auth.Request
// (method, path, query, headers, body) and replays the auth.Response back
// out (status, headers, each cookie individually). Nothing else in the HTTP
// layer knows how the auth flow works.
package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soulwax/isobel-web/internal/auth"
	"github.com/soulwax/isobel-web/internal/http/middleware"
)

// maxAuthBody caps how much request body the adapter will buffer.
const maxAuthBody = 64 << 10

// AuthService is the identity subsystem contract the adapter delegates to.
type AuthService interface {
	Handle(ctx context.Context, req *auth.Request) *auth.Response
}

// AuthAdapter returns a Gin handler that forwards every /api/auth/* request
// through the neutral contract. basePath is the mount prefix stripped from
// the inbound path before dispatch.
func AuthAdapter(svc AuthService, basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAuthBody))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}

		req := &auth.Request{
			Method: c.Request.Method,
			Path:   strings.TrimPrefix(c.Request.URL.Path, basePath),
			Query:  c.Request.URL.Query(),
			Header: c.Request.Header,
			Body:   body,
		}
		if req.Path == "" {
			req.Path = "/"
		}

		resp := svc.Handle(c.Request.Context(), req)
		writeAuthResponse(c, resp)
	}
}

// writeAuthResponse replays a neutral response onto the Gin writer:
// headers first, then cookies (one Set-Cookie each), then status and body.
func writeAuthResponse(c *gin.Context, resp *auth.Response) {
	if resp == nil {
		middleware.LoggerFrom(c).Error().Msg("auth subsystem returned no response")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	h := c.Writer.Header()
	for k, vals := range resp.Header {
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	for _, ck := range resp.Cookies {
		http.SetCookie(c.Writer, ck)
	}

	c.Status(resp.Status)
	if len(resp.Body) > 0 {
		_, _ = c.Writer.Write(resp.Body)
	}
	c.Abort()
}
