package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/soulwax/isobel-web/internal/auth"
)

type fakeAuthService struct {
	lastReq *auth.Request
	resp    *auth.Response
}

func (f *fakeAuthService) Handle(ctx context.Context, req *auth.Request) *auth.Response {
	f.lastReq = req
	return f.resp
}

func newAuthRouter(svc *fakeAuthService) *gin.Engine {
	r := gin.New()
	r.Any("/api/auth/*path", AuthAdapter(svc, "/api/auth"))
	return r
}

func TestAuthAdapter_StripsBasePathAndForwards(t *testing.T) {
	resp := &auth.Response{Status: http.StatusOK, Header: http.Header{}, Body: []byte(`null`)}
	resp.Header.Set("Content-Type", "application/json; charset=utf-8")
	svc := &fakeAuthService{resp: resp}
	r := newAuthRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/auth/session?extra=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "null" {
		t.Fatalf("body not replayed: %s", w.Body)
	}
	if svc.lastReq.Path != "/session" {
		t.Fatalf("base path not stripped: %q", svc.lastReq.Path)
	}
	if svc.lastReq.Method != http.MethodGet {
		t.Fatalf("method not forwarded: %q", svc.lastReq.Method)
	}
	if svc.lastReq.Query.Get("extra") != "1" {
		t.Fatalf("query not forwarded: %v", svc.lastReq.Query)
	}
}

func TestAuthAdapter_ForwardsBody(t *testing.T) {
	svc := &fakeAuthService{resp: &auth.Response{Status: http.StatusOK, Header: http.Header{}, Body: []byte(`{"ok":true}`)}}
	r := newAuthRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signout", `{"reason":"done"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if string(svc.lastReq.Body) != `{"reason":"done"}` {
		t.Fatalf("body not buffered: %s", svc.lastReq.Body)
	}
}

func TestAuthAdapter_ReplaysCookiesAndRedirect(t *testing.T) {
	resp := &auth.Response{Status: http.StatusFound, Header: http.Header{}}
	resp.Header.Set("Location", "https://discord.com/oauth2/authorize?x=1")
	resp.Cookies = []*http.Cookie{
		{Name: "isobel_oauth_state", Value: "nonce-1", Path: "/api/auth", HttpOnly: true},
		{Name: "isobel_session", Value: "", MaxAge: -1},
	}
	svc := &fakeAuthService{resp: resp}
	r := newAuthRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/auth/signin", "")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "https://discord.com/oauth2/authorize?x=1" {
		t.Fatalf("Location not replayed: %q", got)
	}
	setCookies := w.Header().Values("Set-Cookie")
	if len(setCookies) != 2 {
		t.Fatalf("expected 2 Set-Cookie headers, got %d: %v", len(setCookies), setCookies)
	}
}

func TestAuthAdapter_NilResponse(t *testing.T) {
	svc := &fakeAuthService{resp: nil}
	r := newAuthRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/auth/session", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
