package authapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenFromRequest(t *testing.T) {
	h := newTestHandler(t)
	cookieName := h.sessCfg.CookieName

	cases := []struct {
		name      string
		configure func(*http.Request)
		want      string
		found     bool
	}{
		{name: "none", configure: func(*http.Request) {}},
		{
			name: "cookie",
			configure: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: "tok-cookie"})
			},
			want: "tok-cookie", found: true,
		},
		{
			name: "bearer",
			configure: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer tok-bearer")
			},
			want: "tok-bearer", found: true,
		},
		{
			name: "bearer case-insensitive",
			configure: func(r *http.Request) {
				r.Header.Set("Authorization", "bearer tok-bearer")
			},
			want: "tok-bearer", found: true,
		},
		{
			name: "cookie wins over bearer",
			configure: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: "tok-cookie"})
				r.Header.Set("Authorization", "Bearer tok-bearer")
			},
			want: "tok-cookie", found: true,
		},
		{
			name: "empty cookie falls through to bearer",
			configure: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: ""})
				r.Header.Set("Authorization", "Bearer tok-bearer")
			},
			want: "tok-bearer", found: true,
		},
		{
			name: "non-bearer scheme ignored",
			configure: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic dXNlcjpwdw==")
			},
		},
		{
			name: "bearer with no token ignored",
			configure: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer ")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.configure(req)
			got, found := h.tokenFromRequest(req)
			if found != tc.found || got != tc.want {
				t.Fatalf("got (%q, %v), want (%q, %v)", got, found, tc.want, tc.found)
			}
		})
	}
}

func TestWantsJSON(t *testing.T) {
	cases := []struct {
		name      string
		configure func(*http.Request)
		want      bool
	}{
		{name: "bare request", configure: func(*http.Request) {}, want: false},
		{
			name: "authorization header",
			configure: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer tok")
			},
			want: true,
		},
		{
			name: "accept json",
			configure: func(r *http.Request) {
				r.Header.Set("Accept", "application/json")
			},
			want: true,
		},
		{
			name: "accept html",
			configure: func(r *http.Request) {
				r.Header.Set("Accept", "text/html,application/xhtml+xml")
			},
			want: false,
		},
		{
			name: "json body",
			configure: func(r *http.Request) {
				r.Header.Set("Content-Type", "application/json")
			},
			want: true,
		},
		{
			name: "form body",
			configure: func(r *http.Request) {
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.configure(req)
			if got := wantsJSON(req); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
