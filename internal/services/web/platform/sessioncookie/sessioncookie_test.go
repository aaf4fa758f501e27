package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/helpdeck-io/helpdeck/internal/services/web/platform/requestmeta"
)

func TestWriteAndRead(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://app.example.com/", nil)
	Write(rec, req, "  token-1  ", requestmeta.SchemePolicy{})

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("len(cookies) = %d, want 1", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != Name || cookie.Value != "token-1" {
		t.Fatalf("cookie = %s=%s, want %s=token-1", cookie.Name, cookie.Value, Name)
	}
	if !cookie.HttpOnly {
		t.Fatal("cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("SameSite = %v, want Lax", cookie.SameSite)
	}
	if cookie.Secure {
		t.Fatal("plain HTTP request must not mark cookie Secure")
	}

	read := httptest.NewRequest(http.MethodGet, "/", nil)
	read.AddCookie(&http.Cookie{Name: Name, Value: "token-1"})
	value, ok := Read(read)
	if !ok || value != "token-1" {
		t.Fatalf("Read() = %q, %v, want token-1, true", value, ok)
	}
}

func TestReadMissingOrBlank(t *testing.T) {
	t.Parallel()

	if _, ok := Read(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("Read() without cookie must report false")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: "   "})
	if _, ok := Read(req); ok {
		t.Fatal("Read() with blank cookie must report false")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Clear(rec, httptest.NewRequest(http.MethodGet, "/", nil), requestmeta.SchemePolicy{})

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("len(cookies) = %d, want 1", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Fatalf("MaxAge = %d, want -1", cookies[0].MaxAge)
	}
}
