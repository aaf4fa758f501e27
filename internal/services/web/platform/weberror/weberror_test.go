package weberror

import (
	stderrors "errors"
	"net/http"
	"testing"

	apperrors "github.com/helpdeck-io/helpdeck/internal/services/web/platform/errors"
)

func TestShouldRenderAppError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   bool
	}{
		{status: http.StatusNotFound, want: true},
		{status: http.StatusInternalServerError, want: true},
		{status: http.StatusBadGateway, want: true},
		{status: http.StatusBadRequest, want: false},
		{status: http.StatusUnauthorized, want: false},
	}
	for _, tc := range tests {
		if got := ShouldRenderAppError(tc.status); got != tc.want {
			t.Errorf("ShouldRenderAppError(%d) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	if got := PublicMessage(nil); got != "" {
		t.Fatalf("PublicMessage(nil) = %q, want empty", got)
	}
	if got := PublicMessage(apperrors.E(apperrors.KindNotFound, "Ticket not found")); got != "Ticket not found" {
		t.Fatalf("PublicMessage() = %q", got)
	}
	if got := PublicMessage(stderrors.New("internal detail")); got != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("foreign error message = %q, want generic text", got)
	}
}
