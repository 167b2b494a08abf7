package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPaginate(t *testing.T) {
	p := Paginate(23, 2, 10)
	if p["total_pages"] != 3 {
		t.Errorf("total_pages = %v, want 3", p["total_pages"])
	}
	if next := p["next_page"].(*int); next == nil || *next != 3 {
		t.Errorf("next_page = %v", next)
	}
	if prev := p["previous_page"].(*int); prev == nil || *prev != 1 {
		t.Errorf("previous_page = %v", prev)
	}
	last := Paginate(23, 3, 10)
	if last["next_page"].(*int) != nil {
		t.Error("last page has a next page")
	}
}

func TestCalculateOffset(t *testing.T) {
	tests := []struct {
		page, per, total int
		offset, end      int
	}{
		{1, 10, 23, 0, 10},
		{3, 10, 23, 20, 23},
		{4, 10, 23, 23, 23},
		{0, 10, 5, 0, 5},
		{1_000_000_000_000_000_000, 10, 23, 23, 23},
		{math.MaxInt, 1, 0, 0, 0},
	}
	for _, tt := range tests {
		got := CalculateOffset(tt.page, tt.per, tt.total)
		if got.Offset != tt.offset || got.End != tt.end {
			t.Errorf("CalculateOffset(%d,%d,%d) = [%d,%d), want [%d,%d)",
				tt.page, tt.per, tt.total, got.Offset, got.End, tt.offset, tt.end)
		}
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("42"); err != nil || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "abc", "-1", "0"} {
		if _, err := ParseID(bad); err == nil {
			t.Errorf("ParseID(%q) succeeded", bad)
		}
	}
}

type remoteErr struct{}

func (remoteErr) Error() string       { return "remote" }
func (remoteErr) HTTPStatus() int     { return http.StatusBadGateway }
func (remoteErr) UserMessage() string { return "Failed to fetch movies" }

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name   string
		err    error
		status int
		body   map[string]string
	}{
		{"service error", &ServiceError{StatusCode: http.StatusPaymentRequired, Message: "premium", Redirect: "/sub"},
			http.StatusPaymentRequired, map[string]string{"error": "premium", "redirect": "/sub"}},
		{"wrapped carrier", fmt.Errorf("load: %w", remoteErr{}),
			http.StatusBadGateway, map[string]string{"error": "Failed to fetch movies"}},
		{"unknown", errors.New("boom"),
			http.StatusInternalServerError, map[string]string{"error": "Something went wrong. Please try again."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondError(c, tt.err)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var got map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			for k, v := range tt.body {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
