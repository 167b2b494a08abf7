package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	models "movieexplorer/src/modules/movies/models"
	suggest "movieexplorer/src/modules/suggest/services"

	"github.com/gin-gonic/gin"
)

type stubSearcher struct {
	titles []string
	err    error
}

func (s stubSearcher) SearchMovies(context.Context, string) ([]models.MovieSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.MovieSummary, len(s.titles))
	for i, t := range s.titles {
		out[i] = models.MovieSummary{Title: t}
	}
	return out, nil
}

func serve(t *testing.T, s stubSearcher, target string) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctl := NewController(suggest.NewEngine(s, suggest.Options{}), slog.Default())
	r := gin.New()
	r.GET("/api/v1/suggest", ctl.Suggest)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	return w.Code, body
}

func TestSuggestEndpoint(t *testing.T) {
	code, body := serve(t, stubSearcher{titles: []string{"Avengers: Endgame", "Average Joe", "The Avenger"}}, "/api/v1/suggest?q=avng")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	items := body["items"].([]any)
	if len(items) != 3 || items[0] != "Avengers: Endgame" || items[2] != "Average Joe" {
		t.Errorf("items = %v", items)
	}
	if body["open"] != true {
		t.Error("panel should be open")
	}
}

func TestSuggestEndpointSwallowsFailures(t *testing.T) {
	code, body := serve(t, stubSearcher{err: errors.New("down")}, "/api/v1/suggest?q=heat")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if items := body["items"].([]any); len(items) != 0 || body["open"] != false {
		t.Errorf("body = %v", body)
	}
}
