package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/tastify/tastify-backend-go/internal/domain"
	apperrors "github.com/tastify/tastify-backend-go/pkg/errors"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeExtractor struct {
	recipe *domain.ParsedRecipe
	err    error
	urls   []string
}

func (f *fakeExtractor) ExtractRecipe(_ context.Context, rawURL string) (*domain.ParsedRecipe, error) {
	f.urls = append(f.urls, rawURL)
	if f.err != nil {
		return nil, f.err
	}
	return f.recipe, nil
}

type fakeRecipeStore struct {
	recipes map[string]*domain.Recipe
	err     error
}

func newFakeRecipeStore() *fakeRecipeStore {
	return &fakeRecipeStore{recipes: make(map[string]*domain.Recipe)}
}

func (f *fakeRecipeStore) Create(_ context.Context, ownerID string, req *domain.CreateRecipeRequest) (*domain.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	recipe := &domain.Recipe{
		ID:          "r-1",
		Title:       req.Title,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Macros:      req.Macros,
		VideoURL:    req.VideoURL,
		OwnerID:     ownerID,
	}
	f.recipes[recipe.ID] = recipe
	return recipe, nil
}

func (f *fakeRecipeStore) Get(_ context.Context, id string) (*domain.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.recipes[id], nil
}

func (f *fakeRecipeStore) ListByOwner(_ context.Context, ownerID string) ([]*domain.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Recipe
	for _, r := range f.recipes {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecipeStore) Update(_ context.Context, id string, req *domain.CreateRecipeRequest) (*domain.Recipe, error) {
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, nil
	}
	recipe.Title = req.Title
	return recipe, nil
}

func (f *fakeRecipeStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.recipes[id]; !ok {
		return false, nil
	}
	delete(f.recipes, id)
	return true, nil
}

type fakeBoardStore struct {
	boards []*domain.Board
}

func (f *fakeBoardStore) Create(_ context.Context, ownerID, name string) (*domain.Board, error) {
	board := &domain.Board{ID: "b-1", OwnerID: ownerID, Name: name}
	f.boards = append(f.boards, board)
	return board, nil
}

func (f *fakeBoardStore) ListByOwnerWithPreviews(_ context.Context, _ string) ([]*domain.BoardWithPreviews, error) {
	return nil, nil
}

func (f *fakeBoardStore) AddRecipe(_ context.Context, _, _ string) error    { return nil }
func (f *fakeBoardStore) RemoveRecipe(_ context.Context, _, _ string) error { return nil }
func (f *fakeBoardStore) ListRecipes(_ context.Context, _ string) ([]*domain.Recipe, error) {
	return nil, nil
}

type fakeMailbox struct {
	link *domain.SharedLink
}

func (f *fakeMailbox) Deposit(_ context.Context, _, rawURL string) error {
	f.link = &domain.SharedLink{URL: rawURL}
	return nil
}

func (f *fakeMailbox) Take(_ context.Context, _ string) (*domain.SharedLink, error) {
	link := f.link
	f.link = nil
	return link, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

type testDeps struct {
	extractor *fakeExtractor
	recipes   *fakeRecipeStore
	boards    *fakeBoardStore
	mailbox   *fakeMailbox
	pinger    *fakePinger
	router    *gin.Engine
}

func setupTestRouter() *testDeps {
	deps := &testDeps{
		extractor: &fakeExtractor{},
		recipes:   newFakeRecipeStore(),
		boards:    &fakeBoardStore{},
		mailbox:   &fakeMailbox{},
		pinger:    &fakePinger{},
	}
	pingers := map[string]Pinger{"postgres": deps.pinger}
	handler := NewHandler(deps.extractor, deps.recipes, deps.boards, deps.mailbox, pingers, zap.NewNop())
	deps.router = SetupRouter("test", handler, zap.NewNop())
	return deps
}

func doRequest(router *gin.Engine, method, path, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON object: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy when backing services respond", func(t *testing.T) {
		deps := setupTestRouter()

		w := doRequest(deps.router, http.MethodGet, "/health", "", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		body := decodeBody(t, w)
		if body["status"] != "healthy" {
			t.Errorf("status field = %v, want healthy", body["status"])
		}
		components, _ := body["components"].(map[string]any)
		if components["postgres"] != "up" {
			t.Errorf("postgres component = %v, want up", components["postgres"])
		}
	})

	t.Run("degraded when a backing service is down", func(t *testing.T) {
		deps := setupTestRouter()
		deps.pinger.err = errors.New("connection refused")

		w := doRequest(deps.router, http.MethodGet, "/health", "", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", w.Code)
		}
		body := decodeBody(t, w)
		if body["status"] != "degraded" {
			t.Errorf("status field = %v, want degraded", body["status"])
		}
		components, _ := body["components"].(map[string]any)
		if components["postgres"] != "down" {
			t.Errorf("postgres component = %v, want down", components["postgres"])
		}
	})
}

func TestParseRecipeEndpoint(t *testing.T) {
	t.Run("returns extracted recipe", func(t *testing.T) {
		deps := setupTestRouter()
		deps.extractor.recipe = &domain.ParsedRecipe{
			Title:       "Pad Thai",
			Ingredients: []domain.Ingredient{{Item: "Noodles", Quantity: "200g"}},
			Steps:       []string{"Soak", "Fry"},
		}

		w := doRequest(deps.router, http.MethodPost, "/api/parseRecipe",
			`{"videoUrl":"https://www.tiktok.com/@chef/video/123"}`, "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
		}
		if body := decodeBody(t, w); body["title"] != "Pad Thai" {
			t.Errorf("title = %v, want Pad Thai", body["title"])
		}
		if len(deps.extractor.urls) != 1 {
			t.Errorf("extractor calls = %d, want 1", len(deps.extractor.urls))
		}
	})

	t.Run("missing videoUrl is a 400", func(t *testing.T) {
		deps := setupTestRouter()

		w := doRequest(deps.router, http.MethodPost, "/api/parseRecipe", `{}`, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if body := decodeBody(t, w); body["message"] != "videoUrl is required" {
			t.Errorf("message = %v", body["message"])
		}
		if len(deps.extractor.urls) != 0 {
			t.Error("extractor should not run without a URL")
		}
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		deps := setupTestRouter()

		w := doRequest(deps.router, http.MethodPost, "/api/parseRecipe", `{"videoUrl":`, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("unsupported URL maps to 400", func(t *testing.T) {
		deps := setupTestRouter()
		deps.extractor.err = apperrors.NewInvalidURLError("https://example.com")

		w := doRequest(deps.router, http.MethodPost, "/api/parseRecipe",
			`{"videoUrl":"https://example.com"}`, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if body := decodeBody(t, w); body["error"] != "Invalid URL" {
			t.Errorf("error = %v, want Invalid URL", body["error"])
		}
	})

	t.Run("GET is a 405", func(t *testing.T) {
		deps := setupTestRouter()

		w := doRequest(deps.router, http.MethodGet, "/api/parseRecipe", "", "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", w.Code)
		}
		if body := decodeBody(t, w); body["error"] != "Method not allowed" {
			t.Errorf("error = %v", body["error"])
		}
	})

	t.Run("unsupported method on a multi-method route is a 405", func(t *testing.T) {
		deps := setupTestRouter()

		w := doRequest(deps.router, http.MethodPut, "/api/recipes/r-1", `{"title":"x"}`, "user-1")
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", w.Code)
		}
		if body := decodeBody(t, w); body["message"] == "Only POST requests are supported" {
			t.Error("405 body should not claim only POST is supported here")
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	deps := setupTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/parseRecipe", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	deps.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("preflight status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Allow-Methods = %q, want POST included", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
		t.Errorf("Allow-Headers = %q, want Authorization included", got)
	}
}

func TestRecipeCRUD(t *testing.T) {
	t.Run("create requires bearer identity", func(t *testing.T) {
		deps := setupTestRouter()

		w := doRequest(deps.router, http.MethodPost, "/api/recipes", `{"title":"Soup"}`, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("create and fetch", func(t *testing.T) {
		deps := setupTestRouter()

		w := doRequest(deps.router, http.MethodPost, "/api/recipes",
			`{"title":"Soup","ingredients":[{"item":"Water","quantity":"1L"}],"steps":["Boil"]}`, "user-1")
		if w.Code != http.StatusCreated {
			t.Fatalf("create status = %d, want 201 (%s)", w.Code, w.Body.String())
		}
		created := decodeBody(t, w)
		if created["owner_id"] != "user-1" {
			t.Errorf("owner_id = %v, want user-1", created["owner_id"])
		}

		w = doRequest(deps.router, http.MethodGet, "/api/recipes/r-1", "", "user-1")
		if w.Code != http.StatusOK {
			t.Fatalf("get status = %d, want 200", w.Code)
		}
	})

	t.Run("create rejects empty title", func(t *testing.T) {
		deps := setupTestRouter()

		w := doRequest(deps.router, http.MethodPost, "/api/recipes", `{"title":"  "}`, "user-1")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("get unknown recipe is a 404", func(t *testing.T) {
		deps := setupTestRouter()

		w := doRequest(deps.router, http.MethodGet, "/api/recipes/missing", "", "user-1")
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("delete then get", func(t *testing.T) {
		deps := setupTestRouter()
		deps.recipes.recipes["r-1"] = &domain.Recipe{ID: "r-1", OwnerID: "user-1", Title: "Soup"}

		w := doRequest(deps.router, http.MethodDelete, "/api/recipes/r-1", "", "user-1")
		if w.Code != http.StatusNoContent {
			t.Fatalf("delete status = %d, want 204", w.Code)
		}

		w = doRequest(deps.router, http.MethodDelete, "/api/recipes/r-1", "", "user-1")
		if w.Code != http.StatusNotFound {
			t.Errorf("second delete status = %d, want 404", w.Code)
		}
	})

	t.Run("storage errors map to 500", func(t *testing.T) {
		deps := setupTestRouter()
		deps.recipes.err = apperrors.NewStorageError("failed to list recipes", "list", "recipe", nil)

		w := doRequest(deps.router, http.MethodGet, "/api/recipes", "", "user-1")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		if body := decodeBody(t, w); body["error"] != "Storage error" {
			t.Errorf("error = %v, want Storage error", body["error"])
		}
	})
}

func TestShareEndpoints(t *testing.T) {
	deps := setupTestRouter()

	w := doRequest(deps.router, http.MethodPost, "/api/share",
		`{"videoUrl":"https://www.tiktok.com/@chef/video/123"}`, "user-1")
	if w.Code != http.StatusNoContent {
		t.Fatalf("deposit status = %d, want 204 (%s)", w.Code, w.Body.String())
	}

	w = doRequest(deps.router, http.MethodGet, "/api/share", "", "user-1")
	if w.Code != http.StatusOK {
		t.Fatalf("take status = %d, want 200", w.Code)
	}
	if body := decodeBody(t, w); body["url"] != "https://www.tiktok.com/@chef/video/123" {
		t.Errorf("url = %v, want deposited URL", body["url"])
	}

	w = doRequest(deps.router, http.MethodGet, "/api/share", "", "user-1")
	if w.Code != http.StatusNoContent {
		t.Errorf("empty slot status = %d, want 204", w.Code)
	}
}
