package api

import (
	"bufio"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/mealweek/internal/changes"
)

func uintString(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func TestHealthAndLaunch(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)

	response := doJSON(t, env.app, http.MethodGet, "/healthz", "", nil)
	requireStatus(t, response, http.StatusOK)

	response = doJSON(t, env.app, http.MethodGet, "/api/launch", "", nil)
	requireStatus(t, response, http.StatusOK)
	launch := map[string]any{}
	decodeBody(t, response, &launch)
	if launch["screenshot_mode"] != true || launch["screenshot_tab"] != "today" {
		t.Fatalf("unexpected launch options: %v", launch)
	}
}

func TestChangesReportsRevision(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	response := doJSON(t, env.app, http.MethodGet, "/api/changes?since=0", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)
	state := struct {
		Revision uint64 `json:"revision"`
		Changed  bool   `json:"changed"`
	}{}
	decodeBody(t, response, &state)
	if state.Revision != 0 || state.Changed {
		t.Fatalf("expected untouched household at revision 0, got %+v", state)
	}

	response = doJSON(t, env.app, http.MethodPost, "/api/recipes", tokens.editor, map[string]any{"title": "Pancakes"})
	requireStatus(t, response, http.StatusCreated)

	response = doJSON(t, env.app, http.MethodGet, "/api/changes?since=0", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)
	decodeBody(t, response, &state)
	if state.Revision != 1 || !state.Changed {
		t.Fatalf("expected revision 1 after a mutation, got %+v", state)
	}

	response = doJSON(t, env.app, http.MethodGet, "/api/changes?since=x", tokens.display, nil)
	requireStatus(t, response, http.StatusBadRequest)
}

func TestChangesStreamAfterShutdown(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)
	env.hub.Close()

	request := httptest.NewRequest(http.MethodGet, "/api/changes/stream?access_token="+tokens.display, nil)
	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("stream request failed: %v", err)
	}
	defer response.Body.Close()
	requireStatus(t, response, http.StatusServiceUnavailable)
}

func TestAccessTokenQueryOnlyWorksForStream(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	request := httptest.NewRequest(http.MethodGet, "/api/today?access_token="+tokens.display, nil)
	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("today request failed: %v", err)
	}
	defer response.Body.Close()
	requireStatus(t, response, http.StatusUnauthorized)
}

func TestWriteStreamEvent(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	writer := bufio.NewWriter(&buffer)
	event := changes.Event{
		HouseholdID: 3,
		Revision:    7,
		Kind:        changes.KindSlot,
		WeekKey:     "2025-01-20",
		At:          time.Date(2025, 1, 22, 12, 0, 0, 0, time.UTC),
	}
	if err := writeStreamEvent(writer, event); err != nil {
		t.Fatalf("writeStreamEvent() unexpected error: %v", err)
	}

	rendered := buffer.String()
	if !strings.HasPrefix(rendered, "id: 7\nevent: change\ndata: {") {
		t.Fatalf("unexpected event framing: %q", rendered)
	}
	if !strings.HasSuffix(rendered, "}\n\n") || !strings.Contains(rendered, `"week_key":"2025-01-20"`) {
		t.Fatalf("unexpected event payload: %q", rendered)
	}

	buffer.Reset()
	if err := writeStreamComment(writer, "ping"); err != nil {
		t.Fatalf("writeStreamComment() unexpected error: %v", err)
	}
	if buffer.String() != ": ping\n\n" {
		t.Fatalf("unexpected comment framing: %q", buffer.String())
	}
}

func TestUnknownAPIPathIsJSON(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	response := doJSON(t, env.app, http.MethodGet, "/nowhere", "", nil)
	requireStatus(t, response, http.StatusNotFound)
	if got := readAPIError(t, response); got != "not found" {
		t.Fatalf("unexpected not found message %q", got)
	}
}

func TestImportRecipeFromHTMLBody(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	page := `<html><head><script type="application/ld+json">
{"@context":"https://schema.org","@type":"Recipe","name":"Shakshuka","recipeYield":"4 servings",
 "totalTime":"PT35M","recipeIngredient":["6 eggs","1 can tomatoes"],"nutrition":{"calories":"320 kcal"}}
</script></head><body></body></html>`
	request := httptest.NewRequest(http.MethodPost, "/api/recipes/import?source_url=https://example.com/shakshuka", strings.NewReader(page))
	request.Header.Set("Content-Type", "text/html")
	request.Header.Set("Authorization", "Bearer "+tokens.editor)
	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("import request failed: %v", err)
	}
	defer response.Body.Close()
	requireStatus(t, response, http.StatusCreated)

	imported := recipeResponseBody{}
	decodeBody(t, response, &imported)
	if imported.Recipe.Title != "Shakshuka" {
		t.Fatalf("expected imported title Shakshuka, got %q", imported.Recipe.Title)
	}

	request = httptest.NewRequest(http.MethodPost, "/api/recipes/import", strings.NewReader("<html><body><p>no recipe</p></body></html>"))
	request.Header.Set("Content-Type", "text/html")
	request.Header.Set("Authorization", "Bearer "+tokens.editor)
	response, err = env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("import request failed: %v", err)
	}
	defer response.Body.Close()
	requireStatus(t, response, http.StatusUnprocessableEntity)
}
