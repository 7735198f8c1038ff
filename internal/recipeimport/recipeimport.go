// Package recipeimport extracts recipe fields from a recipe web page. It reads
// schema.org Recipe JSON-LD first and falls back to OpenGraph and heading
// tags for the title.
package recipeimport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoRecipe = errors.New("no recipe found in document")

const maxDocumentBytes = 4 << 20

var (
	isoDurationPattern = regexp.MustCompile(`(?i)^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
	leadingNumber      = regexp.MustCompile(`\d+`)
)

type Recipe struct {
	Title              string
	Servings           int
	PrepMinutes        int
	CaloriesPerServing int
	Ingredients        []string
	SourceURL          string
}

// Parse reads an HTML document and returns what it could find. A document with
// no recognisable title yields ErrNoRecipe.
func Parse(document io.Reader, sourceURL string) (Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(document, maxDocumentBytes))
	if err != nil {
		return Recipe{}, fmt.Errorf("parse html: %w", err)
	}

	recipe := Recipe{SourceURL: strings.TrimSpace(sourceURL)}
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		node, ok := findRecipeNode([]byte(selection.Text()))
		if !ok {
			return true
		}
		recipe = fromJSONLD(node, recipe.SourceURL)
		return false
	})

	if recipe.Title == "" {
		recipe.Title = fallbackTitle(doc)
	}
	if recipe.SourceURL == "" {
		if canonical, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
			recipe.SourceURL = strings.TrimSpace(canonical)
		}
	}
	if recipe.Title == "" {
		return Recipe{}, ErrNoRecipe
	}
	return recipe, nil
}

// Fetch downloads rawURL and parses it.
func Fetch(ctx context.Context, client *http.Client, rawURL string) (Recipe, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Recipe{}, fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Accept", "text/html")

	response, err := client.Do(request)
	if err != nil {
		return Recipe{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return Recipe{}, fmt.Errorf("fetch %s: status %d", rawURL, response.StatusCode)
	}
	return Parse(response.Body, rawURL)
}

func findRecipeNode(raw []byte) (map[string]any, bool) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false
	}
	return searchRecipe(decoded)
}

func searchRecipe(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case []any:
		for _, item := range typed {
			if node, ok := searchRecipe(item); ok {
				return node, true
			}
		}
	case map[string]any:
		if hasType(typed["@type"], "Recipe") {
			return typed, true
		}
		if graph, ok := typed["@graph"]; ok {
			return searchRecipe(graph)
		}
	}
	return nil, false
}

func hasType(value any, want string) bool {
	switch typed := value.(type) {
	case string:
		return strings.EqualFold(typed, want)
	case []any:
		for _, item := range typed {
			if hasType(item, want) {
				return true
			}
		}
	}
	return false
}

func fromJSONLD(node map[string]any, sourceURL string) Recipe {
	recipe := Recipe{
		Title:       cleanText(stringValue(node["name"])),
		Servings:    firstInt(node["recipeYield"]),
		Ingredients: stringList(node["recipeIngredient"]),
		SourceURL:   sourceURL,
	}
	if len(recipe.Ingredients) == 0 {
		recipe.Ingredients = stringList(node["ingredients"])
	}

	recipe.PrepMinutes = durationMinutes(stringValue(node["totalTime"]))
	if recipe.PrepMinutes == 0 {
		recipe.PrepMinutes = durationMinutes(stringValue(node["prepTime"])) + durationMinutes(stringValue(node["cookTime"]))
	}

	if nutrition, ok := node["nutrition"].(map[string]any); ok {
		recipe.CaloriesPerServing = firstInt(nutrition["calories"])
	}
	if recipe.SourceURL == "" {
		recipe.SourceURL = strings.TrimSpace(stringValue(node["url"]))
	}
	return recipe
}

func fallbackTitle(doc *goquery.Document) string {
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if cleaned := cleanText(title); cleaned != "" {
			return cleaned
		}
	}
	if heading := cleanText(doc.Find("h1").First().Text()); heading != "" {
		return heading
	}
	return cleanText(doc.Find("title").First().Text())
}

// durationMinutes converts an ISO-8601 duration such as PT1H30M.
func durationMinutes(raw string) int {
	matches := isoDurationPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if matches == nil {
		return 0
	}
	days, _ := strconv.Atoi(matches[1])
	hours, _ := strconv.Atoi(matches[2])
	minutes, _ := strconv.Atoi(matches[3])
	return days*24*60 + hours*60 + minutes
}

func firstInt(value any) int {
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case string:
		match := leadingNumber.FindString(typed)
		if match == "" {
			return 0
		}
		parsed, _ := strconv.Atoi(match)
		return parsed
	case []any:
		for _, item := range typed {
			if parsed := firstInt(item); parsed > 0 {
				return parsed
			}
		}
	}
	return 0
}

func stringValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case []any:
		if len(typed) > 0 {
			return stringValue(typed[0])
		}
	}
	return ""
}

func stringList(value any) []string {
	items := make([]string, 0)
	switch typed := value.(type) {
	case string:
		if cleaned := cleanText(typed); cleaned != "" {
			items = append(items, cleaned)
		}
	case []any:
		for _, item := range typed {
			if cleaned := cleanText(stringValue(item)); cleaned != "" {
				items = append(items, cleaned)
			}
		}
	}
	return items
}

func cleanText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
