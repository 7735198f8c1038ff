package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentWeek in a fixture week's start means the week containing the seed
// time.
const CurrentWeek = "current"

//go:embed demo.yaml
var demoFixture []byte

var ErrInvalidFixture = errors.New("invalid seed fixture")

type Fixture struct {
	Household HouseholdFixture `yaml:"household"`
	Recipes   []RecipeFixture  `yaml:"recipes"`
	Weeks     []WeekFixture    `yaml:"weeks"`
}

type HouseholdFixture struct {
	Name       string `yaml:"name"`
	Passphrase string `yaml:"passphrase"`
	Timezone   string `yaml:"timezone"`
}

type RecipeFixture struct {
	Title              string   `yaml:"title"`
	Servings           int      `yaml:"servings"`
	PrepMinutes        int      `yaml:"prep_minutes"`
	CaloriesPerServing int      `yaml:"calories_per_serving"`
	Ingredients        []string `yaml:"ingredients"`
	SourceURL          string   `yaml:"source_url"`
}

type WeekFixture struct {
	Start  string        `yaml:"start"`
	Status string        `yaml:"status"`
	Slots  []SlotFixture `yaml:"slots"`
}

type SlotFixture struct {
	ID       string   `yaml:"id"`
	Day      string   `yaml:"day"`
	Meal     string   `yaml:"meal"`
	Servings int      `yaml:"servings"`
	Name     string   `yaml:"name"`
	Notes    string   `yaml:"notes"`
	Recipes  []string `yaml:"recipes"`
}

func DemoFixture() (Fixture, error) {
	return ParseFixture(demoFixture)
}

// ParseFixture decodes a YAML fixture and rejects unknown keys so typos do not
// silently drop data.
func ParseFixture(data []byte) (Fixture, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var fixture Fixture
	if err := decoder.Decode(&fixture); err != nil {
		return Fixture{}, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}
	if err := fixture.validate(); err != nil {
		return Fixture{}, err
	}
	return fixture, nil
}

func (fixture Fixture) validate() error {
	if strings.TrimSpace(fixture.Household.Name) == "" {
		return fmt.Errorf("%w: household name is required", ErrInvalidFixture)
	}

	titles := make(map[string]struct{}, len(fixture.Recipes))
	for _, recipe := range fixture.Recipes {
		key := recipeKey(recipe.Title)
		if key == "" {
			return fmt.Errorf("%w: recipe without title", ErrInvalidFixture)
		}
		if _, exists := titles[key]; exists {
			return fmt.Errorf("%w: duplicate recipe %q", ErrInvalidFixture, recipe.Title)
		}
		titles[key] = struct{}{}
	}

	for _, week := range fixture.Weeks {
		if strings.TrimSpace(week.Start) == "" {
			return fmt.Errorf("%w: week without start", ErrInvalidFixture)
		}
		ids := make(map[string]struct{}, len(week.Slots))
		for _, slot := range week.Slots {
			if strings.TrimSpace(slot.ID) == "" {
				return fmt.Errorf("%w: slot without id in week %s", ErrInvalidFixture, week.Start)
			}
			if _, exists := ids[slot.ID]; exists {
				return fmt.Errorf("%w: duplicate slot %q in week %s", ErrInvalidFixture, slot.ID, week.Start)
			}
			ids[slot.ID] = struct{}{}
			for _, title := range slot.Recipes {
				if _, known := titles[recipeKey(title)]; !known {
					return fmt.Errorf("%w: slot %q references unknown recipe %q", ErrInvalidFixture, slot.ID, title)
				}
			}
		}
	}
	return nil
}

func recipeKey(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
