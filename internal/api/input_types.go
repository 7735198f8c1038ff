package api

type createHouseholdInput struct {
	Name       string `json:"name"`
	Passphrase string `json:"passphrase"`
	Timezone   string `json:"timezone"`
	DeviceName string `json:"device_name"`
}

type pairDeviceInput struct {
	HouseholdID uint   `json:"household_id"`
	Passphrase  string `json:"passphrase"`
	Name        string `json:"name"`
	Role        string `json:"role"`
}

type planStatusInput struct {
	Status string `json:"status"`
}

type slotInput struct {
	ClientID       string `json:"client_id"`
	Day            string `json:"day"`
	MealType       string `json:"meal_type"`
	Servings       int    `json:"servings"`
	CustomMealName string `json:"custom_meal_name"`
	Notes          string `json:"notes"`
	RecipeIDs      []uint `json:"recipe_ids"`
}

// slotPatchInput leaves absent fields untouched.
type slotPatchInput struct {
	Servings       *int    `json:"servings"`
	CustomMealName *string `json:"custom_meal_name"`
	Notes          *string `json:"notes"`
}

type assignRecipeInput struct {
	RecipeID uint `json:"recipe_id"`
}

type recipeInput struct {
	Title              string   `json:"title"`
	Servings           int      `json:"servings"`
	PrepMinutes        int      `json:"prep_minutes"`
	CaloriesPerServing int      `json:"calories_per_serving"`
	Ingredients        []string `json:"ingredients"`
	SourceURL          string   `json:"source_url"`
}

type importRecipeInput struct {
	URL string `json:"url"`
}
