package data

// FoodItem is one entry in the built-in food database. Values are per serving.
type FoodItem struct {
	ID       string
	Name     string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Serving  string
}

var foodDatabase = []FoodItem{
	{ID: "1", Name: "Chicken Breast", Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, Serving: "100g"},
	{ID: "2", Name: "Brown Rice", Calories: 112, Protein: 2.6, Carbs: 23, Fat: 0.9, Serving: "100g"},
	{ID: "3", Name: "Broccoli", Calories: 34, Protein: 2.8, Carbs: 7, Fat: 0.4, Serving: "100g"},
	{ID: "4", Name: "Salmon", Calories: 208, Protein: 22, Carbs: 0, Fat: 13, Serving: "100g"},
	{ID: "5", Name: "Sweet Potato", Calories: 86, Protein: 1.6, Carbs: 20, Fat: 0.1, Serving: "100g"},
	{ID: "6", Name: "Greek Yogurt", Calories: 59, Protein: 10, Carbs: 3.6, Fat: 0.4, Serving: "100g"},
	{ID: "7", Name: "Oatmeal", Calories: 68, Protein: 2.4, Carbs: 12, Fat: 1.4, Serving: "100g"},
	{ID: "8", Name: "Banana", Calories: 89, Protein: 1.1, Carbs: 23, Fat: 0.3, Serving: "1 medium"},
	{ID: "9", Name: "Almonds", Calories: 579, Protein: 21, Carbs: 22, Fat: 50, Serving: "100g"},
	{ID: "10", Name: "Spinach", Calories: 23, Protein: 2.9, Carbs: 3.6, Fat: 0.4, Serving: "100g"},
}

// Foods returns a copy of the food database.
func Foods() []FoodItem {
	out := make([]FoodItem, len(foodDatabase))
	copy(out, foodDatabase)
	return out
}

// FindFood looks a food up by ID.
func FindFood(id string) (FoodItem, bool) {
	for _, f := range foodDatabase {
		if f.ID == id {
			return f, true
		}
	}
	return FoodItem{}, false
}
