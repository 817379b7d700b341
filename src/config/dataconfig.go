package config

// DefaultDataConfig 原始配送数据集的列约定
func DefaultDataConfig() *DataConfig {
	columns := []string{
		"ID", "Delivery_person_ID", "Delivery_person_Age", "Delivery_person_Ratings",
		"Restaurant_latitude", "Restaurant_longitude",
		"Delivery_location_latitude", "Delivery_location_longitude",
		"Order_Date", "Time_Ordered", "Time_Order_picked",
		"Weatherconditions", "Road_traffic_density", "Vehicle_condition",
		"Type_of_order", "Type_of_vehicle", "multiple_deliveries",
		"Festival", "City", "Time_taken(min)",
	}
	cols := make(map[string]string, len(columns))
	for _, c := range columns {
		cols[c] = c
	}

	return &DataConfig{
		Columns:       cols,
		RenameColumns: map[string]string{"Time_Orderd": "Time_Ordered"},
		ValueFixes:    map[string]string{"Metropolitian": "Metropolitan"},
		NullMarkers:   []string{"NaN", "nan", "NA", "null", ""},
		Categories: map[string][]string{
			"Road_traffic_density": {"Low", "Medium", "High", "Jam"},
			"City":                 {"Metropolitan", "Urban", "Semi-Urban"},
			"Festival":             {"Yes", "No"},
			"Weatherconditions":    {"Sunny", "Stormy", "Sandstorms", "Cloudy", "Fog", "Windy"},
			"Type_of_order":        {"Buffet", "Drinks", "Meal", "Snack"},
			"Type_of_vehicle":      {"motorcycle", "scooter", "electric_scooter", "bicycle"},
		},
	}
}
