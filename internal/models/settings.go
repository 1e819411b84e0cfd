package models

// DayHours is the opening window for one weekday.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// RestaurantSettings is the single back-office settings record.
type RestaurantSettings struct {
	Name         string              `json:"name"`
	Phone        string              `json:"phone"`
	Email        string              `json:"email"`
	Address      Address             `json:"address"`
	WorkingHours map[string]DayHours `json:"working_hours"`
}
