package store

// GeoRecord maps a ZIP code to its city, county and state. Built once
// from the geo CSV and read-only afterwards.
type GeoRecord struct {
	Zip    string `json:"zip"`
	City   string `json:"city"`
	County string `json:"county"`
	State  string `json:"state"` // 2-letter abbreviation
}

type RentalRecord struct {
	ID           int64    `json:"id"`
	Zip          string   `json:"zip"`
	City         string   `json:"city"`
	County       string   `json:"county"`
	State        string   `json:"state"`
	HomeType     int      `json:"home_type"`
	Date         string   `json:"date"` // ISO 8601, as stored in SQLite
	Rent         float64  `json:"rent"`
	RentAdjusted *float64 `json:"rent_adjusted"` // seasonally adjusted, may be missing
}
