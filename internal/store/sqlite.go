package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS rentals (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        zip VARCHAR,
        city VARCHAR,
        county VARCHAR,
        state VARCHAR,
        home_type INTEGER,
        date DATETIME,
        rent FLOAT,
        rent_adjusted FLOAT
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) InsertRental(r *RentalRecord) error {
	var adjusted sql.NullFloat64
	if r.RentAdjusted != nil {
		adjusted = sql.NullFloat64{Float64: *r.RentAdjusted, Valid: true}
	}

	res, err := s.db.Exec(
		"INSERT INTO rentals (zip, city, county, state, home_type, date, rent, rent_adjusted) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		r.Zip, r.City, r.County, r.State, r.HomeType, r.Date, r.Rent, adjusted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rental row: %w", err)
	}
	r.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) CountRentals() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM rentals").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rentals: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) GetRentalsByZip(zip string, limit int) ([]RentalRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, zip, city, county, state, home_type, date, rent, rent_adjusted FROM rentals WHERE zip = ? ORDER BY date ASC LIMIT ?",
		zip, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query rentals: %w", err)
	}
	defer rows.Close()

	var rentals []RentalRecord
	for rows.Next() {
		var r RentalRecord
		var adjusted sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.Zip, &r.City, &r.County, &r.State, &r.HomeType, &r.Date, &r.Rent, &adjusted); err != nil {
			return nil, fmt.Errorf("failed to scan rental row: %w", err)
		}
		if adjusted.Valid {
			r.RentAdjusted = &adjusted.Float64
		}
		rentals = append(rentals, r)
	}
	return rentals, rows.Err()
}
