package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
)

// regionTypeZip is the region-type code marking ZIP-level rows in the
// Zillow rentals dataset. Other codes (city, county, MSA) are skipped.
const regionTypeZip = 0

// IngestRentals iterates the rentals dataset CSV row by row and loads
// accepted rows into the rentals table, joined with the geo index.
// A row is accepted only when its region type is ZIP-level and its
// smoothed rent is present; rows with a ZIP missing from the geo
// index are silently skipped. Loading stops after maxRows accepted
// rows. Each row is a single INSERT; a database failure aborts the
// whole load.
func (s *SQLiteStore) IngestRentals(path string, geo GeoIndex, maxRows int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open rentals CSV %s: %w", path, err)
	}
	defer f.Close()

	return s.ingestRentals(f, geo, maxRows)
}

func (s *SQLiteStore) ingestRentals(r io.Reader, geo GeoIndex, maxRows int) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read rentals CSV header: %w", err)
	}
	cols := columnIndex(header)

	required := []string{"region type", "region", "home type", "date", "rent (smoothed)", "rent (smoothed) (seasonally adjusted)"}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return 0, fmt.Errorf("rentals CSV is missing required column %q", name)
		}
	}

	count := 0
	for count < maxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read rentals CSV row: %w", err)
		}

		regionType, err := strconv.Atoi(field(record, cols["region type"]))
		if err != nil || regionType != regionTypeZip {
			continue
		}

		rentStr := field(record, cols["rent (smoothed)"])
		if rentStr == "" {
			continue
		}
		rent, err := strconv.ParseFloat(rentStr, 64)
		if err != nil {
			log.Printf("Skipping row with unparseable rent %q", rentStr)
			continue
		}

		zip := NormalizeZip(field(record, cols["region"]))
		geoRec, ok := geo.Lookup(zip)
		if !ok {
			continue // ZIP not in the geo index
		}

		homeType, _ := strconv.Atoi(field(record, cols["home type"]))

		rental := RentalRecord{
			Zip:      zip,
			City:     geoRec.City,
			County:   geoRec.County,
			State:    geoRec.State,
			HomeType: homeType,
			Date:     field(record, cols["date"]),
			Rent:     rent,
		}
		if adjStr := field(record, cols["rent (smoothed) (seasonally adjusted)"]); adjStr != "" {
			if adj, err := strconv.ParseFloat(adjStr, 64); err == nil {
				rental.RentAdjusted = &adj
			}
		}

		if err := s.InsertRental(&rental); err != nil {
			return count, fmt.Errorf("rental ingest aborted: %w", err)
		}

		count++
		if count%1000 == 0 {
			log.Printf("Ingested %d rental rows...", count)
		}
	}

	log.Printf("Rental ingest complete: %d rows loaded.", count)
	return count, nil
}
