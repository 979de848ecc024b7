package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// GeoIndex is an in-memory mapping from a 5-digit ZIP code to its geo
// record. Duplicate ZIPs in the source CSV follow last-write-wins.
type GeoIndex map[string]GeoRecord

func (g GeoIndex) Lookup(zip string) (GeoRecord, bool) {
	rec, ok := g[zip]
	return rec, ok
}

// LoadGeoIndex reads the us-state-county-zip CSV into a GeoIndex.
// Columns are resolved by header name so column order doesn't matter.
// The source stores ZIPs as bare integers, so they are normalized to
// 5 digits here as well.
func LoadGeoIndex(path string) (GeoIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geo CSV %s: %w", path, err)
	}
	defer f.Close()

	return ReadGeoIndex(f)
}

func ReadGeoIndex(r io.Reader) (GeoIndex, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read geo CSV header: %w", err)
	}
	cols := columnIndex(header)

	required := []string{"zipcode", "city", "county", "state_abbr"}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("geo CSV is missing required column %q", name)
		}
	}

	index := make(GeoIndex)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read geo CSV row: %w", err)
		}

		zip := NormalizeZip(field(record, cols["zipcode"]))
		if zip == "" {
			continue
		}
		index[zip] = GeoRecord{
			Zip:    zip,
			City:   field(record, cols["city"]),
			County: field(record, cols["county"]),
			State:  field(record, cols["state_abbr"]),
		}
	}
	return index, nil
}

// NormalizeZip left-pads a ZIP code with zeros to 5 digits. Sources
// that store ZIPs numerically drop leading zeros ("1012" -> "01012").
func NormalizeZip(zip string) string {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return ""
	}
	for len(zip) < 5 {
		zip = "0" + zip
	}
	return zip
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return cols
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
