// Package catalog turns an external record source into validated in-memory
// location entities. It performs no cross-record validation; group
// consistency is resolved at query time by the registry.
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"warespace/internal/models"
)

// csvFields is the exact per-record field set of the external source.
var csvFields = []string{
	"id", "area_id", "area_type",
	"aisle", "bay", "level", "position",
	"length_mm", "width_mm", "height_mm", "max_weight_kg",
	"status", "group_id",
}

// Catalogue is the load-time-fixed set of location identities, keyed by id
// and preserving insertion order for scans.
type Catalogue struct {
	Locations map[string]*models.Location
	Order     []string
}

// NewCatalogue creates an empty catalogue
func NewCatalogue() *Catalogue {
	return &Catalogue{Locations: make(map[string]*models.Location)}
}

// Add inserts a location. A duplicate id overwrites the earlier record and
// keeps its original scan position (last record wins).
func (c *Catalogue) Add(loc *models.Location) {
	if _, exists := c.Locations[loc.ID]; !exists {
		c.Order = append(c.Order, loc.ID)
	}
	c.Locations[loc.ID] = loc
}

// Len returns the number of loaded locations
func (c *Catalogue) Len() int {
	return len(c.Order)
}

// Ordered returns the locations in insertion order
func (c *Catalogue) Ordered() []*models.Location {
	out := make([]*models.Location, 0, len(c.Order))
	for _, id := range c.Order {
		out = append(out, c.Locations[id])
	}
	return out
}

// FromSlice builds a catalogue from an ordered list of locations
func FromSlice(locs []*models.Location) *Catalogue {
	c := NewCatalogue()
	for _, loc := range locs {
		c.Add(loc)
	}
	return c
}

// ParseRecords converts an ordered sequence of flat text records into a
// catalogue. Any unparseable required field is a fatal load error.
func ParseRecords(records []map[string]string) (*Catalogue, error) {
	c := NewCatalogue()
	for i, rec := range records {
		loc, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		c.Add(loc)
	}
	return c, nil
}

// LoadCSV reads a header-keyed CSV file and returns the parsed catalogue
func LoadCSV(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalogue: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalogue %s is empty", path)
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}

	return ParseRecords(records)
}

func parseRecord(rec map[string]string) (*models.Location, error) {
	id := rec["id"]
	if id == "" {
		return nil, fmt.Errorf("missing location id")
	}

	status := models.LocationStatus(rec["status"])
	if !status.Valid() {
		return nil, fmt.Errorf("location %s: invalid status %q", id, rec["status"])
	}
	areaType := models.AreaType(rec["area_type"])
	if !areaType.Valid() {
		return nil, fmt.Errorf("location %s: invalid area_type %q", id, rec["area_type"])
	}

	loc := &models.Location{
		ID:       id,
		AreaID:   rec["area_id"],
		AreaType: areaType,
		Status:   status,
		GroupID:  rec["group_id"],
	}

	var err error
	if loc.Aisle, err = optionalInt(rec["aisle"]); err != nil {
		return nil, fmt.Errorf("location %s: aisle: %w", id, err)
	}
	if loc.Bay, err = optionalInt(rec["bay"]); err != nil {
		return nil, fmt.Errorf("location %s: bay: %w", id, err)
	}
	if loc.Level, err = optionalInt(rec["level"]); err != nil {
		return nil, fmt.Errorf("location %s: level: %w", id, err)
	}
	if loc.Position, err = optionalInt(rec["position"]); err != nil {
		return nil, fmt.Errorf("location %s: position: %w", id, err)
	}

	if loc.LengthMM, err = requiredInt(rec["length_mm"]); err != nil {
		return nil, fmt.Errorf("location %s: length_mm: %w", id, err)
	}
	if loc.WidthMM, err = requiredInt(rec["width_mm"]); err != nil {
		return nil, fmt.Errorf("location %s: width_mm: %w", id, err)
	}
	if loc.HeightMM, err = requiredInt(rec["height_mm"]); err != nil {
		return nil, fmt.Errorf("location %s: height_mm: %w", id, err)
	}
	if loc.MaxWeightKG, err = requiredInt(rec["max_weight_kg"]); err != nil {
		return nil, fmt.Errorf("location %s: max_weight_kg: %w", id, err)
	}

	return loc, nil
}

// optionalInt parses positional coordinates; empty, absent and the literal
// "None" all mean the value is not set.
func optionalInt(s string) (*int, error) {
	if s == "" || s == "None" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return &v, nil
}

func requiredInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

// WriteCSV writes the catalogue to path in the external source format
func WriteCSV(path string, locs []*models.Location) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create catalogue: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvFields); err != nil {
		return err
	}
	for _, loc := range locs {
		row := []string{
			loc.ID, loc.AreaID, string(loc.AreaType),
			formatOptional(loc.Aisle), formatOptional(loc.Bay),
			formatOptional(loc.Level), formatOptional(loc.Position),
			strconv.Itoa(loc.LengthMM), strconv.Itoa(loc.WidthMM),
			strconv.Itoa(loc.HeightMM), strconv.Itoa(loc.MaxWeightKG),
			string(loc.Status), loc.GroupID,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatOptional(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
