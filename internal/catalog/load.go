package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"iaros/kitlogistics/internal/errs"
	"iaros/kitlogistics/internal/kit"
)

// columnIndex builds a name->index lookup over a CSV header row, the
// same manual indexing approach the teacher's airport CSV loader uses
// instead of a struct-tag-driven decoder (there being no CSV struct
// mapping library anywhere in the retrieval pack).
type columnIndex map[string]int

func buildIndex(headers []string) columnIndex {
	idx := make(columnIndex, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func (idx columnIndex) get(rec []string, name string) (string, bool) {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return "", false
	}
	return strings.TrimSpace(rec[i]), true
}

func (idx columnIndex) mustGet(rec []string, name, rowCtx string) (string, error) {
	v, ok := idx.get(rec, name)
	if !ok || v == "" {
		return "", errs.Config("catalog.load", fmt.Sprintf("%s: missing required column %q", rowCtx, name), nil)
	}
	return v, nil
}

func parseFloatDefault(idx columnIndex, rec []string, name string, def float64, warnings *[]string, rowCtx string) float64 {
	v, ok := idx.get(rec, name)
	if !ok || v == "" {
		*warnings = append(*warnings, fmt.Sprintf("%s: missing column %q, defaulted to %v", rowCtx, name, def))
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s: unparsable column %q=%q, defaulted to %v", rowCtx, name, v, def))
		return def
	}
	return f
}

func parseIntDefault(idx columnIndex, rec []string, name string, def int, warnings *[]string, rowCtx string) int {
	return int(parseFloatDefault(idx, rec, name, float64(def), warnings, rowCtx))
}

func parseBoolDefault(idx columnIndex, rec []string, name string, def bool) bool {
	v, ok := idx.get(rec, name)
	if !ok || v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	default:
		return def
	}
}

func perClassSuffix(class kit.Class) string {
	switch class {
	case kit.First:
		return "first"
	case kit.Business:
		return "business"
	case kit.PremiumEconomy:
		return "premium_economy"
	case kit.Economy:
		return "economy"
	}
	return ""
}

func readCSVRows(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errs.Config("catalog.load", fmt.Sprintf("cannot open %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, errs.Config("catalog.load", fmt.Sprintf("%s: cannot read header row", path), err)
	}

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errs.Config("catalog.load", fmt.Sprintf("%s: malformed row", path), err)
		}
		rows = append(rows, rec)
	}
	return headers, rows, nil
}

// LoadAirportsCSV parses the `airports` table (spec.md §6.2): code; name;
// is_hub; per-class storage_capacity, loading_cost, processing_cost,
// processing_time, initial_inventory.
func LoadAirportsCSV(path string, warnings *[]string) ([]Airport, error) {
	headers, rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}
	idx := buildIndex(headers)

	airports := make([]Airport, 0, len(rows))
	for _, rec := range rows {
		code, err := idx.mustGet(rec, "code", path)
		if err != nil {
			return nil, err
		}
		isHub := parseBoolDefault(idx, rec, "is_hub", false)
		name, _ := idx.get(rec, "name")

		a := Airport{Code: code, Name: name, IsHub: isHub}
		for _, class := range kit.AllClasses() {
			suf := perClassSuffix(class)
			defInit := DefaultInitialInventoryOutstation
			if isHub {
				defInit = DefaultInitialInventoryHub
			}
			a.StorageCapacity[class] = parseIntDefault(idx, rec, "storage_capacity_"+suf, DefaultStorageCapacity, warnings, "airport:"+code)
			a.LoadingCost[class] = int(parseFloatDefault(idx, rec, "loading_cost_"+suf, DefaultLoadingCost, warnings, "airport:"+code))
			a.ProcessingCost[class] = int(parseFloatDefault(idx, rec, "processing_cost_"+suf, DefaultProcessingCost, warnings, "airport:"+code))
			a.ProcessingHours[class] = parseIntDefault(idx, rec, "processing_time_"+suf, DefaultProcessingHours, warnings, "airport:"+code)
			a.InitialInventory[class] = parseIntDefault(idx, rec, "initial_inventory_"+suf, defInit, warnings, "airport:"+code)
		}
		airports = append(airports, a)
	}
	return airports, nil
}

// LoadAircraftCSV parses the `aircraft_types` table: type_code; per-class
// passenger_capacity, kit_capacity; fuel_cost_per_km.
func LoadAircraftCSV(path string, warnings *[]string) ([]AircraftType, error) {
	headers, rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}
	idx := buildIndex(headers)

	out := make([]AircraftType, 0, len(rows))
	for _, rec := range rows {
		code, err := idx.mustGet(rec, "type_code", path)
		if err != nil {
			return nil, err
		}
		t := AircraftType{Code: code}
		t.FuelCostPerKM = parseFloatDefault(idx, rec, "fuel_cost_per_km", 1.0, warnings, "aircraft:"+code)
		for _, class := range kit.AllClasses() {
			suf := perClassSuffix(class)
			t.KitCapacity[class] = parseIntDefault(idx, rec, "kit_capacity_"+suf, 0, warnings, "aircraft:"+code)
		}
		out = append(out, t)
	}
	return out, nil
}

// LoadFlightPlanCSV parses the `flight_plan` table: flight_id;
// flight_number; origin; destination; scheduled_departure{day,hour};
// scheduled_arrival{day,hour}; per-class planned_passengers;
// planned_distance; aircraft_type.
func LoadFlightPlanCSV(path string, warnings *[]string) ([]FlightTemplate, error) {
	headers, rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}
	idx := buildIndex(headers)

	out := make([]FlightTemplate, 0, len(rows))
	for _, rec := range rows {
		id, err := idx.mustGet(rec, "flight_id", path)
		if err != nil {
			return nil, err
		}
		number, _ := idx.get(rec, "flight_number")
		origin, err := idx.mustGet(rec, "origin", path)
		if err != nil {
			return nil, err
		}
		destination, err := idx.mustGet(rec, "destination", path)
		if err != nil {
			return nil, err
		}
		aircraftType, err := idx.mustGet(rec, "aircraft_type", path)
		if err != nil {
			return nil, err
		}

		depDay := parseIntDefault(idx, rec, "scheduled_departure_day", 0, warnings, "flight:"+id)
		depHour := parseIntDefault(idx, rec, "scheduled_departure_hour", 0, warnings, "flight:"+id)
		arrDay := parseIntDefault(idx, rec, "scheduled_arrival_day", 0, warnings, "flight:"+id)
		arrHour := parseIntDefault(idx, rec, "scheduled_arrival_hour", 0, warnings, "flight:"+id)

		ft := FlightTemplate{
			ID:                 id,
			FlightNumber:       number,
			Origin:             origin,
			Destination:        destination,
			ScheduledDeparture: kit.NewHour(depDay, depHour),
			ScheduledArrival:   kit.NewHour(arrDay, arrHour),
			AircraftTypeCode:   aircraftType,
			PlannedDistance:    parseFloatDefault(idx, rec, "planned_distance", 0, warnings, "flight:"+id),
		}
		for _, class := range kit.AllClasses() {
			suf := perClassSuffix(class)
			ft.PlannedPassengers[class] = parseIntDefault(idx, rec, "planned_passengers_"+suf, 0, warnings, "flight:"+id)
		}
		out = append(out, ft)
	}
	return out, nil
}

// LoadFromConfig reads all three CSV tables and the kit-class metadata
// defaults, returning a validated Catalog plus the accumulated list of
// default-applied warnings (spec.md §4.1: "surfaced as warnings, not
// silent").
func LoadFromConfig(airportsPath, aircraftPath, flightPlanPath string, kitMeta [kit.NumClasses]KitClassMeta) (*Catalog, error) {
	var warnings []string

	airports, err := LoadAirportsCSV(airportsPath, &warnings)
	if err != nil {
		return nil, err
	}
	aircraft, err := LoadAircraftCSV(aircraftPath, &warnings)
	if err != nil {
		return nil, err
	}
	flights, err := LoadFlightPlanCSV(flightPlanPath, &warnings)
	if err != nil {
		return nil, err
	}

	c, err := New(airports, aircraft, kitMeta, flights)
	if err != nil {
		return nil, err
	}
	c.Warnings = warnings
	return c, nil
}
