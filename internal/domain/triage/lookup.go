package triage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
)

// Lookup holds the symptom vocabulary and the disease-to-specialization map.
// Both are loaded from JSON files and swapped in atomically, so readers never
// see a partially loaded state and Reload can run while requests are in flight.
type Lookup struct {
	symptomsFile string
	mapFile      string
	tables       atomic.Pointer[tables]
}

type tables struct {
	symptoms        []string
	specializations map[string]string
}

func NewLookup(symptomsFile, mapFile string) *Lookup {
	return &Lookup{symptomsFile: symptomsFile, mapFile: mapFile}
}

// Reload reads both files and swaps the tables in one step. On any error the
// previously loaded tables stay in place.
func (l *Lookup) Reload() error {
	symptomsData, err := os.ReadFile(l.symptomsFile)
	if err != nil {
		return fmt.Errorf("read symptoms file: %w", err)
	}
	var symptoms []string
	if err := json.Unmarshal(symptomsData, &symptoms); err != nil {
		return fmt.Errorf("parse symptoms file %s: %w", l.symptomsFile, err)
	}

	mapData, err := os.ReadFile(l.mapFile)
	if err != nil {
		return fmt.Errorf("read specialization map: %w", err)
	}
	var specializations map[string]string
	if err := json.Unmarshal(mapData, &specializations); err != nil {
		return fmt.Errorf("parse specialization map %s: %w", l.mapFile, err)
	}

	l.tables.Store(&tables{symptoms: symptoms, specializations: specializations})
	return nil
}

// Symptoms returns the known symptom names, nil if nothing is loaded yet.
func (l *Lookup) Symptoms() []string {
	t := l.tables.Load()
	if t == nil {
		return nil
	}
	return t.symptoms
}

// SpecializationFor maps a predicted disease to a medical specialization.
func (l *Lookup) SpecializationFor(disease string) (string, bool) {
	t := l.tables.Load()
	if t == nil {
		return "", false
	}
	spec, ok := t.specializations[disease]
	return spec, ok
}
