package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Gender values. The strings are the ones stored and exported by every
// existing installation, so they are kept verbatim.
const (
	GenderMale   Gender = "Macho"
	GenderFemale Gender = "Fêmea"
)

// Gender is the sex of a horse.
type Gender string

// ParseGender accepts the stored values as well as the usual shorthands
// typed on a command line ("m", "f", "male", "femea", ...).
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "macho", "male", "m":
		return GenderMale, nil
	case "fêmea", "femea", "female", "f":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGender, s)
	}
}

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// MatingRecord is one breeding event of a female horse.
type MatingRecord struct {
	ID       string `json:"id"`       // UUID v7, generated on creation.
	MaleID   string `json:"maleId"`   // ID of the male horse; not enforced to exist.
	MaleName string `json:"maleName"` // Male's name when the record was created.
	Date     Date   `json:"date"`
}

// Horse is one breeding animal of the collection.
type Horse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	BirthDate       Date           `json:"birthDate"`
	Gender          Gender         `json:"gender"`
	Father          string         `json:"father,omitempty"`
	Mother          string         `json:"mother,omitempty"`
	Chip            string         `json:"chip,omitempty"`
	Registro        string         `json:"registro,omitempty"`
	Picture         string         `json:"picture,omitempty"` // data:image/...;base64 URI
	MatingHistory   []MatingRecord `json:"matingHistory"`
	BirthPlace      string         `json:"birthPlace,omitempty"`
	DeliveryDetails string         `json:"deliveryDetails,omitempty"`
}

// horseJSON breaks the MarshalJSON/UnmarshalJSON recursion.
type horseJSON Horse

// MarshalJSON encodes the horse, always emitting matingHistory as an array.
func (h Horse) MarshalJSON() ([]byte, error) {
	if h.MatingHistory == nil {
		h.MatingHistory = []MatingRecord{}
	}
	return json.Marshal(horseJSON(h))
}

// UnmarshalJSON decodes a horse; a missing or null matingHistory becomes
// an empty history.
func (h *Horse) UnmarshalJSON(data []byte) error {
	var raw horseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.MatingHistory == nil {
		raw.MatingHistory = []MatingRecord{}
	}
	*h = Horse(raw)
	return nil
}

// Clone returns a copy of h that shares no mutable state with it.
func (h Horse) Clone() Horse {
	history := make([]MatingRecord, len(h.MatingHistory))
	copy(history, h.MatingHistory)
	h.MatingHistory = history
	return h
}

// IsFemale reports whether the horse can carry a mating history.
func (h Horse) IsFemale() bool {
	return h.Gender == GenderFemale
}

// AgeOn returns the horse's age in whole years on the calendar date of now.
func (h Horse) AgeOn(now time.Time) int {
	return h.BirthDate.Age(DateOf(now))
}

// MatingHistoryDesc returns the mating records newest first. The stored
// order is left untouched.
func (h Horse) MatingHistoryDesc() []MatingRecord {
	sorted := make([]MatingRecord, len(h.MatingHistory))
	copy(sorted, h.MatingHistory)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})
	return sorted
}

// WithMating returns a copy of h with rec appended to its history.
func (h Horse) WithMating(rec MatingRecord) Horse {
	out := h.Clone()
	out.MatingHistory = append(out.MatingHistory, rec)
	return out
}

// CloneAll deep-copies a slice of horses. A nil input yields an empty slice.
func CloneAll(horses []Horse) []Horse {
	out := make([]Horse, len(horses))
	for i, h := range horses {
		out[i] = h.Clone()
	}
	return out
}
