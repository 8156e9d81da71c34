package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGender(t *testing.T) {
	tests := []struct {
		in      string
		want    Gender
		wantErr bool
	}{
		{"Macho", GenderMale, false},
		{"m", GenderMale, false},
		{"MALE", GenderMale, false},
		{"Fêmea", GenderFemale, false},
		{"femea", GenderFemale, false},
		{"F", GenderFemale, false},
		{"gelding", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGender(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidGender))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHorseJSONFieldNames(t *testing.T) {
	h := Horse{
		ID:        "h1",
		Name:      "Estrela",
		BirthDate: NewDate(2018, time.April, 2),
		Gender:    GenderFemale,
		Chip:      "123",
	}

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "h1",
		"name": "Estrela",
		"birthDate": "2018-04-02",
		"gender": "Fêmea",
		"chip": "123",
		"matingHistory": []
	}`, string(data))
}

func TestHorseUnmarshalDefaultsHistory(t *testing.T) {
	for _, doc := range []string{
		`{"id":"a","name":"A","birthDate":"2020-01-01","gender":"Macho"}`,
		`{"id":"a","name":"A","birthDate":"2020-01-01","gender":"Macho","matingHistory":null}`,
	} {
		var h Horse
		require.NoError(t, json.Unmarshal([]byte(doc), &h))
		assert.NotNil(t, h.MatingHistory)
		assert.Empty(t, h.MatingHistory)
	}
}

func TestHorseCloneIsIndependent(t *testing.T) {
	h := Horse{ID: "f", MatingHistory: []MatingRecord{{ID: "m1"}}}
	c := h.Clone()
	c.MatingHistory[0].ID = "changed"
	assert.Equal(t, "m1", h.MatingHistory[0].ID)

	var empty Horse
	assert.NotNil(t, empty.Clone().MatingHistory)
}

func TestMatingHistoryDesc(t *testing.T) {
	h := Horse{MatingHistory: []MatingRecord{
		{ID: "old", Date: NewDate(2021, time.March, 1)},
		{ID: "new", Date: NewDate(2023, time.March, 1)},
		{ID: "mid", Date: NewDate(2022, time.March, 1)},
	}}

	sorted := h.MatingHistoryDesc()
	ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
	assert.Equal(t, "old", h.MatingHistory[0].ID, "stored order must not change")
}

func TestWithMatingAppends(t *testing.T) {
	h := Horse{ID: "f", Gender: GenderFemale, MatingHistory: []MatingRecord{{ID: "1"}}}
	got := h.WithMating(MatingRecord{ID: "2"})
	require.Len(t, got.MatingHistory, 2)
	assert.Equal(t, "2", got.MatingHistory[1].ID)
	assert.Len(t, h.MatingHistory, 1)
}

func TestAgeOn(t *testing.T) {
	h := Horse{BirthDate: NewDate(2020, time.June, 15)}
	now := time.Date(2024, time.June, 14, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, h.AgeOn(now))
}
