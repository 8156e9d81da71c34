package backup

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/haras/pkg/types"
)

func sampleHorses() []types.Horse {
	return []types.Horse{
		{
			ID:        "f1",
			Name:      "Estrela <Dalva>",
			BirthDate: types.NewDate(2016, time.January, 30),
			Gender:    types.GenderFemale,
			Mother:    "Brisa",
			Picture:   "data:image/jpeg;base64,/9j/4AAQ",
			MatingHistory: []types.MatingRecord{
				{ID: "m1", MaleID: "s1", MaleName: "Relâmpago", Date: types.NewDate(2023, time.November, 2)},
			},
		},
		{
			ID:            "s1",
			Name:          "Relâmpago",
			BirthDate:     types.NewDate(2012, time.July, 7),
			Gender:        types.GenderMale,
			Registro:      "77",
			MatingHistory: []types.MatingRecord{},
		},
	}
}

func TestExportRoundTrip(t *testing.T) {
	for _, horses := range [][]types.Horse{sampleHorses(), {}} {
		data, err := Export(horses)
		require.NoError(t, err)

		got, err := ValidateImportDocument(data)
		require.NoError(t, err)
		assert.Equal(t, horses, got)
	}
}

func TestExportFormat(t *testing.T) {
	data, err := Export(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = Export(sampleHorses()[1:])
	require.NoError(t, err)
	want := `[
  {
    "id": "s1",
    "name": "Relâmpago",
    "birthDate": "2012-07-07",
    "gender": "Macho",
    "registro": "77",
    "matingHistory": []
  }
]`
	assert.Equal(t, want, string(data))

	data, err = Export(sampleHorses()[:1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Estrela <Dalva>"`, "no HTML escaping")
}

func TestValidateImportDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
		wantLen int
	}{
		{"empty array", `[]`, nil, 0},
		{"valid", `[{"id":"a","name":"A","birthDate":"2020-01-01","gender":"Macho"}]`, nil, 1},
		{"only first element is checked", `[{"id":"a","name":"A","birthDate":"2020-01-01","gender":"Macho"},{"name":"no id"}]`, nil, 2},
		{"not json", `{"id":`, types.ErrInvalidJSON, 0},
		{"empty input", ``, types.ErrInvalidJSON, 0},
		{"object", `{"id":"x"}`, types.ErrInvalidSchema, 0},
		{"string", `"horses"`, types.ErrInvalidSchema, 0},
		{"first without id", `[{"name":"x"}]`, types.ErrInvalidSchema, 0},
		{"first with empty id", `[{"id":""}]`, types.ErrInvalidSchema, 0},
		{"first with zero id", `[{"id":0}]`, types.ErrInvalidSchema, 0},
		{"first not an object", `[1,2]`, types.ErrInvalidSchema, 0},
		{"numeric id passes the shallow check but not decoding", `[{"id":5}]`, types.ErrInvalidSchema, 0},
		{"bad date in later record", `[{"id":"a"},{"id":"b","birthDate":"soon"}]`, types.ErrInvalidSchema, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateImportDocument([]byte(tt.doc))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestValidateImportDocument_DefaultsHistory(t *testing.T) {
	got, err := ValidateImportDocument([]byte(`[{"id":"a","name":"A","birthDate":"2020-01-01","gender":"Fêmea"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].MatingHistory)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "haras_backup_2024-06-15.json", FileName(time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)))

	// 23:30 in São Paulo is already the next day in UTC.
	loc := time.FixedZone("BRT", -3*60*60)
	name := FileName(time.Date(2024, time.June, 15, 23, 30, 0, 0, loc))
	assert.Equal(t, "haras_backup_2024-06-16.json", name)
	assert.True(t, strings.HasPrefix(name, FilePrefix))
}
