package types

import (
	"strings"
	"unicode"
)

// HorseInput carries the editable fields of a horse: everything except the
// ID and the mating history, which only the add and mating flows assign.
type HorseInput struct {
	Name            string
	BirthDate       Date
	Gender          Gender
	Father          string
	Mother          string
	Chip            string
	Registro        string
	Picture         string
	BirthPlace      string
	DeliveryDetails string
}

// InputOf returns the editable fields of h, e.g. to prefill an edit.
func InputOf(h Horse) HorseInput {
	return HorseInput{
		Name:            h.Name,
		BirthDate:       h.BirthDate,
		Gender:          h.Gender,
		Father:          h.Father,
		Mother:          h.Mother,
		Chip:            h.Chip,
		Registro:        h.Registro,
		Picture:         h.Picture,
		BirthPlace:      h.BirthPlace,
		DeliveryDetails: h.DeliveryDetails,
	}
}

// Normalize trims free text and keeps only the digits of chip and registro.
func (in HorseInput) Normalize() HorseInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Father = strings.TrimSpace(in.Father)
	in.Mother = strings.TrimSpace(in.Mother)
	in.BirthPlace = strings.TrimSpace(in.BirthPlace)
	in.Chip = digitsOnly(in.Chip)
	in.Registro = digitsOnly(in.Registro)
	return in
}

// Validate checks the required fields: name, birth date and gender.
func (in HorseInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidName
	}
	if in.BirthDate.IsZero() {
		return ErrInvalidDate
	}
	if !in.Gender.Valid() {
		return ErrInvalidGender
	}
	return nil
}

// Apply copies the input onto h, keeping h's ID and mating history.
func (in HorseInput) Apply(h Horse) Horse {
	out := h.Clone()
	out.Name = in.Name
	out.BirthDate = in.BirthDate
	out.Gender = in.Gender
	out.Father = in.Father
	out.Mother = in.Mother
	out.Chip = in.Chip
	out.Registro = in.Registro
	out.Picture = in.Picture
	out.BirthPlace = in.BirthPlace
	out.DeliveryDetails = in.DeliveryDetails
	return out
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
