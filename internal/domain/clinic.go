package domain

import (
	"fmt"
	"time"
)

type Clinic struct {
	ID            int64     `json:"id"`
	DoctorID      int64     `json:"doctor_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Timezone      string    `json:"timezone" example:"Europe/Berlin"`
	PriceInPerson float64   `json:"price_in_person"`
	PriceOnline   float64   `json:"price_online"`
	AutoConfirm   bool      `json:"auto_confirm"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Location resolves the clinic timezone, falling back to UTC when unset.
func (c Clinic) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrValidation, c.Timezone)
	}
	return loc, nil
}

func (c Clinic) PriceFor(t BookingType) float64 {
	if t == BookingTypeOnline {
		return c.PriceOnline
	}
	return c.PriceInPerson
}

type CreateClinicDTO struct {
	Name          string  `json:"name" binding:"required"`
	Address       string  `json:"address"`
	Timezone      string  `json:"timezone" example:"Europe/Berlin"`
	PriceInPerson float64 `json:"price_in_person" binding:"min=0"`
	PriceOnline   float64 `json:"price_online" binding:"min=0"`
	AutoConfirm   bool    `json:"auto_confirm"`
}

type UpdateClinicDTO struct {
	Name          *string  `json:"name,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Timezone      *string  `json:"timezone,omitempty"`
	PriceInPerson *float64 `json:"price_in_person,omitempty" binding:"omitempty,min=0"`
	PriceOnline   *float64 `json:"price_online,omitempty" binding:"omitempty,min=0"`
	AutoConfirm   *bool    `json:"auto_confirm,omitempty"`
}
