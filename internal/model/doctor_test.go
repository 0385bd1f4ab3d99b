package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoctorAvailableDays(t *testing.T) {
	d := Doctor{Availabilities: []AvailabilityWindow{
		{DayOfWeek: Monday, StartTime: "09:00", EndTime: "12:00"},
		{DayOfWeek: Monday, StartTime: "14:00", EndTime: "17:00"},
		{DayOfWeek: Friday, StartTime: "09:00", EndTime: "12:00"},
		{DayOfWeek: ""},
	}}

	assert.Equal(t, []string{Monday, Friday}, d.AvailableDays())
}

func TestDoctorAvailableOn(t *testing.T) {
	d := Doctor{Availabilities: []AvailabilityWindow{
		{DayOfWeek: Wednesday, StartTime: "09:00", EndTime: "12:00"},
	}}

	// 2026-03-18 is a Wednesday.
	wed := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	assert.True(t, d.AvailableOn(wed))
	assert.False(t, d.AvailableOn(wed.AddDate(0, 0, 1)))
}

func TestWeekdaysMatchTimePackage(t *testing.T) {
	// 2026-03-15 is a Sunday; walking the week covers every index.
	start := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	want := []string{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		assert.Equal(t, want[i], Weekdays[day.Weekday()])
	}
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Asha Rao", User{Name: "Asha Rao", Email: "asha@x.test"}.DisplayName())
	assert.Equal(t, "asha", User{Email: "asha@x.test"}.DisplayName())
	assert.Equal(t, "no-at-sign", User{Email: "no-at-sign"}.DisplayName())
}
