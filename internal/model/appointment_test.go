package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPartitionAppointments(t *testing.T) {
	list := []Appointment{
		{AppointmentID: 1, Status: AppointmentStatusScheduled},
		{AppointmentID: 2, Status: AppointmentStatusCompleted},
		{AppointmentID: 3, Status: AppointmentStatusConfirmed},
		{AppointmentID: 4, Status: AppointmentStatusCancelled},
	}

	upcoming, past := PartitionAppointments(list, Appointment.Past)

	assert.Len(t, upcoming, 2)
	assert.Len(t, past, 2)
	assert.Equal(t, int64(1), upcoming[0].AppointmentID)
	assert.Equal(t, int64(3), upcoming[1].AppointmentID)
	assert.Equal(t, int64(2), past[0].AppointmentID)
	assert.Equal(t, int64(4), past[1].AppointmentID)
}

func TestPartitionAppointmentsCoversEveryItem(t *testing.T) {
	list := []Appointment{
		{AppointmentID: 1, Status: AppointmentStatusScheduled},
		{AppointmentID: 2, Status: "SOMETHING_NEW"},
	}

	upcoming, past := PartitionAppointments(list, Appointment.Past)

	// Unknown statuses land in upcoming rather than disappearing.
	assert.Equal(t, len(list), len(upcoming)+len(past))
	assert.Len(t, upcoming, 2)
}

func TestAppointmentActionable(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{"today", "2026-03-15", true},
		{"tomorrow", "2026-03-16", true},
		{"yesterday", "2026-03-14", false},
		{"unparseable", "15/03/2026", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Appointment{Date: tt.date}
			assert.Equal(t, tt.want, a.Actionable(now))
		})
	}
}

func TestAppointmentPast(t *testing.T) {
	assert.True(t, Appointment{Status: AppointmentStatusCompleted}.Past())
	assert.True(t, Appointment{Status: AppointmentStatusCancelled}.Past())
	assert.False(t, Appointment{Status: AppointmentStatusScheduled}.Past())
	assert.False(t, Appointment{Status: AppointmentStatusConfirmed}.Past())
}
