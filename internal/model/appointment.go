package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

// Appointment mirrors the upstream appointment record. The time slot is
// an opaque server-issued token, not a computed range.
type Appointment struct {
	AppointmentID  int64             `json:"appointmentId"`
	PatientID      int64             `json:"patientId"`
	DoctorID       int64             `json:"doctorId"`
	PatientName    string            `json:"patientName,omitempty"`
	DoctorName     string            `json:"doctorName,omitempty"`
	Specialization string            `json:"specialization,omitempty"`
	Date           string            `json:"appointmentDate"`
	TimeSlot       string            `json:"timeSlot"`
	Status         AppointmentStatus `json:"status"`
	Reason         string            `json:"reason,omitempty"`
	Remarks        string            `json:"remarks,omitempty"`
}

// Past reports whether the appointment belongs in a past/history table.
func (a Appointment) Past() bool {
	return a.Status == AppointmentStatusCompleted || a.Status == AppointmentStatusCancelled
}

// Actionable reports whether the appointment date is today or later, so
// edit/cancel actions still make sense. Unparseable dates are treated
// as past.
func (a Appointment) Actionable(now time.Time) bool {
	d, err := time.Parse(DateLayout, a.Date)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !d.Before(today)
}

// PartitionAppointments splits a list into upcoming and past using the
// given predicate, preserving order. Every item lands in exactly one
// bucket.
func PartitionAppointments(list []Appointment, past func(Appointment) bool) (upcoming, done []Appointment) {
	for _, a := range list {
		if past(a) {
			done = append(done, a)
		} else {
			upcoming = append(upcoming, a)
		}
	}
	return upcoming, done
}

// BookAppointmentRequest is the booking/reschedule payload.
type BookAppointmentRequest struct {
	PatientID int64  `json:"patientId"`
	DoctorID  int64  `json:"doctorId"`
	Date      string `json:"appointmentDate"`
	TimeSlot  string `json:"timeSlot"`
	Reason    string `json:"reason,omitempty"`
}
