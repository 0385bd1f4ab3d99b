package model

import "time"

// Weekday tokens used by the upstream availability records.
const (
	Sunday    = "SUNDAY"
	Monday    = "MONDAY"
	Tuesday   = "TUESDAY"
	Wednesday = "WEDNESDAY"
	Thursday  = "THURSDAY"
	Friday    = "FRIDAY"
	Saturday  = "SATURDAY"
)

// Weekdays in time.Weekday order, so Weekdays[t.Weekday()] yields the
// upstream token for a date.
var Weekdays = [7]string{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// AvailabilityWindow is a doctor's declared day-of-week plus start/end
// time range during which slots may exist.
type AvailabilityWindow struct {
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Doctor mirrors the upstream doctor record, availability included.
type Doctor struct {
	DoctorID       int64                `json:"doctorId"`
	Name           string               `json:"name"`
	Specialization string               `json:"specialization"`
	ContactNumber  string               `json:"contactNumber"`
	ConsultationFee float64             `json:"consultationFee"`
	Availabilities []AvailabilityWindow `json:"availabilities,omitempty"`
}

// AvailableDays returns the distinct weekday tokens the doctor declares
// availability on, in declaration order.
func (d Doctor) AvailableDays() []string {
	seen := make(map[string]bool, len(d.Availabilities))
	days := make([]string, 0, len(d.Availabilities))
	for _, w := range d.Availabilities {
		if w.DayOfWeek == "" || seen[w.DayOfWeek] {
			continue
		}
		seen[w.DayOfWeek] = true
		days = append(days, w.DayOfWeek)
	}
	return days
}

// AvailableOn reports whether the doctor declares availability on the
// weekday of the given date.
func (d Doctor) AvailableOn(date time.Time) bool {
	day := Weekdays[date.Weekday()]
	for _, w := range d.Availabilities {
		if w.DayOfWeek == day {
			return true
		}
	}
	return false
}

// RegisterDoctorRequest is the admin doctor-registration payload. The
// upstream field name for availability differs from the read shape.
type RegisterDoctorRequest struct {
	Email           string               `json:"email" form:"email" binding:"required"`
	Password        string               `json:"password" form:"password" binding:"required"`
	Name            string               `json:"name" form:"name" binding:"required"`
	Specialization  string               `json:"specialization" form:"specialization" binding:"required"`
	ContactNumber   string               `json:"contactNumber" form:"contactNumber"`
	ConsultationFee float64              `json:"consultationFee" form:"consultationFee"`
	Availabilities  []AvailabilityWindow `json:"doctorAvailabilities"`
}

type UpdateDoctorRequest struct {
	Name            string               `json:"name" form:"name" binding:"required"`
	Specialization  string               `json:"specialization" form:"specialization" binding:"required"`
	ContactNumber   string               `json:"contactNumber" form:"contactNumber"`
	ConsultationFee float64              `json:"consultationFee" form:"consultationFee"`
	Availabilities  []AvailabilityWindow `json:"doctorAvailabilities"`
}
