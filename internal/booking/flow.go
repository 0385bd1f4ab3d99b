// Package booking drives the appointment booking flow: doctor search,
// availability-constrained date selection, slot fetch and submit. All
// flow state lives in an explicit State value held in the session, so
// every transition has one owner and one rendering path.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jeevanhealth/portal/internal/model"
)

var (
	ErrNoDoctor       = errors.New("no doctor selected")
	ErrUnknownDoctor  = errors.New("doctor not in current results")
	ErrDoctorLocked   = errors.New("doctor cannot be changed while rescheduling")
	ErrNoDate         = errors.New("no date selected")
	ErrDayUnavailable = errors.New("doctor is not available on that day")
	ErrUnknownSlot    = errors.New("slot is not in the fetched list")
	ErrIncomplete     = errors.New("doctor, date and time slot must all be selected")
)

// State is the per-session booking state. Zero value is a fresh flow.
type State struct {
	// Seq is a monotonic fetch sequence; slot responses carrying a
	// stale sequence are discarded instead of overwriting newer
	// selections.
	Seq uint64 `json:"seq"`

	RescheduleID int64 `json:"rescheduleId,omitempty"`
	DoctorLocked bool  `json:"doctorLocked,omitempty"`

	Doctors  []model.Doctor  `json:"doctors,omitempty"`
	Patients []model.Patient `json:"patients,omitempty"`

	Doctor        *model.Doctor `json:"doctor,omitempty"`
	AvailableDays []string      `json:"availableDays,omitempty"`

	PatientID int64 `json:"patientId,omitempty"`

	Date    string   `json:"date,omitempty"`
	Slots   []string `json:"slots,omitempty"`
	SlotSeq uint64   `json:"slotSeq,omitempty"`
	Slot    string   `json:"slot,omitempty"`

	Reason string `json:"reason,omitempty"`
}

// Complete reports whether the flow can be submitted.
func (s *State) Complete() bool {
	return s.Doctor != nil && s.Date != "" && s.Slot != ""
}

// DayAvailable reports whether the weekday token is in the selected
// doctor's availability set.
func (s *State) DayAvailable(day string) bool {
	for _, d := range s.AvailableDays {
		if d == day {
			return true
		}
	}
	return false
}

func (s *State) doctorByID(id int64) *model.Doctor {
	for i := range s.Doctors {
		if s.Doctors[i].DoctorID == id {
			return &s.Doctors[i]
		}
	}
	return nil
}

// clearSelection drops date, slot list and chosen slot. Used when the
// doctor changes so a slot belonging to the previous doctor can never
// be submitted.
func (s *State) clearSelection() {
	s.Date = ""
	s.Slots = nil
	s.Slot = ""
}

// Backend is the slice of the API client the flow depends on.
type Backend interface {
	FindDoctors(ctx context.Context, token, keyword string) ([]model.Doctor, error)
	SearchDoctors(ctx context.Context, token, keyword string) ([]model.Doctor, error)
	SearchPatients(ctx context.Context, token, keyword string) ([]model.Patient, error)
	GetDoctor(ctx context.Context, token string, id int64) (*model.Doctor, error)
	GetAppointment(ctx context.Context, token string, id int64) (*model.Appointment, error)
	GetAdminAppointment(ctx context.Context, token string, id int64) (*model.Appointment, error)
	Slots(ctx context.Context, token string, doctorID int64, date string) ([]string, error)
	BookAppointment(ctx context.Context, token string, req *model.BookAppointmentRequest) error
	RescheduleAppointment(ctx context.Context, token string, id int64, req *model.BookAppointmentRequest) error
}

// Flow coordinates the dependent fetches of the booking pages.
type Flow struct {
	api Backend
}

func NewFlow(api Backend) *Flow {
	return &Flow{api: api}
}

// SearchDoctors refreshes the doctor result set. The current selection
// survives only if the selected doctor is still in the results.
func (f *Flow) SearchDoctors(ctx context.Context, token string, st *State, keyword string, admin bool) error {
	var (
		doctors []model.Doctor
		err     error
	)
	if admin {
		doctors, err = f.api.SearchDoctors(ctx, token, keyword)
	} else {
		doctors, err = f.api.FindDoctors(ctx, token, keyword)
	}
	if err != nil {
		return err
	}
	st.Doctors = doctors
	if st.Doctor != nil && st.doctorByID(st.Doctor.DoctorID) == nil && !st.DoctorLocked {
		st.Doctor = nil
		st.AvailableDays = nil
		st.clearSelection()
	}
	return nil
}

// SearchPatients refreshes the patient result set of the admin form.
func (f *Flow) SearchPatients(ctx context.Context, token string, st *State, keyword string) error {
	patients, err := f.api.SearchPatients(ctx, token, keyword)
	if err != nil {
		return err
	}
	st.Patients = patients
	return nil
}

// SelectPatient records the admin form's patient choice.
func (f *Flow) SelectPatient(st *State, patientID int64) {
	st.PatientID = patientID
}

// SelectDoctor picks a doctor from the current results, recomputes the
// availability set and, when the doctor actually changed, clears any
// previously chosen date and slot.
func (f *Flow) SelectDoctor(st *State, doctorID int64) error {
	if st.DoctorLocked {
		return ErrDoctorLocked
	}
	doctor := st.doctorByID(doctorID)
	if doctor == nil {
		return ErrUnknownDoctor
	}
	if st.Doctor != nil && st.Doctor.DoctorID != doctorID {
		st.clearSelection()
	}
	st.Doctor = doctor
	st.AvailableDays = doctor.AvailableDays()
	return nil
}

// SelectDate validates the date against the doctor's availability and
// fetches the slot list for it. A previously chosen slot is always
// invalidated first.
func (f *Flow) SelectDate(ctx context.Context, token string, st *State, date string) error {
	if st.Doctor == nil {
		return ErrNoDoctor
	}
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ErrNoDate
	}
	if !st.DayAvailable(model.Weekdays[d.Weekday()]) {
		return ErrDayUnavailable
	}

	st.Date = date
	st.Slot = ""
	st.Slots = nil

	st.Seq++
	seq := st.Seq
	slots, err := f.api.Slots(ctx, token, st.Doctor.DoctorID, date)
	if err != nil {
		// Dependent UI stays empty; the user re-selects the date.
		return err
	}
	f.applySlots(st, seq, slots)
	return nil
}

// applySlots installs a slot response unless a newer fetch superseded
// it meanwhile. Returns whether the response was applied.
func (f *Flow) applySlots(st *State, seq uint64, slots []string) bool {
	if seq < st.Seq {
		return false
	}
	st.Slots = slots
	st.SlotSeq = seq
	return true
}

// SelectSlot picks one of the fetched slot tokens.
func (f *Flow) SelectSlot(st *State, slot string) error {
	for _, s := range st.Slots {
		if s == slot {
			st.Slot = slot
			return nil
		}
	}
	return ErrUnknownSlot
}

// Submit sends the booking, or the reschedule when the flow was loaded
// from an existing appointment. It refuses to send anything while the
// selection is incomplete. On failure all state is kept so the user
// can retry.
func (f *Flow) Submit(ctx context.Context, token string, st *State, patientID int64, reason string) error {
	if !st.Complete() {
		return ErrIncomplete
	}
	if patientID == 0 {
		patientID = st.PatientID
	}
	st.Reason = reason

	req := &model.BookAppointmentRequest{
		PatientID: patientID,
		DoctorID:  st.Doctor.DoctorID,
		Date:      st.Date,
		TimeSlot:  st.Slot,
		Reason:    reason,
	}
	if st.RescheduleID != 0 {
		return f.api.RescheduleAppointment(ctx, token, st.RescheduleID, req)
	}
	return f.api.BookAppointment(ctx, token, req)
}

// LoadReschedule preloads the flow from an existing appointment: its
// doctor (locked against re-selection), date, slot list and slot.
func (f *Flow) LoadReschedule(ctx context.Context, token string, st *State, appointmentID int64, admin bool) error {
	var (
		appt *model.Appointment
		err  error
	)
	if admin {
		appt, err = f.api.GetAdminAppointment(ctx, token, appointmentID)
	} else {
		appt, err = f.api.GetAppointment(ctx, token, appointmentID)
	}
	if err != nil {
		return err
	}

	doctor := st.doctorByID(appt.DoctorID)
	if doctor == nil {
		doctor, err = f.api.GetDoctor(ctx, token, appt.DoctorID)
		if err != nil {
			return err
		}
	}

	st.RescheduleID = appt.AppointmentID
	st.DoctorLocked = !admin
	st.Doctor = doctor
	st.AvailableDays = doctor.AvailableDays()
	st.PatientID = appt.PatientID
	st.Date = appt.Date
	st.Reason = appt.Reason

	st.Seq++
	seq := st.Seq
	slots, err := f.api.Slots(ctx, token, appt.DoctorID, appt.Date)
	if err != nil {
		return err
	}
	if f.applySlots(st, seq, slots) {
		st.Slot = appt.TimeSlot
	}
	return nil
}
