package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeevanhealth/portal/internal/booking"
	"github.com/jeevanhealth/portal/internal/model"
	"github.com/jeevanhealth/portal/internal/session"
	"github.com/jeevanhealth/portal/internal/view"
)

const adminBookPage = "/admin/appointment_form.html"

// AdminBookingHandler drives the admin's create/reschedule appointment
// form on top of the same flow the patient booking page uses.
type AdminBookingHandler struct {
	flow     *booking.Flow
	sessions *session.Manager
}

func NewAdminBookingHandler(flow *booking.Flow, sessions *session.Manager) *AdminBookingHandler {
	return &AdminBookingHandler{flow: flow, sessions: sessions}
}

func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/appointment_form.html", h.FormPage)
	r.POST("/appointment-form/patient", h.SelectPatient)
	r.POST("/appointment-form/doctor", h.SelectDoctor)
	r.POST("/appointment-form/date", h.SelectDate)
	r.POST("/appointment-form/slot", h.SelectSlot)
	r.POST("/appointment-form/submit", h.Submit)
}

func (h *AdminBookingHandler) FormPage(c *gin.Context) {
	s := sess(c)
	if c.Query("reset") == "1" {
		s.ResetBooking()
		save(c, h.sessions, s)
		redirect(c, adminBookPage)
		return
	}
	st := s.BookingState()

	if q := c.Query("editId"); q != "" {
		id, err := strconv.ParseInt(q, 10, 64)
		if err == nil && st.RescheduleID != id {
			s.ResetBooking()
			st = s.BookingState()
			if err := h.flow.LoadReschedule(c.Request.Context(), s.Token, st, id, true); err != nil {
				if authFailed(c, h.sessions, s, err) {
					return
				}
				flashErr(s, err, "Could not load the appointment to reschedule.")
				s.ResetBooking()
				st = s.BookingState()
			}
		}
	}

	patientKeyword := c.Query("patientKeyword")
	if len(patientKeyword) >= 2 {
		if err := h.flow.SearchPatients(c.Request.Context(), s.Token, st, patientKeyword); err != nil {
			if authFailed(c, h.sessions, s, err) {
				return
			}
			flashErr(s, err, "Patient search failed.")
		}
	} else if patientKeyword != "" {
		s.Flash("warning", "Enter at least 2 characters to search.")
	}

	doctorKeyword := c.Query("doctorKeyword")
	if len(doctorKeyword) >= 2 {
		if err := h.flow.SearchDoctors(c.Request.Context(), s.Token, st, doctorKeyword, true); err != nil {
			if authFailed(c, h.sessions, s, err) {
				return
			}
			flashErr(s, err, "Doctor search failed.")
		}
	} else if doctorKeyword != "" {
		s.Flash("warning", "Enter at least 2 characters to search.")
	}

	h.render(c, s, st, patientKeyword, doctorKeyword)
}

func (h *AdminBookingHandler) render(c *gin.Context, s *session.Session, st *booking.State, patientKeyword, doctorKeyword string) {
	title := "New Appointment"
	if st.RescheduleID != 0 {
		title = "Reschedule Appointment"
	}
	page := view.NewPage(title, s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "admin_appointment_form.tmpl", gin.H{
		"Title":          page.Title,
		"Nav":            page.Nav,
		"Flashes":        page.Flashes,
		"State":          st,
		"PatientKeyword": patientKeyword,
		"DoctorKeyword":  doctorKeyword,
		"Today":          time.Now().Format(model.DateLayout),
	})
}

func (h *AdminBookingHandler) SelectPatient(c *gin.Context) {
	s := sess(c)
	st := s.BookingState()
	if id, err := strconv.ParseInt(c.PostForm("patientId"), 10, 64); err == nil {
		h.flow.SelectPatient(st, id)
	} else {
		s.Flash("error", "Please pick a patient from the list.")
	}
	save(c, h.sessions, s)
	redirect(c, adminBookPage)
}

func (h *AdminBookingHandler) SelectDoctor(c *gin.Context) {
	s := sess(c)
	st := s.BookingState()
	id, err := strconv.ParseInt(c.PostForm("doctorId"), 10, 64)
	if err == nil {
		err = h.flow.SelectDoctor(st, id)
	}
	if err != nil {
		flashErr(s, err, "Please pick a doctor from the list.")
	}
	save(c, h.sessions, s)
	redirect(c, adminBookPage)
}

func (h *AdminBookingHandler) SelectDate(c *gin.Context) {
	s := sess(c)
	st := s.BookingState()

	var form dateForm
	if err := c.ShouldBind(&form); err != nil {
		s.Flash("error", "Pick a valid date that is today or later.")
		save(c, h.sessions, s)
		redirect(c, adminBookPage)
		return
	}

	if err := h.flow.SelectDate(c.Request.Context(), s.Token, st, form.Date); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		switch err {
		case booking.ErrNoDoctor:
			s.Flash("error", "Select a doctor first.")
		case booking.ErrDayUnavailable:
			s.Flash("error", "The doctor is not available on that day.")
		default:
			flashErr(s, err, "Could not load time slots for that date.")
		}
	}
	save(c, h.sessions, s)
	redirect(c, adminBookPage)
}

func (h *AdminBookingHandler) SelectSlot(c *gin.Context) {
	s := sess(c)
	st := s.BookingState()
	if err := h.flow.SelectSlot(st, c.PostForm("slot")); err != nil {
		s.Flash("error", "Please pick a slot from the list.")
	}
	save(c, h.sessions, s)
	redirect(c, adminBookPage)
}

func (h *AdminBookingHandler) Submit(c *gin.Context) {
	s := sess(c)
	st := s.BookingState()

	if st.PatientID == 0 {
		s.Flash("warning", "Select a patient first.")
		save(c, h.sessions, s)
		redirect(c, adminBookPage)
		return
	}

	if err := h.flow.Submit(c.Request.Context(), s.Token, st, 0, c.PostForm("reason")); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		if err == booking.ErrIncomplete {
			s.Flash("warning", "Select a doctor, date and time slot first.")
		} else {
			flashErr(s, err, "Could not save the appointment. Your selections are kept.")
		}
		save(c, h.sessions, s)
		redirect(c, adminBookPage)
		return
	}

	if st.RescheduleID != 0 {
		s.Flash("success", "Appointment rescheduled.")
	} else {
		s.Flash("success", "Appointment created.")
	}
	s.ResetBooking()
	save(c, h.sessions, s)
	redirect(c, "/admin/appointments.html")
}
