package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeevanhealth/portal/internal/booking"
	"github.com/jeevanhealth/portal/internal/model"
	"github.com/jeevanhealth/portal/internal/session"
	"github.com/jeevanhealth/portal/internal/view"
)

// patientAPI is the slice of the upstream client the patient pages
// use.
type patientAPI interface {
	CurrentPatient(ctx context.Context, token string) (*model.Patient, error)
	UpdateCurrentPatient(ctx context.Context, token string, req *model.UpdatePatientRequest) (*model.Patient, error)
	PatientAppointments(ctx context.Context, token string, patientID int64) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, token string, id int64) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, token string, id int64) error
	PatientBills(ctx context.Context, token string, patientID int64) ([]model.Bill, error)
	PayBill(ctx context.Context, token string, billID int64) error
}

type PatientHandler struct {
	api      patientAPI
	flow     *booking.Flow
	sessions *session.Manager
}

func NewPatientHandler(api patientAPI, flow *booking.Flow, sessions *session.Manager) *PatientHandler {
	return &PatientHandler{api: api, flow: flow, sessions: sessions}
}

func (h *PatientHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard.html", h.Dashboard)
	r.POST("/profile", h.UpdateProfile)
	r.GET("/appointments.html", h.Appointments)
	r.POST("/appointments/cancel", h.CancelAppointment)
	r.GET("/billing.html", h.Billing)
	r.POST("/billing/pay", h.PayBill)
	r.GET("/book_appointment.html", h.BookPage)
	r.POST("/book/doctor", h.BookSelectDoctor)
	r.POST("/book/date", h.BookSelectDate)
	r.POST("/book/slot", h.BookSelectSlot)
	r.POST("/book/submit", h.BookSubmit)
}

// appointmentRow pairs an appointment with whether row actions still
// apply to it.
type appointmentRow struct {
	model.Appointment
	CanAct bool
}

func (h *PatientHandler) Dashboard(c *gin.Context) {
	s := sess(c)
	patient, err := h.api.CurrentPatient(c.Request.Context(), s.Token)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load your profile.")
		patient = &model.Patient{Name: s.User.Name, Email: s.User.Email}
	}

	var pending []model.Bill
	if bills, err := h.api.PatientBills(c.Request.Context(), s.Token, patient.PatientID); err == nil {
		for _, b := range bills {
			if b.Outstanding() {
				pending = append(pending, b)
			}
		}
	}

	page := view.NewPage("My Profile", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "patient_dashboard.tmpl", gin.H{
		"Title":        page.Title,
		"Nav":          page.Nav,
		"Flashes":      page.Flashes,
		"Patient":      patient,
		"PendingBills": pending,
		"Editing":      c.Query("edit") == "1",
	})
}

func (h *PatientHandler) UpdateProfile(c *gin.Context) {
	s := sess(c)
	var req model.UpdatePatientRequest
	if err := c.ShouldBind(&req); err != nil {
		s.Flash("error", "Name is required.")
		save(c, h.sessions, s)
		redirect(c, patientHome+"?edit=1")
		return
	}

	if _, err := h.api.UpdateCurrentPatient(c.Request.Context(), s.Token, &req); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not update your profile.")
		save(c, h.sessions, s)
		redirect(c, patientHome+"?edit=1")
		return
	}

	s.User.Name = req.Name
	s.Flash("success", "Profile updated.")
	save(c, h.sessions, s)
	redirect(c, patientHome)
}

func (h *PatientHandler) Appointments(c *gin.Context) {
	s := sess(c)
	patient, err := h.api.CurrentPatient(c.Request.Context(), s.Token)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load your appointments.")
		h.renderAppointments(c, s, nil, nil, nil)
		return
	}

	list, err := h.api.PatientAppointments(c.Request.Context(), s.Token, patient.PatientID)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load your appointments.")
	}

	upcoming, past := model.PartitionAppointments(list, model.Appointment.Past)
	now := time.Now()
	rows := make([]appointmentRow, 0, len(upcoming))
	for _, a := range upcoming {
		rows = append(rows, appointmentRow{Appointment: a, CanAct: a.Actionable(now)})
	}

	var confirm *model.Appointment
	if id, err := strconv.ParseInt(c.Query("cancelId"), 10, 64); err == nil {
		for i := range rows {
			if rows[i].AppointmentID == id && rows[i].CanAct {
				confirm = &rows[i].Appointment
				break
			}
		}
	}

	h.renderAppointments(c, s, rows, past, confirm)
}

func (h *PatientHandler) renderAppointments(c *gin.Context, s *session.Session, upcoming []appointmentRow, past []model.Appointment, confirm *model.Appointment) {
	page := view.NewPage("My Appointments", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "patient_appointments.tmpl", gin.H{
		"Title":         page.Title,
		"Nav":           page.Nav,
		"Flashes":       page.Flashes,
		"Upcoming":      upcoming,
		"Past":          past,
		"ConfirmCancel": confirm,
	})
}

func (h *PatientHandler) CancelAppointment(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("appointmentId"), 10, 64)
	if err != nil {
		redirect(c, "/patient/appointments.html")
		return
	}

	appt, err := h.api.GetAppointment(c.Request.Context(), s.Token, id)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not cancel the appointment.")
		save(c, h.sessions, s)
		redirect(c, "/patient/appointments.html")
		return
	}
	if appt.Past() || !appt.Actionable(time.Now()) {
		s.Flash("warning", "This appointment can no longer be cancelled.")
		save(c, h.sessions, s)
		redirect(c, "/patient/appointments.html")
		return
	}

	if err := h.api.CancelAppointment(c.Request.Context(), s.Token, id); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not cancel the appointment.")
	} else {
		s.Flash("success", "Appointment cancelled.")
	}
	save(c, h.sessions, s)
	redirect(c, "/patient/appointments.html")
}

func (h *PatientHandler) Billing(c *gin.Context) {
	s := sess(c)
	var bills []model.Bill
	if patient, err := h.api.CurrentPatient(c.Request.Context(), s.Token); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load your bills.")
	} else if bills, err = h.api.PatientBills(c.Request.Context(), s.Token, patient.PatientID); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load your bills.")
	}
	model.SortBillsForPatient(bills)

	var confirmPay *model.Bill
	if id, perr := strconv.ParseInt(c.Query("payId"), 10, 64); perr == nil {
		for i := range bills {
			if bills[i].BillID == id && bills[i].Outstanding() {
				confirmPay = &bills[i]
				break
			}
		}
	}

	page := view.NewPage("My Bills", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "patient_billing.tmpl", gin.H{
		"Title":      page.Title,
		"Nav":        page.Nav,
		"Flashes":    page.Flashes,
		"Bills":      bills,
		"ConfirmPay": confirmPay,
	})
}

func (h *PatientHandler) PayBill(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("billId"), 10, 64)
	if err != nil {
		redirect(c, "/patient/billing.html")
		return
	}

	if err := h.api.PayBill(c.Request.Context(), s.Token, id); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Payment failed. The bill remains unpaid.")
	} else {
		s.Flash("success", "Payment successful.")
	}
	save(c, h.sessions, s)
	redirect(c, "/patient/billing.html")
}

const bookPage = "/patient/book_appointment.html"

// BookPage renders the booking flow. Query parameters drive the
// fetching transitions: keyword searches doctors, rescheduleId preloads
// an existing appointment, reset starts over.
func (h *PatientHandler) BookPage(c *gin.Context) {
	s := sess(c)
	if c.Query("reset") == "1" {
		s.ResetBooking()
		save(c, h.sessions, s)
		redirect(c, bookPage)
		return
	}
	st := s.BookingState()

	if q := c.Query("rescheduleId"); q != "" {
		id, err := strconv.ParseInt(q, 10, 64)
		if err == nil && st.RescheduleID != id {
			s.ResetBooking()
			st = s.BookingState()
			if err := h.flow.LoadReschedule(c.Request.Context(), s.Token, st, id, false); err != nil {
				if authFailed(c, h.sessions, s, err) {
					return
				}
				flashErr(s, err, "Could not load the appointment to reschedule.")
				s.ResetBooking()
				st = s.BookingState()
			}
		}
	}

	keyword := c.Query("keyword")
	if len(keyword) >= 2 {
		if err := h.flow.SearchDoctors(c.Request.Context(), s.Token, st, keyword, false); err != nil {
			if authFailed(c, h.sessions, s, err) {
				return
			}
			flashErr(s, err, "Doctor search failed.")
		}
	} else if keyword != "" {
		s.Flash("warning", "Enter at least 2 characters to search.")
	}

	h.renderBooking(c, s, st, keyword)
}

func (h *PatientHandler) renderBooking(c *gin.Context, s *session.Session, st *booking.State, keyword string) {
	title := "Book Appointment"
	if st.RescheduleID != 0 {
		title = "Reschedule Appointment"
	}
	page := view.NewPage(title, s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "book_appointment.tmpl", gin.H{
		"Title":   page.Title,
		"Nav":     page.Nav,
		"Flashes": page.Flashes,
		"State":   st,
		"Keyword": keyword,
		"Today":   time.Now().Format(model.DateLayout),
	})
}

func (h *PatientHandler) BookSelectDoctor(c *gin.Context) {
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
	redirect(c, bookPage)
}

type dateForm struct {
	Date string `form:"date" binding:"required,slotdate"`
}

func (h *PatientHandler) BookSelectDate(c *gin.Context) {
	s := sess(c)
	st := s.BookingState()

	var form dateForm
	if err := c.ShouldBind(&form); err != nil {
		s.Flash("error", "Pick a valid date that is today or later.")
		save(c, h.sessions, s)
		redirect(c, bookPage)
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
	redirect(c, bookPage)
}

func (h *PatientHandler) BookSelectSlot(c *gin.Context) {
	s := sess(c)
	st := s.BookingState()
	if err := h.flow.SelectSlot(st, c.PostForm("slot")); err != nil {
		s.Flash("error", "Please pick a slot from the list.")
	}
	save(c, h.sessions, s)
	redirect(c, bookPage)
}

func (h *PatientHandler) BookSubmit(c *gin.Context) {
	s := sess(c)
	st := s.BookingState()

	patient, err := h.api.CurrentPatient(c.Request.Context(), s.Token)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not submit the booking.")
		save(c, h.sessions, s)
		redirect(c, bookPage)
		return
	}

	if err := h.flow.Submit(c.Request.Context(), s.Token, st, patient.PatientID, c.PostForm("reason")); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		if err == booking.ErrIncomplete {
			s.Flash("warning", "Select a doctor, date and time slot first.")
		} else {
			flashErr(s, err, "Booking failed. Your selections are kept, please try again.")
		}
		save(c, h.sessions, s)
		redirect(c, bookPage)
		return
	}

	if st.RescheduleID != 0 {
		s.Flash("success", "Appointment rescheduled.")
	} else {
		s.Flash("success", "Appointment booked.")
	}
	s.ResetBooking()
	save(c, h.sessions, s)
	redirect(c, "/patient/appointments.html")
}
