package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jeevanhealth/portal/internal/model"
	"github.com/jeevanhealth/portal/internal/session"
	"github.com/jeevanhealth/portal/internal/view"
)

// doctorAPI is the slice of the upstream client the doctor pages use.
type doctorAPI interface {
	CurrentDoctor(ctx context.Context, token string) (*model.Doctor, error)
	DoctorAppointments(ctx context.Context, token string, doctorID int64) ([]model.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, token string, id int64, status model.AppointmentStatus, remarks string) error
	GetPatient(ctx context.Context, token string, id int64) (*model.Patient, error)
}

type DoctorHandler struct {
	api      doctorAPI
	sessions *session.Manager
}

func NewDoctorHandler(api doctorAPI, sessions *session.Manager) *DoctorHandler {
	return &DoctorHandler{api: api, sessions: sessions}
}

func (h *DoctorHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard.html", h.Dashboard)
	r.GET("/appointments.html", h.Appointments)
	r.POST("/appointments/complete", h.CompleteAppointment)
	r.GET("/patient_details.html", h.PatientDetails)
}

func (h *DoctorHandler) Dashboard(c *gin.Context) {
	s := sess(c)
	doctor, err := h.api.CurrentDoctor(c.Request.Context(), s.Token)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load your profile.")
		doctor = &model.Doctor{Name: s.User.Name}
	}

	var upcoming []model.Appointment
	if doctor.DoctorID != 0 {
		if list, err := h.api.DoctorAppointments(c.Request.Context(), s.Token, doctor.DoctorID); err == nil {
			upcoming, _ = model.PartitionAppointments(list, model.Appointment.Past)
		}
	}

	page := view.NewPage("Doctor Dashboard", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "doctor_dashboard.tmpl", gin.H{
		"Title":    page.Title,
		"Nav":      page.Nav,
		"Flashes":  page.Flashes,
		"Doctor":   doctor,
		"Upcoming": upcoming,
	})
}

func (h *DoctorHandler) Appointments(c *gin.Context) {
	s := sess(c)
	var list []model.Appointment
	if doctor, err := h.api.CurrentDoctor(c.Request.Context(), s.Token); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load your appointments.")
	} else if list, err = h.api.DoctorAppointments(c.Request.Context(), s.Token, doctor.DoctorID); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load your appointments.")
	}

	upcoming, past := model.PartitionAppointments(list, model.Appointment.Past)

	var complete *model.Appointment
	if id, err := strconv.ParseInt(c.Query("completeId"), 10, 64); err == nil {
		for i := range upcoming {
			if upcoming[i].AppointmentID == id {
				complete = &upcoming[i]
				break
			}
		}
	}

	page := view.NewPage("My Appointments", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "doctor_appointments.tmpl", gin.H{
		"Title":    page.Title,
		"Nav":      page.Nav,
		"Flashes":  page.Flashes,
		"Upcoming": upcoming,
		"Past":     past,
		"Complete": complete,
	})
}

type completeForm struct {
	AppointmentID int64  `form:"appointmentId" binding:"required"`
	Remarks       string `form:"remarks" binding:"required,remarks"`
}

func (h *DoctorHandler) CompleteAppointment(c *gin.Context) {
	s := sess(c)

	var form completeForm
	if err := c.ShouldBind(&form); err != nil {
		s.Flash("error", "Remarks of at least 5 characters are required to complete an appointment.")
		save(c, h.sessions, s)
		if id := c.PostForm("appointmentId"); id != "" {
			redirect(c, "/doctor/appointments.html?completeId="+id)
			return
		}
		redirect(c, "/doctor/appointments.html")
		return
	}

	err := h.api.UpdateAppointmentStatus(c.Request.Context(), s.Token, form.AppointmentID, model.AppointmentStatusCompleted, form.Remarks)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not complete the appointment.")
	} else {
		s.Flash("success", "Appointment marked as completed.")
	}
	save(c, h.sessions, s)
	redirect(c, "/doctor/appointments.html")
}

func (h *DoctorHandler) PatientDetails(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		redirect(c, "/doctor/appointments.html")
		return
	}

	patient, err := h.api.GetPatient(c.Request.Context(), s.Token, id)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load the patient record.")
		save(c, h.sessions, s)
		redirect(c, "/doctor/appointments.html")
		return
	}

	page := view.NewPage("Patient Details", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "patient_details.tmpl", gin.H{
		"Title":   page.Title,
		"Nav":     page.Nav,
		"Flashes": page.Flashes,
		"Patient": patient,
	})
}
