package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jeevanhealth/portal/internal/model"
	"github.com/jeevanhealth/portal/internal/session"
	"github.com/jeevanhealth/portal/internal/view"
	apperrors "github.com/jeevanhealth/portal/pkg/errors"
)

// adminAPI is the slice of the upstream client the admin pages use.
type adminAPI interface {
	Count(ctx context.Context, token, name string) (int64, error)

	ListDoctors(ctx context.Context, token string) ([]model.Doctor, error)
	SearchDoctors(ctx context.Context, token, keyword string) ([]model.Doctor, error)
	GetAdminDoctor(ctx context.Context, token string, id int64) (*model.Doctor, error)
	RegisterDoctor(ctx context.Context, token string, req *model.RegisterDoctorRequest) error
	UpdateDoctor(ctx context.Context, token string, id int64, req *model.UpdateDoctorRequest) error
	DeleteDoctor(ctx context.Context, token string, id int64) error

	ListPatients(ctx context.Context, token string) ([]model.Patient, error)
	SearchPatients(ctx context.Context, token, keyword string) ([]model.Patient, error)
	GetAdminPatient(ctx context.Context, token string, id int64) (*model.Patient, error)
	RegisterPatient(ctx context.Context, token string, req *model.RegisterPatientRequest) error
	UpdatePatient(ctx context.Context, token string, id int64, req *model.UpdatePatientRequest) error
	DeletePatient(ctx context.Context, token string, id int64) error

	ListUsers(ctx context.Context, token string) ([]model.User, error)
	GetUser(ctx context.Context, token string, id int64) (*model.User, error)
	UpdateUserIdentity(ctx context.Context, token string, id int64, req *model.UpdateUserIdentityRequest) error
	ResetUserPassword(ctx context.Context, token string, id int64, req *model.ResetPasswordRequest) error
	DeleteUser(ctx context.Context, token string, id int64) error
	RegisterAdmin(ctx context.Context, token, name, email, password string) error

	ListBills(ctx context.Context, token string) ([]model.Bill, error)
	PayAdminBill(ctx context.Context, token string, billID int64) error

	ListAppointments(ctx context.Context, token string) ([]model.Appointment, error)
	CancelAdminAppointment(ctx context.Context, token string, id int64) error
}

type AdminHandler struct {
	api      adminAPI
	sessions *session.Manager
}

func NewAdminHandler(api adminAPI, sessions *session.Manager) *AdminHandler {
	return &AdminHandler{api: api, sessions: sessions}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard.html", h.Dashboard)

	r.GET("/doctors.html", h.Doctors)
	r.GET("/doctor_form.html", h.DoctorForm)
	r.POST("/doctors/register", h.RegisterDoctor)
	r.POST("/doctors/update", h.UpdateDoctor)
	r.POST("/doctors/delete", h.DeleteDoctor)

	r.GET("/patients.html", h.Patients)
	r.POST("/patients/register", h.RegisterPatient)
	r.POST("/patients/update", h.UpdatePatient)
	r.POST("/patients/delete", h.DeletePatient)

	r.GET("/users.html", h.Users)
	r.POST("/users/identity", h.UpdateUserIdentity)
	r.POST("/users/reset-password", h.ResetUserPassword)
	r.POST("/users/delete", h.DeleteUser)
	r.POST("/users/register-admin", h.RegisterAdmin)

	r.GET("/billings.html", h.Billing)
	r.POST("/billings/pay", h.PayBill)

	r.GET("/appointments.html", h.Appointments)
	r.POST("/appointments/cancel", h.CancelAppointment)
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	s := sess(c)
	ctx := c.Request.Context()

	counts := make(map[string]int64, 4)
	failed := false
	for _, name := range []string{"patients", "doctors", "appointments", "bills"} {
		n, err := h.api.Count(ctx, s.Token, name)
		if err != nil {
			if authFailed(c, h.sessions, s, err) {
				return
			}
			failed = true
		}
		counts[name] = n
	}
	if failed {
		s.Flash("error", "Some dashboard counts could not be loaded.")
	}

	page := view.NewPage("Admin Dashboard", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "admin_dashboard.tmpl", gin.H{
		"Title":        page.Title,
		"Nav":          page.Nav,
		"Flashes":      page.Flashes,
		"Patients":     counts["patients"],
		"Doctors":      counts["doctors"],
		"Appointments": counts["appointments"],
		"Bills":        counts["bills"],
	})
}

// gridRow is one weekday row of the availability form.
type gridRow struct {
	Day   string
	Start string
	End   string
}

// availabilityGrid lays a doctor's windows over the full week so the
// form always shows all seven days.
func availabilityGrid(windows []model.AvailabilityWindow) []gridRow {
	rows := make([]gridRow, len(model.Weekdays))
	for i, day := range model.Weekdays {
		rows[i] = gridRow{Day: day}
		for _, w := range windows {
			if w.DayOfWeek == day {
				rows[i].Start = w.StartTime
				rows[i].End = w.EndTime
				break
			}
		}
	}
	return rows
}

// bindAvailability reads the grid back. Rows with both times empty are
// unavailable days; a half-filled row is rejected.
func bindAvailability(c *gin.Context) ([]model.AvailabilityWindow, bool) {
	days := c.PostFormArray("day")
	starts := c.PostFormArray("startTime")
	ends := c.PostFormArray("endTime")
	if len(days) != len(starts) || len(days) != len(ends) {
		return nil, false
	}

	var windows []model.AvailabilityWindow
	for i, day := range days {
		start, end := starts[i], ends[i]
		if start == "" && end == "" {
			continue
		}
		if start == "" || end == "" || end <= start {
			return nil, false
		}
		windows = append(windows, model.AvailabilityWindow{DayOfWeek: day, StartTime: start, EndTime: end})
	}
	return windows, true
}

func (h *AdminHandler) Doctors(c *gin.Context) {
	s := sess(c)
	ctx := c.Request.Context()

	var (
		doctors []model.Doctor
		err     error
	)
	keyword := c.Query("keyword")
	if len(keyword) >= 2 {
		doctors, err = h.api.SearchDoctors(ctx, s.Token, keyword)
	} else {
		if keyword != "" {
			s.Flash("warning", "Enter at least 2 characters to search.")
			keyword = ""
		}
		doctors, err = h.api.ListDoctors(ctx, s.Token)
	}
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load doctors.")
	}

	var edit *model.Doctor
	if id, perr := strconv.ParseInt(c.Query("editId"), 10, 64); perr == nil {
		if edit, err = h.api.GetAdminDoctor(ctx, s.Token, id); err != nil {
			if authFailed(c, h.sessions, s, err) {
				return
			}
			flashErr(s, err, "Could not load the doctor to edit.")
		}
	}

	var confirmDelete *model.Doctor
	if id, perr := strconv.ParseInt(c.Query("deleteId"), 10, 64); perr == nil {
		for i := range doctors {
			if doctors[i].DoctorID == id {
				confirmDelete = &doctors[i]
				break
			}
		}
	}

	var editWindows []gridRow
	if edit != nil {
		editWindows = availabilityGrid(edit.Availabilities)
	}

	page := view.NewPage("Doctors", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "admin_doctors.tmpl", gin.H{
		"Title":         page.Title,
		"Nav":           page.Nav,
		"Flashes":       page.Flashes,
		"Doctors":       doctors,
		"Keyword":       keyword,
		"Edit":          edit,
		"EditWindows":   editWindows,
		"ConfirmDelete": confirmDelete,
	})
}

func (h *AdminHandler) DoctorForm(c *gin.Context) {
	s := sess(c)
	page := view.NewPage("Register Doctor", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "admin_doctor_form.tmpl", gin.H{
		"Title":   page.Title,
		"Nav":     page.Nav,
		"Flashes": page.Flashes,
		"Form":    model.RegisterDoctorRequest{},
		"Windows": availabilityGrid(nil),
	})
}

func (h *AdminHandler) RegisterDoctor(c *gin.Context) {
	s := sess(c)

	var req model.RegisterDoctorRequest
	bindErr := c.ShouldBind(&req)
	windows, ok := bindAvailability(c)
	if bindErr != nil || !ok {
		s.Flash("error", "Name, email, password and specialization are required, and every availability row needs both times.")
		save(c, h.sessions, s)
		redirect(c, "/admin/doctor_form.html")
		return
	}
	req.Availabilities = windows

	if err := h.api.RegisterDoctor(c.Request.Context(), s.Token, &req); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		if apperrors.IsConflict(err) {
			s.Flash("error", "An account with this email already exists.")
		} else {
			flashErr(s, err, "Could not register the doctor.")
		}
		save(c, h.sessions, s)
		redirect(c, "/admin/doctor_form.html")
		return
	}

	s.Flash("success", "Doctor registered.")
	save(c, h.sessions, s)
	redirect(c, "/admin/doctors.html")
}

func (h *AdminHandler) UpdateDoctor(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("doctorId"), 10, 64)
	if err != nil {
		redirect(c, "/admin/doctors.html")
		return
	}

	var req model.UpdateDoctorRequest
	bindErr := c.ShouldBind(&req)
	windows, ok := bindAvailability(c)
	if bindErr != nil || !ok {
		s.Flash("error", "Name and specialization are required, and every availability row needs both times.")
		save(c, h.sessions, s)
		redirect(c, "/admin/doctors.html?editId="+strconv.FormatInt(id, 10))
		return
	}
	req.Availabilities = windows

	if err := h.api.UpdateDoctor(c.Request.Context(), s.Token, id, &req); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not update the doctor.")
		save(c, h.sessions, s)
		redirect(c, "/admin/doctors.html?editId="+strconv.FormatInt(id, 10))
		return
	}

	s.Flash("success", "Doctor updated.")
	save(c, h.sessions, s)
	redirect(c, "/admin/doctors.html")
}

func (h *AdminHandler) DeleteDoctor(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("doctorId"), 10, 64)
	if err != nil {
		redirect(c, "/admin/doctors.html")
		return
	}

	if err := h.api.DeleteDoctor(c.Request.Context(), s.Token, id); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not delete the doctor.")
	} else {
		s.Flash("success", "Doctor deleted.")
	}
	save(c, h.sessions, s)
	redirect(c, "/admin/doctors.html")
}

func (h *AdminHandler) Patients(c *gin.Context) {
	s := sess(c)
	ctx := c.Request.Context()

	var (
		patients []model.Patient
		err      error
	)
	keyword := c.Query("keyword")
	if len(keyword) >= 2 {
		patients, err = h.api.SearchPatients(ctx, s.Token, keyword)
	} else {
		if keyword != "" {
			s.Flash("warning", "Enter at least 2 characters to search.")
			keyword = ""
		}
		patients, err = h.api.ListPatients(ctx, s.Token)
	}
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load patients.")
	}

	var edit *model.Patient
	if id, perr := strconv.ParseInt(c.Query("editId"), 10, 64); perr == nil {
		if edit, err = h.api.GetAdminPatient(ctx, s.Token, id); err != nil {
			if authFailed(c, h.sessions, s, err) {
				return
			}
			flashErr(s, err, "Could not load the patient to edit.")
		}
	}

	var confirmDelete *model.Patient
	if id, perr := strconv.ParseInt(c.Query("deleteId"), 10, 64); perr == nil {
		for i := range patients {
			if patients[i].PatientID == id {
				confirmDelete = &patients[i]
				break
			}
		}
	}

	page := view.NewPage("Patients", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "admin_patients.tmpl", gin.H{
		"Title":         page.Title,
		"Nav":           page.Nav,
		"Flashes":       page.Flashes,
		"Patients":      patients,
		"Keyword":       keyword,
		"Edit":          edit,
		"ConfirmDelete": confirmDelete,
		"Adding":        c.Query("add") == "1",
	})
}

func (h *AdminHandler) RegisterPatient(c *gin.Context) {
	s := sess(c)

	var req model.RegisterPatientRequest
	if err := c.ShouldBind(&req); err != nil {
		s.Flash("error", "Name, email and password are required.")
		save(c, h.sessions, s)
		redirect(c, "/admin/patients.html?add=1")
		return
	}

	if err := h.api.RegisterPatient(c.Request.Context(), s.Token, &req); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		if apperrors.IsConflict(err) {
			s.Flash("error", "An account with this email already exists.")
		} else {
			flashErr(s, err, "Could not register the patient.")
		}
		save(c, h.sessions, s)
		redirect(c, "/admin/patients.html?add=1")
		return
	}

	s.Flash("success", "Patient registered.")
	save(c, h.sessions, s)
	redirect(c, "/admin/patients.html")
}

func (h *AdminHandler) UpdatePatient(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("patientId"), 10, 64)
	if err != nil {
		redirect(c, "/admin/patients.html")
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBind(&req); err != nil {
		s.Flash("error", "Name is required.")
		save(c, h.sessions, s)
		redirect(c, "/admin/patients.html?editId="+strconv.FormatInt(id, 10))
		return
	}

	if err := h.api.UpdatePatient(c.Request.Context(), s.Token, id, &req); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not update the patient.")
		save(c, h.sessions, s)
		redirect(c, "/admin/patients.html?editId="+strconv.FormatInt(id, 10))
		return
	}

	s.Flash("success", "Patient updated.")
	save(c, h.sessions, s)
	redirect(c, "/admin/patients.html")
}

func (h *AdminHandler) DeletePatient(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("patientId"), 10, 64)
	if err != nil {
		redirect(c, "/admin/patients.html")
		return
	}

	if err := h.api.DeletePatient(c.Request.Context(), s.Token, id); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not delete the patient.")
	} else {
		s.Flash("success", "Patient deleted.")
	}
	save(c, h.sessions, s)
	redirect(c, "/admin/patients.html")
}

func (h *AdminHandler) Users(c *gin.Context) {
	s := sess(c)
	ctx := c.Request.Context()

	users, err := h.api.ListUsers(ctx, s.Token)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load users.")
	}

	var edit *model.User
	if id, perr := strconv.ParseInt(c.Query("editId"), 10, 64); perr == nil {
		if edit, err = h.api.GetUser(ctx, s.Token, id); err != nil {
			if authFailed(c, h.sessions, s, err) {
				return
			}
			flashErr(s, err, "Could not load the user to edit.")
		}
	}

	var confirmDelete *model.User
	if id, perr := strconv.ParseInt(c.Query("deleteId"), 10, 64); perr == nil {
		for i := range users {
			if users[i].UserID == id {
				confirmDelete = &users[i]
				break
			}
		}
	}

	page := view.NewPage("Users", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "admin_users.tmpl", gin.H{
		"Title":         page.Title,
		"Nav":           page.Nav,
		"Flashes":       page.Flashes,
		"Users":         users,
		"Edit":          edit,
		"ConfirmDelete": confirmDelete,
		"Adding":        c.Query("add") == "1",
	})
}

func (h *AdminHandler) UpdateUserIdentity(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("userId"), 10, 64)
	if err != nil {
		redirect(c, "/admin/users.html")
		return
	}

	var req model.UpdateUserIdentityRequest
	if err := c.ShouldBind(&req); err != nil || !req.Role.Valid() {
		s.Flash("error", "Email and a valid role are required.")
		save(c, h.sessions, s)
		redirect(c, "/admin/users.html?editId="+strconv.FormatInt(id, 10))
		return
	}

	if err := h.api.UpdateUserIdentity(c.Request.Context(), s.Token, id, &req); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not update the user.")
		save(c, h.sessions, s)
		redirect(c, "/admin/users.html?editId="+strconv.FormatInt(id, 10))
		return
	}

	s.Flash("success", "User identity updated.")
	save(c, h.sessions, s)
	redirect(c, "/admin/users.html")
}

func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("userId"), 10, 64)
	if err != nil {
		redirect(c, "/admin/users.html")
		return
	}

	var req model.ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		s.Flash("error", "A new password is required.")
		save(c, h.sessions, s)
		redirect(c, "/admin/users.html?editId="+strconv.FormatInt(id, 10))
		return
	}

	if err := h.api.ResetUserPassword(c.Request.Context(), s.Token, id, &req); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not reset the password.")
	} else {
		s.Flash("success", "Password reset.")
	}
	save(c, h.sessions, s)
	redirect(c, "/admin/users.html")
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("userId"), 10, 64)
	if err != nil {
		redirect(c, "/admin/users.html")
		return
	}

	if err := h.api.DeleteUser(c.Request.Context(), s.Token, id); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not delete the user.")
	} else {
		s.Flash("success", "User deleted.")
	}
	save(c, h.sessions, s)
	redirect(c, "/admin/users.html")
}

type registerAdminForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
}

func (h *AdminHandler) RegisterAdmin(c *gin.Context) {
	s := sess(c)

	var form registerAdminForm
	if err := c.ShouldBind(&form); err != nil {
		s.Flash("error", "Name, a valid email and a password of at least 6 characters are required.")
		save(c, h.sessions, s)
		redirect(c, "/admin/users.html?add=1")
		return
	}

	if err := h.api.RegisterAdmin(c.Request.Context(), s.Token, form.Name, form.Email, form.Password); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		if apperrors.IsConflict(err) {
			s.Flash("error", "An account with this email already exists.")
		} else {
			flashErr(s, err, "Could not register the admin.")
		}
		save(c, h.sessions, s)
		redirect(c, "/admin/users.html?add=1")
		return
	}

	s.Flash("success", "Admin registered.")
	save(c, h.sessions, s)
	redirect(c, "/admin/users.html")
}

func (h *AdminHandler) Billing(c *gin.Context) {
	s := sess(c)

	bills, err := h.api.ListBills(c.Request.Context(), s.Token)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load bills.")
	}
	outstanding, settled := model.PartitionBills(bills)

	var confirmPay *model.Bill
	if id, perr := strconv.ParseInt(c.Query("payId"), 10, 64); perr == nil {
		for i := range outstanding {
			if outstanding[i].BillID == id {
				confirmPay = &outstanding[i]
				break
			}
		}
	}

	page := view.NewPage("Billing", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "admin_billing.tmpl", gin.H{
		"Title":       page.Title,
		"Nav":         page.Nav,
		"Flashes":     page.Flashes,
		"Outstanding": outstanding,
		"Settled":     settled,
		"ConfirmPay":  confirmPay,
	})
}

func (h *AdminHandler) PayBill(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("billId"), 10, 64)
	if err != nil {
		redirect(c, "/admin/billings.html")
		return
	}

	if err := h.api.PayAdminBill(c.Request.Context(), s.Token, id); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Payment failed. The bill remains outstanding.")
	} else {
		s.Flash("success", "Bill marked as paid.")
	}
	save(c, h.sessions, s)
	redirect(c, "/admin/billings.html")
}

func (h *AdminHandler) Appointments(c *gin.Context) {
	s := sess(c)

	list, err := h.api.ListAppointments(c.Request.Context(), s.Token)
	if err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not load appointments.")
	}

	// The admin view treats only confirmed appointments as upcoming.
	upcoming, past := model.PartitionAppointments(list, func(a model.Appointment) bool {
		return a.Status != model.AppointmentStatusConfirmed
	})

	var confirmCancel *model.Appointment
	if id, perr := strconv.ParseInt(c.Query("cancelId"), 10, 64); perr == nil {
		for i := range upcoming {
			if upcoming[i].AppointmentID == id {
				confirmCancel = &upcoming[i]
				break
			}
		}
	}

	page := view.NewPage("Appointments", s)
	save(c, h.sessions, s)
	c.HTML(http.StatusOK, "admin_appointments.tmpl", gin.H{
		"Title":         page.Title,
		"Nav":           page.Nav,
		"Flashes":       page.Flashes,
		"Upcoming":      upcoming,
		"Past":          past,
		"ConfirmCancel": confirmCancel,
	})
}

func (h *AdminHandler) CancelAppointment(c *gin.Context) {
	s := sess(c)
	id, err := strconv.ParseInt(c.PostForm("appointmentId"), 10, 64)
	if err != nil {
		redirect(c, "/admin/appointments.html")
		return
	}

	if err := h.api.CancelAdminAppointment(c.Request.Context(), s.Token, id); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not cancel the appointment.")
	} else {
		s.Flash("success", "Appointment cancelled.")
	}
	save(c, h.sessions, s)
	redirect(c, "/admin/appointments.html")
}
