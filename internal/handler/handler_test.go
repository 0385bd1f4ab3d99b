package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevanhealth/portal/internal/backend"
	"github.com/jeevanhealth/portal/internal/booking"
	"github.com/jeevanhealth/portal/internal/config"
	"github.com/jeevanhealth/portal/internal/middleware"
	"github.com/jeevanhealth/portal/internal/model"
	"github.com/jeevanhealth/portal/internal/router"
	"github.com/jeevanhealth/portal/internal/session"
)

// upstream is a scriptable stand-in for the hospital REST API.
type upstream struct {
	mux *http.ServeMux

	patient      model.Patient
	doctor       model.Doctor
	appointments []model.Appointment
	bills        []model.Bill
	adminBills   []model.Bill

	payFailMessage string // non-empty makes bill payment fail
	statusCalls    []string
	bookCalls      int
}

func newUpstream() *upstream {
	gofakeit.Seed(11)
	u := &upstream{
		patient: model.Patient{
			PatientID:     7,
			Name:          gofakeit.Name(),
			Email:         "patient@x.test",
			ContactNumber: gofakeit.Phone(),
			Address:       gofakeit.Street(),
		},
		doctor: model.Doctor{
			DoctorID:       3,
			Name:           "Dr. " + gofakeit.LastName(),
			Specialization: "Cardiology",
			Availabilities: []model.AvailabilityWindow{
				{DayOfWeek: model.Wednesday, StartTime: "09:00", EndTime: "12:00"},
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)

		var role model.Role
		switch {
		case strings.HasPrefix(req.Email, "admin@"):
			role = model.RoleAdmin
		case strings.HasPrefix(req.Email, "doctor@"):
			role = model.RoleDoctor
		case strings.HasPrefix(req.Email, "patient@"):
			role = model.RolePatient
		default:
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
			return
		}
		json.NewEncoder(w).Encode(model.LoginResponse{
			AccessToken: "tok-" + string(role),
			Role:        role,
			Name:        "Test " + string(role),
			Email:       req.Email,
		})
	})
	mux.HandleFunc("GET /patients/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(u.patient)
	})
	mux.HandleFunc("GET /doctors/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(u.doctor)
	})
	mux.HandleFunc("GET /appointments/patient/7", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(u.appointments)
	})
	mux.HandleFunc("GET /appointments/doctor/3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(u.appointments)
	})
	mux.HandleFunc("PUT /appointments/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		u.statusCalls = append(u.statusCalls,
			r.PathValue("id")+":"+r.URL.Query().Get("status")+":"+r.URL.Query().Get("remarks"))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /appointments", func(w http.ResponseWriter, r *http.Request) {
		u.bookCalls++
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /bills/patient/7", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(u.bills)
	})
	mux.HandleFunc("PUT /bills/{id}/pay", func(w http.ResponseWriter, r *http.Request) {
		if u.payFailMessage != "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": u.payFailMessage})
			return
		}
		for i := range u.bills {
			u.bills[i].Status = model.PaymentStatusPaid
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /admin/appointments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(u.appointments)
	})
	mux.HandleFunc("GET /admin/billing", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(u.adminBills)
	})
	mux.HandleFunc("POST /admin/billing/{id}/pay", func(w http.ResponseWriter, r *http.Request) {
		if u.payFailMessage != "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": u.payFailMessage})
			return
		}
		for i := range u.adminBills {
			u.adminBills[i].Status = model.PaymentStatusPaid
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /admin/count", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(5)
	})
	u.mux = mux
	return u
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mux.ServeHTTP(w, r)
}

type portalFixture struct {
	engine   http.Handler
	upstream *upstream
	cookie   *http.Cookie
}

func newPortal(t *testing.T) *portalFixture {
	t.Helper()
	require.NoError(t, RegisterValidations())

	up := newUpstream()
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	api := backend.New(config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5})
	sessions := session.NewManager(session.NewMemoryStore(time.Minute), config.SessionConfig{
		CookieName: "portal_session",
		TTLMinutes: 1,
	})
	flow := booking.NewFlow(api)
	gate := middleware.NewSessionGate(sessions)

	r, err := router.NewRouter(
		gate,
		NewAuthHandler(api, sessions),
		NewPatientHandler(api, flow, sessions),
		NewDoctorHandler(api, sessions),
		NewHealthHandler(api),
		router.RouterConfig{RateLimit: 1000, RateBurst: 1000, MetricsPrefix: "portal_test"},
		NewAdminHandler(api, sessions),
		NewAdminBookingHandler(flow, sessions),
	)
	require.NoError(t, err)
	r.Setup()

	return &portalFixture{engine: r.Engine(), upstream: up}
}

// login posts the credentials and keeps the session cookie.
func (p *portalFixture) login(t *testing.T, email string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"email": {email}, "password": {"pw"}}
	w := p.post(t, "/login", form)
	for _, c := range w.Result().Cookies() {
		if c.Name == "portal_session" {
			p.cookie = c
		}
	}
	return w
}

func (p *portalFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if p.cookie != nil {
		req.AddCookie(p.cookie)
	}
	w := httptest.NewRecorder()
	p.engine.ServeHTTP(w, req)
	return w
}

func (p *portalFixture) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if p.cookie != nil {
		req.AddCookie(p.cookie)
	}
	w := httptest.NewRecorder()
	p.engine.ServeHTTP(w, req)
	return w
}

func TestLoginRedirectsByRole(t *testing.T) {
	tests := []struct {
		email string
		home  string
	}{
		{"patient@x.test", "/patient/dashboard.html"},
		{"doctor@x.test", "/doctor/dashboard.html"},
		{"admin@x.test", "/admin/dashboard.html"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			p := newPortal(t)
			w := p.login(t, tt.email)

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.home, w.Header().Get("Location"))
			require.NotNil(t, p.cookie)

			home := p.get(t, tt.home)
			assert.Equal(t, http.StatusOK, home.Code)
		})
	}
}

func TestLoginRejectedCredentialsStayOnForm(t *testing.T) {
	p := newPortal(t)
	w := p.login(t, "stranger@x.test")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password.")
	assert.Nil(t, p.cookie)
}

func TestProtectedPageWithoutSessionRedirectsToLogin(t *testing.T) {
	p := newPortal(t)
	w := p.get(t, "/patient/appointments.html")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login.html", w.Header().Get("Location"))
}

func TestWrongRoleRedirectsToErrorPage(t *testing.T) {
	p := newPortal(t)
	p.login(t, "doctor@x.test")

	w := p.get(t, "/admin/dashboard.html")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/error.html", w.Header().Get("Location"))
}

func TestPatientAppointmentsPartition(t *testing.T) {
	p := newPortal(t)
	future := time.Now().AddDate(0, 0, 7).Format(model.DateLayout)
	past := time.Now().AddDate(0, 0, -7).Format(model.DateLayout)
	p.upstream.appointments = []model.Appointment{
		{AppointmentID: 1, DoctorName: "Dr. Upcoming", Date: future, TimeSlot: "09:00", Status: model.AppointmentStatusConfirmed},
		{AppointmentID: 2, DoctorName: "Dr. Done", Date: past, TimeSlot: "10:00", Status: model.AppointmentStatusCompleted, Remarks: "all good"},
		{AppointmentID: 3, DoctorName: "Dr. Stale", Date: past, TimeSlot: "11:00", Status: model.AppointmentStatusScheduled},
	}
	p.login(t, "patient@x.test")

	w := p.get(t, "/patient/appointments.html")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "Dr. Upcoming")
	assert.Contains(t, body, "Dr. Done")
	assert.Contains(t, body, "all good")

	// The future appointment offers actions; the past-dated upcoming one
	// does not.
	assert.Contains(t, body, "cancelId=1")
	assert.NotContains(t, body, "cancelId=3")
	assert.NotContains(t, body, "cancelId=2")
}

func TestPatientBillingSortedPendingFirst(t *testing.T) {
	p := newPortal(t)
	p.upstream.bills = []model.Bill{
		{BillID: 1, Status: model.PaymentStatusPaid, Date: "2026-03-20", Amount: 100},
		{BillID: 2, Status: model.PaymentStatusPending, Date: "2026-01-01", Amount: 250},
	}
	p.login(t, "patient@x.test")

	w := p.get(t, "/patient/billing.html")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	// Pending bill is listed before the paid one despite its older date.
	assert.Less(t, strings.Index(body, "Rs. 250.00"), strings.Index(body, "Rs. 100.00"))
}

func TestPatientBillingPayFailureKeepsBillUnpaid(t *testing.T) {
	p := newPortal(t)
	p.upstream.bills = []model.Bill{
		{BillID: 8, Status: model.PaymentStatusPending, Date: "2026-03-10", Amount: 500},
	}
	p.upstream.payFailMessage = "Payment gateway declined"
	p.login(t, "patient@x.test")

	w := p.post(t, "/patient/billing/pay", url.Values{"billId": {"8"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/patient/billing.html", w.Header().Get("Location"))

	page := p.get(t, "/patient/billing.html")
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()

	assert.Contains(t, body, "Payment gateway declined")
	assert.Contains(t, body, "payId=8") // still payable
	assert.Contains(t, body, "PENDING")
}

func TestPatientBillingPaySuccess(t *testing.T) {
	p := newPortal(t)
	p.upstream.bills = []model.Bill{
		{BillID: 8, Status: model.PaymentStatusPending, Date: "2026-03-10", Amount: 500},
	}
	p.login(t, "patient@x.test")

	// The pay link leads to an inline confirmation first.
	confirm := p.get(t, "/patient/billing.html?payId=8")
	require.Equal(t, http.StatusOK, confirm.Code)
	assert.Contains(t, confirm.Body.String(), "Pay Now")
	assert.Contains(t, confirm.Body.String(), "Rs. 500.00")

	p.post(t, "/patient/billing/pay", url.Values{"billId": {"8"}})
	page := p.get(t, "/patient/billing.html")
	body := page.Body.String()

	assert.Contains(t, body, "Payment successful.")
	assert.NotContains(t, body, "payId=8")
	assert.Contains(t, body, "PAID")
}

func TestAdminAppointmentsConfirmedOnlyUpcoming(t *testing.T) {
	p := newPortal(t)
	p.upstream.appointments = []model.Appointment{
		{AppointmentID: 5, PatientName: "Asha Rao", DoctorName: "Dr. Iyer", Date: "2026-04-01", TimeSlot: "09:00", Status: model.AppointmentStatusConfirmed},
	}
	p.login(t, "admin@x.test")

	w := p.get(t, "/admin/appointments.html")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "editId=5")
	assert.Contains(t, body, "cancelId=5")
	assert.Contains(t, body, "Nothing here.")
}

func TestAdminAppointmentsNonConfirmedLandInOther(t *testing.T) {
	p := newPortal(t)
	p.upstream.appointments = []model.Appointment{
		{AppointmentID: 6, PatientName: "Asha Rao", DoctorName: "Dr. Iyer", Date: "2026-04-01", TimeSlot: "09:00", Status: model.AppointmentStatusScheduled},
	}
	p.login(t, "admin@x.test")

	w := p.get(t, "/admin/appointments.html")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	// SCHEDULED is not actionable for the admin, unlike the patient view.
	assert.Contains(t, body, "No upcoming appointments.")
	assert.NotContains(t, body, "editId=6")
	assert.NotContains(t, body, "cancelId=6")
	assert.Contains(t, body, "SCHEDULED")
}

func TestBookingSubmitGuardWithoutSelection(t *testing.T) {
	p := newPortal(t)
	p.login(t, "patient@x.test")

	w := p.post(t, "/patient/book/submit", url.Values{"reason": {"check-up"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/patient/book_appointment.html", w.Header().Get("Location"))
	assert.Zero(t, p.upstream.bookCalls)

	page := p.get(t, "/patient/book_appointment.html")
	assert.Contains(t, page.Body.String(), "Select a doctor, date and time slot first.")
}

func TestDoctorCompleteRequiresRemarks(t *testing.T) {
	p := newPortal(t)
	p.login(t, "doctor@x.test")

	w := p.post(t, "/doctor/appointments/complete", url.Values{
		"appointmentId": {"9"},
		"remarks":       {"ok"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/doctor/appointments.html?completeId=9", w.Header().Get("Location"))
	assert.Empty(t, p.upstream.statusCalls)

	w = p.post(t, "/doctor/appointments/complete", url.Values{
		"appointmentId": {"9"},
		"remarks":       {"patient recovered well"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, p.upstream.statusCalls, 1)
	assert.Equal(t, "9:COMPLETED:patient recovered well", p.upstream.statusCalls[0])
}

func TestAdminBillPaymentFailureKeepsBillOutstanding(t *testing.T) {
	p := newPortal(t)
	p.upstream.adminBills = []model.Bill{
		{BillID: 5, PatientName: "Asha Rao", Status: model.PaymentStatusUnpaid, Amount: 900, Date: "2026-03-01"},
	}
	p.upstream.payFailMessage = "Payment gateway declined"
	p.login(t, "admin@x.test")

	w := p.post(t, "/admin/billings/pay", url.Values{"billId": {"5"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	page := p.get(t, "/admin/billings.html")
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()

	assert.Contains(t, body, "Payment gateway declined")
	assert.Contains(t, body, "payId=5") // still actionable in Outstanding
	assert.Contains(t, body, "UNPAID")
}

func TestAdminBillPaymentSuccess(t *testing.T) {
	p := newPortal(t)
	p.upstream.adminBills = []model.Bill{
		{BillID: 5, PatientName: "Asha Rao", Status: model.PaymentStatusUnpaid, Amount: 900, Date: "2026-03-01"},
	}
	p.login(t, "admin@x.test")

	p.post(t, "/admin/billings/pay", url.Values{"billId": {"5"}})
	page := p.get(t, "/admin/billings.html")
	body := page.Body.String()

	assert.Contains(t, body, "Bill marked as paid.")
	assert.NotContains(t, body, "payId=5")
	assert.Contains(t, body, "PAID")
}

func TestLogoutClearsSession(t *testing.T) {
	p := newPortal(t)
	p.login(t, "patient@x.test")

	w := p.post(t, "/logout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/index.html", w.Header().Get("Location"))

	for _, c := range w.Result().Cookies() {
		if c.Name == "portal_session" {
			assert.Equal(t, -1, c.MaxAge)
		}
	}

	p.cookie = nil
	after := p.get(t, "/patient/dashboard.html")
	assert.Equal(t, "/login.html", after.Header().Get("Location"))
}
