package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevanhealth/portal/internal/model"
	"github.com/jeevanhealth/portal/internal/session"
)

func TestNavForRoles(t *testing.T) {
	patient := NavFor(model.RolePatient, "Asha")
	assert.True(t, patient.LoggedIn)
	assert.Equal(t, "Asha", patient.UserName)
	assert.Equal(t, "/patient/dashboard.html", patient.Items[0].Href)

	admin := NavFor(model.RoleAdmin, "Root")
	hrefs := make([]string, len(admin.Items))
	for i, item := range admin.Items {
		hrefs[i] = item.Href
	}
	assert.Equal(t, []string{
		"/admin/dashboard.html",
		"/admin/patients.html",
		"/admin/doctors.html",
		"/admin/appointments.html",
		"/admin/billings.html",
		"/admin/users.html",
	}, hrefs)
}

func TestNavForAnonymous(t *testing.T) {
	nav := NavFor("", "")
	assert.False(t, nav.LoggedIn)
	assert.Equal(t, "Jeevan Hospital", nav.Brand)
	assert.Equal(t, "/#hero", nav.Items[0].Href)
}

func TestNewPageConsumesFlashes(t *testing.T) {
	s := &session.Session{User: model.User{Email: "a@x.test", Role: model.RolePatient}}
	s.Flash("success", "saved")

	page := NewPage("Title", s)
	require.Len(t, page.Flashes, 1)
	assert.Equal(t, "saved", page.Flashes[0].Message)
	assert.Empty(t, s.Flashes)
	assert.True(t, page.Nav.LoggedIn)

	anon := NewPage("Title", nil)
	assert.False(t, anon.Nav.LoggedIn)
}

func TestTemplatesParseAndRender(t *testing.T) {
	tmpl, err := NewTemplates()
	require.NoError(t, err)

	var sb strings.Builder
	err = tmpl.ExecuteTemplate(&sb, "patient_billing.tmpl", map[string]any{
		"Title":   "My Bills",
		"Nav":     NavFor(model.RolePatient, "Asha"),
		"Flashes": []session.Flash{{Message: "Payment failed", Kind: "error"}},
		"Bills": []model.Bill{
			{BillID: 5, AppointmentID: 9, Date: "2026-03-10", Amount: 750, Status: model.PaymentStatusUnpaid},
		},
	})
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "Payment failed")
	assert.Contains(t, out, "Rs. 750.00")
	assert.Contains(t, out, "UNPAID")
	assert.Contains(t, out, "Jeevan Hospital")
}

func TestFuncMapDashAndBadge(t *testing.T) {
	dash := funcMap["dash"].(func(string) string)
	assert.Equal(t, "-", dash(""))
	assert.Equal(t, "x", dash("x"))

	badge := funcMap["badge"].(func(any) string)
	assert.Equal(t, "bg-success", badge(model.PaymentStatusPaid))
	assert.Equal(t, "bg-warning text-dark", badge(model.PaymentStatusPending))
	assert.Equal(t, "bg-secondary", badge(model.AppointmentStatusCancelled))
	assert.Equal(t, "bg-info text-dark", badge(model.AppointmentStatusScheduled))
}
