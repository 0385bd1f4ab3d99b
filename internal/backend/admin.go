package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jeevanhealth/portal/internal/model"
)

// Admin namespace: mirrors entity CRUD for doctors, patients, users,
// billing and appointments, plus dashboard counts.

func (c *Client) ListDoctors(ctx context.Context, token string) ([]model.Doctor, error) {
	var doctors []model.Doctor
	if err := c.get(ctx, "/admin/doctors", token, nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (c *Client) GetAdminDoctor(ctx context.Context, token string, id int64) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := c.get(ctx, fmt.Sprintf("/admin/doctors/%d", id), token, nil, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (c *Client) RegisterDoctor(ctx context.Context, token string, req *model.RegisterDoctorRequest) error {
	return c.post(ctx, "/admin/doctors/register", token, req, nil)
}

func (c *Client) UpdateDoctor(ctx context.Context, token string, id int64, req *model.UpdateDoctorRequest) error {
	return c.put(ctx, fmt.Sprintf("/admin/doctors/%d", id), token, req, nil)
}

func (c *Client) DeleteDoctor(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/admin/doctors/%d", id), token)
}

func (c *Client) ListPatients(ctx context.Context, token string) ([]model.Patient, error) {
	var patients []model.Patient
	if err := c.get(ctx, "/admin/patients", token, nil, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (c *Client) GetAdminPatient(ctx context.Context, token string, id int64) (*model.Patient, error) {
	var patient model.Patient
	if err := c.get(ctx, fmt.Sprintf("/admin/patients/%d", id), token, nil, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (c *Client) RegisterPatient(ctx context.Context, token string, req *model.RegisterPatientRequest) error {
	return c.post(ctx, "/admin/patients/register", token, req, nil)
}

func (c *Client) UpdatePatient(ctx context.Context, token string, id int64, req *model.UpdatePatientRequest) error {
	return c.put(ctx, fmt.Sprintf("/admin/patients/%d", id), token, req, nil)
}

func (c *Client) DeletePatient(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/admin/patients/%d", id), token)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, "/admin/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, token string, id int64) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, fmt.Sprintf("/admin/users/%d", id), token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUserIdentity(ctx context.Context, token string, id int64, req *model.UpdateUserIdentityRequest) error {
	return c.put(ctx, fmt.Sprintf("/admin/users/%d/identity", id), token, req, nil)
}

func (c *Client) ResetUserPassword(ctx context.Context, token string, id int64, req *model.ResetPasswordRequest) error {
	return c.post(ctx, fmt.Sprintf("/admin/users/%d/reset-password", id), token, req, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/admin/users/%d", id), token)
}

func (c *Client) RegisterAdmin(ctx context.Context, token, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.post(ctx, "/admin/register", token, body, nil)
}

func (c *Client) ListBills(ctx context.Context, token string) ([]model.Bill, error) {
	var bills []model.Bill
	if err := c.get(ctx, "/admin/billing", token, nil, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (c *Client) PayAdminBill(ctx context.Context, token string, billID int64) error {
	return c.post(ctx, fmt.Sprintf("/admin/billing/%d/pay", billID), token, nil, nil)
}

func (c *Client) ListAppointments(ctx context.Context, token string) ([]model.Appointment, error) {
	var list []model.Appointment
	if err := c.get(ctx, "/admin/appointments", token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetAdminAppointment(ctx context.Context, token string, id int64) (*model.Appointment, error) {
	var appt model.Appointment
	if err := c.get(ctx, fmt.Sprintf("/admin/appointments/%d", id), token, nil, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) CancelAdminAppointment(ctx context.Context, token string, id int64) error {
	return c.post(ctx, fmt.Sprintf("/admin/appointments/%d/cancel", id), token, nil, nil)
}

// Count returns the entity count for one dashboard card; name is one
// of doctors, patients, appointments, bills, users.
func (c *Client) Count(ctx context.Context, token, name string) (int64, error) {
	var count int64
	q := url.Values{"name": {name}}
	if err := c.get(ctx, "/admin/count", token, q, &count); err != nil {
		return 0, err
	}
	return count, nil
}
