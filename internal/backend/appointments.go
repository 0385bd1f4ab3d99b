package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jeevanhealth/portal/internal/model"
)

func (c *Client) GetAppointment(ctx context.Context, token string, id int64) (*model.Appointment, error) {
	var appt model.Appointment
	if err := c.get(ctx, fmt.Sprintf("/appointments/%d", id), token, nil, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) PatientAppointments(ctx context.Context, token string, patientID int64) ([]model.Appointment, error) {
	var list []model.Appointment
	if err := c.get(ctx, fmt.Sprintf("/appointments/patient/%d", patientID), token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) DoctorAppointments(ctx context.Context, token string, doctorID int64) ([]model.Appointment, error) {
	var list []model.Appointment
	if err := c.get(ctx, fmt.Sprintf("/appointments/doctor/%d", doctorID), token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Slots fetches the free time-slot tokens for a doctor on a date. The
// tokens are opaque; the portal never computes them.
func (c *Client) Slots(ctx context.Context, token string, doctorID int64, date string) ([]string, error) {
	var slots []string
	q := url.Values{"date": {date}}
	if err := c.get(ctx, fmt.Sprintf("/appointments/slots/%d", doctorID), token, q, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *Client) BookAppointment(ctx context.Context, token string, req *model.BookAppointmentRequest) error {
	return c.post(ctx, "/appointments", token, req, nil)
}

func (c *Client) RescheduleAppointment(ctx context.Context, token string, id int64, req *model.BookAppointmentRequest) error {
	return c.put(ctx, fmt.Sprintf("/appointments/%d/reschedule", id), token, req, nil)
}

func (c *Client) CancelAppointment(ctx context.Context, token string, id int64) error {
	return c.put(ctx, fmt.Sprintf("/appointments/%d/cancel", id), token, nil, nil)
}

// UpdateAppointmentStatus marks an appointment completed (or otherwise)
// with the doctor's remarks; the upstream takes both as query params.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, token string, id int64, status model.AppointmentStatus, remarks string) error {
	q := url.Values{"status": {string(status)}, "remarks": {remarks}}
	return c.do(ctx, "PUT", fmt.Sprintf("/appointments/%d/status", id), token, q, nil, nil)
}
