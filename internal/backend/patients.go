package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jeevanhealth/portal/internal/model"
)

func (c *Client) CurrentPatient(ctx context.Context, token string) (*model.Patient, error) {
	var patient model.Patient
	if err := c.get(ctx, "/patients/me", token, nil, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (c *Client) UpdateCurrentPatient(ctx context.Context, token string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	var patient model.Patient
	if err := c.put(ctx, "/patients/me", token, req, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (c *Client) GetPatient(ctx context.Context, token string, id int64) (*model.Patient, error) {
	var patient model.Patient
	if err := c.get(ctx, fmt.Sprintf("/patients/%d", id), token, nil, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// SearchPatients performs a keyword search over patients.
func (c *Client) SearchPatients(ctx context.Context, token, keyword string) ([]model.Patient, error) {
	var patients []model.Patient
	q := url.Values{"keyword": {keyword}}
	if err := c.get(ctx, "/patients", token, q, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// FindDoctors is the patient-facing doctor search.
func (c *Client) FindDoctors(ctx context.Context, token, keyword string) ([]model.Doctor, error) {
	var doctors []model.Doctor
	q := url.Values{"keyword": {keyword}}
	if err := c.get(ctx, "/patients/find-doctor", token, q, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}
