package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jeevanhealth/portal/internal/model"
)

func (c *Client) CurrentDoctor(ctx context.Context, token string) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := c.get(ctx, "/doctors/me", token, nil, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (c *Client) GetDoctor(ctx context.Context, token string, id int64) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := c.get(ctx, fmt.Sprintf("/doctors/%d", id), token, nil, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// SearchDoctors performs the keyword search used by the admin booking
// form.
func (c *Client) SearchDoctors(ctx context.Context, token, keyword string) ([]model.Doctor, error) {
	var doctors []model.Doctor
	q := url.Values{"keyword": {keyword}}
	if err := c.get(ctx, "/doctors", token, q, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}
