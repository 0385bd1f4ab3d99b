package backend

import (
	"context"
	"fmt"

	"github.com/jeevanhealth/portal/internal/model"
)

func (c *Client) PatientBills(ctx context.Context, token string, patientID int64) ([]model.Bill, error) {
	var bills []model.Bill
	if err := c.get(ctx, fmt.Sprintf("/bills/patient/%d", patientID), token, nil, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (c *Client) PayBill(ctx context.Context, token string, billID int64) error {
	return c.put(ctx, fmt.Sprintf("/bills/%d/pay", billID), token, nil, nil)
}
