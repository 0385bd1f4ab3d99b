package model

import "sort"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusUnpaid    PaymentStatus = "UNPAID"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Bill mirrors the upstream billing record.
type Bill struct {
	BillID        int64         `json:"billId"`
	AppointmentID int64         `json:"appointmentId"`
	PatientName   string        `json:"patientName,omitempty"`
	Date          string        `json:"billDate"`
	Amount        float64       `json:"billAmount"`
	Status        PaymentStatus `json:"paymentStatus"`
	Description   string        `json:"description,omitempty"`
}

// Outstanding reports whether the bill still awaits payment.
func (b Bill) Outstanding() bool {
	return b.Status == PaymentStatusPending || b.Status == PaymentStatusUnpaid
}

// PartitionBills splits bills into outstanding and settled, preserving
// order within each bucket.
func PartitionBills(bills []Bill) (outstanding, settled []Bill) {
	for _, b := range bills {
		if b.Outstanding() {
			outstanding = append(outstanding, b)
		} else {
			settled = append(settled, b)
		}
	}
	return outstanding, settled
}

// SortBillsForPatient orders pending bills first, then by date
// descending, matching the patient billing view.
func SortBillsForPatient(bills []Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		pi, pj := bills[i].Status == PaymentStatusPending, bills[j].Status == PaymentStatusPending
		if pi != pj {
			return pi
		}
		return bills[i].Date > bills[j].Date
	})
}
