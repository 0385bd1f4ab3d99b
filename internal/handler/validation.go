package handler

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jeevanhealth/portal/internal/model"
)

// RegisterValidations installs the portal's custom form validations on
// gin's binding engine. Called once during router setup.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("slotdate", validSlotDate); err != nil {
		return err
	}
	return v.RegisterValidation("remarks", validRemarks)
}

// validSlotDate accepts an appointment date that parses and is not in
// the past.
func validSlotDate(fl validator.FieldLevel) bool {
	d, err := time.Parse(model.DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !d.Before(today)
}

// validRemarks requires at least 5 meaningful characters before an
// appointment can be completed.
func validRemarks(fl validator.FieldLevel) bool {
	n := 0
	for _, r := range fl.Field().String() {
		if r != ' ' && r != '\t' && r != '\n' {
			n++
		}
	}
	return n >= 5
}
