package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"sales_call_app_go/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("potential", func(fl validator.FieldLevel) bool {
		return models.IsValidPotential(fl.Field().String())
	}); err != nil {
		log.Fatalf("failed to register potential validation: %v", err)
	}
	if err := v.RegisterValidation("customer_status", func(fl validator.FieldLevel) bool {
		return models.IsValidCustomerStatus(fl.Field().String())
	}); err != nil {
		log.Fatalf("failed to register customer_status validation: %v", err)
	}
	return v
}

// NewCustomerInput is the Add New Customer form
type NewCustomerInput struct {
	Name      string `form:"name" validate:"required"`
	Business  string `form:"business" validate:"required"`
	Phone     string `form:"phone" validate:"required"`
	Email     string `form:"email"`
	Potential string `form:"potential" validate:"required,potential"`
	Status    string `form:"status" validate:"required,customer_status"`
}

var fieldLabels = map[string]string{
	"Name":      "Full Name",
	"Business":  "Business Name",
	"Phone":     "Phone Number",
	"Potential": "Potential Level",
	"Status":    "Status",
}

// ValidationError lists the form fields that failed validation
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "Please fill all required fields: " + strings.Join(e.Fields, ", ")
}

// Normalize trims whitespace so blank input counts as missing
func (in *NewCustomerInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Business = strings.TrimSpace(in.Business)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Potential = strings.ToUpper(strings.TrimSpace(in.Potential))
	in.Status = strings.TrimSpace(in.Status)
}

// Validate returns a *ValidationError when required fields are missing
func (in NewCustomerInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate customer: %w", err)
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		verr.Fields = append(verr.Fields, label)
	}
	return verr
}

// CreateCustomer validates the form and adds the customer under rmCode.
// Nothing is stored when validation fails.
func CreateCustomer(ctx context.Context, store *RecordStore, input NewCustomerInput, rmCode string, now time.Time) (models.Customer, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return models.Customer{}, err
	}

	customer, err := store.AddCustomer(ctx, models.Customer{
		Name:        input.Name,
		Business:    input.Business,
		Phone:       input.Phone,
		Email:       input.Email,
		Potential:   input.Potential,
		Status:      input.Status,
		LastContact: now.Format(models.ContactDateLayout),
		CallCount:   0,
		RMCode:      rmCode,
	})
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to add customer: %w", err)
	}
	return customer, nil
}
