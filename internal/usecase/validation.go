package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nicksok2413/CRM/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	personNameRe = regexp.MustCompile(`^[\p{L}\s'-]+$`)
	phoneRe      = regexp.MustCompile(`^\+?\d{10,15}$`)
	phoneNoise   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

func ValidateServiceInput(input CreateServiceInput) ValidationErrors {
	var errs ValidationErrors

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	} else if len([]rune(name)) > 200 {
		errs = append(errs, ValidationError{"name", "must not exceed 200 characters"})
	}
	errs = checkAmount(errs, "cost", input.Cost)

	return errs
}

func ValidateCampaignInput(input CreateCampaignInput) ValidationErrors {
	var errs ValidationErrors

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	} else if len([]rune(name)) > 200 {
		errs = append(errs, ValidationError{"name", "must not exceed 200 characters"})
	}

	channel := strings.TrimSpace(input.Channel)
	if channel == "" {
		errs = append(errs, ValidationError{"channel", "is required"})
	} else if len([]rune(channel)) > 100 {
		errs = append(errs, ValidationError{"channel", "must not exceed 100 characters"})
	}

	errs = checkAmount(errs, "budget", input.Budget)
	if strings.TrimSpace(input.ServiceID) == "" {
		errs = append(errs, ValidationError{"service_id", "is required"})
	}

	return errs
}

// ValidateContractInput also returns the parsed dates so callers do not parse twice.
func ValidateContractInput(input CreateContractInput) (start, end time.Time, errs ValidationErrors) {
	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	}
	if strings.TrimSpace(input.ServiceID) == "" {
		errs = append(errs, ValidationError{"service_id", "is required"})
	}
	errs = checkAmount(errs, "amount", input.Amount)

	var err error
	start, err = time.Parse(entity.DateLayout, input.StartDate)
	if err != nil {
		errs = append(errs, ValidationError{"start_date", "must be a valid date (YYYY-MM-DD)"})
	}
	var endErr error
	end, endErr = time.Parse(entity.DateLayout, input.EndDate)
	if endErr != nil {
		errs = append(errs, ValidationError{"end_date", "must be a valid date (YYYY-MM-DD)"})
	}
	if err == nil && endErr == nil && end.Before(start) {
		errs = append(errs, ValidationError{"end_date", "must not be before start_date"})
	}

	return start, end, errs
}

// ValidateLeadInput returns the normalized phone (noise stripped) alongside the errors.
func ValidateLeadInput(input CreateLeadInput) (string, ValidationErrors) {
	var errs ValidationErrors

	errs = checkPersonName(errs, "first_name", input.FirstName)
	errs = checkPersonName(errs, "last_name", input.LastName)

	// a bare mailbox only; display names and angle brackets are rejected
	email := strings.TrimSpace(input.Email)
	if email == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	phone := NormalizePhone(input.Phone)
	if phone != "" && !phoneRe.MatchString(phone) {
		errs = append(errs, ValidationError{"phone", "must contain 10 to 15 digits, optionally prefixed with +"})
	}

	return phone, errs
}

func NormalizePhone(phone string) string {
	return phoneNoise.Replace(strings.TrimSpace(phone))
}

func checkPersonName(errs ValidationErrors, field, value string) ValidationErrors {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return append(errs, ValidationError{field, "is required"})
	case len([]rune(v)) > 100:
		return append(errs, ValidationError{field, "must not exceed 100 characters"})
	case !personNameRe.MatchString(v):
		return append(errs, ValidationError{field, "may contain only letters, spaces, hyphens and apostrophes"})
	}
	return errs
}

func checkAmount(errs ValidationErrors, field string, v decimal.Decimal) ValidationErrors {
	if v.IsNegative() {
		return append(errs, ValidationError{field, "must not be negative"})
	}
	return errs
}
