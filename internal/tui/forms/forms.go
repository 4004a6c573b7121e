// Package forms holds the huh forms used to enter habit templates and
// registration details.
package forms

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/models"
)

// TemplateFields are the raw form values for a habit template.
type TemplateFields struct {
	Name     string
	Points   string
	Category string
	Quantity string
	Unit     string
}

// FieldsFor prefills the form from an existing template.
func FieldsFor(h models.Habit) TemplateFields {
	f := TemplateFields{
		Name:     h.Name,
		Points:   strconv.Itoa(h.Points),
		Category: h.Category,
		Unit:     h.Quantity.Unit,
	}
	if h.Quantity.Value != 0 {
		f.Quantity = strconv.Itoa(h.Quantity.Value)
	}
	return f
}

func NewTemplateForm(f *TemplateFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&f.Name).
				Validate(ValidateName),
			huh.NewInput().
				Title("Points").
				Description("Negative for habits you want to avoid").
				Value(&f.Points).
				Validate(ValidatePoints),
			huh.NewInput().
				Title("Category").
				Value(&f.Category).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("category cannot be empty")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Quantity").
				Description("Optional, e.g. 30").
				Value(&f.Quantity).
				Validate(ValidateQuantity),
			huh.NewInput().
				Title("Unit").
				Description("Optional, e.g. minutes").
				Value(&f.Unit),
		),
	).WithTheme(huh.ThemeDracula())
}

func ValidateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("habit name cannot be empty")
	}
	return nil
}

func ValidatePoints(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("points must be a whole number")
	}
	return nil
}

func ValidateQuantity(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("quantity must be a positive whole number")
	}
	return nil
}

// Habit converts the fields into a template with the given id. The kind
// follows the sign of the points.
func (f TemplateFields) Habit(id string) (models.Habit, error) {
	if err := ValidateName(f.Name); err != nil {
		return models.Habit{}, err
	}
	if err := ValidatePoints(f.Points); err != nil {
		return models.Habit{}, err
	}
	if err := ValidateQuantity(f.Quantity); err != nil {
		return models.Habit{}, err
	}
	points, _ := strconv.Atoi(strings.TrimSpace(f.Points))
	h := models.Habit{
		ID:       id,
		Name:     strings.TrimSpace(f.Name),
		Points:   points,
		Kind:     config.KindForPoints(points),
		Category: strings.TrimSpace(f.Category),
	}
	if q := strings.TrimSpace(f.Quantity); q != "" {
		h.Quantity.Value, _ = strconv.Atoi(q)
		h.Quantity.Unit = strings.TrimSpace(f.Unit)
	}
	return h, nil
}

type RegistrationFields struct {
	Name  string
	Email string
}

func NewRegistrationForm(f *RegistrationFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Email").
				Value(&f.Email).
				Validate(ValidateEmail),
		),
	).WithTheme(huh.ThemeDracula())
}

func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("invalid email address %q", s)
	}
	return nil
}
