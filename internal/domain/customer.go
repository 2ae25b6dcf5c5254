package domain

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation failed")

type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Validate requires name, email and phone before any checkout call leaves
// the process. Address is optional.
func (c CustomerInfo) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if c.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if c.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	return nil
}
