package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

// Subscription gates wardrobe size and the daily generation quota.
type Subscription string

const (
	Free    Subscription = "free"
	Trial   Subscription = "trial"
	Pro     Subscription = "pro"
	ProPlus Subscription = "pro_plus"
)

func (l *Subscription) Scan(value interface{}) error {
	*l = Subscription(value.(string))
	return nil
}

func (l Subscription) Value() (string, error) {
	return string(l), nil
}

// IsPaid reports whether the plan lifts the free tier limits. Trials count
// as paid for quota purposes.
func (l Subscription) IsPaid() bool {
	return l == Trial || l == Pro || l == ProPlus
}

func ValidateSubscription(fl validator.FieldLevel) bool {
	return ValidateSubscriptionRaw(fl.Field().String())
}

func ValidateSubscriptionRaw(value string) bool {
	matched, _ := regexp.MatchString("^(free|trial|pro|pro_plus)$", value)
	return matched
}
