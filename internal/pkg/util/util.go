package util

import (
	"github.com/google/uuid"
)

func GenerateOrderID() string {
	return uuid.New().String()
}

func GeneratePaymentID() string {
	return uuid.New().String()
}

func GenerateBookID() string {
	return uuid.New().String()
}
