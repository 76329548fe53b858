package redisrepo

import (
	"fmt"
	"strings"
)

const keyPrefix = "ticketing"

func ticketKey(id string) string {
	return fmt.Sprintf("%s:ticket:%s", keyPrefix, id)
}

func paymentKey(paymentID string) string {
	return fmt.Sprintf("%s:payment:%s", keyPrefix, paymentID)
}

func ticketIndexKey() string {
	return fmt.Sprintf("%s:tickets", keyPrefix)
}

func registrationKey(id string) string {
	return fmt.Sprintf("%s:registration:%s", keyPrefix, id)
}

// pendingRegistrationKey length-prefixes the title so titles and emails
// containing ':' cannot map two pairs to one key.
func pendingRegistrationKey(eventTitle, email string) string {
	return fmt.Sprintf("%s:registration:pending:%d:%s:%s", keyPrefix, len(eventTitle), eventTitle, strings.ToLower(email))
}

func orderKey(id string) string {
	return fmt.Sprintf("%s:order:%s", keyPrefix, id)
}
