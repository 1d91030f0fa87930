package utils

import "time"

// MinPublicationYear is the earliest accepted publication year (movable type)
const MinPublicationYear = 1450

// MaxPublicationYear allows announced titles dated next year
func MaxPublicationYear() int {
	return time.Now().UTC().Year() + 1
}
