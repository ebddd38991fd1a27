package lib

import (
	"regexp"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse is the {success: true} envelope used across the API.
func SuccessResponse() fiber.Map {
	return fiber.Map{"success": true}
}

// FailResponse reports a handled failure with a human-readable reason.
func FailResponse(message string) fiber.Map {
	return fiber.Map{
		"success": false,
		"message": message,
	}
}

var aadhaarFormat = regexp.MustCompile(`^\d{12}$`)

// AadhaarCheck validates an Aadhaar number beyond its 12-digit shape. The
// checksum algorithm is pluggable; the default accepts any well-formed number.
var AadhaarCheck = func(aadhaar string) bool {
	return aadhaarFormat.MatchString(aadhaar)
}

// ValidAadhaarFormat reports whether the number is 12 digits.
func ValidAadhaarFormat(aadhaar string) bool {
	return aadhaarFormat.MatchString(aadhaar)
}
