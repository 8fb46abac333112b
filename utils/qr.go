package utils

import (
	"net/url"
	"strings"

	"venue_manager/config"

	"github.com/skip2/go-qrcode"
)

const checkInQRSize = 256

// CheckInURL is what the front-of-house scanner opens for a booking reference.
func CheckInURL(reference string) string {
	base := strings.TrimRight(config.Get().PublicURL, "/")
	return base + "/check-in?ref=" + url.QueryEscape(reference)
}

// CheckInQRCode encodes the check-in URL of a booking as a PNG.
func CheckInQRCode(reference string) ([]byte, error) {
	return qrcode.Encode(CheckInURL(reference), qrcode.Medium, checkInQRSize)
}
