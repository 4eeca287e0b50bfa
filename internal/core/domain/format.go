package domain

import (
	"fmt"
	"net/url"

	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const geohashPrecision = 7

var gbPrinter = message.NewPrinter(language.BritishEnglish)

// FormatPrice renders whole pounds with grouping and no decimals: £750,000.
func FormatPrice(price int) string {
	return "£" + gbPrinter.Sprintf("%d", price)
}

// Geohash encodes the listing position (about 150m cells).
func (p PropertyRecord) Geohash() string {
	return geohash.EncodeWithPrecision(p.Latitude, p.Longitude, geohashPrecision)
}

// MapURL builds the embed URL for the detail view map. Without an API key it
// falls back to the plain maps link.
func (p PropertyRecord) MapURL(apiKey string) string {
	q := fmt.Sprintf("%g,%g", p.Latitude, p.Longitude)
	if apiKey == "" {
		return "https://www.google.com/maps?q=" + q + "&z=15"
	}
	return "https://www.google.com/maps/embed/v1/place?key=" + url.QueryEscape(apiKey) + "&q=" + q + "&zoom=15"
}
