package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hemope/doador-api/internal/app/models"
)

// serialEpoch is day zero of spreadsheet date serials (1900 date system,
// including its phantom 1900-02-29).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31.
const maxSerial = 2958465

var dateLayouts = []string{
	models.DateLayout,
	"2/1/2006",
	"2-1-2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// NormalizeDate converts a cell value to YYYY-MM-DD. It accepts
// YYYY-MM-DD, DD/MM/YYYY, DD-MM-YYYY and positive spreadsheet serials.
// Anything else yields false; callers treat that as an absent value.
func NormalizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(models.DateLayout), true
		}
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(serial) || serial <= 0 || serial > maxSerial {
		return "", false
	}
	return SerialToDate(serial), true
}

// SerialToDate converts a spreadsheet serial to YYYY-MM-DD. The time-of-day
// fraction is dropped.
func SerialToDate(serial float64) string {
	days := int(math.Floor(serial))
	return serialEpoch.AddDate(0, 0, days).Format(models.DateLayout)
}

// NormalizeSex maps M/MASCULINO/MALE to M and F/FEMININO/FEMALE to F,
// ignoring case and surrounding space.
func NormalizeSex(raw string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "M", "MASCULINO", "MALE":
		return models.SexMale, true
	case "F", "FEMININO", "FEMALE":
		return models.SexFemale, true
	default:
		return "", false
	}
}
