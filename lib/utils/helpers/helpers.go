package helpers

import (
	"context"
	"strings"
	"time"
)

// ReviewTimeLayout формат отметок времени решений (recommendedAt, rejectedAt)
const ReviewTimeLayout = "02/01/2006, 15:04:05"

var reviewLocation = loadReviewLocation()

func loadReviewLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// FormatReviewTime время в поясе Asia/Kolkata
func FormatReviewTime(t time.Time) string {
	return t.In(reviewLocation).Format(ReviewTimeLayout)
}

// SanitizeFileName заменяет пробельные последовательности на "_"
func SanitizeFileName(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
