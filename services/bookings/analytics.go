package bookings

import (
	"fmt"
	"sort"

	"rentalwheels/models"
)

// Analytics derives spend and usage insights from a user's bookings. The
// completed slice is the Past bucket; totals and groupings are computed over
// it, totalBookings over the full list.
func Analytics(all, completed []models.Booking) models.BookingAnalytics {
	a := models.BookingAnalytics{
		TotalBookings:   len(all),
		MonthlySpending: map[string]float64{},
	}

	for _, b := range completed {
		a.TotalSpent += b.TotalCost
		month := fmt.Sprintf("%04d-%02d", b.StartDate.Year(), int(b.StartDate.Month()))
		a.MonthlySpending[month] += b.TotalCost
	}

	a.AverageRentalDuration = averageDurationDays(completed)
	a.MostRentedCarBrand = mostCommon(completed, func(b models.Booking) string { return b.Car.Make })
	a.PreferredPickupLocation = mostCommon(completed, func(b models.Booking) string { return b.PickupLocation })
	a.FavoriteFeatures = topFeatures(completed, 5)
	return a
}

func averageDurationDays(bs []models.Booking) int {
	if len(bs) == 0 {
		return 0
	}
	var totalDays int64
	for _, b := range bs {
		totalDays += int64(b.EndDate.Sub(b.StartDate).Hours() / 24)
	}
	return int(totalDays / int64(len(bs)))
}

func mostCommon(bs []models.Booking, key func(models.Booking) string) string {
	counts := map[string]int{}
	for _, b := range bs {
		if k := key(b); k != "" {
			counts[k]++
		}
	}
	best, bestCount := "", 0
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best, bestCount = k, c
		}
	}
	return best
}

// topFeatures returns the n most frequent car features across the bookings,
// most frequent first, ties broken lexically.
func topFeatures(bs []models.Booking, n int) []string {
	counts := map[string]int{}
	for _, b := range bs {
		for _, f := range b.Car.Features {
			counts[f]++
		}
	}
	features := make([]string, 0, len(counts))
	for f := range counts {
		features = append(features, f)
	}
	sort.Slice(features, func(i, j int) bool {
		if counts[features[i]] != counts[features[j]] {
			return counts[features[i]] > counts[features[j]]
		}
		return features[i] < features[j]
	})
	if len(features) > n {
		features = features[:n]
	}
	return features
}
