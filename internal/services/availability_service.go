// Package services – AvailabilityService
//
// This file implements the AvailabilityService, which computes the free time
// slots of a screen for one date. It merges the intervals of all active
// reservations, subtracts them from the screen's operating window, and emits
// every start time whose [start, start+duration) fits entirely inside a
// remaining free interval.
//
// The result is a read-only snapshot, not a hold: two callers may both see a
// slot free and race for it. The ReservationService's conflict re-check and
// the storage-layer guard resolve that race; callers must never treat a free
// slot as a reservation guarantee.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
	"github.com/slotcast/go-booking-backend/internal/repo"
)

// dateLayout is the wire and storage format for reservation dates.
const dateLayout = "2006-01-02"

// AvailabilityService computes free slots from the reservation calendar.
// It has no side effects and is safe to call concurrently.
type AvailabilityService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Now allows tests to pin the clock; defaults to time.Now.
	Now func() time.Time
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db, Now: time.Now}
}

// interval is a half-open [start, end) range in minutes from midnight.
type interval struct {
	start, end int
}

// FreeSlots returns the ordered start times (minutes from midnight) at which
// a reservation of durationMin can begin on screenID/date.
//
// Validation:
//   - date must be YYYY-MM-DD and on/after today (UTC).
//   - durationMin must be a positive multiple of the screen's granularity.
//
// Errors: ErrScreenNotFound, ErrValidation, or the underlying DB error.
func (s *AvailabilityService) FreeSlots(ctx context.Context, screenID, date string, durationMin int) ([]int, error) {
	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		return nil, fmt.Errorf("%w: date is in the past", ErrValidation)
	}

	screen, err := repo.GetScreen(ctx, s.DB, screenID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrScreenNotFound
		}
		return nil, err
	}
	if !screen.Active {
		return nil, ErrScreenNotFound
	}
	if durationMin <= 0 || screen.GranularityMin <= 0 || durationMin%screen.GranularityMin != 0 {
		return nil, fmt.Errorf("%w: duration must be a positive multiple of %d minutes",
			ErrValidation, screen.GranularityMin)
	}

	active, err := repo.ListActiveByScreenDate(ctx, s.DB, screenID, date)
	if err != nil {
		return nil, err
	}

	free := subtract(interval{screen.OpenMin, screen.CloseMin}, mergeReservations(active))

	var starts []int
	for _, f := range free {
		// Candidate starts advance on the granularity grid anchored at
		// opening time, the same grid the coordinator validates against.
		start := f.start
		if off := (start - screen.OpenMin) % screen.GranularityMin; off != 0 {
			start += screen.GranularityMin - off
		}
		for ; start+durationMin <= f.end; start += screen.GranularityMin {
			starts = append(starts, start)
		}
	}
	return starts, nil
}

// Screens lists the screens currently accepting reservations, ordered by
// name. Clients use it to discover what can be queried for free slots.
func (s *AvailabilityService) Screens(ctx context.Context) ([]domain.Screen, error) {
	return repo.ListActiveScreens(ctx, s.DB)
}

func (s *AvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// mergeReservations collapses the active reservations into a sorted list of
// disjoint occupied intervals.
func mergeReservations(rs []domain.Reservation) []interval {
	if len(rs) == 0 {
		return nil
	}
	ivs := make([]interval, 0, len(rs))
	for _, r := range rs {
		ivs = append(ivs, interval{r.StartMin, r.EndMin})
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].start < ivs[j].start })

	merged := ivs[:1]
	for _, iv := range ivs[1:] {
		last := &merged[len(merged)-1]
		if iv.start <= last.end {
			if iv.end > last.end {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// subtract removes the occupied intervals from the operating window and
// returns the remaining free intervals in order.
func subtract(window interval, occupied []interval) []interval {
	var free []interval
	cursor := window.start
	for _, o := range occupied {
		if o.end <= cursor || o.start >= window.end {
			continue
		}
		if o.start > cursor {
			free = append(free, interval{cursor, min(o.start, window.end)})
		}
		if o.end > cursor {
			cursor = o.end
		}
	}
	if cursor < window.end {
		free = append(free, interval{cursor, window.end})
	}
	return free
}

// FormatClock renders minutes-from-midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses "HH:MM" into minutes from midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: time must be HH:MM", ErrValidation)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: time out of range", ErrValidation)
	}
	return h*60 + m, nil
}
