package store

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/beesaferoot/seatctl/internal/models"
)

// SeatMatch is one FindSeats hit.
type SeatMatch struct {
	Room     *models.Room
	Seat     *models.Seat
	Matched  string
	Distance int
}

type seatLabel struct {
	room  *models.Room
	seat  *models.Seat
	label string
}

// FindSeats fuzzy-matches term against room numbers and names, seat numbers
// and assigned employee names on the selected floor. Each seat appears at
// most once, ranked by its closest label.
func (s *Store) FindSeats(term string) []SeatMatch {
	floor := s.SelectedFloor()
	if floor == nil || term == "" {
		return nil
	}

	var labels []seatLabel
	for _, r := range floor.Rooms {
		for _, st := range r.Seats {
			candidates := []string{r.RoomNumber, r.Name, st.SeatNumber}
			for _, e := range st.Employees {
				candidates = append(candidates, e.FullName)
			}
			for _, c := range candidates {
				if c != "" {
					labels = append(labels, seatLabel{room: r, seat: st, label: c})
				}
			}
		}
	}

	targets := make([]string, len(labels))
	for i, l := range labels {
		targets[i] = l.label
	}

	best := make(map[int64]SeatMatch)
	for _, rank := range fuzzy.RankFindNormalizedFold(term, targets) {
		l := labels[rank.OriginalIndex]
		if cur, ok := best[l.seat.ID]; ok && cur.Distance <= rank.Distance {
			continue
		}
		best[l.seat.ID] = SeatMatch{Room: l.room, Seat: l.seat, Matched: l.label, Distance: rank.Distance}
	}

	matches := make([]SeatMatch, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Seat.ID < matches[j].Seat.ID
	})
	return matches
}
