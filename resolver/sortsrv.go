package resolver

import (
	"math/rand"
	"sort"

	"github.com/dogmatiq/dissolve/wire"
)

// SortSRV orders records by priority (ascending) and shuffles records
// within each priority group by weight, as per RFC 2782. It mutates
// records in place.
func SortSRV(records []wire.SRVRecord) {
	if len(records) <= 1 {
		return
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]

		if a.Priority == b.Priority {
			// RFC: "all those with weight 0 are placed at the beginning of
			// the list" when not yet ordered.
			return a.Weight < b.Weight
		}

		return a.Priority < b.Priority
	})

	i := 0
	p := records[0].Priority
	for j, rec := range records {
		if rec.Priority != p {
			shuffleSRV(records[i:j])
			i = j
			p = rec.Priority
		}
	}

	shuffleSRV(records[i:])
}

// shuffleSRV randomly reorders s according to each record's weight, as per
// RFC 2782's weighted selection algorithm.
func shuffleSRV(s []wire.SRVRecord) {
	var sum int
	for _, rec := range s {
		sum += int(rec.Weight)
	}

	if sum == 0 {
		return
	}

	for i := range s {
		r := rand.Intn(sum + 1)
		a := 0

		for j, rec := range s[i:] {
			a += int(rec.Weight)

			if a >= r {
				s[i], s[i+j] = s[i+j], s[i]
				sum -= int(rec.Weight)
				break
			}
		}
	}
}
