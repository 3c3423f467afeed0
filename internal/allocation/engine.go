package allocation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akashvibhute/simlane-web-sub000/internal/availability"
	"github.com/akashvibhute/simlane-web-sub000/internal/errors"
	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

// Params configures a suggestion request.
type Params struct {
	// EventID tags the resulting draft.
	EventID string

	// TeamCount is the desired number of teams. Required, >= 1.
	TeamCount int

	// TeamSize is the ideal team size. Used by validation rules; strategies
	// distribute the whole pool regardless.
	TeamSize int

	// Role is the capability the availability-optimized strategy maximizes
	// overlap for. Defaults to drive.
	Role roster.Role

	// Seed drives the random strategy. The same seed always reproduces the
	// same partition.
	Seed int64
}

// normalize applies defaults.
func (p Params) normalize() Params {
	if p.Role == "" {
		p.Role = roster.RoleDrive
	}
	return p
}

// validate checks the request against the pool.
func (p Params) validate(pool roster.Pool) error {
	if len(pool) == 0 {
		return errors.NewAllocationError("cannot suggest teams", errors.ErrEmptyPool)
	}
	if p.TeamCount < 1 {
		return errors.NewValidationError("team count must be at least 1").
			WithField("team_count", p.TeamCount)
	}
	return nil
}

// Suggest produces a candidate partition of the pool using the given
// strategy. The pool is never mutated; callers may invoke Suggest
// concurrently with different strategies over the same pool.
func Suggest(pool roster.Pool, params Params, strategy Strategy) (*Draft, error) {
	params = params.normalize()
	if err := params.validate(pool); err != nil {
		return nil, err
	}

	draft := newDraft(params.EventID, strategy, params.Seed, params.TeamCount)

	switch strategy {
	case StrategySkillBalanced:
		snakeDraft(draft, pool)
	case StrategyAvailabilityOptimized:
		availabilityGreedy(draft, pool, params.Role)
	case StrategyPreferenceGrouped:
		preferenceGrouped(draft, pool)
	case StrategyRandom:
		randomRoundRobin(draft, pool, params.Seed)
	default:
		return nil, errors.NewAllocationError(
			fmt.Sprintf("strategy %q", strategy), errors.ErrUnknownStrategy)
	}

	return draft, nil
}

// SuggestAll evaluates every strategy concurrently and returns one draft per
// strategy for side-by-side comparison. Strategies are stateless, so they
// parallelize trivially.
func SuggestAll(ctx context.Context, pool roster.Pool, params Params) (map[Strategy]*Draft, error) {
	g, _ := errgroup.WithContext(ctx)

	var mu sync.Mutex
	drafts := make(map[Strategy]*Draft, len(Strategies()))

	for _, strategy := range Strategies() {
		strategy := strategy
		g.Go(func() error {
			draft, err := Suggest(pool, params, strategy)
			if err != nil {
				return err
			}
			mu.Lock()
			drafts[strategy] = draft
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return drafts, nil
}

// rankedParticipant pairs a participant with its original pool index, which
// serves as the stable tie-break when skill ratings are equal.
type rankedParticipant struct {
	roster.Participant
	index int
}

// bySkill returns the pool sorted by skill rating descending. Ties keep
// original pool order.
func bySkill(pool roster.Pool) []rankedParticipant {
	ranked := make([]rankedParticipant, len(pool))
	for i, p := range pool {
		ranked[i] = rankedParticipant{Participant: p, index: i}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SkillRating > ranked[j].SkillRating
	})
	return ranked
}

// snakeDraft distributes skill-ranked participants in alternating direction
// (0,1,...,n-1,n-1,...,1,0,...) so cumulative skill stays balanced.
func snakeDraft(draft *Draft, pool roster.Pool) {
	ranked := bySkill(pool)
	n := len(draft.TeamOrder)

	for i, p := range ranked {
		round := i / n
		pos := i % n
		team := pos
		if round%2 == 1 {
			team = n - 1 - pos
		}
		draft.assign(team, p.ID)
	}
}

// availabilityGreedy assigns each participant, in skill order, to the team
// whose current members maximize overlap hours with them. Ties go to the
// smaller team, then to the lower team index.
func availabilityGreedy(draft *Draft, pool roster.Pool, role roster.Role) {
	ranked := bySkill(pool)
	members := make([][]roster.Participant, len(draft.TeamOrder))

	for _, p := range ranked {
		best := 0
		bestOverlap := time.Duration(-1)

		for t := range draft.TeamOrder {
			overlap := availability.GroupOverlap(p.Participant, members[t], role)
			switch {
			case overlap > bestOverlap:
				best, bestOverlap = t, overlap
			case overlap == bestOverlap && len(members[t]) < len(members[best]):
				best = t
			}
		}

		draft.assign(best, p.ID)
		members[best] = append(members[best], p.Participant)
	}
}

// preferenceGrouped clusters participants by preferred car and round-robins
// each cluster across teams. The team cursor carries over between clusters
// so sizes stay balanced.
func preferenceGrouped(draft *Draft, pool roster.Pool) {
	clusters := make(map[string][]string)
	var cars []string
	for _, p := range pool {
		if _, seen := clusters[p.PreferredCar]; !seen {
			cars = append(cars, p.PreferredCar)
		}
		clusters[p.PreferredCar] = append(clusters[p.PreferredCar], p.ID)
	}
	sort.Strings(cars)

	n := len(draft.TeamOrder)
	cursor := 0
	for _, car := range cars {
		for _, pid := range clusters[car] {
			draft.assign(cursor%n, pid)
			cursor++
		}
	}
}

// randomRoundRobin shuffles with the given seed and deals participants out
// in order. Used as a baseline to compare the other strategies against.
func randomRoundRobin(draft *Draft, pool roster.Pool, seed int64) {
	ids := pool.IDs()
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	n := len(draft.TeamOrder)
	for i, pid := range ids {
		draft.assign(i%n, pid)
	}
}
