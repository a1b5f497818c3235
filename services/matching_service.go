package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"

	"coffee_closer_server/models"
)

// UserDirectory is the read side of the member directory the engine consumes
type UserDirectory interface {
	GetActiveProfiles(ctx context.Context) ([]models.UserProfile, error)
}

// ChatStore is the coffee-chat persistence the engine reads history from and
// writes new records into
type ChatStore interface {
	GetAllChats(ctx context.Context) ([]models.CoffeeChat, error)
	CreateChat(ctx context.Context, chat models.CoffeeChat) (models.CoffeeChat, error)
}

// Score weights. The total is a ranking signal, not an absolute quality
// measure; only relative order between candidate pairs matters.
const (
	pointsPerSharedIndustry = 20
	pointsSameExperience    = 15
	pointsAdjacentExp       = 10
	pointsSameTimezone      = 25
	pointsAdjacentTimezone  = 15
	pointsPerSharedSlot     = 5
	jitterRange             = 10.0
)

// DefaultRecencyWindowDays is how far back a prior pairing blocks a rematch
const DefaultRecencyWindowDays = 30

// adjacentTimezones lists timezone pairs close enough to score partial
// credit. Symmetric, not transitive: EST/MST is not adjacent.
var adjacentTimezones = map[string]bool{
	pairKey(models.TimezoneEST, models.TimezoneCST): true,
	pairKey(models.TimezoneCST, models.TimezoneMST): true,
	pairKey(models.TimezoneMST, models.TimezonePST): true,
	pairKey(models.TimezoneGMT, models.TimezoneCET): true,
}

// MatchingService runs the weekly pairing batch. Each call works on a fresh
// snapshot; nothing is cached between runs. Overlapping runs are not guarded
// against here — the scheduler is expected to hold the week's lock.
type MatchingService struct {
	Users UserDirectory
	Chats ChatStore

	// Now and Jitter are injectable for tests; nil means time.Now and a
	// uniform draw from [0, 10).
	Now    func() time.Time
	Jitter func() float64
}

// MatchOptions narrows one generation round
type MatchOptions struct {
	Timezones         []string `json:"timezones,omitempty"`
	Industries        []string `json:"industries,omitempty"`
	RecencyWindowDays int      `json:"recencyWindowDays,omitempty"`
}

// MatchResult is one candidate or accepted pairing within a single run
type MatchResult struct {
	User1   models.UserProfile `json:"user1"`
	User2   models.UserProfile `json:"user2"`
	Score   float64            `json:"score"`
	Reasons []string           `json:"reasons"`
}

// GenerationStats summarizes one generation run
type GenerationStats struct {
	EligibleUsers  int `json:"eligibleUsers"`
	CandidatePairs int `json:"candidatePairs"`
	ExcludedRecent int `json:"excludedRecent"`
	MatchedPairs   int `json:"matchedPairs"`
	UnmatchedUsers int `json:"unmatchedUsers"`
}

// GenerationResult is the preview returned to the admin UI before commit
type GenerationResult struct {
	Matches []MatchResult   `json:"matches"`
	Stats   GenerationStats `json:"stats"`
}

// FailedMatch records one pairing whose chat record could not be written
type FailedMatch struct {
	Match MatchResult `json:"match"`
	Error string      `json:"error"`
}

// CreateResult reports per-match persistence outcomes
type CreateResult struct {
	Created []models.CoffeeChat `json:"created"`
	Failed  []FailedMatch       `json:"failed"`
}

func (s *MatchingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MatchingService) jitter() float64 {
	if s.Jitter != nil {
		return s.Jitter()
	}
	return rand.Float64() * jitterRange
}

// GenerateMatches computes a full pairing round without persisting anything.
// Directory or history fetch failures abort the run; an empty or singleton
// eligible population yields zero matches.
func (s *MatchingService) GenerateMatches(ctx context.Context, opts MatchOptions) (*GenerationResult, error) {
	profiles, err := s.Users.GetActiveProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user directory: %w", err)
	}

	eligible := filterEligible(profiles, opts)
	for _, p := range eligible {
		if p.UserID == "" || p.Name == "" {
			return nil, fmt.Errorf("malformed profile in directory: userId=%q name=%q", p.UserID, p.Name)
		}
	}

	chats, err := s.Chats.GetAllChats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat history: %w", err)
	}

	windowDays := opts.RecencyWindowDays
	if windowDays <= 0 {
		windowDays = DefaultRecencyWindowDays
	}
	recent := recentPairKeys(chats, s.now(), windowDays)

	var candidates []MatchResult
	excluded := 0
	for i := 0; i < len(eligible); i++ {
		for j := i + 1; j < len(eligible); j++ {
			if recent[pairKey(eligible[i].UserID, eligible[j].UserID)] {
				excluded++
				continue
			}
			score, reasons := s.scorePair(eligible[i], eligible[j])
			candidates = append(candidates, MatchResult{
				User1:   eligible[i],
				User2:   eligible[j],
				Score:   score,
				Reasons: reasons,
			})
		}
	}

	matches := greedyPair(candidates)

	stats := GenerationStats{
		EligibleUsers:  len(eligible),
		CandidatePairs: len(candidates),
		ExcludedRecent: excluded,
		MatchedPairs:   len(matches),
		UnmatchedUsers: len(eligible) - 2*len(matches),
	}

	log.Printf("✅ Generated %d matches from %d eligible users (%d candidate pairs, %d excluded as recent)",
		stats.MatchedPairs, stats.EligibleUsers, stats.CandidatePairs, stats.ExcludedRecent)

	return &GenerationResult{Matches: matches, Stats: stats}, nil
}

// CreateCoffeeChats materializes an accepted match list as chat records.
// Each write is attempted independently; one store failure never aborts the
// rest of the batch and committed records are not rolled back.
func (s *MatchingService) CreateCoffeeChats(ctx context.Context, matches []MatchResult) *CreateResult {
	result := &CreateResult{}

	for _, match := range matches {
		chat, err := s.Chats.CreateChat(ctx, s.buildChat(match))
		if err != nil {
			log.Printf("⚠️ Failed to create coffee chat for %s & %s: %v", match.User1.Name, match.User2.Name, err)
			result.Failed = append(result.Failed, FailedMatch{Match: match, Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, chat)
	}

	return result
}

// filterEligible applies the active-member gate plus the optional timezone
// and industry allow-lists. Pure; an empty directory yields an empty result.
func filterEligible(profiles []models.UserProfile, opts MatchOptions) []models.UserProfile {
	timezones := toSet(opts.Timezones)
	industries := toSet(opts.Industries)

	var eligible []models.UserProfile
	for _, p := range profiles {
		if !p.ActiveMember {
			continue
		}
		if len(timezones) > 0 && !timezones[p.Timezone.String()] {
			continue
		}
		if len(industries) > 0 && !intersects(p.IndustryFocus, industries) {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}

// pairKey builds an order-independent key for a user pair. The ids are
// sorted before joining so (A,B) and (B,A) collide.
func pairKey(id1, id2 string) string {
	if id1 > id2 {
		id1, id2 = id2, id1
	}
	return id1 + "#" + id2
}

// recentPairKeys collects the unordered pairs matched on or after
// now − windowDays. The lower bound is inclusive: a chat scheduled exactly
// windowDays ago still blocks a rematch.
func recentPairKeys(chats []models.CoffeeChat, now time.Time, windowDays int) map[string]bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := today.AddDate(0, 0, -windowDays)

	recent := make(map[string]bool)
	for _, chat := range chats {
		scheduled, err := time.ParseInLocation("2006-01-02", chat.ScheduledDate, now.Location())
		if err != nil {
			log.Printf("⚠️ Skipping chat %s with unparseable date %q", chat.ChatID, chat.ScheduledDate)
			continue
		}
		if !scheduled.Before(cutoff) {
			recent[pairKey(chat.Participant1, chat.Participant2)] = true
		}
	}
	return recent
}

// scorePair computes the weighted compatibility score and its explanation.
// The deterministic portion is a pure function of the two profiles; a jitter
// term in [0, 10) is added on top to vary pairings across runs.
func (s *MatchingService) scorePair(u1, u2 models.UserProfile) (float64, []string) {
	score := 0.0
	var reasons []string

	if shared := sharedValues(u1.IndustryFocus, u2.IndustryFocus); len(shared) > 0 {
		score += float64(pointsPerSharedIndustry * len(shared))
		reasons = append(reasons, "Shared industries: "+strings.Join(shared, ", "))
	}

	exp1 := experienceIndex(u1.ExperienceLevel.String())
	exp2 := experienceIndex(u2.ExperienceLevel.String())
	if exp1 >= 0 && exp2 >= 0 {
		switch diff := abs(exp1 - exp2); diff {
		case 0:
			score += pointsSameExperience
			reasons = append(reasons, "Same experience level")
		case 1:
			score += pointsAdjacentExp
			reasons = append(reasons, "Similar experience level")
		}
	}

	tz1 := u1.Timezone.String()
	tz2 := u2.Timezone.String()
	if tz1 != "" && tz1 == tz2 {
		score += pointsSameTimezone
		reasons = append(reasons, "Same timezone")
	} else if adjacentTimezones[pairKey(tz1, tz2)] {
		score += pointsAdjacentTimezone
		reasons = append(reasons, "Compatible timezones")
	}

	if shared := sharedValues(u1.Availability, u2.Availability); len(shared) > 0 {
		score += float64(pointsPerSharedSlot * len(shared))
		if len(shared) > 2 {
			reasons = append(reasons, "Multiple matching availability slots")
		}
	}

	return score + s.jitter(), reasons
}

// greedyPair accepts candidate pairs in score-descending order, skipping any
// pair whose participant was already consumed. A greedy approximation of
// maximum-weight matching; an odd population leaves one user unmatched.
func greedyPair(candidates []MatchResult) []MatchResult {
	sorted := make([]MatchResult, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	consumed := make(map[string]bool)
	var matches []MatchResult
	for _, c := range sorted {
		if consumed[c.User1.UserID] || consumed[c.User2.UserID] {
			continue
		}
		consumed[c.User1.UserID] = true
		consumed[c.User2.UserID] = true
		matches = append(matches, c)
	}
	return matches
}

// buildChat synthesizes the persistable record for an accepted match
func (s *MatchingService) buildChat(match MatchResult) models.CoffeeChat {
	scheduled := nextMonday(s.now())
	return models.CoffeeChat{
		Participant1:  match.User1.UserID,
		Participant2:  match.User2.UserID,
		Title:         fmt.Sprintf("%s & %s Coffee Chat", match.User1.Name, match.User2.Name),
		ScheduledDate: scheduled.Format("2006-01-02"),
		WeekOf:        weekIdentifier(scheduled),
		Status:        models.ChatStatusScheduled,
		AutoGenerated: true,
	}
}

// nextMonday returns the Monday strictly after now; on a Monday it advances a
// full week, so the result never lands on the current day.
func nextMonday(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := (int(time.Monday) - int(today.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDate(0, 0, days)
}

// weekIdentifier formats the ISO week of a date as YYYY-Www
func weekIdentifier(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func experienceIndex(level string) int {
	for i, l := range models.ExperienceLevels {
		if l == level {
			return i
		}
	}
	return -1
}

// sharedValues returns the sorted intersection of two string sets
func sharedValues(a, b []string) []string {
	inB := toSet(b)
	seen := make(map[string]bool)
	var shared []string
	for _, v := range a {
		if inB[v] && !seen[v] {
			seen[v] = true
			shared = append(shared, v)
		}
	}
	sort.Strings(shared)
	return shared
}

func intersects(values []string, set map[string]bool) bool {
	for _, v := range values {
		if set[v] {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
