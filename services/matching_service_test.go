package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"coffee_closer_server/models"
)

// Wednesday, March 12 2025. The Monday after it is March 17 (ISO week 12).
var testNow = time.Date(2025, time.March, 12, 10, 30, 0, 0, time.UTC)

type fakeDirectory struct {
	profiles []models.UserProfile
	err      error
}

func (f *fakeDirectory) GetActiveProfiles(ctx context.Context) ([]models.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	var active []models.UserProfile
	for _, p := range f.profiles {
		if p.ActiveMember {
			active = append(active, p)
		}
	}
	return active, nil
}

type fakeChatStore struct {
	chats   []models.CoffeeChat
	created []models.CoffeeChat
	calls   int
	failOn  int // 1-based call number that fails; 0 means never
	listErr error
}

func (f *fakeChatStore) GetAllChats(ctx context.Context) ([]models.CoffeeChat, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.chats, nil
}

func (f *fakeChatStore) CreateChat(ctx context.Context, chat models.CoffeeChat) (models.CoffeeChat, error) {
	f.calls++
	if f.failOn != 0 && f.calls == f.failOn {
		return models.CoffeeChat{}, errors.New("store unavailable")
	}
	chat.ChatID = "chat-" + chat.Participant1 + "-" + chat.Participant2
	f.created = append(f.created, chat)
	return chat, nil
}

func newTestService(dir *fakeDirectory, store *fakeChatStore) *MatchingService {
	return &MatchingService{
		Users:  dir,
		Chats:  store,
		Now:    func() time.Time { return testNow },
		Jitter: func() float64 { return 0 },
	}
}

func profile(id, name, tz, exp string, industries, slots []string) models.UserProfile {
	return models.UserProfile{
		UserID:          id,
		Name:            name,
		ActiveMember:    true,
		Timezone:        models.FieldCode(tz),
		ExperienceLevel: models.FieldCode(exp),
		IndustryFocus:   industries,
		Availability:    slots,
	}
}

func TestFilterEligibleExcludesInactive(t *testing.T) {
	inactive := profile("u1", "Dana", "EST", "3-5", []string{"SaaS"}, nil)
	inactive.ActiveMember = false
	active := profile("u2", "Eli", "EST", "3-5", []string{"SaaS"}, nil)

	eligible := filterEligible([]models.UserProfile{inactive, active}, MatchOptions{})
	if len(eligible) != 1 {
		t.Fatalf("expected 1 eligible user, got %d", len(eligible))
	}
	if eligible[0].UserID != "u2" {
		t.Fatalf("expected u2 to survive the filter, got %s", eligible[0].UserID)
	}
}

func TestFilterEligibleAllowLists(t *testing.T) {
	users := []models.UserProfile{
		profile("u1", "A", "EST", "3-5", []string{"SaaS"}, nil),
		profile("u2", "B", "PST", "3-5", []string{"SaaS"}, nil),
		profile("u3", "C", "EST", "3-5", []string{"Fintech"}, nil),
	}

	byTimezone := filterEligible(users, MatchOptions{Timezones: []string{"EST"}})
	if len(byTimezone) != 2 {
		t.Fatalf("timezone allow-list: expected 2 users, got %d", len(byTimezone))
	}

	byIndustry := filterEligible(users, MatchOptions{Industries: []string{"Fintech"}})
	if len(byIndustry) != 1 || byIndustry[0].UserID != "u3" {
		t.Fatalf("industry allow-list: expected only u3, got %+v", byIndustry)
	}

	if got := filterEligible(nil, MatchOptions{}); len(got) != 0 {
		t.Fatalf("empty directory should yield empty result, got %d", len(got))
	}
}

func TestPairKeySymmetry(t *testing.T) {
	if pairKey("alice", "bob") != pairKey("bob", "alice") {
		t.Fatalf("pair key must be order independent")
	}
	if pairKey("alice", "bob") == pairKey("alice", "carol") {
		t.Fatalf("distinct pairs must not collide")
	}
}

func TestRecentPairKeysWindowBoundary(t *testing.T) {
	atBoundary := models.CoffeeChat{
		ChatID:        "c1",
		Participant1:  "u1",
		Participant2:  "u2",
		ScheduledDate: testNow.AddDate(0, 0, -30).Format("2006-01-02"),
	}
	beyondBoundary := models.CoffeeChat{
		ChatID:        "c2",
		Participant1:  "u3",
		Participant2:  "u4",
		ScheduledDate: testNow.AddDate(0, 0, -31).Format("2006-01-02"),
	}

	recent := recentPairKeys([]models.CoffeeChat{atBoundary, beyondBoundary}, testNow, 30)

	if !recent[pairKey("u2", "u1")] {
		t.Fatalf("chat exactly 30 days back must be treated as recent")
	}
	if recent[pairKey("u3", "u4")] {
		t.Fatalf("chat 31 days back must not be treated as recent")
	}
}

func TestScorePairDeterministicPortion(t *testing.T) {
	svc := newTestService(nil, nil)

	alice := profile("alice", "Alice", "EST", "3-5", []string{"SaaS"}, []string{models.SlotWeekdayMorning})
	bob := profile("bob", "Bob", "EST", "3-5", []string{"SaaS"}, []string{models.SlotWeekdayMorning, models.SlotWeekdayEvening})

	score, reasons := svc.scorePair(alice, bob)
	if score != 65 {
		t.Fatalf("expected deterministic score 65, got %g", score)
	}
	joined := strings.Join(reasons, "; ")
	for _, want := range []string{"Shared industries: SaaS", "Same experience level", "Same timezone"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected reason %q, got %v", want, reasons)
		}
	}
	if strings.Contains(joined, "availability") {
		t.Fatalf("availability reason requires more than 2 shared slots, got %v", reasons)
	}
}

func TestScorePairAdjacency(t *testing.T) {
	svc := newTestService(nil, nil)

	u1 := profile("u1", "A", "EST", "0-2", nil, nil)
	u2 := profile("u2", "B", "CST", "3-5", nil, nil)

	score, reasons := svc.scorePair(u1, u2)
	// Adjacent experience brackets (+10) and adjacent timezones (+15).
	if score != 25 {
		t.Fatalf("expected score 25 for adjacent bracket and timezone, got %g", score)
	}
	joined := strings.Join(reasons, "; ")
	if !strings.Contains(joined, "Similar experience level") || !strings.Contains(joined, "Compatible timezones") {
		t.Fatalf("unexpected reasons: %v", reasons)
	}

	// Adjacency is not transitive: EST and MST score nothing.
	u2.Timezone = models.FieldCode(models.TimezoneMST)
	u2.ExperienceLevel = models.FieldCode("10+")
	if score, _ := svc.scorePair(u1, u2); score != 0 {
		t.Fatalf("expected score 0 for non-adjacent pair, got %g", score)
	}
}

func TestScorePairIndustryMonotonicity(t *testing.T) {
	svc := newTestService(nil, nil)

	u1 := profile("u1", "A", "EST", "3-5", []string{"SaaS"}, nil)
	u2 := profile("u2", "B", "EST", "3-5", []string{"SaaS"}, nil)
	base, _ := svc.scorePair(u1, u2)

	u1.IndustryFocus = append(u1.IndustryFocus, "Fintech")
	u2.IndustryFocus = append(u2.IndustryFocus, "Fintech")
	more, _ := svc.scorePair(u1, u2)

	if more < base {
		t.Fatalf("adding a shared industry dropped the score: %g -> %g", base, more)
	}
	if more-base != pointsPerSharedIndustry {
		t.Fatalf("expected +%d for one extra shared industry, got %g", pointsPerSharedIndustry, more-base)
	}
}

func TestScorePairAvailabilityReason(t *testing.T) {
	svc := newTestService(nil, nil)

	slots := []string{models.SlotWeekdayMorning, models.SlotWeekdayLunch, models.SlotWeekdayEvening}
	u1 := profile("u1", "A", "", "", nil, slots)
	u2 := profile("u2", "B", "", "", nil, slots)

	score, reasons := svc.scorePair(u1, u2)
	if score != 15 {
		t.Fatalf("expected 5 points per shared slot, got %g", score)
	}
	if !strings.Contains(strings.Join(reasons, "; "), "Multiple matching availability slots") {
		t.Fatalf("expected availability reason for 3 shared slots, got %v", reasons)
	}
}

func TestGreedyPairDisjointAndScoreOrdered(t *testing.T) {
	a := profile("a", "A", "", "", nil, nil)
	b := profile("b", "B", "", "", nil, nil)
	c := profile("c", "C", "", "", nil, nil)
	d := profile("d", "D", "", "", nil, nil)

	candidates := []MatchResult{
		{User1: a, User2: b, Score: 40},
		{User1: a, User2: c, Score: 90},
		{User1: b, User2: d, Score: 70},
		{User1: c, User2: d, Score: 60},
		{User1: a, User2: d, Score: 50},
		{User1: b, User2: c, Score: 45},
	}

	matches := greedyPair(candidates)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Score != 90 || matches[1].Score != 70 {
		t.Fatalf("greedy order violated: got scores %g, %g", matches[0].Score, matches[1].Score)
	}

	seen := map[string]bool{}
	for _, m := range matches {
		for _, id := range []string{m.User1.UserID, m.User2.UserID} {
			if seen[id] {
				t.Fatalf("user %s appears in more than one match", id)
			}
			seen[id] = true
		}
	}
}

func TestGenerateMatchesTrivialPopulations(t *testing.T) {
	for _, tc := range []struct {
		name    string
		count   int
		matches int
	}{
		{"empty", 0, 0},
		{"singleton", 1, 0},
		{"pair", 2, 1},
		{"odd five", 5, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var users []models.UserProfile
			names := []string{"Ann", "Ben", "Cam", "Dee", "Edo"}
			for i := 0; i < tc.count; i++ {
				users = append(users, profile(names[i], names[i], "EST", "3-5", []string{"SaaS"}, nil))
			}

			svc := newTestService(&fakeDirectory{profiles: users}, &fakeChatStore{})
			result, err := svc.GenerateMatches(context.Background(), MatchOptions{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Matches) != tc.matches {
				t.Fatalf("expected %d matches, got %d", tc.matches, len(result.Matches))
			}
			if want := tc.count - 2*tc.matches; result.Stats.UnmatchedUsers != want {
				t.Fatalf("expected %d unmatched users, got %d", want, result.Stats.UnmatchedUsers)
			}
		})
	}
}

func TestGenerateMatchesAliceAndBob(t *testing.T) {
	alice := profile("alice", "Alice", "EST", "3-5", []string{"SaaS"}, []string{models.SlotWeekdayMorning})
	bob := profile("bob", "Bob", "EST", "3-5", []string{"SaaS"}, []string{models.SlotWeekdayMorning, models.SlotWeekdayEvening})

	svc := newTestService(&fakeDirectory{profiles: []models.UserProfile{alice, bob}}, &fakeChatStore{})
	result, err := svc.GenerateMatches(context.Background(), MatchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Matches) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(result.Matches))
	}

	match := result.Matches[0]
	if match.Score != 65 {
		t.Fatalf("expected score 65 with zero jitter, got %g", match.Score)
	}
	got := pairKey(match.User1.UserID, match.User2.UserID)
	if got != pairKey("alice", "bob") {
		t.Fatalf("expected Alice and Bob paired, got %s", got)
	}
}

func TestGenerateMatchesInactiveAlice(t *testing.T) {
	alice := profile("alice", "Alice", "EST", "3-5", []string{"SaaS"}, []string{models.SlotWeekdayMorning})
	alice.ActiveMember = false
	bob := profile("bob", "Bob", "EST", "3-5", []string{"SaaS"}, []string{models.SlotWeekdayMorning})

	svc := newTestService(&fakeDirectory{profiles: []models.UserProfile{alice, bob}}, &fakeChatStore{})
	result, err := svc.GenerateMatches(context.Background(), MatchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Matches) != 0 {
		t.Fatalf("expected zero matches with Alice inactive, got %d", len(result.Matches))
	}
}

func TestGenerateMatchesRecencyExclusion(t *testing.T) {
	alice := profile("alice", "Alice", "EST", "3-5", []string{"SaaS"}, nil)
	bob := profile("bob", "Bob", "EST", "3-5", []string{"SaaS"}, nil)
	store := &fakeChatStore{chats: []models.CoffeeChat{{
		ChatID:        "old",
		Participant1:  "bob", // reversed order on purpose
		Participant2:  "alice",
		ScheduledDate: testNow.AddDate(0, 0, -7).Format("2006-01-02"),
	}}}

	svc := newTestService(&fakeDirectory{profiles: []models.UserProfile{alice, bob}}, store)
	result, err := svc.GenerateMatches(context.Background(), MatchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Matches) != 0 {
		t.Fatalf("recently matched pair must be excluded, got %d matches", len(result.Matches))
	}
	if result.Stats.ExcludedRecent != 1 {
		t.Fatalf("expected 1 excluded pair, got %d", result.Stats.ExcludedRecent)
	}
}

func TestGenerateMatchesFetchFailuresAbort(t *testing.T) {
	svc := newTestService(&fakeDirectory{err: errors.New("directory down")}, &fakeChatStore{})
	if _, err := svc.GenerateMatches(context.Background(), MatchOptions{}); err == nil {
		t.Fatalf("expected directory fetch failure to abort the run")
	}

	svc = newTestService(
		&fakeDirectory{profiles: []models.UserProfile{profile("u1", "A", "EST", "3-5", nil, nil)}},
		&fakeChatStore{listErr: errors.New("history down")},
	)
	if _, err := svc.GenerateMatches(context.Background(), MatchOptions{}); err == nil {
		t.Fatalf("expected chat history fetch failure to abort the run")
	}
}

func TestGenerateMatchesMalformedProfile(t *testing.T) {
	nameless := profile("u1", "", "EST", "3-5", nil, nil)
	svc := newTestService(&fakeDirectory{profiles: []models.UserProfile{nameless}}, &fakeChatStore{})
	if _, err := svc.GenerateMatches(context.Background(), MatchOptions{}); err == nil {
		t.Fatalf("expected malformed profile to fail the run")
	}
}

func TestCreateCoffeeChatsPartialFailure(t *testing.T) {
	store := &fakeChatStore{failOn: 2}
	svc := newTestService(&fakeDirectory{}, store)

	matches := []MatchResult{
		{User1: profile("a", "A", "", "", nil, nil), User2: profile("b", "B", "", "", nil, nil), Score: 50},
		{User1: profile("c", "C", "", "", nil, nil), User2: profile("d", "D", "", "", nil, nil), Score: 40},
		{User1: profile("e", "E", "", "", nil, nil), User2: profile("f", "F", "", "", nil, nil), Score: 30},
	}

	result := svc.CreateCoffeeChats(context.Background(), matches)
	if len(result.Created) != 2 {
		t.Fatalf("expected 2 created chats, got %d", len(result.Created))
	}
	if len(result.Failed) != 1 {
		t.Fatalf("expected 1 failed match, got %d", len(result.Failed))
	}
	if result.Failed[0].Match.User1.UserID != "c" {
		t.Fatalf("failed entry should reference the second match, got %s", result.Failed[0].Match.User1.UserID)
	}
	if result.Failed[0].Error == "" {
		t.Fatalf("failed entry must carry the error reason")
	}
}

func TestCreateCoffeeChatsSynthesis(t *testing.T) {
	store := &fakeChatStore{}
	svc := newTestService(&fakeDirectory{}, store)

	matches := []MatchResult{{
		User1: profile("alice", "Alice", "EST", "3-5", nil, nil),
		User2: profile("bob", "Bob", "EST", "3-5", nil, nil),
		Score: 65,
	}}

	result := svc.CreateCoffeeChats(context.Background(), matches)
	if len(result.Created) != 1 {
		t.Fatalf("expected 1 created chat, got %d", len(result.Created))
	}

	chat := result.Created[0]
	if chat.ScheduledDate != "2025-03-17" {
		t.Fatalf("expected next Monday 2025-03-17, got %s", chat.ScheduledDate)
	}
	if chat.WeekOf != "2025-W12" {
		t.Fatalf("expected week 2025-W12, got %s", chat.WeekOf)
	}
	if chat.Title != "Alice & Bob Coffee Chat" {
		t.Fatalf("unexpected title: %s", chat.Title)
	}
	if chat.Status != models.ChatStatusScheduled {
		t.Fatalf("expected status scheduled, got %s", chat.Status)
	}
	if !chat.AutoGenerated {
		t.Fatalf("expected autoGenerated flag set")
	}
}

func TestNextMondayStrictlyAfterNow(t *testing.T) {
	for _, tc := range []struct {
		name string
		now  time.Time
		want string
	}{
		{"wednesday", testNow, "2025-03-17"},
		{"monday advances a full week", time.Date(2025, time.March, 17, 9, 0, 0, 0, time.UTC), "2025-03-24"},
		{"sunday", time.Date(2025, time.March, 16, 23, 0, 0, 0, time.UTC), "2025-03-17"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := nextMonday(tc.now)
			if got.Format("2006-01-02") != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Format("2006-01-02"))
			}
			if got.Weekday() != time.Monday {
				t.Fatalf("result must land on a Monday, got %s", got.Weekday())
			}
			if !got.After(time.Date(tc.now.Year(), tc.now.Month(), tc.now.Day(), 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("result must be strictly after today")
			}
		})
	}
}

func TestWeekIdentifier(t *testing.T) {
	// January 1 2027 falls in ISO week 53 of 2026.
	jan1 := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := weekIdentifier(jan1); got != "2026-W53" {
		t.Fatalf("expected 2026-W53, got %s", got)
	}
	if got := weekIdentifier(time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)); got != "2025-W12" {
		t.Fatalf("expected 2025-W12, got %s", got)
	}
}
