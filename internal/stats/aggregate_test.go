package stats

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"cwrapped/internal/model"
)

func at(t *testing.T, ts string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", ts, time.Local)
	if err != nil {
		t.Fatalf("parse time %q: %v", ts, err)
	}
	return parsed
}

type recOpt func(*model.MessageRecord)

func withModel(m string) recOpt {
	return func(r *model.MessageRecord) { r.Model = m }
}

func withTokens(in, out, cacheWrite, cacheRead int64) recOpt {
	return func(r *model.MessageRecord) {
		r.InputTokens = in
		r.OutputTokens = out
		r.CacheCreationTokens = cacheWrite
		r.CacheReadTokens = cacheRead
	}
}

func withProject(p string) recOpt {
	return func(r *model.MessageRecord) { r.Project = p }
}

func withTool(name, server string) recOpt {
	return func(r *model.MessageRecord) {
		r.ToolName = name
		r.MCPServer = server
	}
}

func rec(t *testing.T, ts string, role model.Role, session string, opts ...recOpt) model.MessageRecord {
	t.Helper()
	r := model.MessageRecord{
		Timestamp: at(t, ts),
		Role:      role,
		SessionID: session,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func yearPtr(y int) *int { return &y }

func TestAggregate_SingleRecord(t *testing.T) {
	records := []model.MessageRecord{
		rec(t, "2025-03-01 10:30", model.RoleAssistant, "s1",
			withModel("claude-sonnet-4-5-20250522"),
			withTokens(10, 5, 0, 0),
			withProject("gitlore")),
	}

	s, err := aggregateAt(records, nil, at(t, "2025-03-05 12:00"))
	if err != nil {
		t.Fatal(err)
	}

	if s.TotalMessages != 1 {
		t.Errorf("TotalMessages = %d, want 1", s.TotalMessages)
	}
	if s.ActiveDays != 1 {
		t.Errorf("ActiveDays = %d, want 1", s.ActiveDays)
	}
	if s.StreakLongest != 1 {
		t.Errorf("StreakLongest = %d, want 1", s.StreakLongest)
	}
	if s.TotalSessions != 1 || s.TotalProjects != 1 {
		t.Errorf("sessions/projects = %d/%d, want 1/1", s.TotalSessions, s.TotalProjects)
	}
	if s.TotalTokens != 15 {
		t.Errorf("TotalTokens = %d, want 15", s.TotalTokens)
	}

	// Sonnet 4.5 rates applied to 10 input + 5 output tokens.
	if s.EstimatedCost == nil {
		t.Fatal("EstimatedCost = nil, want value")
	}
	want := 10*3.00/1_000_000 + 5*15.00/1_000_000
	if math.Abs(*s.EstimatedCost-want) > 1e-12 {
		t.Errorf("EstimatedCost = %.9f, want %.9f", *s.EstimatedCost, want)
	}
	if got := s.CostByModel["Sonnet 4.5"]; math.Abs(got-want) > 1e-12 {
		t.Errorf("CostByModel[Sonnet 4.5] = %.9f, want %.9f", got, want)
	}
	if s.PrimaryModel != "Sonnet 4.5" {
		t.Errorf("PrimaryModel = %q", s.PrimaryModel)
	}

	// 2025-03-01 is a Saturday (Monday=0 indexing → 5), hour 10.
	if s.WeekdayDistribution[5] != 1 {
		t.Errorf("WeekdayDistribution = %v, want Saturday slot", s.WeekdayDistribution)
	}
	if s.HourlyDistribution[10] != 1 {
		t.Errorf("HourlyDistribution[10] = %d, want 1", s.HourlyDistribution[10])
	}

	if s.AvgMessagesPerDay != 1.0 {
		t.Errorf("AvgMessagesPerDay = %f, want 1.0 (one-day span)", s.AvgMessagesPerDay)
	}
}

func TestAggregate_StreakScenario(t *testing.T) {
	var records []model.MessageRecord
	for _, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-06"} {
		records = append(records, rec(t, d+" 09:00", model.RoleUser, "s-"+d))
	}

	// Evaluated on Jan 10 of the same year: the Jan 6 run is stale.
	s, err := aggregateAt(records, yearPtr(2025), at(t, "2025-01-10 08:00"))
	if err != nil {
		t.Fatal(err)
	}
	if s.StreakLongest != 3 {
		t.Errorf("StreakLongest = %d, want 3", s.StreakLongest)
	}
	if s.StreakCurrent != 0 {
		t.Errorf("StreakCurrent = %d, want 0", s.StreakCurrent)
	}
	if s.StreakLongestStart == nil || s.StreakLongestStart.Day() != 1 || s.StreakLongestEnd.Day() != 3 {
		t.Errorf("longest run bounds = %v..%v, want Jan 1..Jan 3", s.StreakLongestStart, s.StreakLongestEnd)
	}

	// Evaluated on Jan 6: the last active day is today, so it is current.
	s, err = aggregateAt(records, yearPtr(2025), at(t, "2025-01-06 23:00"))
	if err != nil {
		t.Fatal(err)
	}
	if s.StreakCurrent != 1 {
		t.Errorf("StreakCurrent = %d, want 1", s.StreakCurrent)
	}
}

func TestAggregate_PastYearHasNoCurrentStreak(t *testing.T) {
	records := []model.MessageRecord{
		rec(t, "2024-12-30 10:00", model.RoleUser, "s1"),
		rec(t, "2024-12-31 10:00", model.RoleUser, "s1"),
	}
	s, err := aggregateAt(records, yearPtr(2024), at(t, "2025-06-01 12:00"))
	if err != nil {
		t.Fatal(err)
	}
	if s.StreakLongest != 2 {
		t.Errorf("StreakLongest = %d, want 2", s.StreakLongest)
	}
	if s.StreakCurrent != 0 {
		t.Errorf("StreakCurrent = %d, want 0 for a closed year", s.StreakCurrent)
	}
}

func TestAggregate_LongestConversationPrefersMessages(t *testing.T) {
	var records []model.MessageRecord
	// Session A: 50 messages, 2000 tokens.
	for i := 0; i < 50; i++ {
		records = append(records, rec(t, fmt.Sprintf("2025-02-01 %02d:00", i%24), model.RoleUser, "A",
			withTokens(40, 0, 0, 0)))
	}
	// Session B: 80 messages, 1500 tokens.
	for i := 0; i < 80; i++ {
		var tokens int64
		if i < 75 {
			tokens = 20
		}
		records = append(records, rec(t, fmt.Sprintf("2025-02-02 %02d:00", i%24), model.RoleUser, "B",
			withTokens(tokens, 0, 0, 0)))
	}

	s, err := aggregateAt(records, nil, at(t, "2025-02-10 12:00"))
	if err != nil {
		t.Fatal(err)
	}
	if s.LongestConversationMessages != 80 {
		t.Errorf("LongestConversationMessages = %d, want 80 (message count beats token count)",
			s.LongestConversationMessages)
	}
	if s.LongestConversationTokens != 1500 {
		t.Errorf("LongestConversationTokens = %d, want 1500", s.LongestConversationTokens)
	}
	if s.LongestConversationDate == nil || s.LongestConversationDate.Day() != 2 {
		t.Errorf("LongestConversationDate = %v, want Feb 2", s.LongestConversationDate)
	}
}

func TestAggregate_UnknownModelFailsSoft(t *testing.T) {
	records := []model.MessageRecord{
		rec(t, "2025-04-01 10:00", model.RoleAssistant, "s1",
			withModel("mystery-model-9000"),
			withTokens(100, 50, 0, 0)),
	}
	s, err := aggregateAt(records, nil, at(t, "2025-04-02 12:00"))
	if err != nil {
		t.Fatal(err)
	}

	if s.TotalTokens != 150 {
		t.Errorf("TotalTokens = %d, want 150 (tokens still counted)", s.TotalTokens)
	}
	if s.EstimatedCost != nil {
		t.Errorf("EstimatedCost = %v, want nil (unavailable, not zero)", *s.EstimatedCost)
	}
	if s.AvgCostPerDay != nil {
		t.Error("AvgCostPerDay should inherit the unavailable sentinel")
	}
	if len(s.CostByModel) != 0 {
		t.Errorf("CostByModel = %v, want empty", s.CostByModel)
	}
	// The model still shows up in usage counts under its raw name.
	if s.ModelsUsed.Get("mystery-model-9000") != 1 {
		t.Errorf("ModelsUsed = %+v, want the unknown model counted", s.ModelsUsed)
	}
}

func TestAggregate_EmptyAfterFilter(t *testing.T) {
	records := []model.MessageRecord{
		rec(t, "2024-06-01 10:00", model.RoleUser, "s1"),
	}
	_, err := aggregateAt(records, yearPtr(2025), at(t, "2025-06-01 12:00"))
	if !errors.Is(err, ErrNoActivity) {
		t.Fatalf("err = %v, want ErrNoActivity", err)
	}

	_, err = aggregateAt(nil, nil, at(t, "2025-06-01 12:00"))
	if !errors.Is(err, ErrNoActivity) {
		t.Fatalf("err = %v, want ErrNoActivity for empty input", err)
	}
}

func TestAggregate_ToolSubRecordsDoNotDoubleCount(t *testing.T) {
	records := []model.MessageRecord{
		rec(t, "2025-05-01 14:00", model.RoleUser, "s1", withProject("api")),
		rec(t, "2025-05-01 14:01", model.RoleAssistant, "s1",
			withModel("claude-opus-4-5"), withTokens(500, 200, 0, 0), withProject("api")),
		rec(t, "2025-05-01 14:01", model.RoleAssistant, "s1", withTool("Bash", "")),
		rec(t, "2025-05-01 14:01", model.RoleAssistant, "s1", withTool("mcp__github__search", "github")),
	}

	s, err := aggregateAt(records, nil, at(t, "2025-05-02 12:00"))
	if err != nil {
		t.Fatal(err)
	}

	if s.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2 (sub-records are not turns)", s.TotalMessages)
	}
	if sum := s.HourlyDistribution[14]; sum != 2 {
		t.Errorf("HourlyDistribution[14] = %d, want 2", sum)
	}
	if s.TopTools.Get("Bash") != 1 || s.TopTools.Get("mcp__github__search") != 1 {
		t.Errorf("TopTools = %+v", s.TopTools)
	}
	if s.TopMCPs.Get("github") != 1 {
		t.Errorf("TopMCPs = %+v, want github counted", s.TopMCPs)
	}
	if s.TopProjects.Get("api") != 2 {
		t.Errorf("TopProjects = %+v, want api/2", s.TopProjects)
	}
}

func TestAggregate_EditWriteCounters(t *testing.T) {
	edit := rec(t, "2025-05-01 10:00", model.RoleAssistant, "s1", withTool("Edit", ""))
	edit.IsEdit = true
	write := rec(t, "2025-05-01 10:01", model.RoleAssistant, "s1", withTool("Write", ""))
	write.IsWrite = true
	records := []model.MessageRecord{
		rec(t, "2025-05-01 09:59", model.RoleUser, "s1"),
		edit, write,
	}

	s, err := aggregateAt(records, nil, at(t, "2025-05-02 12:00"))
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalEdits != 1 || s.TotalWrites != 1 {
		t.Errorf("edits/writes = %d/%d, want 1/1", s.TotalEdits, s.TotalWrites)
	}
	if s.AvgEditsPerDay != 2.0 {
		t.Errorf("AvgEditsPerDay = %f, want 2.0", s.AvgEditsPerDay)
	}
}

func TestAggregate_TotalsMatchDailyBuckets(t *testing.T) {
	var records []model.MessageRecord
	for i := 0; i < 40; i++ {
		ts := fmt.Sprintf("2025-07-%02d %02d:00", i%9+1, i%24)
		records = append(records, rec(t, ts, model.RoleUser, fmt.Sprintf("s%d", i%4),
			withTokens(int64(i), int64(i*2), 0, int64(i%3))))
	}

	s, err := aggregateAt(records, nil, at(t, "2025-08-01 12:00"))
	if err != nil {
		t.Fatal(err)
	}

	var bucketMessages int
	var bucketTokens int64
	for _, b := range s.DailyStats {
		bucketMessages += b.MessageCount
		bucketTokens += b.TokenCount
	}
	if bucketMessages != s.TotalMessages {
		t.Errorf("daily bucket messages sum to %d, TotalMessages = %d", bucketMessages, s.TotalMessages)
	}
	if bucketTokens != s.TotalTokens {
		t.Errorf("daily bucket tokens sum to %d, TotalTokens = %d", bucketTokens, s.TotalTokens)
	}

	hourSum, weekdaySum := 0, 0
	for _, n := range s.HourlyDistribution {
		hourSum += n
	}
	for _, n := range s.WeekdayDistribution {
		weekdaySum += n
	}
	if hourSum != s.TotalMessages || weekdaySum != s.TotalMessages {
		t.Errorf("distribution sums = %d/%d, want both %d", hourSum, weekdaySum, s.TotalMessages)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	forward := []model.MessageRecord{
		rec(t, "2025-03-01 08:00", model.RoleUser, "s1", withProject("alpha")),
		rec(t, "2025-03-01 09:00", model.RoleAssistant, "s1", withModel("claude-sonnet-4-5"), withTokens(10, 5, 0, 0), withProject("alpha")),
		rec(t, "2025-03-02 10:00", model.RoleUser, "s2", withProject("beta")),
		rec(t, "2025-03-03 11:00", model.RoleUser, "s2", withProject("beta")),
	}

	shuffled := []model.MessageRecord{forward[3], forward[1], forward[0], forward[2]}

	now := at(t, "2025-03-10 12:00")
	a, err := aggregateAt(forward, nil, now)
	if err != nil {
		t.Fatal(err)
	}
	b, err := aggregateAt(shuffled, nil, now)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("aggregation output differs when input order changes")
	}
}

func TestAggregate_LateNightDays(t *testing.T) {
	records := []model.MessageRecord{
		rec(t, "2025-06-01 01:30", model.RoleUser, "s1"),
		rec(t, "2025-06-01 03:00", model.RoleUser, "s1"),
		rec(t, "2025-06-02 12:00", model.RoleUser, "s2"),
		rec(t, "2025-06-03 05:59", model.RoleUser, "s3"),
		rec(t, "2025-06-04 06:00", model.RoleUser, "s4"),
	}
	s, err := aggregateAt(records, nil, at(t, "2025-06-05 12:00"))
	if err != nil {
		t.Fatal(err)
	}
	if s.LateNightDays != 2 {
		t.Errorf("LateNightDays = %d, want 2 (June 1 and June 3)", s.LateNightDays)
	}
}

func TestAggregate_MostActiveDayEarliestOnTie(t *testing.T) {
	records := []model.MessageRecord{
		rec(t, "2025-06-02 10:00", model.RoleUser, "s1"),
		rec(t, "2025-06-02 11:00", model.RoleUser, "s1"),
		rec(t, "2025-06-01 10:00", model.RoleUser, "s2"),
		rec(t, "2025-06-01 11:00", model.RoleUser, "s2"),
	}
	s, err := aggregateAt(records, nil, at(t, "2025-06-05 12:00"))
	if err != nil {
		t.Fatal(err)
	}
	if s.MostActiveDay == nil || s.MostActiveDay.Date.Day() != 1 {
		t.Errorf("MostActiveDay = %+v, want June 1 (earliest wins ties)", s.MostActiveDay)
	}
	if s.MostActiveDay.Messages != 2 {
		t.Errorf("MostActiveDay.Messages = %d, want 2", s.MostActiveDay.Messages)
	}
}

func TestAggregate_MonthlyRollups(t *testing.T) {
	records := []model.MessageRecord{
		rec(t, "2025-01-15 10:00", model.RoleAssistant, "s1",
			withModel("claude-sonnet-4-5"), withTokens(1_000_000, 0, 0, 0)),
		rec(t, "2025-02-15 10:00", model.RoleAssistant, "s2",
			withModel("claude-sonnet-4-5"), withTokens(0, 1_000_000, 0, 0)),
	}
	s, err := aggregateAt(records, nil, at(t, "2025-03-01 12:00"))
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(s.MonthlyCosts["2025-01"]-3.00) > 1e-9 {
		t.Errorf("MonthlyCosts[2025-01] = %f, want 3.00", s.MonthlyCosts["2025-01"])
	}
	if math.Abs(s.MonthlyCosts["2025-02"]-15.00) > 1e-9 {
		t.Errorf("MonthlyCosts[2025-02] = %f, want 15.00", s.MonthlyCosts["2025-02"])
	}
	if s.MonthlyTokens["2025-01"].Input != 1_000_000 {
		t.Errorf("MonthlyTokens[2025-01] = %+v", s.MonthlyTokens["2025-01"])
	}
	if s.MonthlyTokens["2025-02"].Output != 1_000_000 {
		t.Errorf("MonthlyTokens[2025-02] = %+v", s.MonthlyTokens["2025-02"])
	}
}

func TestAggregate_YearFilter(t *testing.T) {
	records := []model.MessageRecord{
		rec(t, "2024-12-31 23:00", model.RoleUser, "old"),
		rec(t, "2025-01-01 00:30", model.RoleUser, "new"),
	}
	s, err := aggregateAt(records, yearPtr(2025), at(t, "2025-06-01 12:00"))
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalMessages != 1 || s.TotalSessions != 1 {
		t.Errorf("messages/sessions = %d/%d, want 1/1", s.TotalMessages, s.TotalSessions)
	}
	// The surviving record sits just past local midnight and must land
	// on Jan 1, not drift to the prior day.
	if _, ok := s.DailyStats["2025-01-01"]; !ok {
		t.Errorf("DailyStats keys = %v, want 2025-01-01", keysOf(s.DailyStats))
	}
}

func keysOf(m map[string]model.DailyBucket) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
