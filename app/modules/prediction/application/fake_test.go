package predictionservice

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictionexports "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/exports"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Prediction Repo
// ------------------------

// FakeRepository is a programmable stub for predictiondb.Repository. Methods
// without a XxxFunc override fall back to a small in-memory store, so tests
// can seed matches and predictions and let the service read them back.
type FakeRepository struct {
	mu    sync.Mutex
	trace []string

	Matches      map[string]*predictiondb.Match
	Predictions  map[string]*predictiondb.Prediction
	Bonus        map[string]*predictiondb.BonusMatch
	Scoring      map[string]*predictiondb.TournamentScoring
	Participants map[string][]string
	Archives     []*predictiondb.MatchdayArchive

	UpsertPredictionFunc         func(ctx context.Context, db bun.IDB, p *predictiondb.Prediction, now time.Time) error
	GetMatchForWriteFunc         func(ctx context.Context, db bun.IDB, tournamentID, matchID string) (*predictiondb.Match, error)
	InsertDefaultPredictionsFunc func(ctx context.Context, db bun.IDB, rows []*predictiondb.Prediction) (int, error)
	UpsertMatchFunc              func(ctx context.Context, db bun.IDB, m *predictiondb.Match) error
	InsertBonusMatchFunc         func(ctx context.Context, db bun.IDB, b *predictiondb.BonusMatch) (bool, error)
	ListUnarchivedMatchdaysFunc  func(ctx context.Context, db bun.IDB) ([]predictiondb.MatchdayRef, error)
	SaveMatchdayArchiveFunc      func(ctx context.Context, db bun.IDB, a *predictiondb.MatchdayArchive) error
}

// NewFakeRepository initializes an empty FakeRepository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		trace:        []string{},
		Matches:      make(map[string]*predictiondb.Match),
		Predictions:  make(map[string]*predictiondb.Prediction),
		Bonus:        make(map[string]*predictiondb.BonusMatch),
		Scoring:      make(map[string]*predictiondb.TournamentScoring),
		Participants: make(map[string][]string),
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func matchKey(tournamentID, matchID string) string { return tournamentID + "/" + matchID }

func predictionKey(tournamentID, matchID, participantID string) string {
	return tournamentID + "/" + matchID + "/" + participantID
}

func bonusKey(tournamentID string, matchday int) string {
	return tournamentID + "/" + strconv.Itoa(matchday)
}

// AddMatch seeds a match.
func (f *FakeRepository) AddMatch(m predictiondomain.Match) {
	row := predictiondb.MatchFromDomain(m)
	f.Matches[matchKey(row.TournamentID, row.ID)] = row
}

// AddPrediction seeds a stored prediction.
func (f *FakeRepository) AddPrediction(p *predictiondb.Prediction) {
	f.Predictions[predictionKey(p.TournamentID, p.MatchID, p.ParticipantID)] = p
}

// --- Repository Interface Implementation ---

func (f *FakeRepository) UpsertPrediction(ctx context.Context, db bun.IDB, p *predictiondb.Prediction, now time.Time) error {
	f.record("UpsertPrediction")
	if f.UpsertPredictionFunc != nil {
		return f.UpsertPredictionFunc(ctx, db, p, now)
	}
	p.SubmittedAt = now
	p.UpdatedAt = now
	f.AddPrediction(p)
	return nil
}

func (f *FakeRepository) GetPrediction(ctx context.Context, db bun.IDB, tournamentID, matchID, participantID string) (*predictiondb.Prediction, error) {
	f.record("GetPrediction")
	p, ok := f.Predictions[predictionKey(tournamentID, matchID, participantID)]
	if !ok {
		return nil, predictiondb.ErrNotFound
	}
	return p, nil
}

func (f *FakeRepository) ListPredictions(ctx context.Context, db bun.IDB, tournamentID string, matchIDs []string) ([]predictiondb.Prediction, error) {
	f.record("ListPredictions")
	out := []predictiondb.Prediction{}
	for _, p := range f.Predictions {
		if p.TournamentID == tournamentID && slices.Contains(matchIDs, p.MatchID) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *FakeRepository) InsertDefaultPredictions(ctx context.Context, db bun.IDB, rows []*predictiondb.Prediction) (int, error) {
	f.record("InsertDefaultPredictions")
	if f.InsertDefaultPredictionsFunc != nil {
		return f.InsertDefaultPredictionsFunc(ctx, db, rows)
	}
	n := 0
	for _, p := range rows {
		k := predictionKey(p.TournamentID, p.MatchID, p.ParticipantID)
		if _, ok := f.Predictions[k]; ok {
			continue
		}
		f.Predictions[k] = p
		n++
	}
	return n, nil
}

func (f *FakeRepository) GetMatch(ctx context.Context, db bun.IDB, tournamentID, matchID string) (*predictiondb.Match, error) {
	f.record("GetMatch")
	m, ok := f.Matches[matchKey(tournamentID, matchID)]
	if !ok {
		return nil, predictiondb.ErrNotFound
	}
	return m, nil
}

func (f *FakeRepository) GetMatchForWrite(ctx context.Context, db bun.IDB, tournamentID, matchID string) (*predictiondb.Match, error) {
	f.record("GetMatchForWrite")
	if f.GetMatchForWriteFunc != nil {
		return f.GetMatchForWriteFunc(ctx, db, tournamentID, matchID)
	}
	m, ok := f.Matches[matchKey(tournamentID, matchID)]
	if !ok {
		return nil, predictiondb.ErrNotFound
	}
	return m, nil
}

func (f *FakeRepository) sortedMatches(keep func(*predictiondb.Match) bool) []predictiondb.Match {
	out := []predictiondb.Match{}
	for _, m := range f.Matches {
		if keep(m) {
			out = append(out, *m)
		}
	}
	slices.SortFunc(out, func(a, b predictiondb.Match) int {
		if a.Matchday != b.Matchday {
			return a.Matchday - b.Matchday
		}
		if c := a.Kickoff.Compare(b.Kickoff); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

func (f *FakeRepository) ListMatchesByMatchday(ctx context.Context, db bun.IDB, tournamentID string, matchday int) ([]predictiondb.Match, error) {
	f.record("ListMatchesByMatchday")
	return f.sortedMatches(func(m *predictiondb.Match) bool {
		return m.TournamentID == tournamentID && m.Matchday == matchday
	}), nil
}

func (f *FakeRepository) ListMatches(ctx context.Context, db bun.IDB, tournamentID string) ([]predictiondb.Match, error) {
	f.record("ListMatches")
	return f.sortedMatches(func(m *predictiondb.Match) bool {
		return m.TournamentID == tournamentID
	}), nil
}

func (f *FakeRepository) UpsertMatch(ctx context.Context, db bun.IDB, m *predictiondb.Match) error {
	f.record("UpsertMatch")
	if f.UpsertMatchFunc != nil {
		return f.UpsertMatchFunc(ctx, db, m)
	}
	f.Matches[matchKey(m.TournamentID, m.ID)] = m
	return nil
}

func (f *FakeRepository) ListBonusMatches(ctx context.Context, db bun.IDB, tournamentID string) ([]predictiondb.BonusMatch, error) {
	f.record("ListBonusMatches")
	out := []predictiondb.BonusMatch{}
	for _, b := range f.Bonus {
		if b.TournamentID == tournamentID {
			out = append(out, *b)
		}
	}
	slices.SortFunc(out, func(a, b predictiondb.BonusMatch) int { return a.Matchday - b.Matchday })
	return out, nil
}

func (f *FakeRepository) InsertBonusMatch(ctx context.Context, db bun.IDB, b *predictiondb.BonusMatch) (bool, error) {
	f.record("InsertBonusMatch")
	if f.InsertBonusMatchFunc != nil {
		return f.InsertBonusMatchFunc(ctx, db, b)
	}
	k := bonusKey(b.TournamentID, b.Matchday)
	if _, ok := f.Bonus[k]; ok {
		return false, nil
	}
	f.Bonus[k] = b
	return true, nil
}

func (f *FakeRepository) GetBonusMatch(ctx context.Context, db bun.IDB, tournamentID string, matchday int) (*predictiondb.BonusMatch, error) {
	f.record("GetBonusMatch")
	b, ok := f.Bonus[bonusKey(tournamentID, matchday)]
	if !ok {
		return nil, predictiondb.ErrNotFound
	}
	return b, nil
}

func (f *FakeRepository) GetScoringConfig(ctx context.Context, db bun.IDB, tournamentID string) (*predictiondb.TournamentScoring, error) {
	f.record("GetScoringConfig")
	cfg, ok := f.Scoring[tournamentID]
	if !ok {
		return nil, predictiondb.ErrNotFound
	}
	return cfg, nil
}

func (f *FakeRepository) UpsertScoringConfig(ctx context.Context, db bun.IDB, cfg *predictiondb.TournamentScoring) error {
	f.record("UpsertScoringConfig")
	f.Scoring[cfg.TournamentID] = cfg
	return nil
}

func (f *FakeRepository) RegisterParticipant(ctx context.Context, db bun.IDB, tournamentID, participantID string) error {
	f.record("RegisterParticipant")
	if !slices.Contains(f.Participants[tournamentID], participantID) {
		f.Participants[tournamentID] = append(f.Participants[tournamentID], participantID)
	}
	return nil
}

func (f *FakeRepository) ListParticipants(ctx context.Context, db bun.IDB, tournamentID string) ([]string, error) {
	f.record("ListParticipants")
	out := slices.Clone(f.Participants[tournamentID])
	slices.Sort(out)
	return out, nil
}

func (f *FakeRepository) ListUnarchivedMatchdays(ctx context.Context, db bun.IDB) ([]predictiondb.MatchdayRef, error) {
	f.record("ListUnarchivedMatchdays")
	if f.ListUnarchivedMatchdaysFunc != nil {
		return f.ListUnarchivedMatchdaysFunc(ctx, db)
	}
	return []predictiondb.MatchdayRef{}, nil
}

func (f *FakeRepository) SaveMatchdayArchive(ctx context.Context, db bun.IDB, a *predictiondb.MatchdayArchive) error {
	f.record("SaveMatchdayArchive")
	if f.SaveMatchdayArchiveFunc != nil {
		return f.SaveMatchdayArchiveFunc(ctx, db, a)
	}
	f.Archives = append(f.Archives, a)
	return nil
}

var _ predictiondb.Repository = (*FakeRepository)(nil)

// ------------------------
// Fake collaborators
// ------------------------

// FakePublisher records published messages by topic.
type FakePublisher struct {
	mu          sync.Mutex
	Published   map[string][]*message.Message
	PublishFunc func(topic string, msgs ...*message.Message) error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: make(map[string][]*message.Message)}
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	if p.PublishFunc != nil {
		return p.PublishFunc(topic, msgs...)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published[topic] = append(p.Published[topic], msgs...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

// Count returns how many messages went to each topic.
func (p *FakePublisher) Count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Published[topic])
}

// FakeClock returns a fixed instant unless NowFn is set.
type FakeClock struct {
	At    time.Time
	NowFn func() time.Time
}

func (c *FakeClock) Now() time.Time {
	if c.NowFn != nil {
		return c.NowFn()
	}
	return c.At
}

// FakeScheduler records scheduled matches.
type FakeScheduler struct {
	Scheduled []predictiondomain.MatchID
	Err       error
}

func (s *FakeScheduler) ScheduleMatchLifecycle(ctx context.Context, match predictiondomain.Match) error {
	s.Scheduled = append(s.Scheduled, match.ID)
	return s.Err
}

// FakeRenderer captures what it was asked to render.
type FakeRenderer struct {
	Reports []predictionexports.StandingsReport
	Series  []predictionexports.PointsSeries
	Err     error
}

func (r *FakeRenderer) StandingsWorkbook(report predictionexports.StandingsReport) ([]byte, error) {
	r.Reports = append(r.Reports, report)
	return []byte("xlsx"), r.Err
}

func (r *FakeRenderer) PointsChart(series predictionexports.PointsSeries) ([]byte, error) {
	r.Series = append(r.Series, series)
	return []byte("png"), r.Err
}

// FakeObjectStore keeps uploaded objects in memory.
type FakeObjectStore struct {
	Objects map[string][]byte
	PutFunc func(ctx context.Context, key, contentType string, body []byte) error
}

func (s *FakeObjectStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	if s.PutFunc != nil {
		return s.PutFunc(ctx, key, contentType, body)
	}
	if s.Objects == nil {
		s.Objects = make(map[string][]byte)
	}
	s.Objects[key] = body
	return nil
}
