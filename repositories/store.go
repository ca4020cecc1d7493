package repositories

// Store bundles every repository a service needs.
type Store struct {
	Games         GameRepository
	Teams         TeamRepository
	Players       PlayerRepository
	Matches       LiveMatchRepository
	TeamHistory   TeamHistoryRepository
	PlayerHistory PlayerHistoryRepository
	Timers        TimerRepository
}

// NewSQLStore wires the SQL repositories to one executor. The same queries
// run on postgres and sqlite.
func NewSQLStore(db SQLExecutor) *Store {
	return &Store{
		Games:         NewSQLGameRepository(db),
		Teams:         NewSQLTeamRepository(db),
		Players:       NewSQLPlayerRepository(db),
		Matches:       NewSQLLiveMatchRepository(db),
		TeamHistory:   NewSQLTeamHistoryRepository(db),
		PlayerHistory: NewSQLPlayerHistoryRepository(db),
		Timers:        NewSQLTimerRepository(db),
	}
}
