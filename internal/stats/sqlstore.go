package stats

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore persists the activity log in Postgres. Rows without a user_id are
// legacy entries visible to every user, matching MemoryStore semantics.
type SQLStore struct {
	DB *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{DB: db}
}

type eventRow struct {
	ID         int64     `db:"id"`
	UserID     *string   `db:"user_id"`
	EventType  string    `db:"event_type"`
	EventDate  string    `db:"event_date"`
	OccurredAt time.Time `db:"occurred_at"`
	Minutes    int       `db:"minutes"`
	Payload    []byte    `db:"payload"`
}

func (r eventRow) toEvent() Event {
	ev := Event{
		ID:        r.ID,
		Type:      EventType(r.EventType),
		Date:      r.EventDate,
		Timestamp: r.OccurredAt,
		Minutes:   r.Minutes,
	}
	if r.UserID != nil {
		ev.UserID = *r.UserID
	}
	if len(r.Payload) > 0 {
		_ = json.Unmarshal(r.Payload, &ev.Meta)
	}
	return ev
}

func (s *SQLStore) Append(ev Event) error {
	payload, err := json.Marshal(ev.Meta)
	if err != nil {
		return err
	}
	var userID *string
	if ev.UserID != "" {
		userID = &ev.UserID
	}
	_, err = s.DB.Exec(`
INSERT INTO activity_events (id, user_id, event_type, event_date, occurred_at, minutes, payload)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, ev.ID, userID, string(ev.Type), ev.Date, ev.Timestamp.UTC(), ev.Minutes, payload)
	return err
}

func (s *SQLStore) ByUser(userID string) ([]Event, error) {
	rows := []eventRow{}
	err := s.DB.Select(&rows, `
SELECT id, user_id, event_type, event_date, occurred_at, minutes, payload
FROM activity_events
WHERE user_id IS NULL OR user_id = $1
ORDER BY occurred_at ASC, id ASC
`, userID)
	if err != nil {
		return nil, err
	}
	items := make([]Event, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEvent())
	}
	return items, nil
}

func (s *SQLStore) ByUserSince(userID string, since time.Time) ([]Event, error) {
	rows := []eventRow{}
	err := s.DB.Select(&rows, `
SELECT id, user_id, event_type, event_date, occurred_at, minutes, payload
FROM activity_events
WHERE (user_id IS NULL OR user_id = $1) AND occurred_at >= $2
ORDER BY occurred_at ASC, id ASC
`, userID, since.UTC())
	if err != nil {
		return nil, err
	}
	items := make([]Event, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEvent())
	}
	return items, nil
}

func (s *SQLStore) Trim(userID string, max int) error {
	if max < 0 {
		return nil
	}
	_, err := s.DB.Exec(`
DELETE FROM activity_events
WHERE id IN (
  SELECT id FROM activity_events
  WHERE user_id IS NULL OR user_id = $1
  ORDER BY occurred_at DESC, id DESC
  OFFSET $2
)
`, userID, max)
	return err
}

func (s *SQLStore) TotalMinutes(userID string) (int, error) {
	var total int
	err := s.DB.Get(&total, `SELECT total_minutes FROM time_totals WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return total, err
}

func (s *SQLStore) AddMinutes(userID string, delta int) error {
	_, err := s.DB.Exec(`
INSERT INTO time_totals (user_id, total_minutes)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET total_minutes = time_totals.total_minutes + $2
`, userID, delta)
	return err
}

func (s *SQLStore) Reset(userID string) error {
	if _, err := s.DB.Exec(`DELETE FROM activity_events WHERE user_id IS NULL OR user_id = $1`, userID); err != nil {
		return err
	}
	_, err := s.DB.Exec(`DELETE FROM time_totals WHERE user_id = $1`, userID)
	return err
}
