package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusPaused UserStatus = "pause"
)

type CohortStatus string

const (
	CohortStatusPrePhase  CohortStatus = "pre-phase"
	CohortStatusActive    CohortStatus = "active"
	CohortStatusCompleted CohortStatus = "completed"
)

type User struct {
	ID         uuid.UUID  `json:"id"`
	DiscordID  string     `json:"discord_id"`
	Name       string     `json:"name"`
	Nickname   string     `json:"nickname,omitempty"`
	Buddy      string     `json:"buddy,omitempty"`
	TrustCount int        `json:"trust_count"`
	Status     UserStatus `json:"status"`
	Cohorts    []string   `json:"cohorts"`
}

type Habit struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"uid"`
	Name            string    `json:"name"`
	TargetFrequency int       `json:"target_frequency"`
	Cohort          string    `json:"cohort"`
}

type Proof struct {
	ID            uuid.UUID `json:"id"`
	HabitID       uuid.UUID `json:"habit_id"`
	UserID        uuid.UUID `json:"uid"`
	Date          time.Time `json:"date"`
	Unit          string    `json:"unit,omitempty"`
	IsMinimalDose bool      `json:"is_minimal_dose"`
	IsCheatDay    bool      `json:"is_cheat_day"`
}

type WeekRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"uid"`
	WeekNum   int       `json:"week_num"`
	StartDate time.Time `json:"start_date"`
	Score     int       `json:"score"`
}

// Cohort is a time-boxed group challenge ("batch").
type Cohort struct {
	Name      string       `json:"name"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Status    CohortStatus `json:"status"`
}

// PricePoolEntry is one charged habit of one user for one week. Entries are append-only.
type PricePoolEntry struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"uid"`
	HabitID   uuid.UUID       `json:"habit_id"`
	DiscordID string          `json:"discord_id"`
	Cohort    string          `json:"cohort"`
	WeekDate  string          `json:"week_date"`
	Message   string          `json:"message"`
	Price     decimal.Decimal `json:"price"`
}

type PoolResetRecord struct {
	LastResetWeekStart string `json:"lastResetWeekStart"`
}

// WeekWindow is an inclusive local-time period, Monday 00:00 through Sunday end of day.
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

const DateFormat = "2006-01-02"

func (w WeekWindow) StartDate() string {
	return w.Start.Format(DateFormat)
}

func (w WeekWindow) EndDate() string {
	return w.End.Format(DateFormat)
}

// WeekWindowFor returns the Monday..Sunday window containing t, in t's location.
func WeekWindowFor(t time.Time) WeekWindow {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	monday := time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
	nextMonday := monday.AddDate(0, 0, 7)
	return WeekWindow{
		Start: monday,
		End:   nextMonday.Add(-time.Nanosecond),
	}
}
