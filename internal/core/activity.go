package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryWorkedDay          ActivityCategory = "worked_day"
	CategoryOvertime           ActivityCategory = "overtime"
	CategoryOnCall             ActivityCategory = "on_call"
	CategoryPaidLeave          ActivityCategory = "paid_leave"
	CategoryUnpaidLeave        ActivityCategory = "unpaid_leave"
	CategorySickLeave          ActivityCategory = "sick_leave"
	CategoryRTT                ActivityCategory = "rtt"
	CategoryRTTRedemption      ActivityCategory = "rtt_redemption"
	CategoryExceptionalAbsence ActivityCategory = "exceptional_absence"
)

type (
	// ActivityCategory tags a time entry. The set is fixed; bucket
	// membership lives in buckets.go.
	ActivityCategory string

	Date struct {
		time.Time
	}

	// Month identifies a calendar month. Core operations take it
	// explicitly; boundaries default it to the current month.
	Month struct {
		Year  int
		Month time.Month
	}

	// Activity is one submitted time entry. Quantity is integer hours.
	// The mission link is fixed at creation by MatchMission and never
	// changes afterwards.
	Activity struct {
		ID           int64
		Date         Date
		Quantity     int
		Category     ActivityCategory
		Comment      string
		Collaborator *Collaborator
		Mission      *Mission
	}

	Collaborator struct {
		ID        int64
		FirstName string
		LastName  string
		Email     string
	}

	Customer struct {
		ID      int64
		Name    string
		Address string
	}

	// Society is the billing legal entity. Exactly one record is
	// expected system-wide.
	Society struct {
		ID      int64
		Name    string
		Address string
		VATID   string
	}

	// Mission is a commercial engagement window assigning a
	// collaborator to a customer. Window bounds are inclusive.
	Mission struct {
		ID           int64
		Name         string
		StartDate    Date
		EndDate      Date
		Customer     *Customer
		Collaborator *Collaborator
	}

	// Invoice is the persisted record of one generated document.
	Invoice struct {
		ID           int64
		Name         string
		CreatedAt    Date
		Customer     *Customer
		Collaborator *Collaborator
		// MonthYear is the first day of the billed month.
		MonthYear Date
	}
)

var (
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrMissingDate      = errors.New("missing date")
	ErrNoCollaborator   = errors.New("activity has no collaborator")
	ErrInvalidWindow    = errors.New("mission end date before start date")
	ErrCommentTooLong   = errors.New("comment too long (max 500 characters)")
)

var allCategories = []ActivityCategory{
	CategoryWorkedDay,
	CategoryOvertime,
	CategoryOnCall,
	CategoryPaidLeave,
	CategoryUnpaidLeave,
	CategorySickLeave,
	CategoryRTT,
	CategoryRTTRedemption,
	CategoryExceptionalAbsence,
}

// Categories returns every known activity category.
func Categories() []ActivityCategory {
	out := make([]ActivityCategory, len(allCategories))
	copy(out, allCategories)
	return out
}

func (c ActivityCategory) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MonthOf returns the calendar month containing d.
func (d Date) MonthOf() Month {
	return Month{Year: d.Time.Year(), Month: d.Time.Month()}
}

// CurrentMonth returns the month containing now.
func CurrentMonth(now time.Time) Month {
	return Month{Year: now.Year(), Month: now.Month()}
}

// FirstDay returns the first day of the month as a Date.
func (m Month) FirstDay() Date {
	return NewDate(m.Year, m.Month, 1)
}

// Contains reports whether d falls inside the month.
func (m Month) Contains(d Date) bool {
	return d.Time.Year() == m.Year && d.Time.Month() == m.Month
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (a Activity) Validate() error {
	if a.Date.IsZero() {
		return ErrMissingDate
	}
	if a.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if !a.Category.Valid() {
		return ErrInvalidCategory
	}
	if len(strings.TrimSpace(a.Comment)) > 500 {
		return ErrCommentTooLong
	}
	if a.Collaborator == nil {
		return ErrNoCollaborator
	}
	return nil
}

func (m Mission) Validate() error {
	if m.StartDate.IsZero() || m.EndDate.IsZero() {
		return ErrMissingDate
	}
	if m.EndDate.Before(m.StartDate.Time) {
		return ErrInvalidWindow
	}
	return nil
}

// Covers reports whether d falls inside the mission window, bounds
// inclusive.
func (m Mission) Covers(d Date) bool {
	return !d.Before(m.StartDate.Time) && !d.After(m.EndDate.Time)
}
