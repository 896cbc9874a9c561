// Package edmTypes holds Go types for the OData Edm primitives that have no direct JSON
// counterpart. Each type marshals to the OData JSON form and can be used as a key value,
// emitting its literal bare.
package edmTypes

import (
	"encoding/json"
	"strconv"
	"time"
)

// Date is an Edm.Date, a calendar date without time zone.
type Date time.Time

// NewDate returns the date of t, dropping time and location.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) String() string {
	return time.Time(d).Format(time.DateOnly)
}

// KeyLiteral returns the date as yyyy-mm-dd.
func (d Date) KeyLiteral() string {
	return d.String()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts yyyy-mm-dd, a date time or unix seconds. An empty string is the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var dateString string
	if err := json.Unmarshal(data, &dateString); err != nil {
		return err
	}

	if dateString == "" {
		dateString = "0001-01-01"
	}

	parsedTime, err := time.Parse(time.DateOnly, dateString)
	if err != nil {
		parsedTime, err = time.Parse(time.RFC3339, dateString)
		if err != nil {
			parsedTime, err = time.Parse(time.DateTime, dateString)
			if err != nil {
				i, err := strconv.ParseInt(dateString, 10, 64)
				if err != nil {
					return err
				}
				parsedTime = time.Unix(i, 0).UTC()
			}
		}
	}

	*d = DateOf(parsedTime)
	return nil
}
