package model

import "github.com/shopspring/decimal"

// CalendarDay describes one Swedish calendar date as published by the SWEA
// API: bank-day status plus the week, quarter and ultimo markers the bank
// uses to place observations in periods.
type CalendarDay struct {
	Date           Date `json:"date"`
	SwedishBankday bool `json:"swedish_bankday"`
	WeekYear       int  `json:"week_year"`
	WeekNumber     int  `json:"week_number"`
	QuarterNumber  int  `json:"quarter_number"`
	Ultimo         bool `json:"ultimo"`
}

// CrossRateAggregate is one aggregated cross-rate period. SeqNr numbers the
// period within the year (month 1-12, quarter 1-4, and so on).
type CrossRateAggregate struct {
	Year  int             `json:"year"`
	SeqNr int             `json:"seq_nr"`
	Value decimal.Decimal `json:"value"`
}

// ObservationAggregate is one aggregated observation period from the SWEA
// ObservationAggregates endpoints. Ultimo is the value on the period's last
// bank day.
type ObservationAggregate struct {
	Year             int             `json:"year"`
	SeqNr            int             `json:"seq_nr"`
	From             Date            `json:"from"`
	To               Date            `json:"to"`
	Average          decimal.Decimal `json:"average"`
	Min              decimal.Decimal `json:"min"`
	Max              decimal.Decimal `json:"max"`
	Ultimo           decimal.Decimal `json:"ultimo"`
	ObservationCount int             `json:"observation_count"`
}
