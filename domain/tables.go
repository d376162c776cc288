package domain

type Table string

const (
	TableListings          Table = "listings"
	TableCounters          Table = "counters"
	TableActivityHistories Table = "activity_histories"
)
