package model

type GenreAveragePrice struct {
	Genre        string  `bson:"_id" json:"genre"`
	AveragePrice float64 `bson:"avgPrice" json:"avg_price"`
}

type AuthorBookCount struct {
	Author     string `bson:"_id" json:"author"`
	TotalBooks int    `bson:"totalBooks" json:"total_books"`
}

type DecadeCount struct {
	Decade string `bson:"decade" json:"decade"`
	Count  int    `bson:"count" json:"count"`
}

type UpdateCount struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

type IndexKey struct {
	Field     string `json:"field"`
	Direction any    `json:"direction"`
}

type IndexInfo struct {
	Name   string     `json:"name"`
	Keys   []IndexKey `json:"keys"`
	Unique bool       `json:"unique"`
}
