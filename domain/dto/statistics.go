package dto

type ClassSummary struct {
	Count  int64  `json:"count"`
	Color  string `json:"color"`
	Change int64  `json:"change"`
}

type SummaryResponse struct {
	Date         string                  `json:"date"`
	Total        int64                   `json:"total"`
	MostFrequent []string                `json:"most_frequent"`
	ByClass      map[string]ClassSummary `json:"by_class"`
}

type ClassDayCount struct {
	ClassName string `json:"class_name"`
	Color     string `json:"color"`
	Count     int64  `json:"count"`
}

type WeeklyDay struct {
	Date     string          `json:"date"`
	DayLabel string          `json:"day_label"`
	Total    int64           `json:"total"`
	PerClass []ClassDayCount `json:"per_class"`
}

// PeriodStat omits label and class_color when the query has no facet
type PeriodStat struct {
	DateBucket  string  `json:"date_bucket"`
	Label       *string `json:"label,omitempty"`
	ClassColor  *string `json:"class_color,omitempty"`
	DefectCount int64   `json:"defect_count"`
}

type WorkerStat struct {
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	WorkCount int64  `json:"work_count"`
}
