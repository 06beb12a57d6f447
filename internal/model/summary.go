package model

// CategoryMinutes is the time spent in one category and subcategory on a
// day, from tasks and duration metrics combined.
type CategoryMinutes struct {
	Date         Date    `db:"date"`
	CategoryID   string  `db:"category_id"`
	CategoryName string  `db:"category_name"`
	SortOrder    int     `db:"sort_order"`
	Subcategory  string  `db:"subcategory"`
	Minutes      float64 `db:"minutes"`
}

// MetricTotal is a non-duration metric value on a day, such as steps.
type MetricTotal struct {
	Date        Date    `db:"date"`
	Key         string  `db:"metric_key"`
	DisplayName string  `db:"display_name"`
	SortOrder   int     `db:"sort_order"`
	Value       float64 `db:"value_num"`
}
