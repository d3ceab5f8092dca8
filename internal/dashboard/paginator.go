package dashboard

import "github.com/vzahanych/weather-dashboard/internal/weather"

// PageView is the visible row window plus what a client needs to render
// pagination controls.
type PageView struct {
	Rows        []weather.DailyRecord `json:"rows"`
	Units       map[string]string     `json:"units,omitempty"`
	CurrentPage int                   `json:"current_page"`
	RowsPerPage int                   `json:"rows_per_page"`
	TotalPages  int                   `json:"total_pages"`
	TotalRows   int                   `json:"total_rows"`
	HasPrev     bool                  `json:"has_prev"`
	HasNext     bool                  `json:"has_next"`
}

// VisibleRows returns data[(page-1)*rows : page*rows], clamped to the data.
// Pages past the end yield an empty slice.
func VisibleRows(data []weather.DailyRecord, currentPage, rowsPerPage int) []weather.DailyRecord {
	if currentPage < 1 || rowsPerPage <= 0 {
		return []weather.DailyRecord{}
	}

	// Bound the page before multiplying so huge page numbers cannot overflow.
	if currentPage-1 >= TotalPages(len(data), rowsPerPage) {
		return []weather.DailyRecord{}
	}

	first := (currentPage - 1) * rowsPerPage
	last := min(first+rowsPerPage, len(data))
	return data[first:last]
}

func TotalPages(totalRows, rowsPerPage int) int {
	if rowsPerPage <= 0 || totalRows <= 0 {
		return 0
	}
	pages := totalRows / rowsPerPage
	if totalRows%rowsPerPage != 0 {
		pages++
	}
	return pages
}

func Paginate(report *weather.Report, currentPage, rowsPerPage int) PageView {
	var data []weather.DailyRecord
	var units map[string]string
	if report != nil {
		data = report.Data
		units = report.Units
	}

	total := TotalPages(len(data), rowsPerPage)

	return PageView{
		Rows:        VisibleRows(data, currentPage, rowsPerPage),
		Units:       units,
		CurrentPage: currentPage,
		RowsPerPage: rowsPerPage,
		TotalPages:  total,
		TotalRows:   len(data),
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < total,
	}
}
