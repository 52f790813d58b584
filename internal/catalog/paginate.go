package catalog

import "github.com/david/market-finder/internal/models"

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Page is one slice of a filtered collection plus its pagination metadata.
type Page struct {
	Data       []models.Market `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// Paginate slices markets into 1-based pages of size limit.
//
// A limit <= 0 means "no limit": the single page holds every record and
// limit echoes the total. A page < 1 is read as page 1. Pages past the end
// return an empty, non-nil Data with the same totals.
func Paginate(markets []models.Market, page, limit int) Page {
	total := len(markets)
	if page < 1 {
		page = 1
	}

	if limit <= 0 {
		p := Page{
			Data:       []models.Market{},
			Pagination: Pagination{Total: total, Page: page, Limit: total},
		}
		if total > 0 {
			p.Pagination.TotalPages = 1
			if page == 1 {
				p.Data = append(p.Data, markets...)
			}
		}
		return p
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	data := []models.Market{}
	if page <= totalPages {
		start := (page - 1) * limit
		end := start + limit
		if end > total {
			end = total
		}
		data = append(data, markets[start:end]...)
	}

	return Page{
		Data: data,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}
