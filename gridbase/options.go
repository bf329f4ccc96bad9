package gridbase

import (
	"fmt"
	"net/url"
	"strconv"
)

// SortField orders a listing by one field.
type SortField struct {
	Field     string
	Direction string // "asc" or "desc"; empty defaults to "asc" server-side
}

// ListOptions are the query parameters of a list operation. The zero value
// lists with the remote's defaults.
type ListOptions struct {
	Fields                []string
	FilterByFormula       string
	MaxRecords            int
	PageSize              int
	Sort                  []SortField
	View                  string
	CellFormat            string
	TimeZone              string
	UserLocale            string
	ReturnFieldsByFieldID bool

	// Offset is the opaque continuation cursor returned by the previous
	// page. Populated automatically by the pagination helpers.
	Offset string
}

// query encodes the options as the request's query string.
func (o ListOptions) query() url.Values {
	q := url.Values{}
	for _, f := range o.Fields {
		q.Add("fields[]", f)
	}
	if o.FilterByFormula != "" {
		q.Set("filterByFormula", o.FilterByFormula)
	}
	if o.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(o.MaxRecords))
	}
	if o.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	for i, s := range o.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		if s.Direction != "" {
			q.Set(fmt.Sprintf("sort[%d][direction]", i), s.Direction)
		}
	}
	if o.View != "" {
		q.Set("view", o.View)
	}
	if o.CellFormat != "" {
		q.Set("cellFormat", o.CellFormat)
	}
	if o.TimeZone != "" {
		q.Set("timeZone", o.TimeZone)
	}
	if o.UserLocale != "" {
		q.Set("userLocale", o.UserLocale)
	}
	if o.ReturnFieldsByFieldID {
		q.Set("returnFieldsByFieldId", "true")
	}
	if o.Offset != "" {
		q.Set("offset", o.Offset)
	}
	return q
}

// params is the normalized parameters object used for cache keys. Only
// non-zero options participate, so logically-equivalent listings share a key
// regardless of how the options struct was populated.
func (o ListOptions) params() map[string]any {
	p := map[string]any{}
	if len(o.Fields) > 0 {
		p["fields"] = o.Fields
	}
	if o.FilterByFormula != "" {
		p["filterByFormula"] = o.FilterByFormula
	}
	if o.MaxRecords > 0 {
		p["maxRecords"] = o.MaxRecords
	}
	if o.PageSize > 0 {
		p["pageSize"] = o.PageSize
	}
	if len(o.Sort) > 0 {
		sorts := make([]map[string]any, len(o.Sort))
		for i, s := range o.Sort {
			entry := map[string]any{"field": s.Field}
			if s.Direction != "" {
				entry["direction"] = s.Direction
			}
			sorts[i] = entry
		}
		p["sort"] = sorts
	}
	if o.View != "" {
		p["view"] = o.View
	}
	if o.CellFormat != "" {
		p["cellFormat"] = o.CellFormat
	}
	if o.TimeZone != "" {
		p["timeZone"] = o.TimeZone
	}
	if o.UserLocale != "" {
		p["userLocale"] = o.UserLocale
	}
	if o.ReturnFieldsByFieldID {
		p["returnFieldsByFieldId"] = true
	}
	if o.Offset != "" {
		p["offset"] = o.Offset
	}
	return p
}

// GetRecordOptions are the display parameters of a single-record read.
type GetRecordOptions struct {
	CellFormat            string
	TimeZone              string
	UserLocale            string
	ReturnFieldsByFieldID bool
}

func (o GetRecordOptions) query() url.Values {
	q := url.Values{}
	if o.CellFormat != "" {
		q.Set("cellFormat", o.CellFormat)
	}
	if o.TimeZone != "" {
		q.Set("timeZone", o.TimeZone)
	}
	if o.UserLocale != "" {
		q.Set("userLocale", o.UserLocale)
	}
	if o.ReturnFieldsByFieldID {
		q.Set("returnFieldsByFieldId", "true")
	}
	return q
}

func (o GetRecordOptions) params() map[string]any {
	p := map[string]any{}
	if o.CellFormat != "" {
		p["cellFormat"] = o.CellFormat
	}
	if o.TimeZone != "" {
		p["timeZone"] = o.TimeZone
	}
	if o.UserLocale != "" {
		p["userLocale"] = o.UserLocale
	}
	if o.ReturnFieldsByFieldID {
		p["returnFieldsByFieldId"] = true
	}
	return p
}
