package service

import (
	"strings"
	"time"

	"user-admin-api/internal/domain"
)

// 接受的 ISO-8601 形式；没有时区的按 UTC 处理
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(field, value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Validation(field, field+" must be an ISO Date")
}

// buildQuery 把筛选条件归一化成存储层查询；日期非法或区间颠倒时在查询前失败
func buildQuery(filter *domain.UserFilter, skip, take int) (domain.UserQuery, error) {
	q := domain.UserQuery{Skip: skip, Take: take}
	if filter == nil {
		return q, nil
	}
	q.NameContains = filter.Name
	q.Status = filter.Status

	if filter.FromDate != "" {
		from, err := parseDate("filter.fromDate", filter.FromDate)
		if err != nil {
			return q, err
		}
		q.CreatedFrom = &from
	}
	if filter.ToDate != "" {
		to, err := parseDate("filter.toDate", filter.ToDate)
		if err != nil {
			return q, err
		}
		q.CreatedTo = &to
	}
	if q.CreatedFrom != nil && q.CreatedTo != nil && q.CreatedFrom.After(*q.CreatedTo) {
		return q, domain.Validation("filter.fromDate", "filter.fromDate must be <= filter.toDate")
	}
	return q, nil
}
