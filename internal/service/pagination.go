package service

import (
	"math"

	"user-admin-api/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// safePage 非有限数或 <=0 -> 1，否则向下取整
func safePage(page float64) int {
	if math.IsNaN(page) || math.IsInf(page, 0) || page <= 0 {
		return defaultPage
	}
	f := math.Floor(page)
	if f < 1 {
		// (0,1) 之间的小数向下取整为 0
		return defaultPage
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// safeLimit 非有限数 -> 10，否则向下取整并夹到 [1,100]
func safeLimit(limit float64) int {
	if math.IsNaN(limit) || math.IsInf(limit, 0) {
		return defaultLimit
	}
	f := math.Floor(limit)
	switch {
	case f < 1:
		return 1
	case f > maxLimit:
		return maxLimit
	}
	return int(f)
}

// pageMeta 只对"返回给调用方的页码"做夹取，查询用的 skip 不受影响
func pageMeta(page, limit int, total int64) domain.PageMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	reported := min(page, totalPages)
	return domain.PageMeta{
		Page:       reported,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    reported < totalPages,
		HasPrev:    reported > 1,
	}
}
