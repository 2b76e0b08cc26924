package utils

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

// PaginationQuery 分页请求参数（原始查询串，允许非数字）
type PaginationQuery struct {
	Page      string `json:"page" form:"page"`
	Limit     string `json:"limit" form:"limit"`
	SortBy    string `json:"sortBy" form:"sortBy"`
	SortOrder string `json:"sortOrder" form:"sortOrder"`
}

// PageOptions 规范化后的分页排序参数
type PageOptions struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	Skip      int    `json:"skip"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// Desc 是否倒序
func (o PageOptions) Desc() bool {
	return o.SortOrder != "asc"
}

// Normalize 规范化分页参数
// 非数字、缺省或小于 1 的 page/limit 取默认值；maxLimit > 0 时限制单页大小
func (p PaginationQuery) Normalize(maxLimit int) PageOptions {
	page := positiveOr(p.Page, DefaultPage)
	limit := positiveOr(p.Limit, DefaultLimit)
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	// 保证 skip 不溢出
	if page-1 > math.MaxInt/limit {
		page = math.MaxInt/limit + 1
	}

	sortBy := strings.TrimSpace(p.SortBy)
	if sortBy == "" {
		sortBy = DefaultSortBy
	}

	sortOrder := strings.ToLower(strings.TrimSpace(p.SortOrder))
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = DefaultSortOrder
	}

	return PageOptions{
		Page:      page,
		Limit:     limit,
		Skip:      (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Pagination 分页元信息
type Pagination struct {
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	TotalPage int   `json:"totalPage"`
}

// PageResult 分页响应结果
type PageResult struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// NewPageResult 组装分页结果
func NewPageResult(data interface{}, total int64, opts PageOptions) *PageResult {
	return &PageResult{
		Data: data,
		Pagination: Pagination{
			Total:     total,
			Page:      opts.Page,
			Limit:     opts.Limit,
			TotalPage: int(math.Ceil(float64(total) / float64(opts.Limit))),
		},
	}
}
