package repository

import "gorm.io/gorm"

// 列表接口允许的单页上限，超出按上限截断。
const maxPageSize = 100

// applyPagination 统一处理分页：页码从 1 起，pageSize<=0 表示不分页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
