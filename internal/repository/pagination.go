package repository

import "gorm.io/gorm"

// listPage 列表查询的分页与排序参数
type listPage struct {
	Page     int
	PageSize int
	Order    string
	// Preloads 只作用于取数据阶段，不参与总数统计
	Preloads []func(*gorm.DB) *gorm.DB
}

// findPage 统计过滤后的总数并取出当前页，PageSize <= 0 时返回全部
func findPage[T any](query *gorm.DB, page listPage) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]T, 0)
	if page.PageSize > 0 && total <= pageOffset(page.Page, page.PageSize) {
		return rows, total, nil
	}

	query = applyPagination(query, page.Page, page.PageSize)
	for _, preload := range page.Preloads {
		query = preload(query)
	}
	if page.Order != "" {
		query = query.Order(page.Order)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	return query.Limit(pageSize).Offset(int(pageOffset(page, pageSize)))
}

func pageOffset(page, pageSize int) int64 {
	if page < 1 || pageSize <= 0 {
		return 0
	}
	return int64(page-1) * int64(pageSize)
}

// preload 关联预加载，可附带排序等条件
func preload(name string, args ...interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(name, args...)
	}
}
