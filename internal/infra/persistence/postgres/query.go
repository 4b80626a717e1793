package postgres

import (
	"strings"

	"ministry/internal/domain/repository"

	"gorm.io/gorm"
)

// findPage counts the filtered rows of q, then loads one ordered page into a slice of M.
// The load scopes (preloads) apply to the page query only.
func findPage[M any](q *gorm.DB, p repository.Pagination, order string, load ...func(*gorm.DB) *gorm.DB) ([]M, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p = p.Normalize()
	var rows []M
	if err := q.Scopes(load...).Order(order).Offset(p.Offset()).Limit(p.PerPage).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// likePattern builds a case-insensitive LIKE argument, used with LOWER(column) LIKE ?.
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)

	return "%" + s + "%"
}

// searchScope filters on any of the columns containing term. An empty term is a no-op.
func searchScope(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(term) == "" || len(columns) == 0 {
			return db
		}

		pattern := likePattern(term)
		conds := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, col := range columns {
			conds = append(conds, "LOWER("+col+") LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}

		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// preload returns a scope preloading the named associations.
func preload(associations ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, association := range associations {
			db = db.Preload(association)
		}

		return db
	}
}

func mapSlice[M, E any](rows []M, fn func(*M) *E) []*E {
	out := make([]*E, 0, len(rows))
	for i := range rows {
		out = append(out, fn(&rows[i]))
	}

	return out
}
