package engine

import (
	"fmt"
	"strings"

	"github.com/rushteam/anirec/core"
)

const maxQueryLength = 200

// validateSeeds 校验种子列表：非空且 id 均为正数。
func validateSeeds(seedIDs []int64) error {
	if len(seedIDs) == 0 {
		return core.NewInvalidInput("seed anime ids must not be empty")
	}
	for _, id := range seedIDs {
		if id <= 0 {
			return core.NewInvalidInput(fmt.Sprintf("invalid anime id: %d", id))
		}
	}
	return nil
}

// clampMax 把请求条数收敛到 [1, callerMax]，未指定（<= 0）时取默认值。
func clampMax(max, def, callerMax int) int {
	if max <= 0 {
		return def
	}
	if max > callerMax {
		return callerMax
	}
	return max
}

// validateQuery 校验检索词：非空白且不超长。
func validateQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", core.NewInvalidInput("search query must not be empty")
	}
	if len(q) > maxQueryLength {
		return "", core.NewInvalidInput(fmt.Sprintf("search query too long (max %d chars)", maxQueryLength))
	}
	return q, nil
}
