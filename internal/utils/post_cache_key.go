package utils

import (
	"strconv"
)

func BuildPostsListCacheKey(publishedOnly bool, authorID *string, limit, offset int) string {
	a := ""
	if authorID != nil {
		a = *authorID
	}

	return "posts:list:v1:published=" + strconv.FormatBool(publishedOnly) +
		":author=" + a +
		":limit=" + strconv.Itoa(limit) +
		":offset=" + strconv.Itoa(offset)
}
