package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const SlugMaxLen = 120

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya",
}

// Slugify turns a Russian, Vietnamese or English title into [a-z0-9-].
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var tr strings.Builder
	for _, r := range s {
		if t, ok := cyrillic[r]; ok {
			tr.WriteString(t)
			continue
		}
		if r == 'đ' {
			tr.WriteByte('d')
			continue
		}
		tr.WriteRune(r)
	}

	// strip Latin diacritics (tiếng việt -> tieng viet)
	var b strings.Builder
	for _, r := range norm.NFD.String(tr.String()) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	out := reNonAlnum.ReplaceAllString(b.String(), "-")
	out = reHyphen.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	if len(out) > SlugMaxLen {
		out = strings.Trim(out[:SlugMaxLen], "-")
	}
	if out == "" {
		out = "post"
	}
	return out
}

// UniqueSlug returns base, or base-2, base-3... whichever is free in table.column.
// excludeID skips the row being updated.
func UniqueSlug(db *gorm.DB, table, column, base string, excludeID uint) (string, error) {
	taken := func(candidate string) (bool, error) {
		var n int64
		q := db.Table(table).Where(fmt.Sprintf("%s = ?", column), candidate)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&n).Error; err != nil {
			return false, err
		}
		return n > 0, nil
	}

	ok, err := taken(base)
	if err != nil {
		return "", err
	}
	if !ok {
		return base, nil
	}
	for i := 2; i < 1000; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		ok, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free slug for %q", base)
}
