package menu

import "strings"

// ItemID derives the deterministic item identifier from category and
// item name: both lowercased, runs of non-alphanumerics collapsed to a
// single underscore, joined with an underscore.
// ("Main Courses", "Steak Frites") -> "main_courses_steak_frites".
func ItemID(category, name string) string {
	return collapse(category, '_') + "_" + collapse(name, '_')
}

// ItemSlug derives the hyphenated lowercase slug for an item name.
// "Steak Frites" -> "steak-frites".
func ItemSlug(name string) string {
	return collapse(name, '-')
}

func collapse(s string, sep rune) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			if b.Len() > 0 {
				pendingSep = true
			}
			continue
		}
		if pendingSep {
			b.WriteRune(sep)
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
