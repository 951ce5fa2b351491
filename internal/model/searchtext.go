package model

import "strings"

// BuildSearchText assembles the substring-search blob persisted with
// every item.  Empty fields are skipped and the remaining values are
// joined with single spaces, always in the same order: section, temae
// name, item type, title, mei, maker, note, practice name.  The blob
// is written once at insert time and never recomputed, so later edits
// to the lesson do not retroactively change what an item matches on.
func BuildSearchText(section, temaeName, itemType, title, mei, maker, note, practiceName string) string {
	fields := []string{section, temaeName, itemType, title, mei, maker, note, practiceName}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}
