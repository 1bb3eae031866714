// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package template

import (
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"time"

	"codeberg.org/driftnote/website/server/assets"
)

// RelativeTimeData splits a humanized timestamp into the parts the
// templates lay out separately: a leading value ("3 hours"), a
// description ("ago"), and an optional clock time for the Yesterday
// case.
type RelativeTimeData struct {
	Value       string
	Description string
	Time        string
}

// iconCache holds inline SVG markup keyed by icon name.
var iconCache = make(map[string]string)

// LoadIcons reads every .svg file under dir in the asset filesystem
// into the icon cache, keyed by filename without the extension. It
// replaces the whole cache, so calling it twice is fine.
func LoadIcons(dir string) error {
	entries, err := fs.ReadDir(assets.FS, dir)
	if err != nil {
		return fmt.Errorf("reading icons directory %q: %w", dir, err)
	}

	cache := make(map[string]string, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".svg" {
			continue
		}

		// Embedded filesystems always use forward slashes, hence
		// path.Join rather than filepath.Join.
		content, err := fs.ReadFile(assets.FS, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("reading icon %q: %w", name, err)
		}

		cache[strings.TrimSuffix(name, ".svg")] = string(content)
	}

	iconCache = cache

	return nil
}

// RenderIcon returns the inline SVG markup for iconName, injecting an
// optional CSS class into the opening <svg> tag. Icon names and classes
// come from our own view code, never from request input, so the markup
// can be emitted as-is.
//
// An unknown name renders a visible text placeholder instead of
// breaking the page.
func RenderIcon(iconName string, classes ...string) string {
	svg, ok := iconCache[iconName]
	if !ok {
		return "[missing icon: " + iconName + "]"
	}

	if len(classes) > 0 && classes[0] != "" {
		svg = strings.Replace(svg, "<svg", `<svg class="`+classes[0]+`"`, 1)
	}

	return svg
}

// NaturalTime spells out a timestamp in full, for title attributes.
//
// TODO: move the date and unit strings into the locale catalogs; they
// render in English regardless of the active locale.
func NaturalTime(date time.Time) string {
	return date.Format("Monday, 2 January 2006, at 3:04 PM")
}

// count renders "1 minute" or "5 minutes"; every unit we use pluralizes
// with a plain s.
func count(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}

	return fmt.Sprintf("%d %ss", n, unit)
}

// RelativeTime describes how long ago date was, in the largest unit
// that fits. A date on the previous calendar day reads "Yesterday"
// even when fewer than 24 hours have passed.
func RelativeTime(date time.Time) RelativeTimeData {
	now := time.Now()
	elapsed := now.Sub(date)

	// Future dates fall back to a calendar rendering.
	if elapsed < 0 {
		return RelativeTimeData{
			Value:       date.Format("2"),
			Description: date.Format("January 2006 3:04 PM"),
		}
	}

	if elapsed < time.Minute {
		return RelativeTimeData{Value: "Just now"}
	}

	if elapsed < time.Hour {
		return RelativeTimeData{
			Value:       count(int(elapsed.Minutes()), "minute"),
			Description: "ago",
		}
	}

	const day = 24 * time.Hour

	if elapsed < day {
		return RelativeTimeData{
			Value:       count(int(elapsed.Hours()), "hour"),
			Description: "ago",
		}
	}

	if y := now.AddDate(0, 0, -1); date.Year() == y.Year() && date.Month() == y.Month() && date.Day() == y.Day() {
		return RelativeTimeData{
			Value:       "Yesterday",
			Description: "at",
			Time:        date.Format("3:04 PM"),
		}
	}

	const week = 7 * day

	if elapsed < week {
		return RelativeTimeData{
			Value:       count(int(elapsed/day), "day"),
			Description: "ago",
		}
	}

	// One month is taken as 31 days.
	if elapsed < 31*day {
		return RelativeTimeData{
			Value:       count(int(elapsed/week), "week"),
			Description: "ago",
		}
	}

	const monthsPerYear = 12

	months := (now.Year()-date.Year())*monthsPerYear + int(now.Month()) - int(date.Month())
	if months < monthsPerYear {
		return RelativeTimeData{
			Value:       count(months, "month"),
			Description: "ago",
		}
	}

	return RelativeTimeData{
		Value:       count(months/monthsPerYear, "year"),
		Description: "ago",
	}
}

// AbbrevInt formats n compactly with k/M/B/T suffixes and at most one
// decimal place. Values below 1000 print as-is; n <= 0 prints "0".
func AbbrevInt(n int) string {
	if n <= 0 {
		return "0"
	}

	value := int64(n)

	steps := []struct {
		unit   int64
		suffix string
	}{
		{1_000_000_000_000, "T"},
		{1_000_000_000, "B"}, // B over G, download counts are not bytes
		{1_000_000, "M"},
		{1_000, "k"},
	}

	for i, step := range steps {
		if value < step.unit {
			continue
		}

		// Tenths of the unit, rounded half up: 1234 becomes 12 ("1.2k").
		tenths := (value*10 + step.unit/2) / step.unit

		// Rounding can land exactly on the next unit up (999950 is
		// closer to 1M than to any x.yk); promote when it does.
		if tenths >= 10_000 && i > 0 {
			step = steps[i-1]
			tenths = (value*10 + step.unit/2) / step.unit
		}

		whole := strconv.FormatInt(tenths/10, 10)
		if tenths%10 == 0 {
			return whole + step.suffix
		}

		return whole + "." + strconv.FormatInt(tenths%10, 10) + step.suffix
	}

	return strconv.FormatInt(value, 10)
}

// PrettyNumber prints an integer with commas as thousands separators.
func PrettyNumber(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.Itoa(n)

	const groupSize = 3
	if len(digits) <= groupSize {
		return sign + digits
	}

	var b strings.Builder

	b.WriteString(sign)

	// The leftmost group may be short; every following group is three
	// digits wide.
	lead := len(digits) % groupSize
	if lead > 0 {
		b.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += groupSize {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}

		b.WriteString(digits[i : i+groupSize])
	}

	return b.String()
}

// IsFirstPathPart reports whether the first segment of currentPath
// equals pathToCheck, so "/translations/details" still marks the
// /translations nav entry as active.
func IsFirstPathPart(currentPath, pathToCheck string) bool {
	currentPath = strings.TrimRight(currentPath, "/")
	pathToCheck = strings.TrimRight(pathToCheck, "/")

	if pathToCheck == "" || !strings.HasPrefix(currentPath, pathToCheck) {
		return false
	}

	rest := currentPath[len(pathToCheck):]

	return rest == "" || rest[0] == '/'
}
