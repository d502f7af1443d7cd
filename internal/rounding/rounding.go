// Package rounding adjusts a time entry's end instant so the logged
// duration lands on a billing grid.
package rounding

import "time"

// End rounds the duration between start and end up to the next multiple
// of roundToMinutes and returns the end instant that produces it.
//
// roundToMinutes == 0 disables rounding and returns end unchanged.
// The elapsed duration is floored to whole minutes before rounding, then
// ceiled to the grid. A zero-minute interval still bills one grid unit.
// The new end is start plus a flat minute count, so day or hour rollover
// cannot desynchronize calendar fields.
//
// Callers guarantee end >= start.
func End(start, end time.Time, roundToMinutes int) time.Time {
	if roundToMinutes == 0 {
		return end
	}
	elapsed := int(end.Sub(start) / time.Minute)

	var rounded int
	if elapsed == 0 {
		rounded = roundToMinutes
	} else {
		rounded = (elapsed + roundToMinutes - 1) / roundToMinutes * roundToMinutes
	}
	return start.Add(time.Duration(rounded) * time.Minute)
}
