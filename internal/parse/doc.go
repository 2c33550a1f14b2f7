// Package parse adapts github.com/moistari/rls to the narrow field set the
// resolver consumes: title, year, season, episode, and kind.
//
// The release parser handles the heavy lifting; this package adds a season
// and episode fallback for lower-case or spaced markers, folds a
// "Season N" parent folder into the season number, and lets a media-type
// hint bias the kind when the filename alone is ambiguous.
package parse
