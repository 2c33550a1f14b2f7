// Package consensus fills unresolved items from their resolved siblings.
//
// Items are grouped by source directory. The most frequent title among the
// canonical names already resolved in a group (ties go to the title seen
// first) is assigned to every unresolved sibling that still parses to a
// season and episode. Siblings without episode numbers stay unresolved.
// FillGaps is idempotent.
package consensus
