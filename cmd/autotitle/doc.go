// Command autotitle identifies media files and reorganizes them into
// canonical names and Show/Show - Season N folders.
//
// Typical use:
//
//	autotitle scan ~/Downloads      # resolve and report, no changes
//	autotitle preview ~/Downloads   # forecast renames and folder moves
//	autotitle apply ~/Downloads     # commit
//	autotitle history               # review previous applies
package main
