// Package transition applies the lock/unlock state change to a single path.
//
// Locking reads path, encrypts it with the codec and writes path+suffix;
// unlocking only considers paths ending in the suffix and writes the name
// without it. Locking a locked file again adds another suffix, so
// file.txt.locked.locked needs two unlocks.
//
// # Ordering
//
// Every transition follows the same order:
//
//  1. refuse when the destination exists and Policy.Overwrite is false
//  2. read the source completely
//  3. encrypt or decrypt in memory
//  4. write a hidden temporary sibling, sync it, rename it over the destination
//  5. remove the source, unless the destination has the same name
//
// A failure in steps 1-4 leaves both the source and any existing destination
// untouched.
//
// # Statistics
//
// Each call returns an Outcome carrying its own Stats. Callers fold them with
// Stats.Add; nothing in this package keeps counters between calls.
package transition
