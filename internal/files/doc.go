// Package files expands command line arguments into the ordered list of
// files a run will transition.
//
// Directories are listed one level at a time: the regular files of a level
// come first, sorted case-insensitively, then each subdirectory in the same
// order. Names starting with a dot are skipped, and so is anything that is
// not a regular file. Arguments that do not exist but contain glob
// metacharacters are matched with doublestar, so "**" crosses directory
// boundaries. Only the directories a pattern can reach are listed.
//
// A file or device named explicitly that is not a regular file becomes a
// failed entry instead of being read.
package files
