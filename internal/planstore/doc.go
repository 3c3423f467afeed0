// Package planstore persists stint plans to disk and watches for
// out-of-band changes to the stored file. Writes are atomic (temp file
// plus rename) and guarded by a cross-process file lock, so several
// engine processes can safely share one plan directory.
package planstore
