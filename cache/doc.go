// Package cache provides a replay buffer that lets a one-shot sequence be
// iterated many times while reading its source only once.
//
// Cursors replay the buffered pairs first, then advance the shared upstream
// iterator, appending every new pair. Consumers are sequential: a cursor that
// tries to advance upstream while another cursor is doing so gets a
// CACHE_MISUSE error instead of a corrupted buffer.
package cache
