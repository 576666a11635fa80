// Package recency implements the Recency Index: an ordered set of
// entity keys supporting O(1) touch-to-most-recent, O(1) removal, and
// O(1) least-recent lookup, backing the LeastRecentlyUsed strategy.
//
// It is a doubly-linked list plus an auxiliary map from key to node,
// not a heap or a tree, so every operation the strategy needs on the
// hot path (touch, remove, least-recent) is O(1).
package recency
