package grocery

// MaxHistoryEntries caps each player's purchase history. The list is kept
// most-recent-first; the oldest entry falls off when the cap is reached.
const MaxHistoryEntries = 10
