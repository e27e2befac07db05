package core

// DedupeActivities drops repeated activity IDs, keeping the first occurrence
// in fetch order. Paginated fetches can overlap at page boundaries, so
// duplicates are expected and never an error.
func DedupeActivities(in []RawActivity) []RawActivity {
	seen := make(map[string]struct{}, len(in))
	out := make([]RawActivity, 0, len(in))
	for _, a := range in {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}

// DedupeTransactions drops repeated transaction IDs, keeping the first
// occurrence in the set's current order. Normalization copies IDs from
// already-deduplicated activities, so this second pass is defensive.
func DedupeTransactions(in []Transaction) []Transaction {
	seen := make(map[string]struct{}, len(in))
	out := make([]Transaction, 0, len(in))
	for _, t := range in {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
