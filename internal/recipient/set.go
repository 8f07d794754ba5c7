package recipient

// Add returns ids with id appended unless it is already present.
// The input slice is never modified.
func Add(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids...)
	for _, existing := range ids {
		if existing == id {
			return out
		}
	}
	return append(out, id)
}

// Remove returns ids without id, keeping the order of the remaining members.
func Remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
