package recipient

import (
	"sort"

	"game-market/internal/domain"
)

// Option is one row of the recipient picker.
type Option struct {
	UserID  string `json:"userId"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
	Self    bool   `json:"self,omitempty"`
}

// MeLabel is the label of the acting user's own row.
const MeLabel = "me"

// SortByName orders friends by name using byte-wise, case-sensitive string
// comparison, so "Bob" sorts before "alice". Equal names keep their fetch
// order. The input slice is not modified.
func SortByName(friends []domain.UserShortInfo) []domain.UserShortInfo {
	out := append([]domain.UserShortInfo(nil), friends...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Options builds the picker rows: the acting user first when known, then the
// friends sorted by name. Checked mirrors membership in selected.
func Options(me *domain.UserShortInfo, friends []domain.UserShortInfo, selected []string) []Option {
	chosen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		chosen[id] = struct{}{}
	}

	out := make([]Option, 0, len(friends)+1)
	if me != nil {
		_, ok := chosen[me.ID]
		out = append(out, Option{UserID: me.ID, Label: MeLabel, Checked: ok, Self: true})
	}
	for _, f := range SortByName(friends) {
		_, ok := chosen[f.ID]
		out = append(out, Option{UserID: f.ID, Label: f.Name, Checked: ok})
	}
	return out
}
