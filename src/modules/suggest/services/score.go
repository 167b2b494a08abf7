package suggest

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Scored is a candidate title with its similarity to the typed query.
type Scored struct {
	Title string `json:"title"`
	Score int    `json:"score"`
}

// ratio is the indel similarity of a and b on a 0-100 scale.
func ratio(a, b string) int {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 100
	}
	lcs := edlib.LCS(a, b)
	return (200*lcs + total/2) / total
}

// PartialRatio scores how well the shorter string matches the best aligned
// substring of the longer one. Comparison ignores case.
func PartialRatio(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}

	s := string(short)
	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// Rank scores the distinct titles against query, keeps those at or above
// cutoff and returns at most limit of them, best first. Equal scores keep
// the order the titles arrived in.
func Rank(query string, titles []string, cutoff, limit int) []Scored {
	seen := make(map[string]struct{}, len(titles))
	scored := make([]Scored, 0, len(titles))
	for _, t := range titles {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if s := PartialRatio(query, t); s >= cutoff {
			scored = append(scored, Scored{Title: t, Score: s})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
