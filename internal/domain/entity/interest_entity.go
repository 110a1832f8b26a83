package entity

import "strings"

// Interest is an entry of the reference list shown at signup.
type Interest struct {
	ID   string
	Name string
}

// JoinInterests renders interest names the way they are stored on a user.
func JoinInterests(names []string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, ",")
}

func SplitInterests(joined string) []string {
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
