package branch

import "strings"

// Count is the number of branch sectors tiling the circle.
const Count = 12

// names holds the cardinal branch names by index.
var names = [Count]string{
	"Zi", "Chou", "Yin", "Mao", "Chen", "Si",
	"Wu", "Wei", "Shen", "You", "Xu", "Hai",
}

// Name returns the cardinal name for index i, reduced modulo 12.
func Name(i int) string {
	return names[Normalize(i)]
}

// Names returns the 12 branch names in index order.
func Names() [Count]string {
	return names
}

// Index returns the branch index for a case-insensitive name.
func Index(name string) (int, bool) {
	for i, n := range names {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return i, true
		}
	}
	return 0, false
}

// Normalize reduces any integer to [0, 11].
func Normalize(i int) int {
	i %= Count
	if i < 0 {
		i += Count
	}
	return i
}

// ValidIndex reports whether i is a branch index.
func ValidIndex(i int) bool {
	return i >= 0 && i < Count
}
