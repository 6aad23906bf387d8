package pattern

import (
	"strconv"
	"strings"
)

// Render compacts atoms back into pattern notation. Atoms whose last part is
// their literal suffix and that share a prefix are folded into one group:
// consecutive integers become [hi:lo], anything else <a,b,...>. Other atoms
// are emitted literally. Runs are joined with ';'.
func Render(atoms []Atom) string {
	var out []string
	for i := 0; i < len(atoms); {
		pre, ok := splitLast(atoms[i])
		j := i + 1
		if ok {
			for j < len(atoms) {
				next, ok := splitLast(atoms[j])
				if !ok || next != pre || atoms[j].Parts[len(atoms[j].Parts)-1].Kind() != atoms[i].Parts[len(atoms[i].Parts)-1].Kind() {
					break
				}
				j++
			}
		}
		if !ok || j-i == 1 {
			out = append(out, atoms[i].Literal)
			i++
			continue
		}
		out = append(out, pre+renderGroup(atoms[i:j]))
		i = j
	}
	return strings.Join(out, ";")
}

func splitLast(a Atom) (string, bool) {
	if len(a.Parts) == 0 {
		return "", false
	}
	last := a.Parts[len(a.Parts)-1].String()
	if !strings.HasSuffix(a.Literal, last) {
		return "", false
	}
	return strings.TrimSuffix(a.Literal, last), true
}

func renderGroup(run []Atom) string {
	lastOf := func(a Atom) Part { return a.Parts[len(a.Parts)-1] }
	if lastOf(run[0]).Kind() == PartNumeric && len(run) > 1 {
		step := lastOf(run[1]).Num() - lastOf(run[0]).Num()
		contiguous := step == 1 || step == -1
		for k := 2; contiguous && k < len(run); k++ {
			contiguous = lastOf(run[k]).Num()-lastOf(run[k-1]).Num() == step
		}
		if contiguous {
			return "[" + strconv.Itoa(lastOf(run[0]).Num()) + ":" + strconv.Itoa(lastOf(run[len(run)-1]).Num()) + "]"
		}
	}
	items := make([]string, len(run))
	for k, a := range run {
		items[k] = lastOf(a).String()
	}
	return "<" + strings.Join(items, ",") + ">"
}
