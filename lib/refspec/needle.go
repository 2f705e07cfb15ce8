package refspec

import (
	"fmt"
	"strings"

	"git-refspec/lib/oid"
)

type needleKind int

const (
	needleNone needleKind = iota
	needleObject
	needleFullName
	needlePattern
)

// needle is one side of a refspec in matchable form. For patterns,
// name holds the prefix and suffix the part after the wildcard.
type needle struct {
	kind   needleKind
	id     oid.ObjectId
	name   string
	suffix string
}

// QualifyName expands a short ref name to a full one. Patterns are
// matched as written and never pass through here.
func QualifyName(name string) string {
	switch {
	case name == "HEAD", strings.HasPrefix(name, "refs/"):
		return name
	case strings.HasPrefix(name, "heads/"),
		strings.HasPrefix(name, "tags/"),
		strings.HasPrefix(name, "remotes/"):
		return "refs/" + name
	}
	return "refs/heads/" + name
}

func sourceNeedle(src string) needle {
	switch {
	case src == "":
		return needle{kind: needleNone}
	case strings.Contains(src, wildcard):
		return patternNeedle(src)
	case oid.IsHex(src):
		id, err := oid.FromHex(src)
		if err != nil {
			panic(err)
		}
		return needle{kind: needleObject, id: id}
	}
	return needle{kind: needleFullName, name: QualifyName(src)}
}

func destinationNeedle(dst string) needle {
	switch {
	case dst == "":
		return needle{kind: needleNone}
	case strings.Contains(dst, wildcard):
		return patternNeedle(dst)
	}
	return needle{kind: needleFullName, name: dst}
}

func patternNeedle(pattern string) needle {
	if strings.Count(pattern, wildcard) != 1 {
		panic(fmt.Sprintf("refspec pattern '%s' must contain exactly one '%s'", pattern, wildcard))
	}
	prefix, suffix, _ := strings.Cut(pattern, wildcard)
	return needle{kind: needlePattern, name: prefix, suffix: suffix}
}

// capture reports whether fullName matches and returns the part the
// wildcard stood for.
func (n needle) capture(fullName string) (bool, string) {
	switch n.kind {
	case needleNone:
		return true, ""
	case needleFullName:
		return fullName == n.name, ""
	case needlePattern:
		if len(fullName) < len(n.name)+len(n.suffix) ||
			!strings.HasPrefix(fullName, n.name) ||
			!strings.HasSuffix(fullName, n.suffix) {
			return false, ""
		}
		return true, fullName[len(n.name) : len(fullName)-len(n.suffix)]
	}
	panic("object id needles never match by name")
}

func (n needle) expand(capture string) string {
	switch n.kind {
	case needleNone:
		return ""
	case needleFullName:
		return n.name
	case needlePattern:
		return n.name + capture + n.suffix
	}
	panic("an object id is not a valid destination")
}

type matcher struct {
	lhs needle
	rhs needle
}

func newMatcher(spec RefSpec) matcher {
	return matcher{
		lhs: sourceNeedle(spec.Src),
		rhs: destinationNeedle(spec.Dst),
	}
}

// matchesLHS reports whether item matches the source side and, if so,
// the destination it maps to.
func (m matcher) matchesLHS(item Item) (bool, string) {
	matched, capture := m.lhs.capture(item.FullRefName)
	if !matched {
		return false, ""
	}
	return true, m.rhs.expand(capture)
}
