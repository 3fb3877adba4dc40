package css

import (
	"strings"

	"github.com/npillmayer/pagebox/dom/style"
)

// BreakT is an enum type for the page-break-* properties.
type BreakT uint8

// Values for page-break-before, page-break-after and page-break-inside.
const (
	BreakAuto   BreakT = iota // no constraint
	BreakAvoid                // avoid a page break
	BreakAlways               // force a page break
	BreakLeft                 // force one or two page breaks, next page is a left page
	BreakRight                // force one or two page breaks, next page is a right page
)

// PageBreak interprets a property value of one of the page-break-* properties.
// Values of the break-* family are accepted as well.
func PageBreak(p style.Property) BreakT {
	switch strings.ToLower(string(p)) {
	case "avoid", "avoid-page":
		return BreakAvoid
	case "always", "page":
		return BreakAlways
	case "left", "verso":
		return BreakLeft
	case "right", "recto":
		return BreakRight
	}
	return BreakAuto
}

// IsForced is true for breaks which must be taken unconditionally.
func (b BreakT) IsForced() bool {
	return b == BreakAlways || b == BreakLeft || b == BreakRight
}

// IsAvoid is true if a page break should be avoided.
func (b BreakT) IsAvoid() bool {
	return b == BreakAvoid
}

func (b BreakT) String() string {
	switch b {
	case BreakAvoid:
		return "avoid"
	case BreakAlways:
		return "always"
	case BreakLeft:
		return "left"
	case BreakRight:
		return "right"
	}
	return "auto"
}
