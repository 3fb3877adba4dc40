package css

import (
	"fmt"
	"strings"

	"github.com/npillmayer/pagebox/dom/style"
)

// DisplayMode is a type for CSS property "display".
type DisplayMode uint32

// Flags for box context and display mode (outer and inner).
const (
	NoMode               DisplayMode = iota    // unset or error condition
	DisplayNone          DisplayMode = 0x0001  // CSS outer display = none
	BlockMode            DisplayMode = 0x0002  // CSS block context (inner or outer)
	InlineMode           DisplayMode = 0x0004  // CSS inline context
	FlowRootMode         DisplayMode = 0x0010  // CSS flow-root display property
	ListItemMode         DisplayMode = 0x0020  // CSS list-item display
	FlexMode             DisplayMode = 0x0040  // CSS inner display = flex
	GridMode             DisplayMode = 0x0080  // CSS inner display = grid
	TableMode            DisplayMode = 0x0100  // CSS table display property (inner or outer)
	InnerBlockMode       DisplayMode = 0x0200  // CSS inner block mode (inline-block)
	InnerInlineMode      DisplayMode = 0x0400  // CSS inner inline mode (paragraphs)
	TableRowGroupMode    DisplayMode = 0x1000  // CSS table-row-group
	TableHeaderGroupMode DisplayMode = 0x2000  // CSS table-header-group
	TableFooterGroupMode DisplayMode = 0x4000  // CSS table-footer-group
	TableRowMode         DisplayMode = 0x8000  // CSS table-row
	TableCellMode        DisplayMode = 0x10000 // CSS table-cell
	TableCaptionMode     DisplayMode = 0x20000 // CSS table-caption
	TableColumnMode      DisplayMode = 0x40000 // CSS table-column
	TableColGroupMode    DisplayMode = 0x80000 // CSS table-column-group
)

const tableInternalMask = TableRowGroupMode | TableHeaderGroupMode | TableFooterGroupMode |
	TableRowMode | TableCellMode | TableCaptionMode | TableColumnMode | TableColGroupMode

var allDisplayModes = []DisplayMode{
	DisplayNone, BlockMode, InlineMode, ListItemMode, FlowRootMode, FlexMode,
	GridMode, TableMode, InnerBlockMode, InnerInlineMode,
	TableRowGroupMode, TableHeaderGroupMode, TableFooterGroupMode, TableRowMode,
	TableCellMode, TableCaptionMode, TableColumnMode, TableColGroupMode,
}

var displayModeNames = map[DisplayMode]string{
	NoMode:               "NoMode",
	DisplayNone:          "DisplayNone",
	BlockMode:            "BlockMode",
	InlineMode:           "InlineMode",
	FlowRootMode:         "FlowRootMode",
	ListItemMode:         "ListItemMode",
	FlexMode:             "FlexMode",
	GridMode:             "GridMode",
	TableMode:            "TableMode",
	InnerBlockMode:       "InnerBlockMode",
	InnerInlineMode:      "InnerInlineMode",
	TableRowGroupMode:    "TableRowGroupMode",
	TableHeaderGroupMode: "TableHeaderGroupMode",
	TableFooterGroupMode: "TableFooterGroupMode",
	TableRowMode:         "TableRowMode",
	TableCellMode:        "TableCellMode",
	TableCaptionMode:     "TableCaptionMode",
	TableColumnMode:      "TableColumnMode",
	TableColGroupMode:    "TableColGroupMode",
}

func (disp DisplayMode) String() string {
	if s, ok := displayModeNames[disp]; ok {
		return s
	}
	return disp.FullString()
}

// Outer returns outer mode
func (disp DisplayMode) Outer() DisplayMode {
	return disp & 0x000f
}

// Inner returns inner mode
func (disp DisplayMode) Inner() DisplayMode {
	return disp &^ 0x000f
}

// IsBlockLevel return true if it has outer display level of BlockMode.
//
// Block-level elements are those elements of the source document that are formatted visually
// as blocks (e.g., paragraphs). The following values of the 'display' property make an element
// block-level: 'block', 'list-item', and 'table'.
func (disp DisplayMode) IsBlockLevel() bool {
	return disp&0x000f == BlockMode
}

// IsInlineLevel returns true if it has outer display level of InlineMode.
func (disp DisplayMode) IsInlineLevel() bool {
	return disp&0x000f == InlineMode
}

// IsAtomicInline returns true for inline-level boxes with a non-inline inner
// display, i.e. inline-block and inline-table.
func (disp DisplayMode) IsAtomicInline() bool {
	return disp.IsInlineLevel() && (disp.Contains(InnerBlockMode) || disp.Contains(TableMode))
}

// IsTableInternal returns true for table-internal displays like table-row or
// table-cell.
func (disp DisplayMode) IsTableInternal() bool {
	return disp&tableInternalMask > 0
}

// IsRowGroup returns true for table-row-group, -header-group and -footer-group.
func (disp DisplayMode) IsRowGroup() bool {
	return disp&(TableRowGroupMode|TableHeaderGroupMode|TableFooterGroupMode) > 0
}

// Set sets a given atomic mode within this display mode.
func (disp *DisplayMode) Set(d DisplayMode) {
	*disp = (*disp) | d
}

// Contains checks if a display mode contains a given atomic mode.
// Returns false for d = NoMode.
func (disp DisplayMode) Contains(d DisplayMode) bool {
	return d != NoMode && (disp&d > 0)
}

// Overlaps returns true if a given display mode shares at least one atomic
// mode flag with disp (excluding NoMode).
func (disp DisplayMode) Overlaps(d DisplayMode) bool {
	for _, m := range allDisplayModes {
		if disp.Contains(m) && d.Contains(m) {
			return true
		}
	}
	return false
}

// FullString returns all atomic modes set in a display mode.
func (disp DisplayMode) FullString() string {
	var b strings.Builder
	for _, m := range allDisplayModes {
		if disp.Contains(m) {
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(displayModeNames[m])
		}
	}
	if b.Len() == 0 {
		return displayModeNames[NoMode]
	}
	return b.String()
}

// Symbol returns a Unicode symbol for a mode.
func (disp DisplayMode) Symbol() string {
	if disp.IsTableInternal() || disp.Contains(TableMode) {
		return "▥"
	} else if disp.Contains(ListItemMode) {
		return "▣"
	} else if disp.Contains(BlockMode) || disp.Contains(InnerBlockMode) {
		return "▩"
	} else if disp.Contains(InlineMode) || disp.Contains(InnerInlineMode) {
		return "►"
	} else if disp.Contains(FlexMode) {
		return "▤"
	} else if disp.Contains(GridMode) {
		return "◰"
	} else if disp == NoMode {
		return "–"
	}
	return "?"
}

// ParseDisplay returns mode flags from a display property string (outer and inner).
// Unknown display values result in BlockMode and an error.
func ParseDisplay(display style.Property) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(string(display))) {
	case "":
		return NoMode, nil
	case "none":
		return DisplayNone, nil
	case "block":
		return BlockMode | InnerBlockMode, nil
	case "inline":
		return InlineMode | InnerInlineMode, nil
	case "list-item":
		return ListItemMode | BlockMode | InnerBlockMode, nil
	case "flow-root":
		return BlockMode | FlowRootMode | InnerBlockMode, nil
	case "block-inline":
		return BlockMode | InnerInlineMode, nil
	case "inline-block":
		return InlineMode | InnerBlockMode, nil
	case "table":
		return BlockMode | TableMode, nil
	case "inline-table":
		return InlineMode | TableMode, nil
	case "flex":
		return BlockMode | FlexMode, nil
	case "grid":
		return BlockMode | GridMode, nil
	case "table-row-group":
		return TableRowGroupMode, nil
	case "table-header-group":
		return TableHeaderGroupMode, nil
	case "table-footer-group":
		return TableFooterGroupMode, nil
	case "table-row":
		return TableRowMode, nil
	case "table-cell":
		return TableCellMode | InnerBlockMode, nil
	case "table-caption":
		return TableCaptionMode | InnerBlockMode, nil
	case "table-column":
		return TableColumnMode, nil
	case "table-column-group":
		return TableColGroupMode, nil
	}
	return BlockMode | InnerBlockMode, fmt.Errorf("unknown display mode: %s", display)
}
