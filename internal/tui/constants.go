package tui

// UI Layout Constants

const (
	FormWidth        = 36  // Width of the form panel, borders excluded
	MinTableWidth    = 40  // The table never shrinks below this
	MainHeightOffset = 4   // m.height - 4 for the panels (header + status + borders)
	TableHeightGap   = 7   // m.height - 7 rows for table content
	StatusMaxLength  = 100 // Status and error messages are truncated past this
	InputCharLimit   = 200 // Title and genre inputs
	SearchCharLimit  = 100
)
