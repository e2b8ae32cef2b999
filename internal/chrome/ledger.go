package chrome

// Ledger records which ambient fields this session actually changed. A
// field is true only while a session-caused mutation is outstanding: the
// ledger is zeroed at the start of every hide and after every completed
// restore, so restoration never touches a field the session left alone.
type Ledger struct {
	Sidebar        bool
	Panel          bool
	StatusBar      bool
	ActivityBar    bool
	FullScreen     bool
	CenteredLayout bool
	Minimap        bool
	Tabs           bool
	ViewActions    bool
	Breadcrumbs    bool
	MenuBar        bool
	LayoutControl  bool
	LineNumbers    bool
	Zoom           bool
}

// Reset sets every flag false.
func (l *Ledger) Reset() {
	*l = Ledger{}
}

// Any reports whether any mutation is outstanding.
func (l *Ledger) Any() bool {
	return *l != Ledger{}
}

// Snapshot holds prior values captured immediately before each
// deterministic-tier mutation. A nil field means "never captured" and must
// not be used to restore.
type Snapshot struct {
	MinimapEnabled     *bool
	TabVisibility      *string
	ViewActionsVisible *bool
	BreadcrumbsEnabled *bool
	MenuBarVisibility  *string
	LayoutControl      *bool

	// NormalZoom is the global zoom captured on enter; ephemeral, never
	// persisted.
	NormalZoom *float64

	// ZoomPerView is the captured shadow-mode flag.
	ZoomPerView *bool
}

// Reset drops every captured value.
func (s *Snapshot) Reset() {
	*s = Snapshot{}
}
