package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerTableBindings(r)
	registerFormBindings(r)
	registerSearchBindings(r)

	return r
}

func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

func registerTableBindings(r *Registry) {
	r.RegisterMultiple(ContextTable, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextTable, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextTable, "g", ActionGoToTopPrepare)
	r.RegisterMultiple(ContextTable, []string{"gg", "home"}, ActionGoToTop)
	r.RegisterMultiple(ContextTable, []string{"G", "end"}, ActionGoToBottom)

	r.RegisterMultiple(ContextTable, []string{"e", "enter"}, ActionEdit)
	r.Register(ContextTable, "d", ActionDelete)
	r.RegisterMultiple(ContextTable, []string{"n", "tab"}, ActionFocusForm)
	r.Register(ContextTable, "r", ActionRefresh)
	r.Register(ContextTable, "/", ActionOpenSearch)
	r.Register(ContextTable, "y", ActionCopyToClipboard)
	r.Register(ContextTable, "?", ActionToggleHelp)
	r.Register(ContextTable, "esc", ActionCancel)
	r.Register(ContextTable, "q", ActionQuit)
}

func registerFormBindings(r *Registry) {
	r.RegisterMultiple(ContextForm, []string{"tab", "down"}, ActionNextField)
	r.RegisterMultiple(ContextForm, []string{"shift+tab", "up"}, ActionPrevField)
	r.Register(ContextForm, "enter", ActionSubmit)
	r.Register(ContextForm, "esc", ActionCancel)
}

func registerSearchBindings(r *Registry) {
	r.Register(ContextSearch, "enter", ActionSearchApply)
	r.Register(ContextSearch, "esc", ActionSearchClear)
}
