package dataset

// ResolveChildren attaches nested descriptors to every item whose backing
// object yields an array under opts.Children. Child collections run through
// normalize, dedup and order with the same options and offset 0, and are
// resolved recursively. A panicking children function propagates.
func ResolveChildren(items []*Item, opts Options) {
	resolveChildren(items, opts, envFor(opts))
}

func resolveChildren(items []*Item, opts Options, env *stageEnv) {
	if opts.Children.IsZero() {
		return
	}
	childOpts := opts
	childOpts.Offset = 0
	childOpts.DataPath = ""
	fields := ParseOrderBy(opts.OrderBy)

	for _, it := range items {
		nested, ok := asSlice(opts.Children.Extract(it.backing()))
		if !ok {
			continue
		}
		children := normalize(nested, childOpts, 0, env)
		children = Dedup(children, childOpts)
		if len(fields) > 0 {
			children = orderItems(children, fields, "", env)
		}
		resolveChildren(children, childOpts, env)
		it.Children = children
	}
}
