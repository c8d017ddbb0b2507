package domain

// Flags controls the compile invocation of the external toolchain.
// Recognized options map to dedicated toolchain flags; anything in Extra
// is passed through verbatim without validation.
type Flags struct {
	// Minimal restricts the scope of elaboration to the given target.
	Minimal bool
	// Elaborate performs elaboration without running the simulation.
	Elaborate bool
	// Extra holds unrecognized flags forwarded to the toolchain as-is.
	Extra []string
}

// Args renders the flags as toolchain command-line arguments.
func (f Flags) Args() []string {
	var args []string
	if f.Minimal {
		args = append(args, "--minimal")
	}
	if f.Elaborate {
		args = append(args, "--elaborate")
	}
	args = append(args, f.Extra...)
	return args
}
