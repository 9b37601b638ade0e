package config

// applyAliases folds legacy field names into their canonical counterparts,
// per spec.md §9's Open Questions resolution: "working_directory" is
// canonical, "runtime_dir" is accepted as a legacy alias. working_directory
// wins if both are set.
func applyAliases(f *File) {
	for i := range f.Tasks {
		t := &f.Tasks[i]
		if t.WorkingDirectory == "" && t.RuntimeDir != "" {
			t.WorkingDirectory = t.RuntimeDir
		}
		t.RuntimeDir = ""
	}
}
