package main

// ApplyCmd materializes (or upgrades, or re-runs) a template into a target
// directory. Dispatch between new/rerun/upgrade is the classifier's job,
// not the CLI's — the user always just says "apply".
type ApplyCmd struct {
	Ref       string `arg:"positional,required" help:"template reference, user/name[:version]"`
	TargetDir string `arg:"-d,--dir" default:"." help:"target directory"`
}

// CleanCmd releases one or more coordinator sessions directly. Normally the
// orchestrator cleans its own sessions on every exit path; this subcommand
// exists for recovering from a process that was killed mid-run.
type CleanCmd struct {
	SessionIDs []string `arg:"positional,required" help:"session ids to clean"`
}

// Args is the top-level CLI argument set.
type Args struct {
	Apply *ApplyCmd `arg:"subcommand:apply" help:"materialize, rerun, or upgrade a template"`
	Clean *CleanCmd `arg:"subcommand:clean" help:"release coordinator sessions"`
}
