// Package compileinfo reports how the running binary was built. Snapshots
// record it as their producer, and every command prints it at startup.
package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("This %s binary (%s) was built with %s at commit %v at time %v.%s", c.Package, c.version(), c.GoVersion, c.Commit, c.CommitTime, mod)
}

func (c CompileInfo) version() string {
	if c.Version == "" {
		return "(devel)"
	}
	return c.Version
}

// Producer is a short single-line identity, e.g.
// "github.com/JennyZadeh/bioc-rnaseq/cmd/buildexperiment@v0.3.0 (go1.18.1)".
// A short commit hash is appended when the module version carries none.
func (c CompileInfo) Producer() string {
	if c.Package == "" {
		return "unknown"
	}

	out := c.Package + "@" + c.version()
	if c.Version == "(devel)" || c.Version == "" {
		if commit := c.Commit; commit != "" {
			if len(commit) > 12 {
				commit = commit[:12]
			}
			out += "+" + commit
			if c.Modified {
				out += "-dirty"
			}
		}
	}
	if c.GoVersion != "" {
		out += " (" + c.GoVersion + ")"
	}

	return out
}

func Get() CompileInfo {
	out := CompileInfo{}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	out.Version = z.Main.Version
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

func PrintToStdErr() {
	z := Get()
	fmt.Fprintf(os.Stderr, "%s\n", z)
}
