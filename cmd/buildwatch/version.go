package main

import "runtime/debug"

// version is set at release time with -ldflags "-X main.version=...".
var version = "dev"

func buildVersionString() string {
	v := version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return "buildwatch " + v
}
